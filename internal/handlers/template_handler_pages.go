package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-forum-web/internal/models"
	"ai-forum-web/internal/service"
	"ai-forum-web/pkg/logger"
)

func (h *TemplateHandler) RenderIndex(c *gin.Context) {
	h.renderTemplate(c, http.StatusOK, "home", "Home", nil)
}

func (h *TemplateHandler) RenderLogin(c *gin.Context) {
	h.renderTemplate(c, http.StatusOK, "login", "Login", nil)
}

func (h *TemplateHandler) RenderRegister(c *gin.Context) {
	h.renderTemplate(c, http.StatusOK, "register", "Register", nil)
}

func (h *TemplateHandler) RenderDashboard(c *gin.Context) {
	h.renderTemplate(c, http.StatusOK, "dashboard", "Dashboard", h.dashboardData("", nil, ""))
}

// CheckToxicity handles the dashboard form submission.
func (h *TemplateHandler) CheckToxicity(c *gin.Context) {
	var req models.PredictionRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderTemplate(c, http.StatusBadRequest, "dashboard", "Dashboard",
			h.dashboardData(req.Text, nil, "Please enter a message to check."))
		return
	}

	prediction, err := h.toxicityService.Predict(c.Request.Context(), req.Text)
	if err != nil {
		status, message := predictionFailure(err)
		if status >= http.StatusInternalServerError {
			logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to check message")
		}
		h.renderTemplate(c, status, "dashboard", "Dashboard", h.dashboardData(req.Text, nil, message))
		return
	}

	h.renderTemplate(c, http.StatusOK, "dashboard", "Dashboard", h.dashboardData(req.Text, prediction, ""))
}

func (h *TemplateHandler) RenderNotFound(c *gin.Context) {
	h.renderError(c, http.StatusNotFound, "404 - Page not found", "The requested page could not be found")
}

func (h *TemplateHandler) dashboardData(text string, prediction *models.Prediction, formError string) gin.H {
	maxLength := h.config.MaxTextLength
	if h.toxicityService != nil {
		maxLength = h.toxicityService.MaxTextLength()
	}

	return gin.H{
		"Text":          text,
		"Prediction":    prediction,
		"FormError":     formError,
		"MaxTextLength": maxLength,
	}
}

func predictionFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrEmptyText):
		return http.StatusBadRequest, "Please enter a message to check."
	case errors.Is(err, service.ErrTextTooLong):
		return http.StatusBadRequest, "The message is too long."
	default:
		return http.StatusBadGateway, "The classifier is unavailable, please try again later."
	}
}
