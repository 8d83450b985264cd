package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-forum-web/internal/models"
	"ai-forum-web/internal/service"
	"ai-forum-web/pkg/logger"
	"ai-forum-web/pkg/validator"
)

const missingTextMessage = "Please provide 'text' in request body"

type PredictHandler struct {
	service *service.ToxicityService
}

func NewPredictHandler(service *service.ToxicityService) *PredictHandler {
	validator.Init()
	return &PredictHandler{service: service}
}

func (h *PredictHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Toxic Language Detection API is running"})
}

func (h *PredictHandler) Predict(c *gin.Context) {
	if h.service == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Service not configured"})
		return
	}

	var req models.PredictionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": missingTextMessage})
		return
	}

	prediction, err := h.service.Predict(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyText):
			c.JSON(http.StatusBadRequest, gin.H{"error": missingTextMessage})
		case errors.Is(err, service.ErrTextTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Text exceeds the maximum length"})
		default:
			logger.FromContext(c.Request.Context()).WithError(err).Error("Failed to predict toxicity")
			c.JSON(http.StatusBadGateway, gin.H{"error": "Classifier unavailable"})
		}
		return
	}

	c.JSON(http.StatusOK, prediction)
}
