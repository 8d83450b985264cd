package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ai-forum-web/pkg/logger"
	"ai-forum-web/pkg/navigation"
	"ai-forum-web/pkg/utils"
)

const baseLayout = "base.html"

func (h *TemplateHandler) basePageData(title string, extra gin.H) gin.H {
	siteName := h.config.SiteName
	if strings.TrimSpace(siteName) == "" {
		siteName = navigation.Brand()
	}

	data := gin.H{
		"Title": fmt.Sprintf("%s - %s", title, siteName),
		"Site": gin.H{
			"Name": siteName,
		},
		"Navbar": navigation.Navbar().HTML(),
	}

	for k, v := range extra {
		data[k] = v
	}

	return data
}

func (h *TemplateHandler) renderTemplate(c *gin.Context, status int, templateName, title string, extra gin.H) {
	data := h.basePageData(title, extra)
	h.renderWithLayout(c, status, baseLayout, templateName+".html", data)
}

// renderWithLayout renders content and wraps it in layout. Requests issued by
// in-page navigation receive the content alone.
func (h *TemplateHandler) renderWithLayout(c *gin.Context, status int, layout, content string, data gin.H) {
	h.setNavigationState(c, data)
	c.Header("Vary", navigation.PartialHeader)

	log := logger.FromContext(c.Request.Context())

	contentTmpl := h.templates.Lookup(content)
	if contentTmpl == nil {
		log.WithField("template", content).Error("Content template not found")
		h.renderFallbackError(c)
		return
	}

	buf, err := executeTemplate(contentTmpl, data)
	if err != nil {
		log.WithError(err).WithField("template", content).Error("Failed to render content")
		h.renderFallbackError(c)
		return
	}

	if isPartialRequest(c) {
		if title, ok := data["Title"].(string); ok {
			c.Header("X-Page-Title", title)
		}
		c.Data(status, "text/html; charset=utf-8", buf)
		return
	}

	data["Content"] = template.HTML(buf)

	layoutTmpl := h.templates.Lookup(layout)
	if layoutTmpl == nil {
		log.WithField("template", layout).Error("Layout template not found")
		h.renderFallbackError(c)
		return
	}

	output, err := executeTemplate(layoutTmpl, data)
	if err != nil {
		log.WithError(err).WithField("template", layout).Error("Failed to render layout")
		h.renderFallbackError(c)
		return
	}

	c.Data(status, "text/html; charset=utf-8", output)
}

func (h *TemplateHandler) renderError(c *gin.Context, status int, title, message string) {
	h.renderTemplate(c, status, "error", title, gin.H{
		"StatusCode": status,
		"Error":      message,
	})
}

// renderFallbackError is used when the templates themselves fail, so it must
// not depend on them.
func (h *TemplateHandler) renderFallbackError(c *gin.Context) {
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte("500 - Server Error"))
}

func (h *TemplateHandler) setNavigationState(c *gin.Context, data gin.H) {
	cleanedPath := utils.NormalizePath(c.Request.URL.Path)
	data["ActivePath"] = cleanedPath

	if _, exists := data["ActiveNav"]; exists {
		return
	}

	active := ""
	for _, item := range navigation.Links() {
		if item.Path == cleanedPath {
			active = strings.ToLower(item.Label)
			break
		}
	}

	data["ActiveNav"] = active
}

func executeTemplate(tmpl *template.Template, data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isPartialRequest(c *gin.Context) bool {
	return strings.TrimSpace(c.GetHeader(navigation.PartialHeader)) != ""
}
