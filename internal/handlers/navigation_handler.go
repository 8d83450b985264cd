package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ai-forum-web/pkg/navigation"
)

// NavigationHandler exposes the navigation bar entries to API clients.
type NavigationHandler struct{}

func NewNavigationHandler() *NavigationHandler {
	return &NavigationHandler{}
}

func (h *NavigationHandler) List(c *gin.Context) {
	bar := navigation.Navbar()

	c.JSON(http.StatusOK, gin.H{
		"brand": bar.Brand(),
		"items": bar.Links(),
	})
}
