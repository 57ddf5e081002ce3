package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) About(c *gin.Context) {
	Render(c, http.StatusOK, "about.html", gin.H{"Title": "About Me"})
}

func (h *PageHandler) Contact(c *gin.Context) {
	Render(c, http.StatusOK, "contact.html", gin.H{"Title": "Contact Me"})
}
