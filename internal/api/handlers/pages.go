package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// PageHandler serves the static display pages
type PageHandler struct{}

// NewPageHandler creates a new page handler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// Index renders the submission form
// GET /
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", nil)
}

// ThankYou renders the confirmation page
// GET /thank-you
func (h *PageHandler) ThankYou(c *gin.Context) {
	c.HTML(http.StatusOK, "thank_you.html", nil)
}

// Denied renders the denial page
// GET /denied
func (h *PageHandler) Denied(c *gin.Context) {
	c.HTML(http.StatusOK, "denied.html", nil)
}
