package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// RespondOutOfRange sends the 403 page naming the allowed radius
func RespondOutOfRange(c *gin.Context, radiusMeters float64) {
	radius := strconv.FormatFloat(radiusMeters, 'f', -1, 64)
	body := fmt.Sprintf(
		"<h1>Submission Denied</h1><p>You must be within %s meters of the course location.</p>",
		radius,
	)
	c.Data(http.StatusForbidden, "text/html; charset=utf-8", []byte(body))
}

// RespondServerError sends a generic 500 page. The underlying error is logged
// by the caller and never reaches the client.
func RespondServerError(c *gin.Context) {
	body := "<h1>An error occurred</h1><p>Could not process your submission.</p>"
	c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(body))
}
