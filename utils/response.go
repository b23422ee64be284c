package utils

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body every failing endpoint returns, including
// the CSV exports (no CSV body is ever produced on error).
type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// SendError writes the standard error body with the current time in
// the given location.
func SendError(c *gin.Context, status int, message string, loc *time.Location) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:     message,
		Timestamp: time.Now().In(loc).Format(time.RFC3339),
	})
}

// Timestamp formats the current time for success payloads.
func Timestamp(loc *time.Location) string {
	return time.Now().In(loc).Format(time.RFC3339)
}
