package respond

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"

	"resume-builder-backend/internal/shared/telemetry"
)

// ErrorResponse is the body of every error reply. Error carries a short
// human summary, Code a stable machine code, and Message the underlying
// diagnostic text when there is one.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// Error sends a standardized error response.
func Error(c *gin.Context, status int, code, summary, message string) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"error":      summary,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if message != "" {
		fields["message"] = message
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	telemetry.Error("http.error", fields)

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   summary,
		Code:    code,
		Message: message,
	})
}

// BadBody reports a JSON body that could not be decoded, distinguishing
// bodies that exceeded the configured size limit.
func BadBody(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", "")
		return
	}
	Error(c, http.StatusBadRequest, "validation_error", "invalid request body", err.Error())
}
