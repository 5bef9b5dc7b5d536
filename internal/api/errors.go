package api

import (
	"fmt"
	"net/http"

	"evalytics/internal/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an application error code to an HTTP status
func statusFor(code string) int {
	switch code {
	case errors.CodeInvalidInput, errors.CodeValidationError, errors.CodeImportError:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	case errors.CodeInsufficientData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"}. Internal failures are not echoed to clients.
func (s *Server) respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == "UNKNOWN" {
		code = errors.CodeInternalError
	}
	status := statusFor(code)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
		message = "internal server error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

// bind decodes the JSON body into T, answering 400 on failure
func bind[T any](s *Server, c *gin.Context) (T, bool) {
	var req T
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, errors.InvalidInput(fmt.Sprintf("invalid request body: %v", err)))
		return req, false
	}
	return req, true
}
