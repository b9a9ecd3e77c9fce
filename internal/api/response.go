// internal/api/response.go
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
)

// APIResponse is the uniform envelope for every JSON endpoint.
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Message   string      `json:"message,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// APIError carries a stable machine code plus a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func respondSuccess(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, &APIResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now(),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, &APIResponse{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}

// respondAppError maps the application error taxonomy onto HTTP statuses.
// Structural failures are a client problem (the input is not a screenplay),
// not a server fault.
func respondAppError(c *gin.Context, err error) {
	switch {
	case apperrors.IsNotFoundError(err):
		respondError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case apperrors.IsValidationError(err):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case apperrors.IsStructuralFailure(err):
		respondError(c, http.StatusUnprocessableEntity, "STRUCTURAL_FAILURE", err.Error())
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
	}
}
