// Package httpkit provides HTTP response utilities.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"errors"
	"net/http"

	"kb_backend/platform/apperr"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Detail any `json:"detail"`
}

// Error sends an error response with the given status code and detail.
func Error(c *gin.Context, status int, detail any) {
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: detail})
}

// OK sends a 200 OK response with the given payload.
func OK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// HandleError maps errors to HTTP responses.
// Typed *apperr.Error values use their Kind for the status code; anything
// else is an unexpected failure and becomes a generic 500.
// Returns true if an error was handled, false otherwise.
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	_ = c.Error(err)

	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Kind != apperr.KindInternal && appErr.Kind != apperr.KindUnknown {
		detail := any(appErr.Message)
		if appErr.Details != nil {
			detail = appErr.Details
		}
		Error(c, appErr.HTTPStatus(), detail)
		return true
	}

	Error(c, http.StatusInternalServerError, msgInternalServerError)
	return true
}

// NotFound answers requests that match no route.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, apperr.NotFound("Not Found"))
	}
}

// MethodNotAllowed answers requests whose path exists for other methods.
func MethodNotAllowed() gin.HandlerFunc {
	return func(c *gin.Context) {
		HandleError(c, apperr.New(apperr.KindMethodNotAllowed, "Method Not Allowed"))
	}
}
