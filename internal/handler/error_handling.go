package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"scaenahub/internal/models"
)

// handleServiceError maps a service error to an HTTP status by its kind.
// Kinds travel as wrapped sentinels, so errors.Is is the whole dispatch; no
// message-text inspection anywhere.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var msg string

	switch {
	case errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		msg = "resource not found"
	case errors.Is(err, models.ErrPermissionDenied):
		statusCode = http.StatusForbidden
		msg = "permission denied"
	case errors.Is(err, models.ErrConflict):
		statusCode = http.StatusConflict
		msg = err.Error()
	case errors.Is(err, models.ErrValidation):
		statusCode = http.StatusBadRequest
		msg = err.Error()
	case errors.Is(err, models.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		msg = "invalid username or password"
	case errors.Is(err, models.ErrUserAlreadyExists):
		statusCode = http.StatusConflict
		msg = "username already exists"
	case errors.Is(err, models.ErrTokenExpired):
		statusCode = http.StatusUnauthorized
		msg = "token has expired"
	case errors.Is(err, models.ErrTokenInvalid), errors.Is(err, models.ErrTokenMalformed):
		statusCode = http.StatusUnauthorized
		msg = "token is invalid"
	default:
		zap.L().Error("Unhandled internal error in handleServiceError", zap.Error(err))
		statusCode = http.StatusInternalServerError
		msg = "an unexpected internal error occurred"
	}

	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: msg})
}
