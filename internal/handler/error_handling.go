package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rehab-server/internal/models"
)

// handleServiceError maps service-layer errors to HTTP responses.
// internalMessage is the opaque message returned for unexpected failures,
// чтобы не светить детали внутренних ошибок клиенту.
func handleServiceError(c *gin.Context, err error, internalMessage string) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: validationErr.Message})
		return
	}

	switch {
	case errors.Is(err, models.ErrEmailAlreadyExists):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Email already in use"})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, models.ErrTokenMissing),
		errors.Is(err, models.ErrTokenInvalid),
		errors.Is(err, models.ErrTokenMalformed),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrUnauthorized),
		errors.Is(err, models.ErrUserNotFound):
		// Клиенту не сообщаем, чем именно плох токен.
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
	default:
		zap.L().Error("Unhandled service error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: internalMessage})
	}
}
