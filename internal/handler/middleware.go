package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"rehab-server/internal/models"
)

const userIDContextKey = "user_id"

// AuthMiddleware verifies the bearer token and stores the authenticated user
// ID in the request context. Запросы без валидного токена не доходят до
// обработчиков.
func (h *Handler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrTokenMissing, "Unauthorized")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, models.ErrTokenMalformed, "Unauthorized")
			c.Abort()
			return
		}

		claims, err := h.authService.VerifyToken(c.Request.Context(), parts[1])
		if err != nil {
			tokenVerificationsTotal.WithLabelValues("failure").Inc()
			handleServiceError(c, err, "Unauthorized")
			c.Abort()
			return
		}

		tokenVerificationsTotal.WithLabelValues("success").Inc()
		c.Set(userIDContextKey, claims.UserID)
		c.Next()
	}
}

// getUserIDFromContext retrieves the user ID set by AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (uuid.UUID, error) {
	value, exists := c.Get(userIDContextKey)
	if !exists {
		zap.L().Error("User ID missing from request context on a protected route")
		return uuid.Nil, models.ErrUnauthorized
	}

	userID, ok := value.(uuid.UUID)
	if !ok {
		zap.L().Error("User ID in request context has unexpected type")
		return uuid.Nil, models.ErrUnauthorized
	}
	return userID, nil
}
