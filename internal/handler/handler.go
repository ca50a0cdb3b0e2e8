package handler

import (
	"rehab-server/internal/config"
	"rehab-server/internal/models"
	"rehab-server/internal/records"
	"rehab-server/internal/service"

	"github.com/gin-gonic/gin"
)

// Handler handles the HTTP surface: credentials, profile and rehabilitation
// records.
type Handler struct {
	authService service.AuthService
	profiles    *records.Engine[models.Profile]
	rehabs      *records.Engine[models.Rehabilitation]
	cfg         *config.Config
}

// NewHandler creates the HTTP handler with its dependencies.
func NewHandler(
	authService service.AuthService,
	profiles *records.Engine[models.Profile],
	rehabs *records.Engine[models.Rehabilitation],
	cfg *config.Config,
) *Handler {
	return &Handler{
		authService: authService,
		profiles:    profiles,
		rehabs:      rehabs,
		cfg:         cfg,
	}
}

// RegisterRoutes mounts all application routes. rateLimit is applied to the
// credential endpoints only.
func (h *Handler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/signup", rateLimit, h.signup)
		authGroup.POST("/signin", rateLimit, h.signin)

		protected := authGroup.Group("")
		protected.Use(h.AuthMiddleware())
		{
			protected.GET("/profile", h.getProfile)
			protected.PUT("/profile", h.updateProfile)
			protected.GET("/rehabilitation", h.getRehabilitation)
			protected.POST("/rehabilitation", h.saveRehabilitation)
		}
	}
}
