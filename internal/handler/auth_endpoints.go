package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rehab-server/internal/models"
)

// signup registers a new user and returns an access token.
func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	token, err := h.authService.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err, "Error creating user")
		return
	}

	signupsTotal.Inc()
	c.JSON(http.StatusCreated, tokenResponse{Token: token})
}

// signin authenticates an existing user and returns a fresh access token.
func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	token, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err, "Error signing in")
		return
	}

	signinsTotal.Inc()
	c.JSON(http.StatusOK, tokenResponse{Token: token})
}
