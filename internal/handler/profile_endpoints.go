package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rehab-server/internal/models"
)

// getProfile returns the user's profile, or the default empty shape when the
// profile has never been saved.
func (h *Handler) getProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		handleServiceError(c, err, "Error fetching profile")
		return
	}

	profile, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err, "Error fetching profile")
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(profile))
}

// updateProfile saves the complete profile. Частичных обновлений нет: каждое
// сохранение перезаписывает профиль целиком.
func (h *Handler) updateProfile(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		handleServiceError(c, err, "Error updating profile")
		return
	}

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request data: " + err.Error()})
		return
	}

	profile := &models.Profile{
		UserID:  userID,
		Name:    req.Name,
		Gender:  req.Gender,
		Country: req.Country,
		Height:  float64(req.Height),
		Weight:  float64(req.Weight),
	}
	if req.DOB != "" {
		dob, err := parseDateOfBirth(req.DOB)
		if err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Date of birth must be a valid date"})
			return
		}
		profile.DateOfBirth = dob
	}

	saved, err := h.profiles.Upsert(c.Request.Context(), userID, profile)
	if err != nil {
		handleServiceError(c, err, "Error updating profile")
		return
	}

	recordUpsertsTotal.WithLabelValues("profile").Inc()
	c.JSON(http.StatusOK, toProfileResponse(saved))
}
