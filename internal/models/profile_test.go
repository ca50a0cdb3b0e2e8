package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *Profile {
	return &Profile{
		UserID:      uuid.New(),
		Name:        "Jane Runner",
		Gender:      GenderFemale,
		DateOfBirth: time.Date(1990, 5, 14, 0, 0, 0, 0, time.UTC),
		Country:     "Netherlands",
		Height:      172,
		Weight:      64.5,
	}
}

func TestProfileValidate(t *testing.T) {
	t.Run("valid profile passes", func(t *testing.T) {
		require.NoError(t, validProfile().Validate())
	})

	t.Run("normalizes fields", func(t *testing.T) {
		p := validProfile()
		p.Name = "  Jane Runner  "
		p.Gender = " MALE "
		p.Country = " Netherlands "
		require.NoError(t, p.Validate())
		assert.Equal(t, "Jane Runner", p.Name)
		assert.Equal(t, GenderMale, p.Gender)
		assert.Equal(t, "Netherlands", p.Country)
	})

	t.Run("missing fields", func(t *testing.T) {
		mutations := map[string]func(*Profile){
			"name":    func(p *Profile) { p.Name = "" },
			"gender":  func(p *Profile) { p.Gender = "" },
			"dob":     func(p *Profile) { p.DateOfBirth = time.Time{} },
			"country": func(p *Profile) { p.Country = "" },
			"height":  func(p *Profile) { p.Height = 0 },
			"weight":  func(p *Profile) { p.Weight = 0 },
		}
		for field, mutate := range mutations {
			p := validProfile()
			mutate(p)
			err := p.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr, "missing %s should fail validation", field)
			assert.Equal(t, "All fields are required", validationErr.Message)
		}
	})

	t.Run("whitespace-only name counts as missing", func(t *testing.T) {
		p := validProfile()
		p.Name = "   "
		err := p.Validate()
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "All fields are required", validationErr.Message)
	})

	t.Run("gender enum", func(t *testing.T) {
		p := validProfile()
		p.Gender = "other"
		err := p.Validate()
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "Gender must be either male or female", validationErr.Message)
	})

	t.Run("height bounds", func(t *testing.T) {
		for _, height := range []float64{0.5, 300.1, 301, -10} {
			p := validProfile()
			p.Height = height
			err := p.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr, "height %v should be rejected", height)
			assert.Equal(t, "Height must be between 1 and 300 cm", validationErr.Message)
		}
		// Границы включительно
		for _, height := range []float64{1, 300} {
			p := validProfile()
			p.Height = height
			assert.NoError(t, p.Validate(), "height %v should be accepted", height)
		}
	})

	t.Run("weight bounds", func(t *testing.T) {
		for _, weight := range []float64{0.5, 500.1, 1000} {
			p := validProfile()
			p.Weight = weight
			err := p.Validate()
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr, "weight %v should be rejected", weight)
			assert.Equal(t, "Weight must be between 1 and 500 kg", validationErr.Message)
		}
		for _, weight := range []float64{1, 500} {
			p := validProfile()
			p.Weight = weight
			assert.NoError(t, p.Validate(), "weight %v should be accepted", weight)
		}
	})
}

func TestEmptyProfile(t *testing.T) {
	userID := uuid.New()
	p := EmptyProfile(userID)
	assert.Equal(t, userID, p.UserID)
	assert.True(t, p.IsEmpty())

	p.Name = "Jane"
	assert.False(t, p.IsEmpty())
}
