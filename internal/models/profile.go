package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Gender values accepted for a profile.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// Допустимые границы биометрии (см и кг).
const (
	HeightMin = 1.0
	HeightMax = 300.0
	WeightMin = 1.0
	WeightMax = 500.0
)

// Profile holds the user's biometric data. One-to-one with User, keyed by
// user_id. PUT overwrites the record wholesale - there are no partial updates.
type Profile struct {
	UserID      uuid.UUID `db:"user_id"`
	Name        string    `db:"name"`
	Gender      string    `db:"gender"`
	DateOfBirth time.Time `db:"dob"`
	Country     string    `db:"country"`
	Height      float64   `db:"height"`
	Weight      float64   `db:"weight"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// EmptyProfile returns the default-empty shape used when no profile exists yet.
func EmptyProfile(userID uuid.UUID) *Profile {
	return &Profile{UserID: userID}
}

// IsEmpty reports whether the profile is the absent/default record.
func (p *Profile) IsEmpty() bool {
	return p.Name == "" && p.Gender == "" && p.DateOfBirth.IsZero() &&
		p.Country == "" && p.Height == 0 && p.Weight == 0
}

// Validate normalizes the profile fields and checks the upsert invariants.
// Поля либо присутствуют все вместе, либо запись считается неполной.
func (p *Profile) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	p.Country = strings.TrimSpace(p.Country)

	if p.Name == "" || p.Gender == "" || p.DateOfBirth.IsZero() || p.Country == "" || p.Height == 0 || p.Weight == 0 {
		return NewValidationError("All fields are required")
	}
	if p.Gender != GenderMale && p.Gender != GenderFemale {
		return NewValidationError("Gender must be either male or female")
	}
	if p.Height < HeightMin || p.Height > HeightMax {
		return NewValidationError("Height must be between 1 and 300 cm")
	}
	if p.Weight < WeightMin || p.Weight > WeightMax {
		return NewValidationError("Weight must be between 1 and 500 kg")
	}
	return nil
}
