package handler

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rehab-server/internal/models"
)

type signupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// decimal принимает и число, и строку с числом: формы присылают значения
// инпутов строками.
type decimal float64

func (d *decimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*d = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*d = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid decimal value %q", s)
	}
	*d = decimal(f)
	return nil
}

type profileRequest struct {
	Name    string  `json:"name"`
	Gender  string  `json:"gender"`
	DOB     string  `json:"dob"`
	Country string  `json:"country"`
	Height  decimal `json:"height"`
	Weight  decimal `json:"weight"`
}

// profileResponse is the wire shape of a profile. Для отсутствующего профиля
// возвращается дефолтная пустая форма, а не null и не 404.
type profileResponse struct {
	Name    string   `json:"name"`
	Gender  string   `json:"gender"`
	DOB     *string  `json:"dob"`
	Country string   `json:"country"`
	Height  *float64 `json:"height"`
	Weight  *float64 `json:"weight"`
}

const dobLayout = "2006-01-02"

func toProfileResponse(p *models.Profile) profileResponse {
	resp := profileResponse{
		Name:    p.Name,
		Gender:  p.Gender,
		Country: p.Country,
	}
	if !p.DateOfBirth.IsZero() {
		dob := p.DateOfBirth.Format(dobLayout)
		resp.DOB = &dob
	}
	if p.Height != 0 {
		height := p.Height
		resp.Height = &height
	}
	if p.Weight != 0 {
		weight := p.Weight
		resp.Weight = &weight
	}
	return resp
}

// parseDateOfBirth accepts a plain date or a full RFC3339 timestamp.
func parseDateOfBirth(value string) (time.Time, error) {
	if t, err := time.Parse(dobLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// audioAttachment is the transport-safe form of stored audio: raw bytes
// never cross the external interface.
type audioAttachment struct {
	Data     string `json:"data"` // base64
	MimeType string `json:"mimeType"`
}

type rehabilitationResponse struct {
	Description    string           `json:"description"`
	AudioRecording *audioAttachment `json:"audioRecording"`
}
