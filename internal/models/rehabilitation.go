package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Rehabilitation is the free-text (or voice-transcribed) rehabilitation
// description with an optional audio attachment. One-to-one with User.
// Аудио хранится вместе с записью и пишется/читается как единое целое.
type Rehabilitation struct {
	UserID         uuid.UUID `db:"user_id"`
	Description    string    `db:"description"`
	AudioRecording []byte    `db:"audio_recording"`
	AudioMimeType  *string   `db:"audio_mime_type"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// EmptyRehabilitation returns the default-empty shape used when no record exists yet.
func EmptyRehabilitation(userID uuid.UUID) *Rehabilitation {
	return &Rehabilitation{UserID: userID}
}

// HasAudio reports whether an audio attachment is present.
func (r *Rehabilitation) HasAudio() bool {
	return len(r.AudioRecording) > 0
}

// Validate normalizes and checks the record before an upsert. The
// description is stored trimmed; an upsert without audio keeps any
// previously saved recording (see the repository upsert).
func (r *Rehabilitation) Validate() error {
	r.Description = strings.TrimSpace(r.Description)
	if r.Description == "" {
		return NewValidationError("Description is required")
	}
	return nil
}
