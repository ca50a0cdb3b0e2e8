package repository

import (
	"context"

	"rehab-server/internal/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for credential persistence.
type UserRepository interface {
	// CreateUser inserts a new user. Returns models.ErrEmailAlreadyExists on
	// a duplicate email; uniqueness is guaranteed by the database constraint,
	// not by a pre-check.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by their (normalized) email address.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by their ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
