package service

import (
	"context"

	"rehab-server/internal/domain"
)

// AuthService defines the interface for credential management and the
// session token lifecycle.
type AuthService interface {
	// SignUp creates a new user and returns a signed session token.
	SignUp(ctx context.Context, email, password string) (string, error)

	// SignIn authenticates a user by email and password and returns a
	// signed session token.
	SignIn(ctx context.Context, email, password string) (string, error)

	// VerifyToken checks the token's signature and expiry and returns its
	// claims. Возвращает ErrTokenExpired / ErrTokenMalformed / ErrTokenInvalid;
	// на границе HTTP все три превращаются в 401.
	VerifyToken(ctx context.Context, tokenString string) (*domain.Claims, error)
}
