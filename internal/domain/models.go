package domain

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the JWT claims of a session token.
// Полезная нагрузка: userId + стандартные поля (exp, iat, iss, sub, jti).
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}
