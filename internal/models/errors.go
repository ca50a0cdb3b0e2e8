package models

import "errors"

// Application-wide standard errors
var (
	// User & Authentication Errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthorized       = errors.New("unauthorized") // Authentication required or failed

	// Token Errors
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMissing   = errors.New("authorization token is missing")

	// Record Errors
	// Отсутствие записи НЕ является ошибкой для read-путей (возвращаем
	// дефолтную пустую запись), но репозитории сигнализируют его этой ошибкой.
	ErrRecordNotFound = errors.New("record not found")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
)

// ValidationError is a client-fixable input problem. The message is safe to
// return to the caller as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a ValidationError with the given user-facing message.
func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
