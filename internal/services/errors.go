package services

import (
	"errors"
	"fmt"

	"github.com/jackhellowin/portfolio-api/internal/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = utils.ErrInvalidToken
	ErrTokenRevoked       = errors.New("refresh token has been revoked")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("admin access required")
	ErrNotFound           = errors.New("not found")
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrCannotDelete       = errors.New("cannot delete environment variable admin")
	ErrInvalidInput       = errors.New("invalid input")
)

// ValidationError describes rejected input. It matches ErrInvalidInput.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
