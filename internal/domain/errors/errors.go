package errors

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists      = errors.New("already exists")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidState       = errors.New("invalid state transition")
	ErrTamperedToken      = errors.New("tampered scan token")
	ErrExpired            = errors.New("credential expired")
	ErrDeactivated        = errors.New("credential deactivated")
	ErrInvalidCode        = errors.New("invalid code")
	ErrCorruptCredential  = errors.New("corrupt credential")
	ErrValidation         = errors.New("validation failed")
)

// ValidationError reports the first offending input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError builds ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets callers match any validation failure with errors.Is(err, ErrValidation).
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
