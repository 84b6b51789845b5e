package application

import (
	"errors"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrEmailTaken        = errors.New("email already exists")
	ErrCodeInvalid       = errors.New("invalid verification code")
	ErrCodeExpired       = errors.New("verification code has expired")
	ErrConflict          = errors.New("email or username already exists")
	ErrNotifyFailed      = errors.New("failed to send verification email")
	ErrEmailNotFound     = errors.New("email not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrUserNotFound      = errors.New("user not found")
	ErrStorage           = errors.New("storage failure")
)

// ValidationError carries the user-facing reason a request was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
