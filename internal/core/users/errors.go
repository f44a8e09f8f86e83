package users

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound indicates the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailTaken indicates an account with this email already exists
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials indicates a failed login attempt
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrPasswordMismatch indicates password and confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrResetTokenInvalid indicates the password reset token is unknown,
	// malformed, or expired
	ErrResetTokenInvalid = errors.New("reset token is invalid or has expired")
)

// FieldError is a single field-level validation message
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries one or more field-level validation messages
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation error (%s): %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed with %d errors", len(e.Fields))
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
