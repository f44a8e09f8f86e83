package posts

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a post doesn't exist
	ErrNotFound = errors.New("post not found")

	// ErrNotAuthorized is returned when the caller may not touch the post
	ErrNotAuthorized = errors.New("not authorized")
)

// FieldError is a single field-level validation message
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError carries one or more field-level validation messages,
// surfaced to the client as the error body's data list.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("validation error (%s): %s", e.Fields[0].Field, e.Fields[0].Message)
	}
	return fmt.Sprintf("validation failed with %d errors", len(e.Fields))
}

// NewValidationError creates a single-field validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}
