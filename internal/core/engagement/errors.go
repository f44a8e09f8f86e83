package engagement

import (
	"errors"
	"fmt"
)

var (
	// ErrPostNotFound indicates the post being engaged with doesn't exist
	ErrPostNotFound = errors.New("post not found")

	// ErrCommentNotFound indicates the requested comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrLikeNotFound indicates the user has no like on the post
	ErrLikeNotFound = errors.New("like not found")

	// ErrUnlikeNotFound indicates the user has no unlike on the post
	ErrUnlikeNotFound = errors.New("unlike not found")

	// ErrNotAuthorized indicates the user is not authorized to perform this action
	ErrNotAuthorized = errors.New("not authorized")
)

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrLikeNotFound) ||
		errors.Is(err, ErrUnlikeNotFound)
}

// ValidationError represents a validation error with field-level detail
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
