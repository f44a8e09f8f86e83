package user

import (
	"errors"
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/authz"
	"Quill/internal/core/users"
)

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *users.ValidationError

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")

	case errors.Is(err, users.ErrInvalidCredentials):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Invalid credentials.")

	case errors.Is(err, authz.ErrForbidden):
		handlers.WriteMessage(w, http.StatusForbidden, "Not authorized.")

	case errors.Is(err, users.ErrUserNotFound):
		handlers.WriteMessage(w, http.StatusNotFound, "User not found.")

	case errors.Is(err, users.ErrEmailTaken):
		handlers.WriteMessage(w, http.StatusConflict, "An account with this email already exists.")

	case errors.Is(err, users.ErrResetTokenInvalid):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Reset link is invalid or has expired.")

	case errors.Is(err, users.ErrPasswordMismatch):
		handlers.WriteValidation(w, "Validation failed.", []string{"passwords do not match"})

	case errors.As(err, &validationErr):
		msgs := make([]string, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			msgs = append(msgs, f.Message)
		}
		handlers.WriteValidation(w, "Validation failed.", msgs)

	default:
		log.Printf("Unexpected error in user handler: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}
