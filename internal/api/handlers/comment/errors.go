package comment

import (
	"errors"
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/authz"
	"Quill/internal/core/engagement"
)

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *engagement.ValidationError

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")

	case errors.Is(err, authz.ErrForbidden), errors.Is(err, engagement.ErrNotAuthorized):
		handlers.WriteMessage(w, http.StatusForbidden, "Not authorized.")

	case engagement.IsNotFound(err):
		handlers.WriteMessage(w, http.StatusNotFound, err.Error())

	case errors.As(err, &validationErr):
		handlers.WriteValidation(w, "Validation failed.", []string{validationErr.Message})

	default:
		log.Printf("Unexpected error in comment handler: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}
