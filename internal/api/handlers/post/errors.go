package post

import (
	"errors"
	"log"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/authz"
	"Quill/internal/core/posts"
	"Quill/internal/images"
)

// errBadBody marks an undecodable request payload
var errBadBody = errors.New("invalid request body")

// writeDecodeError maps request decoding failures to HTTP responses
func writeDecodeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, images.ErrUnsupportedType):
		handlers.WriteValidation(w, "Validation failed.", []string{"image must be a png or jpeg"})
	case errors.Is(err, errBadBody):
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
	default:
		log.Printf("Unexpected error decoding post request: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}

// handleServiceError maps service-layer errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	var validationErr *posts.ValidationError

	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")

	case errors.Is(err, authz.ErrForbidden), errors.Is(err, posts.ErrNotAuthorized):
		handlers.WriteMessage(w, http.StatusForbidden, "Not authorized.")

	case errors.Is(err, posts.ErrNotFound):
		handlers.WriteMessage(w, http.StatusNotFound, "Post not found.")

	case errors.As(err, &validationErr):
		msgs := make([]string, 0, len(validationErr.Fields))
		for _, f := range validationErr.Fields {
			msgs = append(msgs, f.Message)
		}
		handlers.WriteValidation(w, "Validation failed.", msgs)

	default:
		log.Printf("Unexpected error in post handler: %v", err)
		handlers.WriteMessage(w, http.StatusInternalServerError, "An internal error occurred.")
	}
}
