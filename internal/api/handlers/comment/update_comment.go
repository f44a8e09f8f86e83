package comment

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/engagement"
)

// UpdateCommentHandler handles comment edit requests
type UpdateCommentHandler struct {
	service engagement.Service
}

// NewUpdateCommentHandler creates a new handler for editing comments
func NewUpdateCommentHandler(service engagement.Service) *UpdateCommentHandler {
	return &UpdateCommentHandler{service: service}
}

// HandleUpdate replaces a comment's text. Author only.
// PATCH /api/post/{postID}/comment/{commentID}
func (h *UpdateCommentHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxCommentBody)

	var input CommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")

	comment, err := h.service.EditComment(r.Context(), postID, commentID, identity.UserID, input.Body)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, comment)
}
