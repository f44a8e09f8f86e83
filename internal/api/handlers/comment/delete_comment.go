package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/engagement"
)

// DeleteCommentHandler handles comment deletion requests
type DeleteCommentHandler struct {
	service engagement.Service
}

// NewDeleteCommentHandler creates a new handler for deleting comments
func NewDeleteCommentHandler(service engagement.Service) *DeleteCommentHandler {
	return &DeleteCommentHandler{service: service}
}

// HandleDelete removes a comment. Author only.
// DELETE /api/post/{postID}/comment/{commentID}
func (h *DeleteCommentHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	postID := chi.URLParam(r, "postID")
	commentID := chi.URLParam(r, "commentID")

	if err := h.service.DeleteComment(r.Context(), postID, commentID, identity.UserID); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Comment deleted.",
	})
}
