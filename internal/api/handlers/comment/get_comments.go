package comment

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/core/engagement"
)

// GetCommentsHandler handles comment listing requests
type GetCommentsHandler struct {
	service engagement.Service
}

// NewGetCommentsHandler creates a new handler for listing comments
func NewGetCommentsHandler(service engagement.Service) *GetCommentsHandler {
	return &GetCommentsHandler{service: service}
}

// HandleGet returns a post's comments, oldest first. Public.
// GET /api/post/{postID}/comments
func (h *GetCommentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	comments, err := h.service.ListComments(r.Context(), postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if comments == nil {
		comments = []*engagement.Comment{}
	}

	handlers.WriteJSON(w, http.StatusOK, comments)
}
