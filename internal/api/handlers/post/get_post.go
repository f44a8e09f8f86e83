package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/posts"
)

// GetPostHandler handles single post reads
type GetPostHandler struct {
	service posts.Service
}

// NewGetPostHandler creates a new get post handler
func NewGetPostHandler(service posts.Service) *GetPostHandler {
	return &GetPostHandler{service: service}
}

// HandleGet returns one post with creator, categories and counts.
// Public posts are readable anonymously; private posts require a login.
// GET /api/post/{postID}
func (h *GetPostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")
	identity := middleware.GetIdentity(r)

	found, err := h.service.Get(r.Context(), postID, identity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, found)
}
