package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/engagement"
)

// FavoriteHandler handles favorite toggle requests
type FavoriteHandler struct {
	service engagement.Service
}

// NewFavoriteHandler creates a new favorite handler
func NewFavoriteHandler(service engagement.Service) *FavoriteHandler {
	return &FavoriteHandler{service: service}
}

// HandleToggleFavorite flips the caller's favorite membership for a post
// POST /api/post/{postID}/favorite
//
// Response: { "favorited": true }
func (h *FavoriteHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	postID := chi.URLParam(r, "postID")

	favorited, err := h.service.ToggleFavorite(r.Context(), identity.UserID, postID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"favorited": favorited,
	})
}
