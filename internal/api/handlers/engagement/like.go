package engagement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/engagement"
)

// LikeHandler handles like toggle requests
type LikeHandler struct {
	service engagement.Service
}

// NewLikeHandler creates a new like handler
func NewLikeHandler(service engagement.Service) *LikeHandler {
	return &LikeHandler{service: service}
}

// HandleLike toggles the caller's like on a post
// POST /api/post/{postID}/like
//
// Response: { "id": "...", "postId": "...", "removed": false }
func (h *LikeHandler) HandleLike(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	postID := chi.URLParam(r, "postID")

	result, err := h.service.Like(r.Context(), postID, identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}

// UnlikeHandler handles unlike toggle requests
type UnlikeHandler struct {
	service engagement.Service
}

// NewUnlikeHandler creates a new unlike handler
func NewUnlikeHandler(service engagement.Service) *UnlikeHandler {
	return &UnlikeHandler{service: service}
}

// HandleUnlike toggles the caller's unlike on a post
// POST /api/post/{postID}/unlike
func (h *UnlikeHandler) HandleUnlike(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	postID := chi.URLParam(r, "postID")

	result, err := h.service.Unlike(r.Context(), postID, identity.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, result)
}
