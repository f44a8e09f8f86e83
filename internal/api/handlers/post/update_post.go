package post

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/posts"
	"Quill/internal/images"
)

// UpdatePostHandler handles post update requests
type UpdatePostHandler struct {
	service posts.Service
	store   *images.DiskStore
}

// NewUpdatePostHandler creates a new update post handler
func NewUpdatePostHandler(service posts.Service, store *images.DiskStore) *UpdatePostHandler {
	return &UpdatePostHandler{service: service, store: store}
}

// HandleUpdate rewrites a post. Owner or admin.
// PATCH /api/post/{postID}
func (h *UpdatePostHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPostBody)

	req, err := decodePostRequest(r, h.store)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	postID := chi.URLParam(r, "postID")

	updated, err := h.service.Update(r.Context(), identity, postID, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}

// statusInput is the request body for visibility changes
type statusInput struct {
	Status string `json:"postStatus"`
}

// UpdateStatusHandler handles post visibility changes
type UpdateStatusHandler struct {
	service posts.Service
}

// NewUpdateStatusHandler creates a new update status handler
func NewUpdateStatusHandler(service posts.Service) *UpdateStatusHandler {
	return &UpdateStatusHandler{service: service}
}

// HandleUpdateStatus changes only a post's visibility. Owner or admin.
// PATCH /api/post/{postID}/status
func (h *UpdateStatusHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var input statusInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	postID := chi.URLParam(r, "postID")

	if err := h.service.UpdateStatus(r.Context(), identity, postID, input.Status); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Post status updated.",
	})
}
