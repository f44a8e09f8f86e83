package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/api/middleware"
	"Quill/internal/core/users"
)

// ProfileHandler serves profile reads and writes
type ProfileHandler struct {
	service users.Service
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(service users.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// HandleGet returns one user's public profile
// GET /api/user/{userID}
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	userID := chi.URLParam(r, "userID")

	found, err := h.service.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, found)
}

// HandleList returns all users. Authenticated callers only.
// GET /api/user
func (h *ProfileHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)

	list, err := h.service.List(r.Context(), identity)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if list == nil {
		list = []*users.User{}
	}
	handlers.WriteJSON(w, http.StatusOK, list)
}

// HandleUpdate rewrites the caller's own profile
// PATCH /api/user
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUserBody)

	var req users.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	updated, err := h.service.Update(r.Context(), identity, req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}

type roleInput struct {
	Role string `json:"role"`
}

// HandleUpdateRole sets a user's role. Self, or admin for other users.
// PATCH /api/user/{userID}/role
func (h *ProfileHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	var input roleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	targetID := chi.URLParam(r, "userID")

	updated, err := h.service.UpdateRole(r.Context(), identity, targetID, input.Role)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, updated)
}

// HandleDelete removes an account. Self or admin.
// DELETE /api/user/{userID}
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if !identity.Authenticated {
		handlers.WriteMessage(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	targetID := chi.URLParam(r, "userID")

	if err := h.service.Delete(r.Context(), identity, targetID); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "User deleted.",
	})
}
