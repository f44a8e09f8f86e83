package user

import (
	"encoding/json"
	"net/http"

	"Quill/internal/api/handlers"
	"Quill/internal/core/users"
)

// LoginHandler handles credential verification requests
type LoginHandler struct {
	service users.Service
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(service users.Service) *LoginHandler {
	return &LoginHandler{service: service}
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues a bearer token
// POST /api/user/login
//
// Response: { "token": "...", "userId": "..." }
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUserBody)

	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	resp, err := h.service.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, resp)
}
