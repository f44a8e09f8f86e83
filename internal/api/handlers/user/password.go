package user

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers"
	"Quill/internal/core/users"
)

// PasswordHandler serves the password reset flow
type PasswordHandler struct {
	service users.Service
}

// NewPasswordHandler creates a new password handler
func NewPasswordHandler(service users.Service) *PasswordHandler {
	return &PasswordHandler{service: service}
}

type forgotInput struct {
	Email string `json:"email"`
}

// HandleForgot issues a reset token and mails a reset link. The response
// is the same whether or not the address has an account.
// POST /api/user/forgot-password
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUserBody)

	var input forgotInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	if err := h.service.ForgotPassword(r.Context(), input.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "If that account exists, a reset link has been sent.",
	})
}

type resetInput struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleReset consumes a reset token and sets a new password
// POST /api/user/reset-password/{token}
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUserBody)

	var input resetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		handlers.WriteMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	token := chi.URLParam(r, "token")

	if _, err := h.service.ResetPassword(r.Context(), token, input.Password, input.ConfirmPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Password has been reset.",
	})
}
