package routes

import (
	"time"

	"github.com/go-chi/chi/v5"

	"Quill/internal/api/handlers/user"
	"Quill/internal/api/middleware"
	"Quill/internal/core/users"
)

// RegisterUserRoutes registers the account endpoints with dedicated rate
// limiting on the credential paths. Signup, login and the reset flow have
// stricter limits to slow down credential stuffing and reset-token abuse.
func RegisterUserRoutes(r chi.Router, service users.Service) {
	credentialLimiter := middleware.NewRateLimiter(10, 1*time.Minute)

	registerHandler := user.NewRegisterHandler(service)
	loginHandler := user.NewLoginHandler(service)
	profileHandler := user.NewProfileHandler(service)
	passwordHandler := user.NewPasswordHandler(service)

	r.With(credentialLimiter.Middleware).Post("/api/user/signup", registerHandler.HandleRegister)
	r.With(credentialLimiter.Middleware).Post("/api/user/login", loginHandler.HandleLogin)
	r.With(credentialLimiter.Middleware).Post("/api/user/forgot-password", passwordHandler.HandleForgot)
	r.With(credentialLimiter.Middleware).Post("/api/user/reset-password/{token}", passwordHandler.HandleReset)

	r.Get("/api/user", profileHandler.HandleList)
	r.Patch("/api/user", profileHandler.HandleUpdate)
	r.Get("/api/user/{userID}", profileHandler.HandleGet)
	r.Patch("/api/user/{userID}/role", profileHandler.HandleUpdateRole)
	r.Delete("/api/user/{userID}", profileHandler.HandleDelete)
}
