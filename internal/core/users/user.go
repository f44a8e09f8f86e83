package users

import (
	"time"

	"Quill/internal/core/authz"
)

// User represents an account. PasswordHash never leaves the service layer.
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Name         string     `json:"name" db:"name"`
	ImageURL     *string    `json:"imageUrl,omitempty" db:"image_url"`
	Role         authz.Role `json:"role" db:"role"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

// RegisterRequest represents input for creating an account
type RegisterRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// UpdateRequest represents input for updating the caller's profile
type UpdateRequest struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ImageURL        string `json:"imageUrl,omitempty"`
}

// LoginResponse carries the bearer token issued on login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}
