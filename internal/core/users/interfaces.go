package users

import (
	"context"

	"Quill/internal/core/authz"
)

// Service defines the business logic interface for accounts.
type Service interface {
	// Register validates input and creates an account with a hashed
	// password. ErrEmailTaken on duplicate email.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Login verifies credentials and issues a bearer token.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// Get returns a user by id.
	Get(ctx context.Context, userID string) (*User, error)

	// GetName resolves a user's display name. Satisfies the notification
	// pipeline's NameResolver.
	GetName(ctx context.Context, userID string) (string, error)

	// Update rewrites the caller's own profile, rehashing the password.
	Update(ctx context.Context, identity authz.Identity, req UpdateRequest) (*User, error)

	// List returns all users without credentials. Authenticated callers only.
	List(ctx context.Context, identity authz.Identity) ([]*User, error)

	// UpdateRole sets a user's role. Callers may change their own role;
	// changing another user's role requires admin.
	UpdateRole(ctx context.Context, identity authz.Identity, targetUserID, role string) (*User, error)

	// ForgotPassword issues a short-lived reset token, stores it on the
	// account, and mails a reset link.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a reset token and sets a new password.
	ResetPassword(ctx context.Context, token, password, confirmPassword string) (*User, error)

	// Delete removes an account and its posts. Self or admin.
	Delete(ctx context.Context, identity authz.Identity, targetUserID string) error
}

// Repository defines the data access interface for accounts.
type Repository interface {
	// Insert stores a new account. ErrEmailTaken on duplicate email.
	Insert(ctx context.Context, user *User) error

	// GetByID returns a user by id, or ErrUserNotFound.
	GetByID(ctx context.Context, userID string) (*User, error)

	// GetByEmail returns a user by email, or ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Update rewrites profile fields and the password hash.
	Update(ctx context.Context, user *User) error

	// UpdateRole sets only the role column.
	UpdateRole(ctx context.Context, userID string, role authz.Role) error

	// List returns all users.
	List(ctx context.Context) ([]*User, error)

	// SetResetToken stores a password reset token and its expiry.
	SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error

	// GetByResetToken returns the user holding an unexpired reset token,
	// or ErrResetTokenInvalid.
	GetByResetToken(ctx context.Context, token string) (*User, error)

	// UpdatePassword sets a new password hash and clears any reset token.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Delete removes an account; owned posts are deleted with it.
	Delete(ctx context.Context, userID string) error
}

// Mailer sends transactional mail. Implemented by internal/mail.
type Mailer interface {
	Send(to, subject, body string) error
}
