package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"Quill/internal/auth"
	"Quill/internal/core/authz"
)

const (
	// bcryptCost matches the work factor the accounts were created with
	bcryptCost = 12

	// minPasswordLength is the minimum accepted password length
	minPasswordLength = 5

	// loginTokenTTL is how long an issued bearer token stays valid
	loginTokenTTL = time.Hour

	// resetTokenTTL is how long a password reset link stays valid
	resetTokenTTL = 15 * time.Minute
)

type userService struct {
	repo        Repository
	mailer      Mailer
	jwtSecret   []byte
	resetSecret []byte
	appBaseURL  string
	logger      *slog.Logger
}

// NewUserService creates a new user service.
// jwtSecret signs login tokens; resetSecret signs password-reset tokens.
// appBaseURL is used to build the reset link in the mail body.
func NewUserService(
	repo Repository,
	mailer Mailer,
	jwtSecret, resetSecret []byte,
	appBaseURL string,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		repo:        repo,
		mailer:      mailer,
		jwtSecret:   jwtSecret,
		resetSecret: resetSecret,
		appBaseURL:  strings.TrimSuffix(appBaseURL, "/"),
		logger:      logger,
	}
}

// Register creates an account with a bcrypt-hashed password
func (s *userService) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if fields := validateAccountInput(req.Email, req.Name, req.Password); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         strings.TrimSpace(req.Name),
		Role:         authz.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if req.ImageURL != "" {
		user.ImageURL = &req.ImageURL
	}

	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user", user.ID)
	return user, nil
}

// Login verifies credentials and issues a 1 hour bearer token
func (s *userService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.Sign(s.jwtSecret, user.ID, user.Email, string(user.Role), loginTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &LoginResponse{Token: token, UserID: user.ID}, nil
}

// Get returns a user by id
func (s *userService) Get(ctx context.Context, userID string) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// GetName resolves a user's display name
func (s *userService) GetName(ctx context.Context, userID string) (string, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Name, nil
}

// Update rewrites the caller's own profile
func (s *userService) Update(ctx context.Context, identity authz.Identity, req UpdateRequest) (*User, error) {
	if !identity.Authenticated {
		return nil, authz.ErrUnauthenticated
	}

	if fields := validateAccountInput(req.Email, req.Name, req.Password); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	user, err := s.repo.GetByID(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.Email = strings.ToLower(strings.TrimSpace(req.Email))
	user.Name = strings.TrimSpace(req.Name)
	user.PasswordHash = string(hash)
	if req.ImageURL != "" {
		user.ImageURL = &req.ImageURL
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users without credentials
func (s *userService) List(ctx context.Context, identity authz.Identity) ([]*User, error) {
	if !identity.Authenticated {
		return nil, authz.ErrUnauthenticated
	}
	return s.repo.List(ctx)
}

// UpdateRole sets a user's role. Self-service or admin.
func (s *userService) UpdateRole(ctx context.Context, identity authz.Identity, targetUserID, role string) (*User, error) {
	if !identity.Authenticated {
		return nil, authz.ErrUnauthenticated
	}
	if targetUserID != identity.UserID {
		if err := authz.Authorize(identity, targetUserID, authz.OpAdminOnly); err != nil {
			return nil, err
		}
	}

	parsed := authz.ParseRole(role)

	user, err := s.repo.GetByID(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, targetUserID, parsed); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user.Role = parsed
	return user, nil
}

// ForgotPassword issues a reset token and mails a reset link.
// The token is also persisted so it can only be used while current.
func (s *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	token, err := auth.Sign(s.resetSecret, user.ID, user.Email, "", resetTokenTTL)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	expiresAt := time.Now().Add(resetTokenTTL).Unix()
	if err := s.repo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	body := fmt.Sprintf("<h1>Reset your password</h1><p>%s/api/user/reset-password/%s</p>", s.appBaseURL, token)
	if err := s.mailer.Send(user.Email, "Reset Password - Quill", body); err != nil {
		return fmt.Errorf("failed to send reset mail: %w", err)
	}

	s.logger.Info("password reset mail sent", "user", user.ID)
	return nil
}

// ResetPassword consumes a reset token and sets a new password
func (s *userService) ResetPassword(ctx context.Context, token, password, confirmPassword string) (*User, error) {
	if _, err := auth.Verify(s.resetSecret, token); err != nil {
		return nil, ErrResetTokenInvalid
	}

	// The stored token must match and be unexpired; a newer request or a
	// completed reset invalidates older links.
	user, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if len(password) < minPasswordLength {
		return nil, &ValidationError{Fields: []FieldError{{Field: "password", Message: "password too short"}}}
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	return user, nil
}

// Delete removes an account and its posts. Self or admin.
func (s *userService) Delete(ctx context.Context, identity authz.Identity, targetUserID string) error {
	if err := authz.Authorize(identity, targetUserID, authz.OpDelete); err != nil {
		return err
	}

	if _, err := s.repo.GetByID(ctx, targetUserID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, targetUserID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user", targetUserID, "by", identity.UserID)
	return nil
}

// validateAccountInput collects field errors shared by register and update
func validateAccountInput(email, name, password string) []FieldError {
	var fields []FieldError
	if _, err := mail.ParseAddress(strings.TrimSpace(email)); err != nil {
		fields = append(fields, FieldError{Field: "email", Message: "e-mail is invalid"})
	}
	if strings.TrimSpace(name) == "" {
		fields = append(fields, FieldError{Field: "name", Message: "name can not be empty"})
	}
	if len(password) < minPasswordLength {
		fields = append(fields, FieldError{Field: "password", Message: "password too short"})
	}
	return fields
}
