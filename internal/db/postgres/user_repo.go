package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"Quill/internal/core/authz"
	"Quill/internal/core/users"
)

type postgresUserRepo struct {
	db *sql.DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *sql.DB) users.Repository {
	return &postgresUserRepo{db: db}
}

// Insert stores a new account
func (r *postgresUserRepo) Insert(ctx context.Context, user *users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, name, image_url, role, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, user.ID, user.Email, user.Name, user.ImageURL, string(user.Role), user.PasswordHash, user.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID returns a user by id
func (r *postgresUserRepo) GetByID(ctx context.Context, userID string) (*users.User, error) {
	return r.getBy(ctx, "id = $1", userID)
}

// GetByEmail returns a user by email
func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *postgresUserRepo) getBy(ctx context.Context, where string, arg interface{}) (*users.User, error) {
	var user users.User
	var role string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, image_url, role, password_hash, created_at
		FROM users
		WHERE `+where,
		arg,
	).Scan(&user.ID, &user.Email, &user.Name, &user.ImageURL, &role, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = authz.ParseRole(role)
	return &user, nil
}

// Update rewrites profile fields and the password hash
func (r *postgresUserRepo) Update(ctx context.Context, user *users.User) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET email = $1, name = $2, image_url = $3, password_hash = $4
		WHERE id = $5
	`, user.Email, user.Name, user.ImageURL, user.PasswordHash, user.ID)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return users.ErrEmailTaken
		}
		return fmt.Errorf("failed to update user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// UpdateRole sets only the role column
func (r *postgresUserRepo) UpdateRole(ctx context.Context, userID string, role authz.Role) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET role = $1 WHERE id = $2`, string(role), userID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// List returns all users
func (r *postgresUserRepo) List(ctx context.Context) ([]*users.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, email, name, image_url, role, password_hash, created_at
		FROM users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*users.User
	for rows.Next() {
		var user users.User
		var role string
		if err := rows.Scan(
			&user.ID, &user.Email, &user.Name, &user.ImageURL,
			&role, &user.PasswordHash, &user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		user.Role = authz.ParseRole(role)
		result = append(result, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return result, nil
}

// SetResetToken stores a password reset token and its expiry (unix seconds)
func (r *postgresUserRepo) SetResetToken(ctx context.Context, userID, token string, expiresAt int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_reset_token = $1, password_reset_expires = to_timestamp($2)
		WHERE id = $3
	`, token, expiresAt, userID)
	if err != nil {
		return fmt.Errorf("failed to set reset token: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// GetByResetToken returns the user holding an unexpired reset token
func (r *postgresUserRepo) GetByResetToken(ctx context.Context, token string) (*users.User, error) {
	var user users.User
	var role string

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, name, image_url, role, password_hash, created_at
		FROM users
		WHERE password_reset_token = $1 AND password_reset_expires > NOW()
	`, token).Scan(&user.ID, &user.Email, &user.Name, &user.ImageURL, &role, &user.PasswordHash, &user.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, users.ErrResetTokenInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by reset token: %w", err)
	}

	user.Role = authz.ParseRole(role)
	return &user, nil
}

// UpdatePassword sets a new password hash and clears any reset token
func (r *postgresUserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $1, password_reset_token = NULL, password_reset_expires = NULL
		WHERE id = $2
	`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}

// Delete removes an account. Owned posts, reactions, comments, favorites
// and notifications cascade via foreign keys.
func (r *postgresUserRepo) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return users.ErrUserNotFound
	}
	return nil
}
