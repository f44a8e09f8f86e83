package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Quill/internal/core/notifications"
)

type postgresNotificationRepo struct {
	db *sql.DB
}

// NewNotificationRepository creates a new PostgreSQL notification repository
func NewNotificationRepository(db *sql.DB) notifications.Repository {
	return &postgresNotificationRepo{db: db}
}

// Insert persists a notification
func (r *postgresNotificationRepo) Insert(ctx context.Context, n *notifications.Notification) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (id, message, sender_id, recipient_id, post_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, n.ID, n.Message, n.SenderID, n.RecipientID, n.Post.ID, n.IsRead, n.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// ListByRecipient returns a user's notifications, newest first, with the
// related post's current status projected in
func (r *postgresNotificationRepo) ListByRecipient(ctx context.Context, userID string) ([]*notifications.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT n.id, n.message, n.sender_id, n.recipient_id,
		       n.post_id, COALESCE(p.status, ''),
		       n.is_read, n.created_at
		FROM notifications n
		LEFT JOIN posts p ON p.id = n.post_id
		WHERE n.recipient_id = $1
		ORDER BY n.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*notifications.Notification
	for rows.Next() {
		var n notifications.Notification
		var postID sql.NullString
		if err := rows.Scan(
			&n.ID, &n.Message, &n.SenderID, &n.RecipientID,
			&postID, &n.Post.Status,
			&n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		if postID.Valid {
			n.Post.ID = postID.String
		}
		result = append(result, &n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}
	return result, nil
}

// MarkAllRead sets is_read on the recipient's unread rows.
// Scoped to the recipient: other users' notifications are never touched.
func (r *postgresNotificationRepo) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE notifications
		SET is_read = TRUE
		WHERE recipient_id = $1 AND is_read = FALSE
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check update result: %w", err)
	}
	return affected, nil
}
