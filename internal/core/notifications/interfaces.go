package notifications

import (
	"context"

	"Quill/internal/core/engagement"
)

// Service defines the notification pipeline.
// It consumes like events from the engagement ledger (it satisfies
// engagement.Notifier) and serves the recipient-facing read path.
type Service interface {
	// NotifyLike runs the two-stage pipeline for a like event:
	//
	//   Stage 1 (durable): persist a Notification for the post owner.
	//     A persistence failure is logged and swallowed; the like that
	//     triggered the event has already succeeded.
	//   Stage 2 (best-effort): if the owner has an open session, push an
	//     ephemeral payload to that session only. No presence, no retry,
	//     no queueing.
	//
	// Both stages are attempted; a stage 2 failure never rolls back stage 1.
	NotifyLike(ctx context.Context, event engagement.LikeEvent)

	// List returns the user's notifications, newest first, with the related
	// post's status projected.
	List(ctx context.Context, userID string) ([]*Notification, error)

	// MarkAllRead bulk-sets isRead on the caller's unread notifications.
	// Scoped to the requesting recipient.
	MarkAllRead(ctx context.Context, userID string) error
}

// Repository defines the data access interface for notifications.
type Repository interface {
	// Insert persists a notification.
	Insert(ctx context.Context, n *Notification) error

	// ListByRecipient returns a user's notifications, newest first, with
	// the related post's current status joined in.
	ListByRecipient(ctx context.Context, userID string) ([]*Notification, error)

	// MarkAllRead sets is_read=true for the recipient's unread rows and
	// returns how many were updated.
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

// NameResolver resolves a user's display name for the notification message.
type NameResolver interface {
	GetName(ctx context.Context, userID string) (string, error)
}

// Pusher delivers an ephemeral payload to a single realtime session.
// Implemented by the realtime gateway. Delivery is fire-and-forget.
type Pusher interface {
	Push(sessionID, event string, payload interface{}) error
}
