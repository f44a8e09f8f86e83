package notifications

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"Quill/internal/core/engagement"
	"Quill/internal/core/presence"
)

// pushEvent is the realtime event name for server-pushed notifications
const pushEvent = "newNotification"

type notificationService struct {
	repo     Repository
	names    NameResolver
	registry *presence.Registry
	pusher   Pusher
	logger   *slog.Logger
}

// NewNotificationService creates a new notification service.
// pusher may be nil (no realtime transport wired); stage 2 is then skipped.
func NewNotificationService(
	repo Repository,
	names NameResolver,
	registry *presence.Registry,
	pusher Pusher,
	logger *slog.Logger,
) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &notificationService{
		repo:     repo,
		names:    names,
		registry: registry,
		pusher:   pusher,
		logger:   logger,
	}
}

// NotifyLike runs the two-stage pipeline for a like event.
// Failures never propagate to the caller: the like already succeeded.
func (s *notificationService) NotifyLike(ctx context.Context, event engagement.LikeEvent) {
	senderName, err := s.names.GetName(ctx, event.LikerID)
	if err != nil {
		s.logger.Error("failed to resolve liker name",
			"error", err,
			"liker", event.LikerID)
		senderName = "Someone"
	}

	message := fmt.Sprintf("%s has liked your post", senderName)

	// Stage 1: durable copy. A failure here is degraded-success, not an
	// error surfaced to the end user.
	notification := &Notification{
		ID:          uuid.NewString(),
		Message:     message,
		SenderID:    event.LikerID,
		RecipientID: event.PostOwnerID,
		Post:        PostRef{ID: event.PostID},
		IsRead:      false,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, notification); err != nil {
		s.logger.Error("failed to persist notification",
			"error", err,
			"recipient", event.PostOwnerID,
			"post", event.PostID)
	}

	// Stage 2: best-effort realtime delivery. Attempted regardless of
	// stage 1's outcome; absent presence or a transport error is expected,
	// not exceptional.
	if s.pusher == nil || s.registry == nil {
		return
	}
	entry, ok := s.registry.LookupByUser(event.PostOwnerID)
	if !ok {
		// Recipient offline; they'll see the durable copy on next poll.
		return
	}

	payload := PushPayload{
		DeliveryID: uuid.NewString(),
		Message:    message,
		SenderID:   event.LikerID,
		PostID:     event.PostID,
	}
	if err := s.pusher.Push(entry.SessionID, pushEvent, payload); err != nil {
		s.logger.Debug("realtime push failed",
			"error", err,
			"session", entry.SessionID)
	}
}

// List returns the user's notifications, newest first
func (s *notificationService) List(ctx context.Context, userID string) ([]*Notification, error) {
	if userID == "" {
		return nil, fmt.Errorf("userID is required")
	}

	result, err := s.repo.ListByRecipient(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return result, nil
}

// MarkAllRead marks the caller's unread notifications as read
func (s *notificationService) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}

	updated, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}

	s.logger.Info("marked notifications read",
		"recipient", userID,
		"count", updated)
	return nil
}
