package engagement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
)

type engagementService struct {
	repo     Repository
	notifier Notifier
}

// NewEngagementService creates a new engagement service.
// notifier may be nil, in which case like events are dropped.
func NewEngagementService(repo Repository, notifier Notifier) Service {
	return &engagementService{
		repo:     repo,
		notifier: notifier,
	}
}

// Like toggles the caller's like on a post
// Toggle logic:
//   - Already liked -> remove the like (toggle off), emit nothing
//   - Opposing unlike -> removed atomically with the like insert
//   - Otherwise -> insert like, emit LikeEvent
func (s *engagementService) Like(ctx context.Context, postID, userID string) (*ReactionResult, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "required")
	}
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}

	ownerID, err := s.repo.GetPostOwner(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to resolve post owner: %w", err)
	}

	existing, err := s.repo.GetLike(ctx, postID, userID)
	if err != nil && !errors.Is(err, ErrLikeNotFound) {
		return nil, fmt.Errorf("failed to check existing like: %w", err)
	}

	if existing != nil {
		// Toggle off: remove the like; the unlike-via-relike path emits no event
		log.Printf("[LIKE] toggle off: user %s on post %s", userID, postID)
		if err := s.repo.DeleteLike(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to remove like: %w", err)
		}
		return &ReactionResult{ID: existing.ID, PostID: postID, Removed: true}, nil
	}

	like := &Like{
		ID:     uuid.NewString(),
		PostID: postID,
		UserID: userID,
	}

	// InsertLike clears any opposing unlike in the same transaction
	if err := s.repo.InsertLike(ctx, like); err != nil {
		return nil, fmt.Errorf("failed to insert like: %w", err)
	}

	// Creation path only: hand the event to the notification pipeline.
	// Fire-and-forget; the like has already succeeded.
	if s.notifier != nil {
		s.notifier.NotifyLike(ctx, LikeEvent{
			PostID:      postID,
			LikerID:     userID,
			PostOwnerID: ownerID,
		})
	}

	return &ReactionResult{ID: like.ID, PostID: postID}, nil
}

// Unlike toggles the caller's unlike on a post. Symmetric to Like, but the
// pipeline is never notified.
func (s *engagementService) Unlike(ctx context.Context, postID, userID string) (*ReactionResult, error) {
	if postID == "" {
		return nil, NewValidationError("postId", "required")
	}
	if userID == "" {
		return nil, NewValidationError("userId", "required")
	}

	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to resolve post owner: %w", err)
	}

	existing, err := s.repo.GetUnlike(ctx, postID, userID)
	if err != nil && !errors.Is(err, ErrUnlikeNotFound) {
		return nil, fmt.Errorf("failed to check existing unlike: %w", err)
	}

	if existing != nil {
		if err := s.repo.DeleteUnlike(ctx, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to remove unlike: %w", err)
		}
		return &ReactionResult{ID: existing.ID, PostID: postID, Removed: true}, nil
	}

	unlike := &Unlike{
		ID:     uuid.NewString(),
		PostID: postID,
		UserID: userID,
	}

	// InsertUnlike clears any opposing like in the same transaction
	if err := s.repo.InsertUnlike(ctx, unlike); err != nil {
		return nil, fmt.Errorf("failed to insert unlike: %w", err)
	}

	return &ReactionResult{ID: unlike.ID, PostID: postID}, nil
}

// AddComment appends a comment to a post
func (s *engagementService) AddComment(ctx context.Context, postID, userID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewValidationError("text", "comment text is required")
	}

	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to resolve post: %w", err)
	}

	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  userID,
		Body:      body,
		Edited:    false,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.InsertComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	return comment, nil
}

// EditComment replaces a comment's text, tracking the edit
func (s *engagementService) EditComment(ctx context.Context, postID, commentID, userID, body string) (*Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, NewValidationError("text", "comment text is required")
	}

	comment, err := s.repo.GetComment(ctx, postID, commentID)
	if err != nil {
		if IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load comment: %w", err)
	}

	// Verify ownership: only the author may edit
	if comment.AuthorID != userID {
		return nil, ErrNotAuthorized
	}

	// Monotonic edit flag: once set it stays set; a no-op resubmit of the
	// same text leaves it untouched.
	edited := comment.Edited || body != comment.Body

	if err := s.repo.UpdateComment(ctx, commentID, body, edited); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	comment.Body = body
	comment.Edited = edited
	return comment, nil
}

// DeleteComment removes a comment
func (s *engagementService) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	comment, err := s.repo.GetComment(ctx, postID, commentID)
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return fmt.Errorf("failed to load comment: %w", err)
	}

	// Verify ownership: only the author may delete
	if comment.AuthorID != userID {
		return ErrNotAuthorized
	}

	if err := s.repo.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}

// ListComments returns a post's comments, oldest first
func (s *engagementService) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to resolve post: %w", err)
	}

	comments, err := s.repo.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// ToggleFavorite flips the caller's favorite membership for a post
func (s *engagementService) ToggleFavorite(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := s.repo.GetPostOwner(ctx, postID); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			return false, ErrPostNotFound
		}
		return false, fmt.Errorf("failed to resolve post: %w", err)
	}

	favorited, err := s.repo.IsFavorite(ctx, userID, postID)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite state: %w", err)
	}

	if favorited {
		if err := s.repo.RemoveFavorite(ctx, userID, postID); err != nil {
			return false, fmt.Errorf("failed to remove favorite: %w", err)
		}
		return false, nil
	}

	if err := s.repo.AddFavorite(ctx, userID, postID); err != nil {
		return false, fmt.Errorf("failed to add favorite: %w", err)
	}

	log.Printf("[ENGAGEMENT] user %s favorited post %s", userID, postID)
	return true, nil
}
