package engagement

import "context"

// Service defines the business logic interface for post engagement.
// It is the single source of truth for a post's reaction state.
type Service interface {
	// Like toggles the caller's like on a post.
	// Toggle logic:
	//   - No like -> insert like, clearing any opposing unlike atomically
	//   - Existing like -> remove it (toggle off)
	// Only the insert path emits a LikeEvent to the Notifier.
	Like(ctx context.Context, postID, userID string) (*ReactionResult, error)

	// Unlike toggles the caller's unlike on a post, clearing any opposing
	// like atomically. Never emits a notification event.
	Unlike(ctx context.Context, postID, userID string) (*ReactionResult, error)

	// AddComment appends a comment to a post with edited=false.
	AddComment(ctx context.Context, postID, userID, body string) (*Comment, error)

	// EditComment replaces a comment's text. Only the author may edit.
	// The edited flag is monotonic: it is set when it was already set or
	// when the new text differs from the stored text, and left untouched
	// on a no-op resubmit.
	EditComment(ctx context.Context, postID, commentID, userID, body string) (*Comment, error)

	// DeleteComment removes a comment. Only the author may delete.
	DeleteComment(ctx context.Context, postID, commentID, userID string) error

	// ListComments returns a post's comments, oldest first.
	ListComments(ctx context.Context, postID string) ([]*Comment, error)

	// ToggleFavorite flips the caller's favorite membership for a post and
	// returns the resulting state. No error on either direction, no
	// notification.
	ToggleFavorite(ctx context.Context, userID, postID string) (bool, error)
}

// Repository defines the data access interface for engagement state.
// Reaction mutations must be atomic remove-matching/insert primitives
// against the store so a load-then-save race cannot lose updates.
type Repository interface {
	// GetPostOwner returns the creator of a post, or ErrPostNotFound.
	GetPostOwner(ctx context.Context, postID string) (string, error)

	// GetLike returns the user's like on a post, or ErrLikeNotFound.
	GetLike(ctx context.Context, postID, userID string) (*Like, error)

	// GetUnlike returns the user's unlike on a post, or ErrUnlikeNotFound.
	GetUnlike(ctx context.Context, postID, userID string) (*Unlike, error)

	// InsertLike inserts a like, removing any unlike by the same user on
	// the same post in the same transaction.
	InsertLike(ctx context.Context, like *Like) error

	// DeleteLike removes a like by id. Idempotent.
	DeleteLike(ctx context.Context, likeID string) error

	// InsertUnlike inserts an unlike, removing any like by the same user on
	// the same post in the same transaction.
	InsertUnlike(ctx context.Context, unlike *Unlike) error

	// DeleteUnlike removes an unlike by id. Idempotent.
	DeleteUnlike(ctx context.Context, unlikeID string) error

	// InsertComment appends a comment to a post.
	InsertComment(ctx context.Context, comment *Comment) error

	// GetComment returns a comment scoped to a post, or ErrCommentNotFound.
	GetComment(ctx context.Context, postID, commentID string) (*Comment, error)

	// UpdateComment sets a comment's body and edited flag in place.
	UpdateComment(ctx context.Context, commentID, body string, edited bool) error

	// DeleteComment removes a comment by id.
	DeleteComment(ctx context.Context, commentID string) error

	// ListComments returns a post's comments, oldest first.
	ListComments(ctx context.Context, postID string) ([]*Comment, error)

	// IsFavorite reports whether the user has favorited the post.
	IsFavorite(ctx context.Context, userID, postID string) (bool, error)

	// AddFavorite records a favorite membership. Idempotent.
	AddFavorite(ctx context.Context, userID, postID string) error

	// RemoveFavorite removes a favorite membership. Idempotent.
	RemoveFavorite(ctx context.Context, userID, postID string) error
}

// Notifier consumes like events. Delivery is fire-and-forget: the ledger
// never learns whether the notification was persisted or pushed.
type Notifier interface {
	NotifyLike(ctx context.Context, event LikeEvent)
}
