package engagement

import "time"

// Like represents a single user's like on a post.
// A user holds at most one like and at most one unlike per post, and never
// both at once; the repository enforces the exclusivity atomically.
type Like struct {
	ID     string `json:"id"`
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// Unlike represents a single user's unlike on a post.
type Unlike struct {
	ID     string `json:"id"`
	PostID string `json:"postId"`
	UserID string `json:"userId"`
}

// Comment represents a comment on a post.
// Edited is monotonic: it becomes true on the first text-changing edit and
// never resets.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"userId"`
	Body      string    `json:"text"`
	Edited    bool      `json:"edited"`
	CreatedAt time.Time `json:"date"`
}

// ReactionResult is the outcome of a like/unlike toggle.
// ID is the reaction's identity: the newly inserted one on the creation
// path, the removed one on the toggle-off path.
type ReactionResult struct {
	ID      string `json:"id"`
	PostID  string `json:"postId"`
	Removed bool   `json:"removed"`
}

// LikeEvent is emitted on the like creation path only (never on toggle-off,
// never for unlikes) and feeds the notification pipeline.
type LikeEvent struct {
	PostID      string
	LikerID     string
	PostOwnerID string
}
