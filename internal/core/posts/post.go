package posts

import (
	"strings"
	"time"
)

// Post statuses. Input is matched case-insensitively and normalized to
// these values on write.
const (
	StatusPublic  = "public"
	StatusPrivate = "private"
)

// NormalizeStatus lowercases a status string and reports whether it is one
// of the known post statuses.
func NormalizeStatus(s string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	switch normalized {
	case StatusPublic, StatusPrivate:
		return normalized, true
	default:
		return "", false
	}
}

// Post represents a post with its creator projected and engagement counts
// computed from the ledger's state.
type Post struct {
	ID           string     `json:"id" db:"id"`
	Title        string     `json:"title" db:"title"`
	Content      string     `json:"content" db:"content"`
	Status       string     `json:"postStatus" db:"status"`
	ImageURL     *string    `json:"imageUrl,omitempty" db:"image_url"`
	CreatorID    string     `json:"creatorId" db:"creator_id"`
	Creator      *Creator   `json:"creator,omitempty" db:"-"`
	Categories   []Category `json:"categories,omitempty" db:"-"`
	LikeCount    int        `json:"likeCount" db:"like_count"`
	UnlikeCount  int        `json:"unlikeCount" db:"unlike_count"`
	CommentCount int        `json:"commentCount" db:"comment_count"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Creator is the projection of a post author's public fields.
// Credentials are never projected.
type Creator struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Email string `json:"email" db:"email"`
}

// Category is a post category reference.
type Category struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"category" db:"name"`
}

// CreatePostRequest represents input for creating a post
type CreatePostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Status      string   `json:"postStatus"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	CategoryIDs []string `json:"categories,omitempty"`
}

// UpdatePostRequest represents input for updating a post
type UpdatePostRequest struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Status      string   `json:"postStatus"`
	ImageURL    string   `json:"imageUrl,omitempty"`
	CategoryIDs []string `json:"categories,omitempty"`
}

// ListOptions carries pagination and filtering for post listings.
// Category filters by category id; Search is a case-insensitive substring
// match on the title.
type ListOptions struct {
	Category string
	Search   string
	Page     int
	Size     int
}

// PostList is a page of posts with the total match count.
type PostList struct {
	Posts []*Post `json:"posts"`
	Total int     `json:"total"`
	Page  int     `json:"page"`
	Size  int     `json:"size"`
}
