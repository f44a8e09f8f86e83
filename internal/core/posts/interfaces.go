package posts

import (
	"context"

	"Quill/internal/core/authz"
)

// Service defines the business logic interface for posts: the read-path
// projections plus the authoring operations.
type Service interface {
	// ListPublic returns public posts, newest first, paginated, with the
	// total count. Open to anonymous callers.
	ListPublic(ctx context.Context, page, size int) (*PostList, error)

	// ListAll returns every post, admin only. Supports an optional category
	// filter and case-insensitive title search.
	ListAll(ctx context.Context, identity authz.Identity, opts ListOptions) (*PostList, error)

	// ListPrivate returns the caller's own posts.
	ListPrivate(ctx context.Context, identity authz.Identity) ([]*Post, error)

	// ListFavorites returns the caller's favorited posts.
	ListFavorites(ctx context.Context, identity authz.Identity) ([]*Post, error)

	// Get returns a single post with its comment count computed. Public
	// posts are readable anonymously; private posts require any
	// authenticated identity.
	Get(ctx context.Context, postID string, identity authz.Identity) (*Post, error)

	// Create validates and stores a new post owned by the caller.
	Create(ctx context.Context, identity authz.Identity, req CreatePostRequest) (*Post, error)

	// Update rewrites a post. Owner or admin. Replacing the image releases
	// the old file.
	Update(ctx context.Context, identity authz.Identity, postID string, req UpdatePostRequest) (*Post, error)

	// UpdateStatus changes only a post's visibility. Owner or admin.
	UpdateStatus(ctx context.Context, identity authz.Identity, postID, status string) error

	// Delete removes a post (owner or admin) and releases its image file
	// exactly once when one was attached.
	Delete(ctx context.Context, identity authz.Identity, postID string) (string, error)
}

// Repository defines the data access interface for posts.
type Repository interface {
	// Insert stores a new post and its category references.
	Insert(ctx context.Context, post *Post, categoryIDs []string) error

	// Update rewrites a post's content fields and category references.
	Update(ctx context.Context, post *Post, categoryIDs []string) error

	// UpdateStatus sets only the status column.
	UpdateStatus(ctx context.Context, postID, status string) error

	// Delete removes a post; reactions, comments and favorites cascade.
	Delete(ctx context.Context, postID string) error

	// GetByID returns a post with creator and counts projected, or
	// ErrNotFound.
	GetByID(ctx context.Context, postID string) (*Post, error)

	// ListPublic returns public posts newest first with the total count.
	ListPublic(ctx context.Context, limit, offset int) ([]*Post, int, error)

	// List returns all posts newest first, optionally filtered by category
	// and title substring, with the total count.
	List(ctx context.Context, opts ListOptions) ([]*Post, int, error)

	// ListByCreator returns a user's posts, newest first.
	ListByCreator(ctx context.Context, userID string) ([]*Post, error)

	// ListFavorites returns the posts a user has favorited, newest first.
	ListFavorites(ctx context.Context, userID string) ([]*Post, error)
}

// ImageStore releases stored image files. The post service emits exactly
// one release request per deleted image; the store is the collaborator
// that owns the file resource.
type ImageStore interface {
	Remove(path string) error
}
