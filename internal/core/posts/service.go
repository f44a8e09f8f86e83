package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"Quill/internal/core/authz"
)

const (
	// DefaultPageSize is used when the caller doesn't specify one
	DefaultPageSize = 20

	// MaxPageSize caps a single page to keep queries bounded
	MaxPageSize = 100
)

type postService struct {
	repo   Repository
	images ImageStore
	logger *slog.Logger
}

// NewPostService creates a new post service.
// images may be nil when no image storage is wired (release requests are
// then dropped).
func NewPostService(repo Repository, images ImageStore, logger *slog.Logger) Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &postService{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// ListPublic returns public posts, newest first. Open to anonymous callers;
// the authorization gate is bypassed entirely for public reads.
func (s *postService) ListPublic(ctx context.Context, page, size int) (*PostList, error) {
	page, size = clampPage(page, size)

	items, total, err := s.repo.ListPublic(ctx, size, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to list public posts: %w", err)
	}

	return &PostList{Posts: items, Total: total, Page: page, Size: size}, nil
}

// ListAll returns every post. Admin only.
func (s *postService) ListAll(ctx context.Context, identity authz.Identity, opts ListOptions) (*PostList, error) {
	if err := authz.Authorize(identity, "", authz.OpAdminOnly); err != nil {
		return nil, err
	}

	opts.Page, opts.Size = clampPage(opts.Page, opts.Size)
	opts.Search = strings.TrimSpace(opts.Search)

	items, total, err := s.repo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	return &PostList{Posts: items, Total: total, Page: opts.Page, Size: opts.Size}, nil
}

// ListPrivate returns the caller's own posts
func (s *postService) ListPrivate(ctx context.Context, identity authz.Identity) ([]*Post, error) {
	if err := authz.Authorize(identity, identity.UserID, authz.OpReadPrivate); err != nil {
		return nil, err
	}

	items, err := s.repo.ListByCreator(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list private posts: %w", err)
	}
	return items, nil
}

// ListFavorites returns the caller's favorited posts
func (s *postService) ListFavorites(ctx context.Context, identity authz.Identity) ([]*Post, error) {
	if err := authz.Authorize(identity, identity.UserID, authz.OpReadPrivate); err != nil {
		return nil, err
	}

	items, err := s.repo.ListFavorites(ctx, identity.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	return items, nil
}

// Get returns a single post. Public posts bypass the gate; private posts
// require any authenticated identity (ownership is not checked on read).
func (s *postService) Get(ctx context.Context, postID string, identity authz.Identity) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if post.Status == StatusPrivate {
		if err := authz.Authorize(identity, post.CreatorID, authz.OpReadPrivate); err != nil {
			return nil, err
		}
	}

	return post, nil
}

// Create validates and stores a new post owned by the caller
func (s *postService) Create(ctx context.Context, identity authz.Identity, req CreatePostRequest) (*Post, error) {
	if !identity.Authenticated {
		return nil, authz.ErrUnauthenticated
	}

	status, fields := validatePostInput(req.Title, req.Content, req.Status)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	now := time.Now().UTC()
	post := &Post{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Status:    status,
		CreatorID: identity.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.ImageURL != "" {
		post.ImageURL = &req.ImageURL
	}

	if err := s.repo.Insert(ctx, post, req.CategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to insert post: %w", err)
	}

	s.logger.Info("post created",
		"post", post.ID,
		"creator", identity.UserID,
		"status", post.Status)
	return post, nil
}

// Update rewrites a post's content. Owner or admin.
func (s *postService) Update(ctx context.Context, identity authz.Identity, postID string, req UpdatePostRequest) (*Post, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := authz.Authorize(identity, post.CreatorID, authz.OpMutate); err != nil {
		return nil, err
	}

	status, fields := validatePostInput(req.Title, req.Content, req.Status)
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Replacing the image releases the old file
	oldImage := post.ImageURL
	if req.ImageURL != "" && oldImage != nil && req.ImageURL != *oldImage {
		s.releaseImage(*oldImage)
	}

	post.Title = strings.TrimSpace(req.Title)
	post.Content = req.Content
	post.Status = status
	post.UpdatedAt = time.Now().UTC()
	if req.ImageURL != "" {
		post.ImageURL = &req.ImageURL
	}

	if err := s.repo.Update(ctx, post, req.CategoryIDs); err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return post, nil
}

// UpdateStatus changes only a post's visibility
func (s *postService) UpdateStatus(ctx context.Context, identity authz.Identity, postID, status string) error {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := authz.Authorize(identity, post.CreatorID, authz.OpMutate); err != nil {
		return err
	}

	normalized, ok := NormalizeStatus(status)
	if !ok {
		return NewValidationError("status", "status must be 'public' or 'private'")
	}

	if err := s.repo.UpdateStatus(ctx, postID, normalized); err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}
	return nil
}

// Delete removes a post and releases its image file exactly once
func (s *postService) Delete(ctx context.Context, identity authz.Identity, postID string) (string, error) {
	post, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return "", err
	}

	if err := authz.Authorize(identity, post.CreatorID, authz.OpDelete); err != nil {
		return "", err
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return "", fmt.Errorf("failed to delete post: %w", err)
	}

	// Exactly one release request per deleted image. The release happens
	// after the row is gone so a failed delete never orphans the post.
	if post.ImageURL != nil {
		s.releaseImage(*post.ImageURL)
	}

	s.logger.Info("post deleted",
		"post", postID,
		"by", identity.UserID)
	return postID, nil
}

func (s *postService) releaseImage(path string) {
	if s.images == nil || path == "" {
		return
	}
	if err := s.images.Remove(path); err != nil {
		s.logger.Error("failed to release image file",
			"error", err,
			"path", path)
	}
}

// validatePostInput collects field errors for the shared create/update
// validation and returns the normalized status.
func validatePostInput(title, content, status string) (string, []FieldError) {
	var fields []FieldError
	if strings.TrimSpace(title) == "" {
		fields = append(fields, FieldError{Field: "title", Message: "title is required"})
	}
	if strings.TrimSpace(content) == "" {
		fields = append(fields, FieldError{Field: "content", Message: "content is required"})
	}
	normalized, ok := NormalizeStatus(status)
	if !ok {
		fields = append(fields, FieldError{Field: "postStatus", Message: "status must be 'public' or 'private'"})
	}
	return normalized, fields
}

func clampPage(page, size int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}
