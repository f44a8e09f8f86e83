package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Quill/internal/core/posts"
)

// postColumns is the shared projection for post queries: the post row, the
// creator's public fields, and the engagement counts computed from the
// ledger's tables.
const postColumns = `
	p.id, p.title, p.content, p.status, p.image_url, p.creator_id,
	p.created_at, p.updated_at,
	u.id, u.name, u.email,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	(SELECT COUNT(*) FROM unlikes ul WHERE ul.post_id = p.id),
	(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)
`

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// Insert stores a new post and its category references
func (r *postgresPostRepo) Insert(ctx context.Context, post *posts.Post, categoryIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, status, image_url, creator_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, post.ID, post.Title, post.Content, post.Status, post.ImageURL,
		post.CreatorID, post.CreatedAt, post.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}

	if err := replaceCategories(ctx, tx, post.ID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post: %w", err)
	}
	return nil
}

// Update rewrites a post's content fields and category references
func (r *postgresPostRepo) Update(ctx context.Context, post *posts.Post, categoryIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `
		UPDATE posts
		SET title = $1, content = $2, status = $3, image_url = $4, updated_at = $5
		WHERE id = $6
	`, post.Title, post.Content, post.Status, post.ImageURL, post.UpdatedAt, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}

	if err := replaceCategories(ctx, tx, post.ID, categoryIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit post update: %w", err)
	}
	return nil
}

// UpdateStatus sets only the status column
func (r *postgresPostRepo) UpdateStatus(ctx context.Context, postID, status string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE posts SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, postID)
	if err != nil {
		return fmt.Errorf("failed to update post status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// Delete removes a post; reactions, comments and favorites cascade
func (r *postgresPostRepo) Delete(ctx context.Context, postID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, postID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

// GetByID returns a post with creator, counts and categories projected
func (r *postgresPostRepo) GetByID(ctx context.Context, postID string) (*posts.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.id = $1
	`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, postID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	categories, err := r.listPostCategories(ctx, postID)
	if err != nil {
		return nil, err
	}
	post.Categories = categories

	return post, nil
}

// ListPublic returns public posts newest first with the total count
func (r *postgresPostRepo) ListPublic(ctx context.Context, limit, offset int) ([]*posts.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM posts WHERE LOWER(status) = $1`, posts.StatusPublic,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count public posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE LOWER(p.status) = $1
		ORDER BY p.created_at DESC
		LIMIT $2 OFFSET $3
	`

	items, err := r.queryPosts(ctx, query, posts.StatusPublic, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// List returns all posts newest first with optional category and title
// filters and the total match count
func (r *postgresPostRepo) List(ctx context.Context, opts posts.ListOptions) ([]*posts.Post, int, error) {
	where := "TRUE"
	args := []interface{}{}
	n := 0

	if opts.Category != "" {
		n++
		where += fmt.Sprintf(` AND EXISTS(
			SELECT 1 FROM post_categories pc
			WHERE pc.post_id = p.id AND pc.category_id = $%d)`, n)
		args = append(args, opts.Category)
	}
	if opts.Search != "" {
		n++
		where += fmt.Sprintf(" AND p.title ILIKE $%d", n)
		args = append(args, "%"+opts.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM posts p WHERE ` + where
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE ` + where + `
		ORDER BY p.created_at DESC
		LIMIT $` + fmt.Sprint(n+1) + ` OFFSET $` + fmt.Sprint(n+2)
	args = append(args, opts.Size, (opts.Page-1)*opts.Size)

	items, err := r.queryPosts(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// ListByCreator returns a user's posts, newest first
func (r *postgresPostRepo) ListByCreator(ctx context.Context, userID string) ([]*posts.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		WHERE p.creator_id = $1
		ORDER BY p.created_at DESC
	`
	return r.queryPosts(ctx, query, userID)
}

// ListFavorites returns the posts a user has favorited, newest first
func (r *postgresPostRepo) ListFavorites(ctx context.Context, userID string) ([]*posts.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.creator_id
		JOIN favorites f ON f.post_id = p.id
		WHERE f.user_id = $1
		ORDER BY p.created_at DESC
	`
	return r.queryPosts(ctx, query, userID)
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		result = append(result, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return result, nil
}

func (r *postgresPostRepo) listPostCategories(ctx context.Context, postID string) ([]posts.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.name
		FROM categories c
		JOIN post_categories pc ON pc.category_id = c.id
		WHERE pc.post_id = $1
		ORDER BY c.name
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list post categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []posts.Category
	for rows.Next() {
		var c posts.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

// replaceCategories rewrites a post's category references inside tx
func replaceCategories(ctx context.Context, tx *sql.Tx, postID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM post_categories WHERE post_id = $1`, postID,
	); err != nil {
		return fmt.Errorf("failed to clear post categories: %w", err)
	}
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO post_categories (post_id, category_id) VALUES ($1, $2)
			ON CONFLICT (post_id, category_id) DO NOTHING
		`, postID, categoryID); err != nil {
			return fmt.Errorf("failed to attach category: %w", err)
		}
	}
	return nil
}

// rowScanner lets scanPost work for both QueryRow and Query results
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*posts.Post, error) {
	var post posts.Post
	var creator posts.Creator

	err := row.Scan(
		&post.ID, &post.Title, &post.Content, &post.Status, &post.ImageURL,
		&post.CreatorID, &post.CreatedAt, &post.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Email,
		&post.LikeCount, &post.UnlikeCount, &post.CommentCount,
	)
	if err != nil {
		return nil, err
	}

	post.Creator = &creator
	return &post, nil
}
