package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"Quill/internal/core/engagement"
)

type postgresEngagementRepo struct {
	db *sql.DB
}

// NewEngagementRepository creates a new PostgreSQL engagement repository
func NewEngagementRepository(db *sql.DB) engagement.Repository {
	return &postgresEngagementRepo{db: db}
}

// GetPostOwner returns the creator of a post
func (r *postgresEngagementRepo) GetPostOwner(ctx context.Context, postID string) (string, error) {
	var ownerID string
	err := r.db.QueryRowContext(ctx,
		`SELECT creator_id FROM posts WHERE id = $1`, postID,
	).Scan(&ownerID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", engagement.ErrPostNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get post owner: %w", err)
	}
	return ownerID, nil
}

// GetLike returns the user's like on a post
func (r *postgresEngagementRepo) GetLike(ctx context.Context, postID, userID string) (*engagement.Like, error) {
	var like engagement.Like
	err := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, user_id
		FROM likes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID).Scan(&like.ID, &like.PostID, &like.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, engagement.ErrLikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get like: %w", err)
	}
	return &like, nil
}

// GetUnlike returns the user's unlike on a post
func (r *postgresEngagementRepo) GetUnlike(ctx context.Context, postID, userID string) (*engagement.Unlike, error) {
	var unlike engagement.Unlike
	err := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, user_id
		FROM unlikes
		WHERE post_id = $1 AND user_id = $2
	`, postID, userID).Scan(&unlike.ID, &unlike.PostID, &unlike.UserID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, engagement.ErrUnlikeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get unlike: %w", err)
	}
	return &unlike, nil
}

// InsertLike inserts a like, removing any opposing unlike by the same user
// in the same transaction. This is the atomic remove-matching/insert
// primitive that keeps the like XOR unlike invariant free of lost-update
// races between a load and a save.
func (r *postgresEngagementRepo) InsertLike(ctx context.Context, like *engagement.Like) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM unlikes WHERE post_id = $1 AND user_id = $2`,
		like.PostID, like.UserID,
	); err != nil {
		return fmt.Errorf("failed to clear opposing unlike: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO likes (id, post_id, user_id) VALUES ($1, $2, $3)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		like.ID, like.PostID, like.UserID,
	); err != nil {
		return fmt.Errorf("failed to insert like: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit like: %w", err)
	}
	return nil
}

// DeleteLike removes a like by id. Idempotent.
func (r *postgresEngagementRepo) DeleteLike(ctx context.Context, likeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM likes WHERE id = $1`, likeID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	return nil
}

// InsertUnlike inserts an unlike, removing any opposing like by the same
// user in the same transaction.
func (r *postgresEngagementRepo) InsertUnlike(ctx context.Context, unlike *engagement.Unlike) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`,
		unlike.PostID, unlike.UserID,
	); err != nil {
		return fmt.Errorf("failed to clear opposing like: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO unlikes (id, post_id, user_id) VALUES ($1, $2, $3)
		 ON CONFLICT (post_id, user_id) DO NOTHING`,
		unlike.ID, unlike.PostID, unlike.UserID,
	); err != nil {
		return fmt.Errorf("failed to insert unlike: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unlike: %w", err)
	}
	return nil
}

// DeleteUnlike removes an unlike by id. Idempotent.
func (r *postgresEngagementRepo) DeleteUnlike(ctx context.Context, unlikeID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM unlikes WHERE id = $1`, unlikeID); err != nil {
		return fmt.Errorf("failed to delete unlike: %w", err)
	}
	return nil
}

// InsertComment appends a comment to a post
func (r *postgresEngagementRepo) InsertComment(ctx context.Context, comment *engagement.Comment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO comments (id, post_id, author_id, body, edited, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.Edited, comment.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

// GetComment returns a comment scoped to a post
func (r *postgresEngagementRepo) GetComment(ctx context.Context, postID, commentID string) (*engagement.Comment, error) {
	var comment engagement.Comment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, post_id, author_id, body, edited, created_at
		FROM comments
		WHERE id = $1 AND post_id = $2
	`, commentID, postID).Scan(
		&comment.ID, &comment.PostID, &comment.AuthorID,
		&comment.Body, &comment.Edited, &comment.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, engagement.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &comment, nil
}

// UpdateComment sets a comment's body and edited flag in place.
// The update is a single statement scoped to the comment row, not a
// load-then-save of the whole post.
func (r *postgresEngagementRepo) UpdateComment(ctx context.Context, commentID, body string, edited bool) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE comments SET body = $1, edited = $2 WHERE id = $3
	`, body, edited, commentID)
	if err != nil {
		return fmt.Errorf("failed to update comment: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return engagement.ErrCommentNotFound
	}
	return nil
}

// DeleteComment removes a comment by id
func (r *postgresEngagementRepo) DeleteComment(ctx context.Context, commentID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	return nil
}

// ListComments returns a post's comments, oldest first
func (r *postgresEngagementRepo) ListComments(ctx context.Context, postID string) ([]*engagement.Comment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, post_id, author_id, body, edited, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at ASC
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var result []*engagement.Comment
	for rows.Next() {
		var comment engagement.Comment
		if err := rows.Scan(
			&comment.ID, &comment.PostID, &comment.AuthorID,
			&comment.Body, &comment.Edited, &comment.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		result = append(result, &comment)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return result, nil
}

// IsFavorite reports whether the user has favorited the post
func (r *postgresEngagementRepo) IsFavorite(ctx context.Context, userID, postID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND post_id = $2)
	`, userID, postID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check favorite: %w", err)
	}
	return exists, nil
}

// AddFavorite records a favorite membership. Idempotent.
func (r *postgresEngagementRepo) AddFavorite(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO favorites (user_id, post_id) VALUES ($1, $2)
		ON CONFLICT (user_id, post_id) DO NOTHING
	`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	return nil
}

// RemoveFavorite removes a favorite membership. Idempotent.
func (r *postgresEngagementRepo) RemoveFavorite(ctx context.Context, userID, postID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM favorites WHERE user_id = $1 AND post_id = $2
	`, userID, postID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}
