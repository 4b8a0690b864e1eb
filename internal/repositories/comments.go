package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/models"
)

// PostgresCommentRepository persists comments on videos.
type PostgresCommentRepository struct {
	pool db.Pool
}

// NewPostgresCommentRepository constructs a comment repository backed by PostgreSQL.
func NewPostgresCommentRepository(pool db.Pool) *PostgresCommentRepository {
	return &PostgresCommentRepository{pool: pool}
}

// Create persists a comment. ErrNotFound is returned when the video does not exist.
func (r *PostgresCommentRepository) Create(ctx context.Context, comment models.Comment) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO comments (id, video_id, owner_id, text, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, comment.ID, comment.VideoID, comment.OwnerID, comment.Text, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		if mapped := classifyWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// Update replaces the text of a comment owned by ownerID.
func (r *PostgresCommentRepository) Update(ctx context.Context, ownerID, commentID, text string, at time.Time) (models.Comment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Comment{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var comment models.Comment
	err = conn.QueryRow(ctx, `
        UPDATE comments
        SET text = $3, updated_at = $4
        WHERE id = $1 AND owner_id = $2
        RETURNING id, video_id, owner_id, text, created_at, updated_at
    `, commentID, ownerID, text, at).Scan(&comment.ID, &comment.VideoID, &comment.OwnerID, &comment.Text, &comment.CreatedAt, &comment.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Comment{}, ErrNotFound
		}
		return models.Comment{}, fmt.Errorf("update comment: %w", err)
	}

	return comment, nil
}

// Delete removes a comment owned by ownerID and the likes on it.
func (r *PostgresCommentRepository) Delete(ctx context.Context, ownerID, commentID string) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1 AND owner_id = $2`, commentID, ownerID)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE target_kind = 'comment' AND target_id = $1`, commentID); err != nil {
			return fmt.Errorf("delete comment likes: %w", err)
		}
		return nil
	})
}

// QueryComments lists one page of a video's comments, newest first.
func (r *PostgresCommentRepository) QueryComments(ctx context.Context, q feed.CommentQuery) ([]models.EnrichedComment, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query, args := q.SQL()
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.EnrichedComment{}
	for rows.Next() {
		comment, err := scanEnrichedComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate comments: %w", err)
	}

	return comments, nil
}
