package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresTweetRepository persists tweets.
type PostgresTweetRepository struct {
	pool db.Pool
}

// NewPostgresTweetRepository constructs a tweet repository backed by PostgreSQL.
func NewPostgresTweetRepository(pool db.Pool) *PostgresTweetRepository {
	return &PostgresTweetRepository{pool: pool}
}

// Create persists a new tweet.
func (r *PostgresTweetRepository) Create(ctx context.Context, tweet models.Tweet) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO tweets (id, owner_id, content, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `, tweet.ID, tweet.OwnerID, tweet.Content, tweet.CreatedAt, tweet.UpdatedAt)
	if err != nil {
		if mapped := classifyWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert tweet: %w", err)
	}

	return nil
}

// ListByOwner returns the tweets of ownerID, newest first.
func (r *PostgresTweetRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT id, owner_id, content, created_at, updated_at
        FROM tweets
        WHERE owner_id = $1
        ORDER BY created_at DESC, id DESC
    `, ownerID)
	if err != nil {
		return nil, fmt.Errorf("query tweets: %w", err)
	}
	defer rows.Close()

	tweets := []models.Tweet{}
	for rows.Next() {
		var tweet models.Tweet
		if err := rows.Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tweets: %w", err)
	}

	return tweets, nil
}

// Update replaces the content of a tweet owned by ownerID.
func (r *PostgresTweetRepository) Update(ctx context.Context, ownerID, tweetID, content string, at time.Time) (models.Tweet, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Tweet{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var tweet models.Tweet
	err = conn.QueryRow(ctx, `
        UPDATE tweets
        SET content = $3, updated_at = $4
        WHERE id = $1 AND owner_id = $2
        RETURNING id, owner_id, content, created_at, updated_at
    `, tweetID, ownerID, content, at).Scan(&tweet.ID, &tweet.OwnerID, &tweet.Content, &tweet.CreatedAt, &tweet.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Tweet{}, ErrNotFound
		}
		return models.Tweet{}, fmt.Errorf("update tweet: %w", err)
	}

	return tweet, nil
}

// Delete removes a tweet owned by ownerID and the likes on it.
func (r *PostgresTweetRepository) Delete(ctx context.Context, ownerID, tweetID string) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM tweets WHERE id = $1 AND owner_id = $2`, tweetID, ownerID)
		if err != nil {
			return fmt.Errorf("delete tweet: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `DELETE FROM likes WHERE target_kind = 'tweet' AND target_id = $1`, tweetID); err != nil {
			return fmt.Errorf("delete tweet likes: %w", err)
		}
		return nil
	})
}
