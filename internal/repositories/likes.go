package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/models"
)

// targetOwner resolves the channel a like is attributed to. The subquery
// yields NULL when the target does not exist.
var targetOwner = map[models.TargetKind]string{
	models.TargetVideo:   `(SELECT owner_id FROM videos WHERE id = $3)`,
	models.TargetComment: `(SELECT owner_id FROM comments WHERE id = $3)`,
	models.TargetTweet:   `(SELECT owner_id FROM tweets WHERE id = $3)`,
}

// PostgresLikeRepository persists likes on videos, comments and tweets.
type PostgresLikeRepository struct {
	pool db.Pool
	now  func() time.Time
}

// NewPostgresLikeRepository constructs a like repository backed by PostgreSQL.
func NewPostgresLikeRepository(pool db.Pool) *PostgresLikeRepository {
	return &PostgresLikeRepository{pool: pool, now: time.Now}
}

// ToggleLike removes the like of userID on target when it exists and creates
// it otherwise. It reports whether the like exists afterwards.
func (r *PostgresLikeRepository) ToggleLike(ctx context.Context, userID string, target models.LikeTarget) (bool, error) {
	owner, ok := targetOwner[target.Kind]
	if !ok {
		return false, fmt.Errorf("unknown like target kind %q", target.Kind)
	}

	var active bool
	err := runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		const remove = `DELETE FROM likes WHERE user_id = $1 AND target_kind = $2 AND target_id = $3`

		tag, err := tx.Exec(ctx, remove, userID, string(target.Kind), target.ID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if tag.RowsAffected() > 0 {
			active = false
			return nil
		}

		tag, err = tx.Exec(ctx, `
            INSERT INTO likes (id, user_id, target_kind, target_id, channel_id, created_at)
            VALUES ($4, $1, $2, $3, `+owner+`, $5)
            ON CONFLICT (user_id, target_kind, target_id) DO NOTHING
        `, userID, string(target.Kind), target.ID, uuid.NewString(), r.now().UTC())
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if tag.RowsAffected() > 0 {
			active = true
			return nil
		}

		// A concurrent toggle created the like first; this toggle undoes it.
		if _, err := tx.Exec(ctx, remove, userID, string(target.Kind), target.ID); err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		active = false
		return nil
	})
	if err != nil {
		return false, err
	}

	return active, nil
}

// ListLikedVideos returns the videos userID has liked, most recent like first.
func (r *PostgresLikeRepository) ListLikedVideos(ctx context.Context, userID string) ([]models.LikedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+feed.EnrichedVideoColumns+`, l.id, l.created_at
        FROM likes l
        JOIN videos v ON v.id = l.target_id
        LEFT JOIN users u ON u.id = v.owner_id
        WHERE l.user_id = $1 AND l.target_kind = 'video'
        ORDER BY l.created_at DESC, l.id DESC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query liked videos: %w", err)
	}
	defer rows.Close()

	liked := []models.LikedVideo{}
	for rows.Next() {
		var entry models.LikedVideo
		entry.Video, err = scanEnrichedVideo(rows, &entry.LikeID, &entry.LikedAt)
		if err != nil {
			return nil, fmt.Errorf("scan liked video: %w", err)
		}
		liked = append(liked, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate liked videos: %w", err)
	}

	return liked, nil
}
