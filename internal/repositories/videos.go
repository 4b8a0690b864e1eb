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

// PostgresVideoRepository persists videos and watch history.
type PostgresVideoRepository struct {
	pool db.Pool
}

// NewPostgresVideoRepository constructs a video repository backed by PostgreSQL.
func NewPostgresVideoRepository(pool db.Pool) *PostgresVideoRepository {
	return &PostgresVideoRepository{pool: pool}
}

// Create persists a new video.
func (r *PostgresVideoRepository) Create(ctx context.Context, video models.Video) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO videos (`+videoColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
    `, video.ID, video.OwnerID, video.Title, video.Description, video.VideoFile, video.Thumbnail,
		video.Duration, video.Views, video.IsPublished, video.CreatedAt, video.UpdatedAt)
	if err != nil {
		if mapped := classifyWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert video: %w", err)
	}

	return nil
}

// RecordView increments the view counter, appends the video to the viewer's
// watch history and returns the enriched video.
func (r *PostgresVideoRepository) RecordView(ctx context.Context, viewerID, videoID string, at time.Time) (models.EnrichedVideo, error) {
	var video models.EnrichedVideo
	err := runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `UPDATE videos SET views = views + 1 WHERE id = $1`, videoID)
		if err != nil {
			return fmt.Errorf("increment views: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}

		if _, err := tx.Exec(ctx, `
            INSERT INTO watch_history (user_id, video_id, watched_at)
            VALUES ($1, $2, $3)
            ON CONFLICT (user_id, video_id) DO NOTHING
        `, viewerID, videoID, at); err != nil {
			return fmt.Errorf("record watch history: %w", err)
		}

		row := tx.QueryRow(ctx, `SELECT `+feed.EnrichedVideoColumns+`
            FROM `+feed.EnrichedVideoFrom+`
            WHERE v.id = $1`, videoID)
		video, err = scanEnrichedVideo(row)
		if err != nil {
			return fmt.Errorf("select video: %w", err)
		}
		return nil
	})
	if err != nil {
		return models.EnrichedVideo{}, err
	}

	return video, nil
}

// Update applies patch to a video owned by ownerID.
func (r *PostgresVideoRepository) Update(ctx context.Context, ownerID, videoID string, patch models.VideoPatch, at time.Time) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var video models.Video
	err = conn.QueryRow(ctx, `
        UPDATE videos
        SET title = COALESCE($3, title),
            description = COALESCE($4, description),
            thumbnail = COALESCE($5, thumbnail),
            updated_at = $6
        WHERE id = $1 AND owner_id = $2
        RETURNING `+videoColumns,
		videoID, ownerID, patch.Title, patch.Description, patch.Thumbnail, at).Scan(videoDest(&video)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("update video: %w", err)
	}

	return video, nil
}

// TogglePublish flips the published flag of a video owned by ownerID.
func (r *PostgresVideoRepository) TogglePublish(ctx context.Context, ownerID, videoID string, at time.Time) (models.Video, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Video{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var video models.Video
	err = conn.QueryRow(ctx, `
        UPDATE videos
        SET is_published = NOT is_published, updated_at = $3
        WHERE id = $1 AND owner_id = $2
        RETURNING `+videoColumns,
		videoID, ownerID, at).Scan(videoDest(&video)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Video{}, ErrNotFound
		}
		return models.Video{}, fmt.Errorf("toggle publish: %w", err)
	}

	return video, nil
}

// Delete removes a video owned by ownerID together with the likes on it and
// on its comments. Comments and watch history rows cascade.
func (r *PostgresVideoRepository) Delete(ctx context.Context, ownerID, videoID string) error {
	return runInTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
            DELETE FROM likes
            WHERE (target_kind = 'video' AND target_id = $1)
               OR (target_kind = 'comment' AND target_id IN (SELECT id FROM comments WHERE video_id = $1))
        `, videoID); err != nil {
			return fmt.Errorf("delete video likes: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM videos WHERE id = $1 AND owner_id = $2`, videoID, ownerID)
		if err != nil {
			return fmt.Errorf("delete video: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// WatchHistory lists the videos userID has watched, oldest first.
func (r *PostgresVideoRepository) WatchHistory(ctx context.Context, userID string) ([]models.WatchEntry, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+feed.EnrichedVideoColumns+`, w.watched_at
        FROM watch_history w
        JOIN videos v ON v.id = w.video_id
        LEFT JOIN users u ON u.id = v.owner_id
        WHERE w.user_id = $1
        ORDER BY w.watched_at ASC, v.id ASC
    `, userID)
	if err != nil {
		return nil, fmt.Errorf("query watch history: %w", err)
	}
	defer rows.Close()

	entries := []models.WatchEntry{}
	for rows.Next() {
		var entry models.WatchEntry
		entry.Video, err = scanEnrichedVideo(rows, &entry.WatchedAt)
		if err != nil {
			return nil, fmt.Errorf("scan watch entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watch history: %w", err)
	}

	return entries, nil
}

// QueryVideos runs a feed listing query.
func (r *PostgresVideoRepository) QueryVideos(ctx context.Context, q feed.VideoQuery) ([]models.EnrichedVideo, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	query, args := q.SQL()
	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query videos: %w", err)
	}
	defer rows.Close()

	videos := []models.EnrichedVideo{}
	for rows.Next() {
		video, err := scanEnrichedVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate videos: %w", err)
	}

	return videos, nil
}
