package repositories

import (
	"context"
	"fmt"

	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/models"
)

// PostgresStatsRepository computes channel statistics from the live tables.
type PostgresStatsRepository struct {
	pool db.Pool
}

// NewPostgresStatsRepository constructs a statistics source backed by PostgreSQL.
func NewPostgresStatsRepository(pool db.Pool) *PostgresStatsRepository {
	return &PostgresStatsRepository{pool: pool}
}

// ChannelStats counts the videos, subscribers, likes and views of channelID in
// a single statement. A channel with no rows yields zeros.
func (r *PostgresStatsRepository) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var stats models.ChannelStats
	err = conn.QueryRow(ctx, `
        SELECT
            (SELECT count(*) FROM videos WHERE owner_id = $1),
            (SELECT count(*) FROM subscriptions WHERE channel_id = $1),
            (SELECT count(*) FROM likes WHERE channel_id = $1),
            (SELECT COALESCE(sum(views), 0)::INT8 FROM videos WHERE owner_id = $1)
    `, channelID).Scan(&stats.TotalVideos, &stats.TotalSubscribers, &stats.TotalLikes, &stats.TotalViews)
	if err != nil {
		return models.ChannelStats{}, fmt.Errorf("select channel stats: %w", err)
	}

	return stats, nil
}
