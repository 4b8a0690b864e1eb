package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vidtube/backend/internal/catalog"
	"github.com/vidtube/backend/internal/config"
	"github.com/vidtube/backend/internal/db"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/handlers"
	"github.com/vidtube/backend/internal/interactions"
	"github.com/vidtube/backend/internal/media"
	"github.com/vidtube/backend/internal/middleware"
	"github.com/vidtube/backend/internal/repositories"
	"github.com/vidtube/backend/internal/stats"
	"github.com/vidtube/backend/internal/storage"
)

// limiterIdleTTL is how long an idle actor's toggle budget is remembered.
const limiterIdleTTL = 10 * time.Minute

var (
	_ catalog.VideoStore    = (*repositories.PostgresVideoRepository)(nil)
	_ catalog.CommentStore  = (*repositories.PostgresCommentRepository)(nil)
	_ catalog.TweetStore    = (*repositories.PostgresTweetRepository)(nil)
	_ catalog.MediaUploader = (*media.Uploader)(nil)
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	videoRepo := repositories.NewPostgresVideoRepository(pool)
	commentRepo := repositories.NewPostgresCommentRepository(pool)
	subscriptionRepo := repositories.NewPostgresSubscriptionRepository(pool)

	var uploader catalog.MediaUploader
	if cfg.ObjectStore.Bucket != "" {
		objectStore, err := storage.NewS3Storage(ctx, cfg.ObjectStore)
		if err != nil {
			return handlers.Dependencies{}, fmt.Errorf("configure object storage: %w", err)
		}
		prober := media.NewFFprobeProber(cfg.FFprobePath, cfg.FFprobeTimeout)
		uploader = media.NewUploader(objectStore, prober, slog.Default())
	} else {
		slog.Default().Warn("object storage bucket not configured, video publishing disabled")
	}

	var statsSource stats.Source = repositories.NewPostgresStatsRepository(pool)
	if cfg.StatsCacheTTL > 0 {
		statsSource = stats.NewCachingSource(statsSource, cfg.StatsCacheTTL)
	}

	return handlers.Dependencies{
		Videos:   catalog.NewVideos(videoRepo, uploader),
		Comments: catalog.NewComments(commentRepo),
		Tweets:   catalog.NewTweets(repositories.NewPostgresTweetRepository(pool)),
		Feed: feed.NewComposer(repositories.FeedStore{
			PostgresVideoRepository:        videoRepo,
			PostgresCommentRepository:      commentRepo,
			PostgresSubscriptionRepository: subscriptionRepo,
		}, cfg.MaxPageSize),
		Interactions: interactions.NewEngine(repositories.InteractionStore{
			PostgresLikeRepository:         repositories.NewPostgresLikeRepository(pool),
			PostgresSubscriptionRepository: subscriptionRepo,
		}),
		Stats:       stats.NewService(statsSource),
		HealthCheck: func(ctx context.Context) error { return db.Ping(ctx, pool) },
		ToggleLimiter: middleware.NewKeyedRateLimiter(
			cfg.ToggleRateLimit.Requests,
			cfg.ToggleRateLimit.Window,
			cfg.ToggleRateLimit.Burst,
			limiterIdleTTL,
		),
		DefaultPageSize: cfg.DefaultPageSize,
	}, nil
}
