package handlers

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/vidtube/backend/internal/feed"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Videos        VideoService
	Feed          FeedService
	Comments      CommentService
	Tweets        TweetService
	Interactions  InteractionService
	Stats         StatsService
	ToggleLimiter RateLimiter
	// HealthCheck probes the relation store for /healthz.
	HealthCheck func(ctx context.Context) error
	// DefaultPageSize applies when a listing request omits limit.
	DefaultPageSize int
}

// RegisterRoutes wires HTTP handlers into the provided router.
func RegisterRoutes(r chi.Router, deps Dependencies) {
	pageSize := deps.DefaultPageSize
	if pageSize <= 0 {
		pageSize = feed.DefaultPageSize
	}

	health := HealthHandler{Check: deps.HealthCheck}
	videos := VideoHandler{Videos: deps.Videos, Feed: deps.Feed, PageSize: pageSize}
	comments := CommentHandler{Comments: deps.Comments, Feed: deps.Feed, PageSize: pageSize}
	likes := LikeHandler{Interactions: deps.Interactions}
	subscriptions := SubscriptionHandler{Interactions: deps.Interactions, Feed: deps.Feed}
	tweets := TweetHandler{Tweets: deps.Tweets}
	dashboard := DashboardHandler{Stats: deps.Stats, Feed: deps.Feed, PageSize: pageSize}
	users := UserHandler{Videos: deps.Videos}

	toggleLimit := rateLimited(deps.ToggleLimiter, "toggle")

	r.Get("/healthz", health.Handle)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", videos.List)
			r.Post("/", videos.Publish)
			r.Get("/{videoId}", videos.Get)
			r.Patch("/{videoId}", videos.Update)
			r.Delete("/{videoId}", videos.Delete)
			r.Patch("/{videoId}/publish", videos.TogglePublish)
		})

		r.Route("/comments", func(r chi.Router) {
			r.Get("/{videoId}", comments.List)
			r.Post("/{videoId}", comments.Add)
			r.Patch("/c/{commentId}", comments.Update)
			r.Delete("/c/{commentId}", comments.Delete)
		})

		r.Route("/likes", func(r chi.Router) {
			r.With(toggleLimit).Post("/toggle/v/{videoId}", likes.ToggleVideo)
			r.With(toggleLimit).Post("/toggle/c/{commentId}", likes.ToggleComment)
			r.With(toggleLimit).Post("/toggle/t/{tweetId}", likes.ToggleTweet)
			r.Get("/videos", likes.LikedVideos)
		})

		r.Route("/subscriptions", func(r chi.Router) {
			r.With(toggleLimit).Post("/c/{channelId}", subscriptions.Toggle)
			r.Get("/c/{channelId}", subscriptions.Subscribers)
			r.Get("/u", subscriptions.Subscriptions)
		})

		r.Route("/tweets", func(r chi.Router) {
			r.Post("/", tweets.Create)
			r.Get("/user/{userId}", tweets.ListByUser)
			r.Patch("/{tweetId}", tweets.Update)
			r.Delete("/{tweetId}", tweets.Delete)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/stats/{channelId}", dashboard.ChannelStats)
			r.Get("/videos/{channelId}", dashboard.Videos)
		})

		r.Get("/users/history", users.History)
	})
}
