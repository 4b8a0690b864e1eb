package handlers

import (
	"context"

	"github.com/vidtube/backend/internal/catalog"
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/models"
)

// VideoService manages the video catalog on behalf of an actor.
type VideoService interface {
	Publish(ctx context.Context, actorID string, in catalog.PublishInput) (models.Video, error)
	Get(ctx context.Context, actorID, videoID string) (models.EnrichedVideo, error)
	Update(ctx context.Context, actorID, videoID string, patch models.VideoPatch) (models.Video, error)
	Delete(ctx context.Context, actorID, videoID string) error
	TogglePublish(ctx context.Context, actorID, videoID string) (models.Video, error)
	WatchHistory(ctx context.Context, actorID string) ([]models.WatchEntry, error)
}

// FeedService composes paginated and enriched listings.
type FeedService interface {
	ListVideos(ctx context.Context, params feed.VideoParams) ([]models.EnrichedVideo, error)
	ListChannelVideos(ctx context.Context, channelID string, page, limit int) ([]models.EnrichedVideo, error)
	ListComments(ctx context.Context, videoID string, page, limit int) ([]models.EnrichedComment, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberEntry, error)
	ListSubscriptions(ctx context.Context, subscriberID string) ([]models.SubscribedChannelEntry, error)
}

// CommentService manages comments on videos.
type CommentService interface {
	Add(ctx context.Context, actorID, videoID, text string) (models.Comment, error)
	Update(ctx context.Context, actorID, commentID, text string) (models.Comment, error)
	Delete(ctx context.Context, actorID, commentID string) error
}

// TweetService manages tweets.
type TweetService interface {
	Create(ctx context.Context, actorID, content string) (models.Tweet, error)
	ListByUser(ctx context.Context, userID string) ([]models.Tweet, error)
	Update(ctx context.Context, actorID, tweetID, content string) (models.Tweet, error)
	Delete(ctx context.Context, actorID, tweetID string) error
}

// InteractionService toggles likes and subscriptions.
type InteractionService interface {
	ToggleVideoLike(ctx context.Context, actorID, videoID string) (models.ToggleResult, error)
	ToggleCommentLike(ctx context.Context, actorID, commentID string) (models.ToggleResult, error)
	ToggleTweetLike(ctx context.Context, actorID, tweetID string) (models.ToggleResult, error)
	ToggleSubscription(ctx context.Context, actorID, channelID string) (models.ToggleResult, error)
	LikedVideos(ctx context.Context, actorID string) ([]models.LikedVideo, error)
}

// StatsService reports channel statistics.
type StatsService interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}
