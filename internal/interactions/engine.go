// Package interactions implements the toggleable social relations: likes on
// videos, comments and tweets, and channel subscriptions.
//
// A relation is either absent or present for a given (actor, target) pair.
// Toggling flips it and reports the resulting state. Atomicity and uniqueness
// are the store's responsibility: implementations must guarantee that
// concurrent toggles on the same pair never leave more than one record and
// that each call observes the state left by the previous one.
package interactions

import (
	"context"
	"log/slog"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// Store persists relation records.
type Store interface {
	// ToggleLike flips the like of userID on target and reports whether it
	// exists afterwards.
	ToggleLike(ctx context.Context, userID string, target models.LikeTarget) (bool, error)
	// ToggleSubscription flips the subscription of subscriberID to channelID
	// and reports whether it exists afterwards.
	ToggleSubscription(ctx context.Context, subscriberID, channelID string) (bool, error)
	ListLikedVideos(ctx context.Context, userID string) ([]models.LikedVideo, error)
}

// Engine validates toggle requests and delegates the flip to the store.
type Engine struct {
	store Store
}

// NewEngine constructs an Engine backed by store.
func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// ToggleVideoLike flips the actor's like on a video.
func (e *Engine) ToggleVideoLike(ctx context.Context, actorID, videoID string) (models.ToggleResult, error) {
	return e.ToggleLike(ctx, actorID, models.VideoTarget(videoID))
}

// ToggleCommentLike flips the actor's like on a comment.
func (e *Engine) ToggleCommentLike(ctx context.Context, actorID, commentID string) (models.ToggleResult, error) {
	return e.ToggleLike(ctx, actorID, models.CommentTarget(commentID))
}

// ToggleTweetLike flips the actor's like on a tweet.
func (e *Engine) ToggleTweetLike(ctx context.Context, actorID, tweetID string) (models.ToggleResult, error) {
	return e.ToggleLike(ctx, actorID, models.TweetTarget(tweetID))
}

// ToggleLike flips the actor's like on target.
func (e *Engine) ToggleLike(ctx context.Context, actorID string, target models.LikeTarget) (models.ToggleResult, error) {
	if !target.Kind.Valid() {
		return models.ToggleResult{}, apperrors.InvalidIdentifier("invalid like target")
	}
	actorID, err := ids.Parse("user", actorID)
	if err != nil {
		return models.ToggleResult{}, err
	}
	target.ID, err = ids.Parse(string(target.Kind), target.ID)
	if err != nil {
		return models.ToggleResult{}, err
	}

	ctx, span := logging.StartSpan(ctx, "interactions.toggle_like")
	defer span.End()

	active, err := e.store.ToggleLike(ctx, actorID, target)
	if err != nil {
		span.Fail(err)
		return models.ToggleResult{}, apperrors.Internal("failed to toggle like", err)
	}

	logging.FromContext(ctx).Info("like toggled",
		slog.String("target_kind", string(target.Kind)),
		slog.String("target_id", target.ID),
		slog.Bool("active", active),
	)
	return models.ToggleResult{Active: active}, nil
}

// ToggleSubscription flips the actor's subscription to channelID. Subscribing
// to oneself is always forbidden.
func (e *Engine) ToggleSubscription(ctx context.Context, actorID, channelID string) (models.ToggleResult, error) {
	channelID, err := ids.Parse("channel", channelID)
	if err != nil {
		return models.ToggleResult{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.ToggleResult{}, err
	}
	if actorID == channelID {
		return models.ToggleResult{}, apperrors.Forbidden("you cannot subscribe to yourself")
	}

	ctx, span := logging.StartSpan(ctx, "interactions.toggle_subscription")
	defer span.End()

	active, err := e.store.ToggleSubscription(ctx, actorID, channelID)
	if err != nil {
		span.Fail(err)
		return models.ToggleResult{}, apperrors.Internal("failed to toggle subscription", err)
	}

	logging.FromContext(ctx).Info("subscription toggled",
		slog.String("channel_id", channelID),
		slog.Bool("active", active),
	)
	return models.ToggleResult{Active: active}, nil
}

// LikedVideos lists the videos the actor currently likes, most recent first.
func (e *Engine) LikedVideos(ctx context.Context, actorID string) ([]models.LikedVideo, error) {
	actorID, err := ids.Parse("user", actorID)
	if err != nil {
		return nil, err
	}

	liked, err := e.store.ListLikedVideos(ctx, actorID)
	if err != nil {
		return nil, apperrors.Internal("failed to list liked videos", err)
	}
	if liked == nil {
		liked = []models.LikedVideo{}
	}
	return liked, nil
}
