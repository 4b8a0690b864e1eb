package catalog

import (
	"context"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/models"
)

// TweetStore persists tweets.
type TweetStore interface {
	Create(ctx context.Context, tweet models.Tweet) error
	ListByOwner(ctx context.Context, ownerID string) ([]models.Tweet, error)
	Update(ctx context.Context, ownerID, tweetID, content string, at time.Time) (models.Tweet, error)
	Delete(ctx context.Context, ownerID, tweetID string) error
}

// Tweets manages short text posts.
type Tweets struct {
	store   TweetStore
	NowFunc func() time.Time
}

// NewTweets constructs the tweet service.
func NewTweets(store TweetStore) *Tweets {
	return &Tweets{store: store}
}

// Create posts a tweet owned by the actor.
func (t *Tweets) Create(ctx context.Context, actorID, content string) (models.Tweet, error) {
	actorID, err := ids.Parse("user", actorID)
	if err != nil {
		return models.Tweet{}, err
	}
	content, err = requireText(content, "tweet content cannot be empty")
	if err != nil {
		return models.Tweet{}, err
	}

	now := t.now()
	tweet := models.Tweet{
		ID:        ids.New(),
		OwnerID:   actorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := t.store.Create(ctx, tweet); err != nil {
		return models.Tweet{}, apperrors.Internal("failed to create tweet", err)
	}
	return tweet, nil
}

// ListByUser returns a user's tweets, newest first.
func (t *Tweets) ListByUser(ctx context.Context, userID string) ([]models.Tweet, error) {
	userID, err := ids.Parse("user", userID)
	if err != nil {
		return nil, err
	}

	tweets, err := t.store.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tweets", err)
	}
	if tweets == nil {
		tweets = []models.Tweet{}
	}
	return tweets, nil
}

// Update replaces the content of a tweet owned by the actor.
func (t *Tweets) Update(ctx context.Context, actorID, tweetID, content string) (models.Tweet, error) {
	tweetID, err := ids.Parse("tweet", tweetID)
	if err != nil {
		return models.Tweet{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.Tweet{}, err
	}
	content, err = requireText(content, "tweet content cannot be empty")
	if err != nil {
		return models.Tweet{}, err
	}

	tweet, err := t.store.Update(ctx, actorID, tweetID, content, t.now())
	if err != nil {
		return models.Tweet{}, notOwned(err, "tweet", "update")
	}
	return tweet, nil
}

// Delete removes a tweet owned by the actor.
func (t *Tweets) Delete(ctx context.Context, actorID, tweetID string) error {
	tweetID, err := ids.Parse("tweet", tweetID)
	if err != nil {
		return err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return err
	}

	if err := t.store.Delete(ctx, actorID, tweetID); err != nil {
		return notOwned(err, "tweet", "delete")
	}
	return nil
}

func (t *Tweets) now() time.Time {
	if t.NowFunc != nil {
		return t.NowFunc()
	}
	return time.Now().UTC()
}
