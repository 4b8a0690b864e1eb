package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/models"
	"github.com/vidtube/backend/internal/repositories"
)

// CommentStore persists comments. Create returns repositories.ErrNotFound
// when the target video does not exist.
type CommentStore interface {
	Create(ctx context.Context, comment models.Comment) error
	Update(ctx context.Context, ownerID, commentID, text string, at time.Time) (models.Comment, error)
	Delete(ctx context.Context, ownerID, commentID string) error
}

// Comments manages comments on videos.
type Comments struct {
	store   CommentStore
	NowFunc func() time.Time
}

// NewComments constructs the comment service.
func NewComments(store CommentStore) *Comments {
	return &Comments{store: store}
}

// Add attaches a comment by the actor to a video.
func (c *Comments) Add(ctx context.Context, actorID, videoID, text string) (models.Comment, error) {
	text, err := requireText(text, "comment text is required")
	if err != nil {
		return models.Comment{}, err
	}
	videoID, err = ids.Parse("video", videoID)
	if err != nil {
		return models.Comment{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.Comment{}, err
	}

	now := c.now()
	comment := models.Comment{
		ID:        ids.New(),
		VideoID:   videoID,
		OwnerID:   actorID,
		Text:      text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.store.Create(ctx, comment); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return models.Comment{}, apperrors.NotFound("video not found")
		}
		return models.Comment{}, apperrors.Internal("failed to add comment", err)
	}
	return comment, nil
}

// Update replaces the text of a comment owned by the actor.
func (c *Comments) Update(ctx context.Context, actorID, commentID, text string) (models.Comment, error) {
	commentID, err := ids.Parse("comment", commentID)
	if err != nil {
		return models.Comment{}, err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return models.Comment{}, err
	}
	text, err = requireText(text, "comment text is required")
	if err != nil {
		return models.Comment{}, err
	}

	comment, err := c.store.Update(ctx, actorID, commentID, text, c.now())
	if err != nil {
		return models.Comment{}, notOwned(err, "comment", "update")
	}
	return comment, nil
}

// Delete removes a comment owned by the actor.
func (c *Comments) Delete(ctx context.Context, actorID, commentID string) error {
	commentID, err := ids.Parse("comment", commentID)
	if err != nil {
		return err
	}
	actorID, err = ids.Parse("user", actorID)
	if err != nil {
		return err
	}

	if err := c.store.Delete(ctx, actorID, commentID); err != nil {
		return notOwned(err, "comment", "delete")
	}
	return nil
}

func (c *Comments) now() time.Time {
	if c.NowFunc != nil {
		return c.NowFunc()
	}
	return time.Now().UTC()
}
