package feed

import (
	"context"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

const (
	// DefaultPageSize applies when a caller omits the page size.
	DefaultPageSize = 10
	// DefaultMaxPageSize caps the page size when no explicit cap is configured.
	DefaultMaxPageSize = 100
)

// Store executes composed listings.
type Store interface {
	QueryVideos(ctx context.Context, q VideoQuery) ([]models.EnrichedVideo, error)
	QueryComments(ctx context.Context, q CommentQuery) ([]models.EnrichedComment, error)
	ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberEntry, error)
	ListSubscriptions(ctx context.Context, subscriberID string) ([]models.SubscribedChannelEntry, error)
}

// VideoParams are the raw listing parameters of the public video feed.
type VideoParams struct {
	Query    string
	OwnerID  string
	SortBy   string
	SortType string
	Page     int
	Limit    int
}

// Composer validates listing input and builds the plans executed by Store.
type Composer struct {
	store       Store
	maxPageSize int
}

// NewComposer returns a Composer that rejects page sizes above maxPageSize.
func NewComposer(store Store, maxPageSize int) *Composer {
	if maxPageSize <= 0 {
		maxPageSize = DefaultMaxPageSize
	}
	return &Composer{store: store, maxPageSize: maxPageSize}
}

// ListVideos returns one page of the video feed.
func (c *Composer) ListVideos(ctx context.Context, params VideoParams) ([]models.EnrichedVideo, error) {
	field, err := ParseSortField(params.SortBy)
	if err != nil {
		return nil, err
	}
	page, err := NewPage(params.Page, params.Limit, c.maxPageSize)
	if err != nil {
		return nil, err
	}

	q := VideoQuery{
		Filter: NewFilter(params.Query, params.OwnerID),
		Sort:   Sort{Field: field, Direction: ParseDirection(params.SortType)},
		Page:   page,
	}
	return c.videos(ctx, "feed.list_videos", q)
}

// ListChannelVideos returns one page of a channel's videos, newest first.
func (c *Composer) ListChannelVideos(ctx context.Context, channelID string, page, limit int) ([]models.EnrichedVideo, error) {
	channelID, err := ids.Parse("channel", channelID)
	if err != nil {
		return nil, err
	}
	p, err := NewPage(page, limit, c.maxPageSize)
	if err != nil {
		return nil, err
	}

	q := VideoQuery{
		Filter: Filter{OwnerMatch{OwnerID: channelID}},
		Sort:   NewestFirst,
		Page:   p,
	}
	return c.videos(ctx, "feed.list_channel_videos", q)
}

func (c *Composer) videos(ctx context.Context, span string, q VideoQuery) ([]models.EnrichedVideo, error) {
	ctx, s := logging.StartSpan(ctx, span)
	defer s.End()

	videos, err := c.store.QueryVideos(ctx, q)
	if err != nil {
		s.Fail(err)
		return nil, apperrors.Internal("failed to list videos", err)
	}
	if videos == nil {
		videos = []models.EnrichedVideo{}
	}
	return videos, nil
}

// ListComments returns one page of a video's comments, newest first.
func (c *Composer) ListComments(ctx context.Context, videoID string, page, limit int) ([]models.EnrichedComment, error) {
	videoID, err := ids.Parse("video", videoID)
	if err != nil {
		return nil, err
	}
	p, err := NewPage(page, limit, c.maxPageSize)
	if err != nil {
		return nil, err
	}

	ctx, s := logging.StartSpan(ctx, "feed.list_comments")
	defer s.End()

	comments, err := c.store.QueryComments(ctx, CommentQuery{VideoID: videoID, Page: p})
	if err != nil {
		s.Fail(err)
		return nil, apperrors.Internal("failed to list comments", err)
	}
	if comments == nil {
		comments = []models.EnrichedComment{}
	}
	return comments, nil
}

// ListSubscribers returns every subscriber of a channel.
func (c *Composer) ListSubscribers(ctx context.Context, channelID string) ([]models.SubscriberEntry, error) {
	channelID, err := ids.Parse("channel", channelID)
	if err != nil {
		return nil, err
	}

	entries, err := c.store.ListSubscribers(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal("failed to list subscribers", err)
	}
	if entries == nil {
		entries = []models.SubscriberEntry{}
	}
	return entries, nil
}

// ListSubscriptions returns every channel the subscriber follows.
func (c *Composer) ListSubscriptions(ctx context.Context, subscriberID string) ([]models.SubscribedChannelEntry, error) {
	subscriberID, err := ids.Parse("subscriber", subscriberID)
	if err != nil {
		return nil, err
	}

	entries, err := c.store.ListSubscriptions(ctx, subscriberID)
	if err != nil {
		return nil, apperrors.Internal("failed to list subscriptions", err)
	}
	if entries == nil {
		entries = []models.SubscribedChannelEntry{}
	}
	return entries, nil
}
