// Package stats computes per-channel dashboard statistics.
package stats

import (
	"context"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/logging"
	"github.com/vidtube/backend/internal/models"
)

// Source computes statistics for a validated channel identifier.
type Source interface {
	ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error)
}

// Service validates requests and reads statistics from a Source. Every call
// recomputes the counters unless the source is wrapped in a CachingSource.
type Service struct {
	source Source
}

// NewService constructs a Service reading from source.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// ChannelStats returns the video, subscriber, like and view totals of a
// channel. A channel without records yields zero counters.
func (s *Service) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	channelID, err := ids.Parse("channel", channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	ctx, span := logging.StartSpan(ctx, "stats.channel_stats")
	defer span.End()

	stats, err := s.source.ChannelStats(ctx, channelID)
	if err != nil {
		span.Fail(err)
		return models.ChannelStats{}, apperrors.Internal("failed to compute channel stats", err)
	}
	return stats, nil
}
