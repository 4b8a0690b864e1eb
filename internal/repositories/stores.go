package repositories

import (
	"github.com/vidtube/backend/internal/feed"
	"github.com/vidtube/backend/internal/interactions"
	"github.com/vidtube/backend/internal/stats"
)

// FeedStore serves the read-side listings of the feed composer.
type FeedStore struct {
	*PostgresVideoRepository
	*PostgresCommentRepository
	*PostgresSubscriptionRepository
}

// InteractionStore serves the like and subscription toggles.
type InteractionStore struct {
	*PostgresLikeRepository
	*PostgresSubscriptionRepository
}

var (
	_ feed.Store         = FeedStore{}
	_ interactions.Store = InteractionStore{}
	_ stats.Source       = (*PostgresStatsRepository)(nil)
)
