package stats

import (
	"context"
	"sync"
	"time"

	"github.com/vidtube/backend/internal/models"
)

type cacheEntry struct {
	stats   models.ChannelStats
	expires time.Time
}

// CachingSource wraps another Source with a TTL-based in-memory cache.
// Cached values may lag writes by up to the TTL.
type CachingSource struct {
	base Source
	ttl  time.Duration
	now  func() time.Time

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingSource returns a Source that caches results for the provided TTL.
func NewCachingSource(base Source, ttl time.Duration) *CachingSource {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingSource{
		base:  base,
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]cacheEntry),
	}
}

// ChannelStats returns cached statistics when fresh, otherwise it delegates to
// the underlying source and stores the result.
func (c *CachingSource) ChannelStats(ctx context.Context, channelID string) (models.ChannelStats, error) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.items[channelID]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.stats, nil
	}

	stats, err := c.base.ChannelStats(ctx, channelID)
	if err != nil {
		return models.ChannelStats{}, err
	}

	c.mu.Lock()
	c.items[channelID] = cacheEntry{stats: stats, expires: now.Add(c.ttl)}
	c.gcLocked(now)
	c.mu.Unlock()

	return stats, nil
}

func (c *CachingSource) gcLocked(now time.Time) {
	for key, entry := range c.items {
		if !now.Before(entry.expires) {
			delete(c.items, key)
		}
	}
}
