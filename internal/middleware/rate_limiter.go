package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// KeyedRateLimiter keeps one token bucket per caller key, typically
// "<scope>:<actor id>" or "<scope>:<client ip>". Buckets idle for longer than
// the ttl are swept.
type KeyedRateLimiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

type bucket struct {
	tokens *rate.Limiter
	used   time.Time
}

// NewKeyedRateLimiter allows requests events per window for each key on top of
// an initial burst. Non-positive arguments fall back to one request per
// second, a burst of one and a five minute ttl.
func NewKeyedRateLimiter(requests int, window time.Duration, burst int, ttl time.Duration) *KeyedRateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if window <= 0 {
		window = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &KeyedRateLimiter{
		limit:   rate.Every(window / time.Duration(requests)),
		burst:   burst,
		ttl:     ttl,
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

// Allow consumes a token for key and reports whether one was available.
func (l *KeyedRateLimiter) Allow(key string) bool {
	now, b := l.take(key)
	return b.tokens.AllowN(now, 1)
}

// RetryAfter estimates how long key must wait for its next token without
// consuming it.
func (l *KeyedRateLimiter) RetryAfter(key string) time.Duration {
	now, b := l.take(key)
	r := b.tokens.ReserveN(now, 1)
	if !r.OK() {
		return 0
	}
	defer r.CancelAt(now)
	return r.DelayFrom(now)
}

// Len reports how many keys are currently tracked.
func (l *KeyedRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// WithNowFunc replaces the clock.
func (l *KeyedRateLimiter) WithNowFunc(now func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.now = now
}

func (l *KeyedRateLimiter) take(key string) (time.Time, *bucket) {
	if key == "" {
		key = "unknown"
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.ttl/2 {
		for k, b := range l.buckets {
			if now.Sub(b.used) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: rate.NewLimiter(l.limit, l.burst)}
		l.buckets[key] = b
	}
	b.used = now
	return now, b
}
