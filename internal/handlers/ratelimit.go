package handlers

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/vidtube/backend/internal/apperrors"
	"github.com/vidtube/backend/internal/logging"
)

// RateLimiter is the minimal interface required to guard toggle endpoints.
type RateLimiter interface {
	Allow(key string) bool
}

// retryAdvisor is implemented by limiters that can tell a rejected caller how
// long to back off.
type retryAdvisor interface {
	RetryAfter(key string) time.Duration
}

// rateLimited rejects requests once the caller exhausts its budget for scope.
func rateLimited(limiter RateLimiter, scope string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowRequest(limiter, r, scope) {
				if advisor, ok := limiter.(retryAdvisor); ok {
					wait := advisor.RetryAfter(rateLimitKey(r, scope))
					w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
				}
				respondError(r.Context(), w, apperrors.RateLimited("too many requests, slow down"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func allowRequest(limiter RateLimiter, r *http.Request, scope string) bool {
	if limiter == nil {
		return true
	}
	key := rateLimitKey(r, scope)
	return limiter.Allow(key)
}

// rateLimitKey keys on the actor when known and the client IP otherwise.
func rateLimitKey(r *http.Request, scope string) string {
	caller := logging.ActorIDFromContext(r.Context())
	if caller == "" {
		caller = clientIP(r)
	}
	if scope == "" {
		return caller
	}
	return fmt.Sprintf("%s:%s", scope, caller)
}

func clientIP(r *http.Request) string {
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		if len(parts) > 0 {
			return strings.TrimSpace(parts[0])
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return strings.TrimSpace(r.RemoteAddr)
}
