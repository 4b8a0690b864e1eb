package middleware

import (
	"log/slog"
	"net/http"

	"github.com/vidtube/backend/internal/ids"
	"github.com/vidtube/backend/internal/logging"
)

// ActorHeader carries the authenticated user id set by the upstream gateway.
const ActorHeader = "X-User-ID"

// Actor records the acting user on the request context. Requests without a
// well-formed actor header pass through unauthenticated; handlers that need an
// actor reject them.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(ActorHeader)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		actorID, err := ids.Parse("user", raw)
		if err != nil {
			logging.FromContext(r.Context()).Warn("ignoring malformed actor header", slog.String("value", raw))
			next.ServeHTTP(w, r)
			return
		}

		ctx := logging.WithActorID(r.Context(), actorID)
		ctx = logging.WithLogger(ctx, logging.FromContext(ctx).With(slog.String("actor_id", actorID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
