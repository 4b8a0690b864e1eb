package httpserver

import (
	"context"
	"time"
)

// DefaultShutdownTimeout bounds a graceful shutdown when no timeout is given.
const DefaultShutdownTimeout = 10 * time.Second

// Drain stops accepting connections and waits up to timeout for in-flight
// requests to finish. It is detached from any request context so a canceled
// parent does not cut the drain short.
func (s *Server) Drain(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	return s.Shutdown(ctx)
}
