package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Timeouts bounds how long the server spends reading and writing a request.
type Timeouts struct {
	Read  time.Duration
	Write time.Duration
}

// Server wraps the http.Server with sensible defaults.
type Server struct {
	inner *http.Server
}

// New constructs a server listening on the provided port. Zero timeouts fall
// back to five seconds for reading headers and two minutes for writing, which
// leaves room for streaming media uploads.
func New(port int, handler http.Handler, timeouts Timeouts) *Server {
	if timeouts.Read <= 0 {
		timeouts.Read = 5 * time.Second
	}
	if timeouts.Write <= 0 {
		timeouts.Write = 2 * time.Minute
	}

	return &Server{
		inner: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           handler,
			ReadHeaderTimeout: timeouts.Read,
			WriteTimeout:      timeouts.Write,
		},
	}
}

// Addr reports the address the server listens on.
func (s *Server) Addr() string {
	return s.inner.Addr
}

// Start begins serving HTTP traffic.
func (s *Server) Start() error {
	return s.inner.ListenAndServe()
}

// Shutdown gracefully terminates the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.inner.Shutdown(ctx)
}
