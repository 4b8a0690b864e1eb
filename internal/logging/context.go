// Package logging carries the request-scoped slog logger and the request,
// trace, span and actor identifiers on a context.
package logging

import (
	"context"
	"log/slog"
)

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
	traceIDKey
	spanIDKey
	actorIDKey
)

// WithLogger stores logger on ctx.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the request-scoped logger or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

func withString(ctx context.Context, key ctxKey, v string) context.Context {
	if ctx == nil || v == "" {
		return ctx
	}
	return context.WithValue(ctx, key, v)
}

func stringFrom(ctx context.Context, key ctxKey) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(key).(string)
	return v
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return withString(ctx, requestIDKey, id)
}

func RequestIDFromContext(ctx context.Context) string { return stringFrom(ctx, requestIDKey) }

func WithTraceID(ctx context.Context, id string) context.Context {
	return withString(ctx, traceIDKey, id)
}

func TraceIDFromContext(ctx context.Context) string { return stringFrom(ctx, traceIDKey) }

func WithSpanID(ctx context.Context, id string) context.Context {
	return withString(ctx, spanIDKey, id)
}

func SpanIDFromContext(ctx context.Context) string { return stringFrom(ctx, spanIDKey) }

// WithActorID records the authenticated user. An empty id leaves ctx as is.
func WithActorID(ctx context.Context, id string) context.Context {
	return withString(ctx, actorIDKey, id)
}

// ActorIDFromContext returns the authenticated user id, or "" when anonymous.
func ActorIDFromContext(ctx context.Context) string { return stringFrom(ctx, actorIDKey) }
