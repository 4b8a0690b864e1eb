package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithActorID(ctx, "actor-1")

	if got := RequestIDFromContext(ctx); got != "req-1" {
		t.Fatalf("unexpected request id %q", got)
	}
	if got := ActorIDFromContext(ctx); got != "actor-1" {
		t.Fatalf("unexpected actor id %q", got)
	}
	if got := ActorIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty actor id, got %q", got)
	}
	if WithActorID(ctx, "") != ctx {
		t.Fatal("expected empty actor id to leave context unchanged")
	}
}

func TestStartSpanEnrichesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := WithLogger(context.Background(), base)

	ctx, parent := StartSpan(ctx, "parent")
	parentID := SpanIDFromContext(ctx)
	childCtx, child := StartSpan(ctx, "child")
	child.End()
	parent.End()

	if TraceIDFromContext(childCtx) == "" {
		t.Fatal("expected trace id to be propagated")
	}
	out := buf.String()
	if !strings.Contains(out, `"span_name":"child"`) || !strings.Contains(out, `"parent_span_id":"`+parentID+`"`) {
		t.Fatalf("expected child span log with parent id, got %s", out)
	}
}

func TestSpanFailLogsWarning(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	_, span := StartSpan(ctx, "stats.channel_stats")
	span.Fail(nil)
	span.Fail(errTest("connection reset"))
	span.End()

	out := buf.String()
	if !strings.Contains(out, `"level":"WARN"`) || !strings.Contains(out, `"error":"connection reset"`) {
		t.Fatalf("expected failed span warning, got %s", out)
	}
}

type errTest string

func (e errTest) Error() string { return string(e) }
