package httpapi

import (
	"context"
	"testing"
)

func TestShouldCreateHTTPAPISpan(t *testing.T) {
	tests := map[string]bool{
		"httpapi.Handler.BuildProfile":  true,
		"httpapi.Handler.LookupPlayers": true,
		"httpapi.RequestLogging":        false,
		"httpapi.mapError":              false,
	}
	for name, want := range tests {
		if got := shouldCreateHTTPAPISpan(name); got != want {
			t.Fatalf("shouldCreateHTTPAPISpan(%q)=%v want=%v", name, got, want)
		}
	}
}

func TestStartSpanWithoutParentIsNoop(t *testing.T) {
	ctx := context.Background()
	got, span := startSpan(ctx, "httpapi.Handler.GetClub")
	defer span.End()

	if got != ctx {
		t.Fatalf("expected context to be returned unchanged")
	}
	if span.SpanContext().IsValid() {
		t.Fatalf("expected noop span without a parent trace")
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /healthz "} {
		if shouldTraceRequest(path) {
			t.Fatalf("expected no tracing for path %q", path)
		}
	}
	for _, path := range []string{"/v1/players/search", "/v1/clubs/1001", "/v1/discovery/stats"} {
		if !shouldTraceRequest(path) {
			t.Fatalf("expected tracing for path %q", path)
		}
	}
}
