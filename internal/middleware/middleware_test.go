package middleware

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"connectrpc.com/connect"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc.def", "abc.def", true},
		{"bearer abc", "abc", true},
		{"  Bearer abc  ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := BearerToken(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("BearerToken(%q) = %q, %v; want %q, %v", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestWithUser(t *testing.T) {
	ctx := WithUser(context.Background(), "user-1", "a@example.com")
	if GetUserID(ctx) != "user-1" || GetEmail(ctx) != "a@example.com" {
		t.Errorf("Expected user in context, got %q %q", GetUserID(ctx), GetEmail(ctx))
	}
	if GetUserID(context.Background()) != "" {
		t.Error("Expected empty user ID")
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Unix(1700000000, 0)
	l := NewRateLimiter(1, 2, nil)
	l.now = func() time.Time { return now }

	if !l.Allow("alice") || !l.Allow("alice") {
		t.Fatal("Expected burst of 2 to be allowed")
	}
	if l.Allow("alice") {
		t.Error("Expected third request to be limited")
	}
	if !l.Allow("bob") {
		t.Error("Expected callers to have separate budgets")
	}

	now = now.Add(time.Second)
	if !l.Allow("alice") {
		t.Error("Expected a token to refill after one second")
	}

	now = now.Add(limiterIdleTTL + time.Second)
	l.Allow("carol")
	l.Cleanup()
	if _, ok := l.visitors["alice"]; ok {
		t.Error("Expected idle limiter to be removed")
	}
	if _, ok := l.visitors["carol"]; !ok {
		t.Error("Expected active limiter to be kept")
	}
}

func TestLevelFor(t *testing.T) {
	tests := map[connect.Code]slog.Level{
		connect.CodeCanceled:          slog.LevelInfo,
		connect.CodeInvalidArgument:   slog.LevelWarn,
		connect.CodePermissionDenied:  slog.LevelWarn,
		connect.CodeResourceExhausted: slog.LevelWarn,
		connect.CodeInternal:          slog.LevelError,
		connect.CodeUnavailable:       slog.LevelError,
	}
	for code, want := range tests {
		if got := levelFor(code); got != want {
			t.Errorf("levelFor(%v) = %v, want %v", code, got, want)
		}
	}
}
