package session

import (
	"log/slog"
	"time"

	"github.com/mmynk/tripplanner/internal/metrics"
)

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to stamp optimistic votes.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records mutation outcomes and skipped refreshes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

// WithRefreshInterval sets the polling period used by Start.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithRetryDelay sets the wait before re-reading after an empty read.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}
