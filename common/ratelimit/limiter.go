package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Counter is the windowed counter backing the limiter, satisfied by the
// common redis client
type Counter interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Logger interface for logging
type Logger interface {
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// Limiter enforces a fixed-window request limit per caller key.
// Used to throttle credential-stuffing attempts on the login endpoint.
type Limiter struct {
	counter Counter
	limit   int64
	window  time.Duration
	prefix  string
	logger  Logger
}

// New creates a limiter allowing limit requests per window
func New(counter Counter, prefix string, limit int64, window time.Duration, logger Logger) *Limiter {
	return &Limiter{
		counter: counter,
		limit:   limit,
		window:  window,
		prefix:  prefix,
		logger:  logger,
	}
}

// Allow reports whether the caller identified by key may proceed.
// The limiter fails open: if the counter backend is unreachable the
// request is admitted rather than blocking all logins.
func (l *Limiter) Allow(ctx context.Context, key string) bool {
	count, err := l.counter.IncrementWindow(ctx, fmt.Sprintf("%s:%s", l.prefix, key), l.window)
	if err != nil {
		l.logger.Error("rate limiter backend error, failing open", "key", key, "error", err)
		return true
	}

	if count > l.limit {
		l.logger.Warn("rate limit exceeded", "key", key, "count", count, "limit", l.limit)
		return false
	}
	return true
}
