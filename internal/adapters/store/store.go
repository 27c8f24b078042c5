// Package store wraps the remote key-value cache behind a retrying client.
// Transient connection and timeout failures are retried a bounded number of
// times with a fixed delay; once the budget is exhausted, cache reads and
// writes degrade silently while list lookups propagate the failure.
package store

import (
	"context"
	"time"
)

// Store is the contract the scoring layer depends on.
type Store interface {
	// CacheSet writes a numeric value with a time-to-live. It reports
	// whether the write reached the backend; a false return means the
	// cache is degraded, not that the request failed.
	CacheSet(ctx context.Context, key string, value float64, ttl time.Duration) bool

	// CacheGet reads a numeric value. The second return is false when the
	// key is absent or the backend is unreachable.
	CacheGet(ctx context.Context, key string) (float64, bool)

	// GetList reads a list-typed entry. Unlike the cache operations it
	// fails hard: an unreachable backend yields an error wrapping
	// ErrUnavailable, because list results have no safe fallback.
	GetList(ctx context.Context, key string) ([]string, error)
}
