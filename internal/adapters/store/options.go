package store

import (
	"time"

	"github.com/okian/clientscore/pkg/logger"
)

// Default retry policy.
const (
	defaultAttempts       = 3
	defaultRetryDelay     = 100 * time.Millisecond
	defaultConnectTimeout = 5 * time.Second
)

// Option applies a configuration option to the Redis store.
type Option func(*Redis)

// WithAttempts sets the total attempt count per operation, including the
// first try.
func WithAttempts(n int) Option {
	return func(s *Redis) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithRetryDelay sets the fixed sleep between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Redis) {
		if d >= 0 {
			s.retryDelay = d
		}
	}
}

// WithConnectTimeout sets the per-connection dial timeout.
func WithConnectTimeout(d time.Duration) Option {
	return func(s *Redis) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}

// WithDB selects the backend database index.
func WithDB(db int) Option {
	return func(s *Redis) {
		if db >= 0 {
			s.db = db
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(log logger.Logger) Option {
	return func(s *Redis) {
		if log != nil {
			s.log = log
		}
	}
}

// WithBackend replaces the redis client. Tests use this to inject
// failure-injecting fakes.
func WithBackend(b Backend) Option {
	return func(s *Redis) {
		if b != nil {
			s.rdb = b
		}
	}
}
