package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/clientscore/pkg/logger"
	"github.com/okian/clientscore/pkg/metrics"
)

// Backend is the subset of redis commands the store issues. *redis.Client
// satisfies it; tests substitute a fake.
type Backend interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// Redis implements Store over a shared redis connection pool. It is safe
// for concurrent use; the client serializes its own protocol exchanges.
type Redis struct {
	rdb            Backend
	db             int
	attempts       int
	retryDelay     time.Duration
	connectTimeout time.Duration
	log            logger.Logger
}

// New creates a Redis store for the given address.
func New(addr string, opts ...Option) *Redis {
	s := &Redis{
		attempts:       defaultAttempts,
		retryDelay:     defaultRetryDelay,
		connectTimeout: defaultConnectTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rdb == nil {
		s.rdb = redis.NewClient(&redis.Options{
			Addr:        addr,
			DB:          s.db,
			DialTimeout: s.connectTimeout,
			// The store runs its own attempt loop.
			MaxRetries: -1,
		})
	}
	return s
}

// Close releases the underlying connection pool when the store owns one.
func (s *Redis) Close() error {
	if closer, ok := s.rdb.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// isTransient reports whether an error is worth another attempt. Key
// misses and caller cancellation are terminal; everything else is assumed
// to be a connection or timeout failure.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

// withRetry runs fn up to the attempt budget, sleeping the fixed delay
// between transient failures.
func (s *Redis) withRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err = fn()
		if !isTransient(err) {
			return err
		}
		metrics.RecordStoreRetry(op)
		if attempt == s.attempts {
			break
		}
		select {
		case <-time.After(s.retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

// CacheSet writes value under key with the given TTL. Failures after the
// retry budget degrade to a no-op.
func (s *Redis) CacheSet(ctx context.Context, key string, value float64, ttl time.Duration) bool {
	err := s.withRetry(ctx, "cache_set", func() error {
		return s.rdb.Set(ctx, key, strconv.FormatFloat(value, 'f', -1, 64), ttl).Err()
	})
	if err != nil {
		metrics.RecordStoreError("cache_set")
		if s.log != nil {
			s.log.Warn(ctx, "cache write degraded", logger.String("key", key), logger.Error(err))
		}
		return false
	}
	return true
}

// CacheGet reads the numeric value under key. Both a missing key and an
// unreachable backend report absence.
func (s *Redis) CacheGet(ctx context.Context, key string) (float64, bool) {
	var raw string
	err := s.withRetry(ctx, "cache_get", func() error {
		var err error
		raw, err = s.rdb.Get(ctx, key).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return 0, false
	}
	if err != nil {
		metrics.RecordStoreError("cache_get")
		if s.log != nil {
			s.log.Warn(ctx, "cache read degraded", logger.String("key", key), logger.Error(err))
		}
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		metrics.RecordStoreError("cache_get")
		return 0, false
	}
	metrics.RecordCacheHit()
	return v, true
}

// GetList reads the list stored under key. A missing key is an empty list;
// an unreachable backend is an error.
func (s *Redis) GetList(ctx context.Context, key string) ([]string, error) {
	var items []string
	err := s.withRetry(ctx, "get_list", func() error {
		var err error
		items, err = s.rdb.LRange(ctx, key, 0, -1).Result()
		return err
	})
	if err != nil {
		metrics.RecordStoreError("get_list")
		return nil, fmt.Errorf("%w: lrange %s: %v", ErrUnavailable, key, err)
	}
	return items, nil
}
