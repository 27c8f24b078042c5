package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clientscore/internal/adapters/store"
)

// flakyBackend fails the first failures calls of every operation with a
// transient error, then delegates to nothing (fixed results).
type flakyBackend struct {
	failures int
	calls    int
	value    string
	list     []string
}

var errConnRefused = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (f *flakyBackend) fail() bool {
	f.calls++
	return f.calls <= f.failures
}

func (f *flakyBackend) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.fail() {
		return redis.NewStatusResult("", errConnRefused)
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *flakyBackend) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.fail() {
		return redis.NewStringResult("", errConnRefused)
	}
	if f.value == "" {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(f.value, nil)
}

func (f *flakyBackend) LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd {
	if f.fail() {
		return redis.NewStringSliceResult(nil, errConnRefused)
	}
	return redis.NewStringSliceResult(f.list, nil)
}

func newStore(b store.Backend, attempts int) *store.Redis {
	return store.New("unused:0",
		store.WithBackend(b),
		store.WithAttempts(attempts),
		store.WithRetryDelay(time.Millisecond),
	)
}

func TestRetryPolicy(t *testing.T) {
	ctx := context.Background()

	Convey("Given a backend that fails transiently before recovering", t, func() {
		b := &flakyBackend{failures: 2, value: "3.5"}
		s := newStore(b, 3)

		Convey("When reading through the cache", func() {
			v, ok := s.CacheGet(ctx, "uid:abc")

			Convey("Then the eventual success value is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 3.5)
				So(b.calls, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a backend that never recovers", t, func() {
		Convey("When reading through the cache", func() {
			b := &flakyBackend{failures: 1 << 30}
			s := newStore(b, 4)
			v, ok := s.CacheGet(ctx, "uid:abc")

			Convey("Then the read degrades to an absent value", func() {
				So(ok, ShouldBeFalse)
				So(v, ShouldEqual, 0)
				So(b.calls, ShouldEqual, 4)
			})
		})

		Convey("When writing through the cache", func() {
			b := &flakyBackend{failures: 1 << 30}
			s := newStore(b, 3)
			ok := s.CacheSet(ctx, "uid:abc", 1.5, time.Hour)

			Convey("Then the write degrades to a no-op", func() {
				So(ok, ShouldBeFalse)
				So(b.calls, ShouldEqual, 3)
			})
		})

		Convey("When fetching a list", func() {
			b := &flakyBackend{failures: 1 << 30}
			s := newStore(b, 3)
			_, err := s.GetList(ctx, "i:1")

			Convey("Then the failure propagates after exactly the attempt budget", func() {
				So(err, ShouldWrap, store.ErrUnavailable)
				So(b.calls, ShouldEqual, 3)
			})
		})
	})

	Convey("Given a backend reporting a key miss", t, func() {
		b := &flakyBackend{}
		s := newStore(b, 3)

		Convey("When reading through the cache", func() {
			_, ok := s.CacheGet(ctx, "uid:missing")

			Convey("Then the miss is terminal and not retried", func() {
				So(ok, ShouldBeFalse)
				So(b.calls, ShouldEqual, 1)
			})
		})
	})

	Convey("Given a cancelled caller context", t, func() {
		b := &flakyBackend{failures: 1 << 30}
		s := newStore(b, 10)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		Convey("When fetching a list", func() {
			_, err := s.GetList(cancelled, "i:1")

			Convey("Then the retry loop stops early", func() {
				So(err, ShouldNotBeNil)
				So(b.calls, ShouldBeLessThan, 10)
			})
		})
	})
}

func TestRedisRoundTrip(t *testing.T) {
	ctx := context.Background()

	Convey("Given a live in-process redis", t, func() {
		mr := miniredis.RunT(t)
		s := store.New(mr.Addr(), store.WithAttempts(2), store.WithRetryDelay(time.Millisecond))

		Convey("When writing and reading a score", func() {
			So(s.CacheSet(ctx, "uid:abc", 4.5, time.Hour), ShouldBeTrue)
			v, ok := s.CacheGet(ctx, "uid:abc")

			Convey("Then the value round-trips", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 4.5)
			})

			Convey("And the entry carries the TTL", func() {
				So(mr.TTL("uid:abc"), ShouldEqual, time.Hour)
			})

			Convey("And it expires with the clock", func() {
				mr.FastForward(2 * time.Hour)
				_, ok := s.CacheGet(ctx, "uid:abc")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When reading a list entry", func() {
			seed := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			So(seed.RPush(ctx, "i:1", "books", "hi-tech").Err(), ShouldBeNil)

			items, err := s.GetList(ctx, "i:1")

			Convey("Then the stored sequence is returned in order", func() {
				So(err, ShouldBeNil)
				So(items, ShouldResemble, []string{"books", "hi-tech"})
			})
		})

		Convey("When reading a missing list entry", func() {
			items, err := s.GetList(ctx, "i:404")

			Convey("Then the result is empty without error", func() {
				So(err, ShouldBeNil)
				So(items, ShouldBeEmpty)
			})
		})

		Convey("When the backend goes away", func() {
			mr.Close()

			Convey("Then cache reads degrade to absent", func() {
				_, ok := s.CacheGet(ctx, "uid:abc")
				So(ok, ShouldBeFalse)
			})

			Convey("And list reads fail hard", func() {
				_, err := s.GetList(ctx, "i:1")
				So(err, ShouldWrap, store.ErrUnavailable)
			})
		})
	})
}
