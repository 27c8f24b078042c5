package scoring_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clientscore/internal/adapters/store"
	"github.com/okian/clientscore/internal/domain/scoring"
)

// memStore is an in-memory store double that counts cache writes.
type memStore struct {
	values   map[string]float64
	lists    map[string][]string
	setCalls int
	getCalls int
	listErr  error
}

func newMemStore() *memStore {
	return &memStore{
		values: make(map[string]float64),
		lists:  make(map[string][]string),
	}
}

func (m *memStore) CacheSet(_ context.Context, key string, value float64, _ time.Duration) bool {
	m.setCalls++
	m.values[key] = value
	return true
}

func (m *memStore) CacheGet(_ context.Context, key string) (float64, bool) {
	m.getCalls++
	v, ok := m.values[key]
	return v, ok
}

func (m *memStore) GetList(_ context.Context, key string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.lists[key], nil
}

func TestScore(t *testing.T) {
	ctx := context.Background()
	birthday := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	male := 1

	Convey("Given a scorer over an empty cache", t, func() {
		st := newMemStore()
		sc := scoring.New(st)

		Convey("When only a phone is present", func() {
			got := sc.Score(ctx, scoring.Input{Phone: "79104823345"})

			Convey("Then the score is the phone weight alone", func() {
				So(got, ShouldEqual, 1.5)
			})

			Convey("And repeating the identical call hits the cache", func() {
				again := sc.Score(ctx, scoring.Input{Phone: "79104823345"})
				So(again, ShouldEqual, 1.5)
				So(st.setCalls, ShouldEqual, 1)
			})
		})

		Convey("When every field is present", func() {
			got := sc.Score(ctx, scoring.Input{
				Phone:     "79104823345",
				Email:     "stupnikov@otus.ru",
				Birthday:  &birthday,
				Gender:    &male,
				FirstName: "a",
				LastName:  "b",
			})

			Convey("Then all weights accumulate", func() {
				So(got, ShouldEqual, 5.0)
			})
		})

		Convey("When gender code 0 is present with a birthday", func() {
			unknown := 0
			got := sc.Score(ctx, scoring.Input{Gender: &unknown, Birthday: &birthday, Email: "a@b.com", Phone: "79104823345"})

			Convey("Then the pair weight is granted for the unknown code too", func() {
				So(got, ShouldEqual, 4.5)
			})
		})

		Convey("When gender is present without a birthday", func() {
			got := sc.Score(ctx, scoring.Input{Email: "a@b.com", Gender: &male, Phone: "79104823345"})

			Convey("Then the pair weight is not granted", func() {
				So(got, ShouldEqual, 3.0)
			})
		})

		Convey("When two inputs share name and birthday", func() {
			first := sc.Score(ctx, scoring.Input{FirstName: "a", LastName: "b", Phone: "79104823345", Email: "a@b.com"})
			second := sc.Score(ctx, scoring.Input{FirstName: "a", LastName: "b"})

			Convey("Then the second caller gets the cached score for the shared key", func() {
				So(first, ShouldEqual, 3.5)
				So(second, ShouldEqual, 3.5)
				So(st.setCalls, ShouldEqual, 1)
			})
		})

		Convey("When a zero score was cached", func() {
			// A cached zero never short-circuits; the score is recomputed.
			st.values[scoring.CacheKey(scoring.Input{})] = 0
			got := sc.Score(ctx, scoring.Input{Phone: "79104823345"})

			So(got, ShouldEqual, 1.5)
			So(st.setCalls, ShouldEqual, 1)
		})
	})
}

func TestInterests(t *testing.T) {
	ctx := context.Background()

	Convey("Given a scorer over a seeded store", t, func() {
		st := newMemStore()
		st.lists["i:1"] = []string{"books", "travel"}
		sc := scoring.New(st)

		Convey("When looking up a known client", func() {
			items, err := sc.Interests(ctx, 1)

			So(err, ShouldBeNil)
			So(items, ShouldResemble, []string{"books", "travel"})
		})

		Convey("When looking up an unknown client", func() {
			items, err := sc.Interests(ctx, 404)

			Convey("Then the result is empty, not nil", func() {
				So(err, ShouldBeNil)
				So(items, ShouldNotBeNil)
				So(items, ShouldBeEmpty)
			})
		})

		Convey("When the store is unavailable", func() {
			st.listErr = store.ErrUnavailable

			_, err := sc.Interests(ctx, 1)

			So(err, ShouldWrap, store.ErrUnavailable)
		})
	})
}
