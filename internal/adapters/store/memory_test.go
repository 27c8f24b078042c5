package store_test

import (
	"context"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/clientscore/internal/adapters/store"
)

func TestMemoryStore(t *testing.T) {
	Convey("Given an in-process store", t, func() {
		ctx := context.Background()
		st := store.NewMemory()

		Convey("When a value is written and read back", func() {
			ok := st.CacheSet(ctx, "uid:abc", 4.5, time.Hour)
			v, hit := st.CacheGet(ctx, "uid:abc")

			Convey("Then the write succeeds and the read hits", func() {
				So(ok, ShouldBeTrue)
				So(hit, ShouldBeTrue)
				So(v, ShouldEqual, 4.5)
			})
		})

		Convey("When a value is written with no TTL", func() {
			st.CacheSet(ctx, "uid:keep", 1.0, 0)

			Convey("Then it never expires", func() {
				v, hit := st.CacheGet(ctx, "uid:keep")
				So(hit, ShouldBeTrue)
				So(v, ShouldEqual, 1.0)
			})
		})

		Convey("When an absent key is read", func() {
			_, hit := st.CacheGet(ctx, "uid:absent")

			Convey("Then it misses", func() {
				So(hit, ShouldBeFalse)
			})
		})

		Convey("When a list is seeded", func() {
			st.SeedList("i:1", []string{"books", "travel"})

			Convey("Then reads return a copy of it", func() {
				items, err := st.GetList(ctx, "i:1")
				So(err, ShouldBeNil)
				So(items, ShouldResemble, []string{"books", "travel"})

				items[0] = "mutated"
				again, err := st.GetList(ctx, "i:1")
				So(err, ShouldBeNil)
				So(again[0], ShouldEqual, "books")
			})
		})

		Convey("When an absent list is read", func() {
			items, err := st.GetList(ctx, "i:404")

			Convey("Then it is empty without error", func() {
				So(err, ShouldBeNil)
				So(items, ShouldBeEmpty)
			})
		})
	})
}
