package config_test

import (
	"testing"

	"github.com/okian/clientscore/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.StoreHost, convey.ShouldEqual, "localhost")
			convey.So(cfg.StorePort, convey.ShouldEqual, 6379)
			convey.So(cfg.StoreRetryAttempts, convey.ShouldEqual, 3)
			convey.So(cfg.StoreRetryDelayMS, convey.ShouldEqual, 100)
			convey.So(cfg.ScoreCacheTTLMin, convey.ShouldEqual, 60)
		})

		convey.Convey("Then the store address renders as host:port", func() {
			convey.So(cfg.StoreAddr(), convey.ShouldEqual, "localhost:6379")
		})
	})
}
