package config_test

import (
	"runtime"
	"testing"

	"github.com/okian/scout/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.QueueSize, convey.ShouldEqual, 10_000)
			convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
			convey.So(cfg.DedupeSize, convey.ShouldEqual, 50_000)
			convey.So(cfg.CacheSize, convey.ShouldEqual, 4096)
			convey.So(cfg.MaxBoardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.DecayHalfLifeDays, convey.ShouldEqual, 30)
			convey.So(cfg.SybilDamping, convey.ShouldEqual, 0.85)
		})

		convey.Convey("Then the vouching policy matches the documented defaults", func() {
			convey.So(cfg.MaxActiveVouches, convey.ShouldEqual, 5)
			convey.So(cfg.VouchHalfLifeDays, convey.ShouldEqual, 30)
			convey.So(cfg.MinVoucherScore, convey.ShouldEqual, 40)
			convey.So(cfg.StakeCapRatio, convey.ShouldEqual, 0.25)
			convey.So(cfg.BoostCap, convey.ShouldEqual, 25)
			convey.So(cfg.TransitiveDecay, convey.ShouldEqual, 0.8)
		})
	})
}
