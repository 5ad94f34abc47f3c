package config_test

import (
	"errors"
	"testing"

	"github.com/okian/rvcalc/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.LogLevel, convey.ShouldEqual, "info")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.MaxReportCount, convey.ShouldEqual, 500)
			convey.So(cfg.PreciseBaseline, convey.ShouldBeTrue)
			convey.So(cfg.ProjectionRPS, convey.ShouldEqual, 20.0)
			convey.So(cfg.ProjectionBurst, convey.ShouldEqual, 40)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given a config with defaults", t, func() {
		cfg := config.New()

		cases := map[string]func(){
			"empty addr":               func() { cfg.Addr = "" },
			"zero max report count":    func() { cfg.MaxReportCount = 0 },
			"negative projection rate": func() { cfg.ProjectionRPS = -1 },
			"zero projection burst":    func() { cfg.ProjectionBurst = 0 },
		}
		for name, mutate := range cases {
			convey.Convey("When it has "+name, func() {
				mutate()
				err := cfg.Validate()

				convey.Convey("Then validation fails with ErrInvalidConfig", func() {
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				})
			})
		}
	})
}
