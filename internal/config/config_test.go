package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestLoadDefaults(t *testing.T) {
	convey.Convey("Given no configuration sources", t, func() {
		ctx := context.Background()
		cfg, err := Load(ctx)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then production defaults apply", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.DataDir, convey.ShouldEqual, "data/member_snapshots")
			convey.So(cfg.WatchEnabled, convey.ShouldBeTrue)
			convey.So(cfg.WatchDebounceMS, convey.ShouldEqual, 2000)
			convey.So(cfg.Week1Target, convey.ShouldEqual, 250_000)
			convey.So(cfg.Month1Target, convey.ShouldEqual, 1_000_000)
			convey.So(cfg.Month3Target, convey.ShouldEqual, 3_000_000)
			convey.So(cfg.ComplianceTarget, convey.ShouldEqual, 3_000_000)
		})
	})
}

func TestLoadEnv(t *testing.T) {
	convey.Convey("Given environment overrides", t, func() {
		_ = os.Setenv("TEAMBOARD_ADDR", ":8080")
		_ = os.Setenv("TEAMBOARD_DATA_DIR", "/srv/snapshots")
		_ = os.Setenv("TEAMBOARD_WEEK1_TARGET", "500000")
		defer func() {
			_ = os.Unsetenv("TEAMBOARD_ADDR")
			_ = os.Unsetenv("TEAMBOARD_DATA_DIR")
			_ = os.Unsetenv("TEAMBOARD_WEEK1_TARGET")
		}()

		cfg, err := Load(context.Background())
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then env values win over defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
			convey.So(cfg.DataDir, convey.ShouldEqual, "/srv/snapshots")
			convey.So(cfg.Week1Target, convey.ShouldEqual, 500_000)
			convey.So(cfg.Month1Target, convey.ShouldEqual, 1_000_000)
		})
	})
}

func TestLoadFile(t *testing.T) {
	convey.Convey("Given a YAML config file", t, func() {
		path := filepath.Join(t.TempDir(), "teamboard.yaml")
		content := "addr: \":7000\"\nlog_level: debug\nwatch_debounce_ms: 500\n"
		convey.So(os.WriteFile(path, []byte(content), 0o644), convey.ShouldBeNil)
		_ = os.Setenv("TEAMBOARD_CONFIG", path)
		defer func() { _ = os.Unsetenv("TEAMBOARD_CONFIG") }()

		cfg, err := Load(context.Background())
		convey.So(err, convey.ShouldBeNil)
		convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
		convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
		convey.So(cfg.WatchDebounceMS, convey.ShouldEqual, 500)

		convey.Convey("And env still wins over the file", func() {
			_ = os.Setenv("TEAMBOARD_ADDR", ":7001")
			defer func() { _ = os.Unsetenv("TEAMBOARD_ADDR") }()
			cfg, err := Load(context.Background())
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.Addr, convey.ShouldEqual, ":7001")
		})
	})

	convey.Convey("Given a missing config file", t, func() {
		_ = os.Setenv("TEAMBOARD_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))
		defer func() { _ = os.Unsetenv("TEAMBOARD_CONFIG") }()

		_, err := Load(context.Background())
		convey.So(errors.Is(err, ErrLoadConfig), convey.ShouldBeTrue)
	})
}

func TestLoadValidation(t *testing.T) {
	convey.Convey("Given invalid values", t, func() {
		convey.Convey("When addr is emptied", func() {
			_ = os.Setenv("TEAMBOARD_ADDR", "")
			defer func() { _ = os.Unsetenv("TEAMBOARD_ADDR") }()
			_, err := Load(context.Background())
			convey.So(errors.Is(err, ErrInvalidConfig), convey.ShouldBeTrue)
		})

		convey.Convey("When a milestone target is non-positive", func() {
			_ = os.Setenv("TEAMBOARD_MONTH3_TARGET", "0")
			defer func() { _ = os.Unsetenv("TEAMBOARD_MONTH3_TARGET") }()
			_, err := Load(context.Background())
			convey.So(errors.Is(err, ErrInvalidConfig), convey.ShouldBeTrue)
		})
	})
}
