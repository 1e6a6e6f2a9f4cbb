package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized with defaults", func() {
			err := Init()

			Convey("Then Get should return a usable logger", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When it is initialized with a custom output", func() {
			var buf bytes.Buffer
			So(Init(WithOutput(&buf)), ShouldBeNil)

			Get().Info(context.Background(), "phase changed", String("phase", "chaos"))

			Convey("Then the record should land in that output", func() {
				So(buf.String(), ShouldContainSubstring, "phase changed")
				So(buf.String(), ShouldContainSubstring, "phase=chaos")
				So(buf.String(), ShouldContainSubstring, "source=")
			})
		})

		Convey("When it is initialized with JSON records", func() {
			var buf bytes.Buffer
			So(Init(WithOutput(&buf), WithJSON()), ShouldBeNil)

			Get().Warn(context.Background(), "stabilized", Float64("stability", 0.981))

			Convey("Then each record should be valid JSON", func() {
				var rec map[string]any
				So(json.Unmarshal(buf.Bytes(), &rec), ShouldBeNil)
				So(rec["msg"], ShouldEqual, "stabilized")
				So(rec["stability"], ShouldEqual, 0.981)
			})
		})
	})
}

func TestLoggerLevels(t *testing.T) {
	Convey("Given a logger writing to a buffer", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)
		ctx := context.Background()

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("warn"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "shown")

			Convey("Then info records should be dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "shown")
			})
		})

		Convey("When an unknown level is given", func() {
			err := SetLevelString("loud")

			Convey("Then it should be rejected", func() {
				So(err, ShouldNotBeNil)
			})
		})

		Reset(func() { _ = SetLevelString("info") })
	})
}

func TestLoggerNamed(t *testing.T) {
	Convey("Given a named logger", t, func() {
		var buf bytes.Buffer
		So(Init(WithOutput(&buf)), ShouldBeNil)

		Named("sequence").Info(context.Background(), "tick", Int("n", 3))

		Convey("Then fields should be grouped under the name", func() {
			So(buf.String(), ShouldContainSubstring, "sequence.n=3")
		})
	})
}

func TestLoggerFile(t *testing.T) {
	Convey("Given a log file path", t, func() {
		path := filepath.Join(t.TempDir(), "fracture.log")

		Convey("When the logger is initialized with it", func() {
			So(InitFile(path), ShouldBeNil)
			Get().Error(context.Background(), "boom")

			Convey("Then Sync should close the file cleanly", func() {
				So(Sync(), ShouldBeNil)
				So(Sync(), ShouldBeNil)
			})
		})
	})
}

func TestDiscard(t *testing.T) {
	Convey("Given a discard logger", t, func() {
		l := Discard()

		Convey("Then logging should be a silent no-op", func() {
			So(func() { l.Named("x").Debug(context.Background(), strings.Repeat("a", 8)) }, ShouldNotPanic)
		})
	})
}
