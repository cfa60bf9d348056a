package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given the global logger", t, func() {
		Convey("When it is initialized", func() {
			So(Init(), ShouldBeNil)

			Convey("Then Get and Named return loggers", func() {
				So(Get(), ShouldNotBeNil)
				So(Named("test"), ShouldNotBeNil)
				So(Sync(), ShouldBeNil)
			})
		})

		Convey("When it is initialized with a nil writer", func() {
			So(InitWriter(nil, false), ShouldNotBeNil)
		})
	})
}

func TestLoggerOutput(t *testing.T) {
	Convey("Given a logger writing JSON into a buffer", t, func() {
		var buf bytes.Buffer
		So(InitWriter(&buf, true), ShouldBeNil)
		ctx := context.Background()

		Convey("When logging with fields", func() {
			Named("api").With(String("endpoint", "/skills")).Info(ctx, "api call", Int("status", 200), Error(errors.New("boom")))

			Convey("Then the record carries the message, component and fields", func() {
				out := buf.String()
				So(out, ShouldContainSubstring, `"msg":"api call"`)
				So(out, ShouldContainSubstring, `"component":"api"`)
				So(out, ShouldContainSubstring, `"endpoint":"/skills"`)
				So(out, ShouldContainSubstring, `"status":200`)
				So(out, ShouldContainSubstring, `"source":"logger_test.go:`)
			})
		})

		Convey("When the level is raised to warn", func() {
			So(SetLevelString("WARN"), ShouldBeNil)
			Get().Info(ctx, "hidden")
			Get().Warn(ctx, "visible")

			Convey("Then info records are dropped", func() {
				So(buf.String(), ShouldNotContainSubstring, "hidden")
				So(buf.String(), ShouldContainSubstring, "visible")
			})
		})

		Convey("When an unknown level is set", func() {
			So(SetLevelString("loud"), ShouldNotBeNil)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Nop discards without panicking", t, func() {
		So(func() {
			Nop().Named("x").With(Bool("k", true)).Error(context.Background(), "dropped")
		}, ShouldNotPanic)
	})
}
