package config_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/okian/skillview/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		// Keep a stray ./.env out of the picture.
		_ = os.Setenv("SKILLVIEW_DOTENV", createTempFile("# empty\n", "skillview-*.env"))
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "127.0.0.1:7070")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "http://localhost:8080/api")
				convey.So(cfg.SessionPath, convey.ShouldEqual, "data/session.db")
				convey.So(cfg.MaxUploadFiles, convey.ShouldEqual, 20)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SKILLVIEW_ADDR", ":9999")
			_ = os.Setenv("SKILLVIEW_API_BASE_URL", "https://skills.example.com/api")
			_ = os.Setenv("SKILLVIEW_REQUEST_TIMEOUT_MS", "45000")
			_ = os.Setenv("SKILLVIEW_METRICS_ENABLED", "false")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9999")
				convey.So(cfg.APIBaseURL, convey.ShouldEqual, "https://skills.example.com/api")
				convey.So(cfg.RequestTimeout(), convey.ShouldEqual, 45*time.Second)
				convey.So(cfg.MetricsEnabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempFile(`
addr: ":9090"
session_path: "/tmp/skillview.db"
max_upload_files: 10
log_level: debug
`, "skillview-config-*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("SKILLVIEW_CONFIG", tmpFile)
			_ = os.Setenv("SKILLVIEW_MAX_UPLOAD_FILES", "5")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.SessionPath, convey.ShouldEqual, "/tmp/skillview.db")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.MaxUploadFiles, convey.ShouldEqual, 5)
			})
		})

		convey.Convey("When a dotenv file provides values", func() {
			dotenv := createTempFile("SKILLVIEW_ADDR=:7171\nSKILLVIEW_LOG_LEVEL=warn\n", "skillview-*.env")
			defer func() { _ = os.Remove(dotenv) }()
			_ = os.Setenv("SKILLVIEW_DOTENV", dotenv)
			_ = os.Setenv("SKILLVIEW_LOG_LEVEL", "error")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they fill gaps without overriding the real environment", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7171")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "error")
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempFile(`invalid: yaml: content: [`, "skillview-config-*.yaml")
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("SKILLVIEW_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("SKILLVIEW_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("SKILLVIEW_ADDR", "")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("SKILLVIEW_MAX_UPLOAD_FILES", "many")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"SKILLVIEW_CONFIG",
		"SKILLVIEW_DOTENV",
		"SKILLVIEW_ADDR",
		"SKILLVIEW_API_BASE_URL",
		"SKILLVIEW_REQUEST_TIMEOUT_MS",
		"SKILLVIEW_METRICS_ENABLED",
		"SKILLVIEW_MAX_UPLOAD_FILES",
		"SKILLVIEW_LOG_LEVEL",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempFile(content, pattern string) string {
	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
