// Package config defines skillview configuration and its loading hooks.
//
// Conventions:
// - New() returns a Config holding defaults; Load layers file and env on top.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxUploadFiles bounds how many files a single upload may carry.
const DefaultMaxUploadFiles = 20

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches the log handler to JSON records.
	LogJSON bool `koanf:"log_json"`

	// Addr is the listen address of the local front-end, e.g. "127.0.0.1:7070".
	Addr string `koanf:"addr"`

	// APIBaseURL is the fixed root every remote endpoint is resolved against.
	APIBaseURL string `koanf:"api_base_url"`

	// SessionPath is the bbolt file holding the stored credential.
	SessionPath string `koanf:"session_path"`

	// RequestTimeoutMS bounds a single API round trip. Zero disables the bound.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// MaxUploadFiles caps the number of files per upload.
	MaxUploadFiles int `koanf:"max_upload_files"`

	// MetricsEnabled exposes /metrics on the front-end.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             "127.0.0.1:7070",
		APIBaseURL:       "http://localhost:8080/api",
		SessionPath:      "data/session.db",
		RequestTimeoutMS: 0,
		MaxUploadFiles:   DefaultMaxUploadFiles,
		MetricsEnabled:   true,
	}
}

// RequestTimeout returns the configured API timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api_base_url must be an absolute http(s) URL, got %q", ErrInvalidConfig, c.APIBaseURL)
	}
	if strings.TrimSpace(c.SessionPath) == "" {
		return fmt.Errorf("%w: session_path must not be empty", ErrInvalidConfig)
	}
	if c.RequestTimeoutMS < 0 {
		return fmt.Errorf("%w: request_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.MaxUploadFiles < 1 {
		return fmt.Errorf("%w: max_upload_files must be at least 1", ErrInvalidConfig)
	}
	return nil
}
