// Package api is the only component that talks to the remote skill API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/skillview/internal/session"
	"github.com/okian/skillview/pkg/logger"
	"github.com/okian/skillview/pkg/metrics"
)

// DefaultBaseURL is the API root used when none is configured.
const DefaultBaseURL = "http://localhost:8080/api"

// Client performs authenticated JSON calls against the API root.
type Client struct {
	baseURL    string
	store      session.Store
	httpClient *http.Client
	log        logger.Logger
	metrics    *metrics.Manager
}

// New creates a client rooted at baseURL that reads credentials from store.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		store:      store,
		httpClient: &http.Client{},
		log:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Call sends one request to endpoint (relative to the API root) and decodes
// a 2xx JSON body into out when out is non-nil. A *string out receives the
// raw body instead, for endpoints that answer with plain text.
func (c *Client) Call(ctx context.Context, method, endpoint string, body, out any) error {
	return c.do(ctx, method, endpoint, endpoint, body, out)
}

func (c *Client) do(ctx context.Context, method, label, endpoint string, body, out any) error {
	start := time.Now()

	cred, err := c.store.Credentials(ctx)
	if err != nil {
		c.record(label, method, metrics.OutcomeUnauthorized, start)
		if errors.Is(err, session.ErrNoCredentials) {
			return ErrUnauthenticated
		}
		return fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", cred.Header())
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(label, method, metrics.OutcomeTransport, start)
		c.log.Warn(ctx, "api transport failure", logger.String("endpoint", label), logger.String("method", method), logger.Error(err))
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(label, method, metrics.OutcomeTransport, start)
		return fmt.Errorf("%w: read body: %w", ErrTransport, err)
	}

	c.log.Debug(ctx, "api call",
		logger.String("endpoint", label),
		logger.String("method", method),
		logger.Int("status", resp.StatusCode),
		logger.Duration("took", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.record(label, method, metrics.OutcomeExpired, start)
		if err := c.store.Clear(ctx); err != nil {
			c.log.Error(ctx, "failed to clear session", logger.Error(err))
		}
		return ErrSessionExpired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.record(label, method, metrics.OutcomeFailed, start)
		return &RequestError{Status: resp.StatusCode, Message: serverMessage(payload)}
	}

	c.record(label, method, metrics.OutcomeSuccess, start)
	return decode(payload, out)
}

func decode(payload []byte, out any) error {
	switch v := out.(type) {
	case nil:
		return nil
	case *string:
		*v = string(payload)
		return nil
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return nil
}

func serverMessage(payload []byte) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || strings.TrimSpace(body.Message) == "" {
		return FallbackMessage
	}
	return body.Message
}

func (c *Client) record(label, method, outcome string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RecordAPICall(label, method, outcome, float64(time.Since(start).Microseconds())/1000)
}
