package internal

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
)

const (
	defaultTimeout = 10 * time.Second
	healthTimeout  = 3 * time.Second

	// MaxRetries is the attempt cap for retried idempotent calls.
	MaxRetries = 3
)

// Notifier receives user-visible notifications ("error", "info",
// "success"). The TUI routes these to its status line; plain commands
// route them to the logger.
type Notifier func(level, message string)

// Client is the transport helper for the backend HTTP surface. Any
// non-success status or network failure is surfaced as a normalized
// typed error rather than a raw one, and reported through the notifier.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Notify  Notifier

	// sleep is swapped out in tests to avoid real backoff delays.
	sleep func(time.Duration)
}

// NewClient creates a client for the given backend base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: defaultTimeout},
		sleep:   time.Sleep,
	}
}

// Quiet returns a copy of the client whose failures are logged at
// debug level instead of notified. The poller uses it so a flaky
// backend does not raise a toast every tick.
func (c *Client) Quiet() *Client {
	qc := *c
	qc.Notify = func(level, message string) {
		LogDebug("suppressed %s notification: %s", level, message)
	}
	return &qc
}

func (c *Client) notify(level, message string) {
	if c.Notify != nil {
		c.Notify(level, message)
		return
	}
	if level == "error" {
		LogError("%s", message)
	} else {
		LogInfo("%s", message)
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// DoJSON performs a request with an optional JSON body and decodes a
// JSON response into out (out may be nil). Failures are normalized:
// network errors become *RequestError, non-2xx become *APIError. Both
// raise a notification so callers can leave UI state untouched.
func (c *Client) DoJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request for %s: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return &RequestError{Path: path, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		rerr := &RequestError{Path: path, Err: err}
		if !errors.Is(err, context.Canceled) {
			c.notify("error", "Connection error. Please check if the server is running.")
		}
		return rerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		aerr := &APIError{Path: path, Status: resp.StatusCode, Body: string(snippet)}
		c.notify("error", fmt.Sprintf("Request failed: HTTP %d", resp.StatusCode))
		return aerr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &RequestError{Path: path, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// GetJSON performs a GET and decodes the JSON response.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.DoJSON(ctx, http.MethodGet, path, nil, out)
}

// PostJSON performs a POST with a JSON body.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	return c.DoJSON(ctx, http.MethodPost, path, body, out)
}

// GetJSONRetry re-issues a GET up to MaxRetries times with exponential
// backoff (1s, 2s, 4s) and gives up with ErrNoResult. Reserved for
// idempotent reads; never used for generation.
func (c *Client) GetJSONRetry(ctx context.Context, path string, out interface{}) error {
	for attempt := 0; attempt < MaxRetries; attempt++ {
		err := c.GetJSON(ctx, path, out)
		if err == nil {
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		LogWarn("attempt %d/%d failed for %s: %v", attempt+1, MaxRetries, path, err)
		if attempt < MaxRetries-1 {
			c.sleep(time.Duration(1<<attempt) * time.Second)
		}
	}
	return ErrNoResult
}

// Download performs a GET and returns the raw body, for file previews
// and server-side session exports.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return nil, &RequestError{Path: path, Err: err}
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &RequestError{Path: path, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Path: path, Status: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}

// CheckHealth probes /api/health with a short timeout. A non-response
// means "offline", not an error; nothing is notified.
func (c *Client) CheckHealth(ctx context.Context) (Health, *HealthStatus) {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/api/health"), nil)
	if err != nil {
		return HealthOffline, nil
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return HealthOffline, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return HealthOffline, nil
	}

	var hs HealthStatus
	if err := json.NewDecoder(resp.Body).Decode(&hs); err != nil {
		// Backend answered; treat undecodable payloads as reachable.
		return HealthBackendReady, nil
	}
	return hs.Classify(), &hs
}
