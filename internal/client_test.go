package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func noSleep(c *Client) *Client {
	c.sleep = func(time.Duration) {}
	return c
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://localhost:5000/")
	if c.BaseURL != "http://localhost:5000" {
		t.Errorf("BaseURL = %q", c.BaseURL)
	}
}

func TestDoJSONNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	var notified string
	c := NewClient(srv.URL)
	c.Notify = func(level, message string) { notified = level }

	err := c.GetJSON(context.Background(), "/api/stats", nil)
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
	if notified != "error" {
		t.Errorf("notification level = %q, want error", notified)
	}
}

func TestDoJSONHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"nope"}`, http.StatusBadRequest)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	err := c.GetJSON(context.Background(), "/api/stats", nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("Status = %d", apiErr.Status)
	}
	if apiErr.Path != "/api/stats" {
		t.Errorf("Path = %q", apiErr.Path)
	}
}

func TestGetJSONRetryEventuallySucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			http.Error(w, "warming up", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"total_documents":4}`))
	}))
	t.Cleanup(srv.Close)

	c := noSleep(NewClient(srv.URL))
	var out Stats
	if err := c.GetJSONRetry(context.Background(), "/api/stats", &out); err != nil {
		t.Fatalf("GetJSONRetry() error = %v", err)
	}
	if out.TotalDocuments != 4 {
		t.Errorf("TotalDocuments = %d", out.TotalDocuments)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
}

func TestGetJSONRetryExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := noSleep(NewClient(srv.URL))
	err := c.GetJSONRetry(context.Background(), "/api/stats", nil)
	if !errors.Is(err, ErrNoResult) {
		t.Fatalf("error = %v, want ErrNoResult", err)
	}
	if got := calls.Load(); got != MaxRetries {
		t.Errorf("calls = %d, want %d", got, MaxRetries)
	}
}

func TestGetJSONRetryStopsOnCancel(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient(srv.URL)
	c.sleep = func(time.Duration) { cancel() }

	err := c.GetJSONRetry(ctx, "/api/stats", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	// The cancellation lands during the first backoff; the second
	// attempt observes it and no third is made.
	if got := calls.Load(); got != 2 {
		t.Errorf("calls = %d after cancel, want 2", got)
	}
}

func TestCheckHealthTriState(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
		want Health
	}{
		{
			name: "model available",
			body: `{"ollama":{"available":true,"model":"llama3"}}`,
			code: http.StatusOK,
			want: HealthConnected,
		},
		{
			name: "backend up without model",
			body: `{"ollama":{"available":false}}`,
			code: http.StatusOK,
			want: HealthBackendReady,
		},
		{
			name: "bare status payload",
			body: `{"status":"ok"}`,
			code: http.StatusOK,
			want: HealthBackendReady,
		},
		{
			name: "server error",
			body: `oops`,
			code: http.StatusInternalServerError,
			want: HealthOffline,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.code)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(srv.URL)
			got, _ := c.CheckHealth(context.Background())
			if got != tt.want {
				t.Errorf("CheckHealth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckHealthOffline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	got, status := c.CheckHealth(context.Background())
	if got != HealthOffline {
		t.Errorf("CheckHealth() = %v, want offline", got)
	}
	if status != nil {
		t.Errorf("status = %+v, want nil", status)
	}
}

func TestQuietSuppressesNotifications(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	var loud int
	c := NewClient(srv.URL)
	c.Notify = func(level, message string) { loud++ }

	_ = c.Quiet().GetJSON(context.Background(), "/api/stats", nil)
	if loud != 0 {
		t.Errorf("quiet client raised %d notifications", loud)
	}

	_ = c.GetJSON(context.Background(), "/api/stats", nil)
	if loud != 1 {
		t.Errorf("original client notifications = %d, want 1", loud)
	}
}
