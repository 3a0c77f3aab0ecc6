package internal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// chunkedServer streams the given chunks with a flush after each one.
func chunkedServer(t *testing.T, chunks []string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("response writer does not support flushing")
			return
		}
		for _, c := range chunks {
			_, _ = w.Write([]byte(c))
			flusher.Flush()
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestStreamChatAccumulatesChunks(t *testing.T) {
	srv := chunkedServer(t, []string{"The answer ", "is in the ", "report."})
	c := NewClient(srv.URL)

	var last string
	res, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1},
		func(visible string) { last = visible })
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	want := "The answer is in the report."
	if res.Text != want {
		t.Errorf("Text = %q, want %q", res.Text, want)
	}
	// The rendered buffer always equals the concatenation received so
	// far; at the end that is the full reply.
	if last != want {
		t.Errorf("final visible buffer = %q, want %q", last, want)
	}
	if res.Approval != nil || res.Stopped {
		t.Errorf("unexpected interrupt or stop: %+v", res)
	}
}

func TestStreamChatApprovalInterrupt(t *testing.T) {
	srv := chunkedServer(t, []string{
		"I need to remove that file.\n",
		ApprovalMarker + `{"tool":"delete_file","args":{"name":"x"},"id":"a1","reason":"r"}`,
	})
	c := NewClient(srv.URL)

	var last string
	res, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1},
		func(visible string) { last = visible })
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}

	if res.Approval == nil {
		t.Fatal("approval interrupt not detected")
	}
	if res.Approval.Tool != "delete_file" || res.Approval.ID != "a1" || res.Approval.Reason != "r" {
		t.Errorf("approval = %+v", res.Approval)
	}
	if res.Text != "I need to remove that file.\n" {
		t.Errorf("pre-marker text = %q", res.Text)
	}
	// The marker and payload never reach the visible buffer.
	if last != "I need to remove that file.\n" {
		t.Errorf("visible buffer leaked marker content: %q", last)
	}
}

func TestStreamChatApprovalPayloadSplitAcrossChunks(t *testing.T) {
	// The payload arrives in pieces; the consumer keeps reading until
	// it parses.
	srv := chunkedServer(t, []string{
		"Working on it. ",
		ApprovalMarker + `{"tool":"ingest_fi`,
		`le","args":{},"id":"b2","reason":"new upload"}`,
	})
	c := NewClient(srv.URL)

	res, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1}, nil)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if res.Approval == nil {
		t.Fatal("split payload never parsed")
	}
	if res.Approval.Tool != "ingest_file" || res.Approval.ID != "b2" {
		t.Errorf("approval = %+v", res.Approval)
	}
}

func TestStreamChatMalformedApprovalDropped(t *testing.T) {
	// The payload never becomes valid JSON. The interrupt is dropped
	// at stream end and the pre-marker text survives as the reply.
	srv := chunkedServer(t, []string{
		"Partial answer.",
		ApprovalMarker + `{"tool": broken`,
	})
	c := NewClient(srv.URL)

	res, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1}, nil)
	if err != nil {
		t.Fatalf("StreamChat() error = %v", err)
	}
	if res.Approval != nil {
		t.Fatal("malformed payload produced an approval")
	}
	if res.Text != "Partial answer." {
		t.Errorf("Text = %q, want the pre-marker text only", res.Text)
	}
}

func TestStreamChatStop(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("Thinking about "))
		flusher.Flush()
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := NewClient(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())

	got := make(chan *StreamResult, 1)
	errs := make(chan error, 1)
	go func() {
		res, err := c.StreamChat(ctx, &ChatRequest{Message: "q", SessionID: 1}, nil)
		got <- res
		errs <- err
	}()

	// Let the first chunk land, then stop.
	time.Sleep(100 * time.Millisecond)
	cancel()

	res := <-got
	if err := <-errs; err != nil {
		t.Fatalf("stop must not surface an error, got %v", err)
	}
	if res == nil || !res.Stopped {
		t.Fatalf("result = %+v, want Stopped", res)
	}
	// Partial text is kept, not rolled back.
	if res.Text != "Thinking about " {
		t.Errorf("partial text = %q", res.Text)
	}
}

func TestStreamChatHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.URL)
	_, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1}, nil)
	if err == nil {
		t.Fatal("expected an error for HTTP 503")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d", apiErr.Status)
	}
}

func TestStreamChatNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(srv.URL)
	_, err := c.StreamChat(context.Background(), &ChatRequest{Message: "q", SessionID: 1}, nil)
	if err == nil {
		t.Fatal("expected an error against a closed server")
	}
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("error type = %T, want *RequestError", err)
	}
}
