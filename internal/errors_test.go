package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{Path: "/api/stats", Status: 503, Body: "down"}
	msg := err.Error()
	if !strings.Contains(msg, "/api/stats") || !strings.Contains(msg, "503") {
		t.Errorf("Error() = %q", msg)
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := &RequestError{Path: "/chat", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("RequestError does not unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "/chat") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestStreamErrorUnwrap(t *testing.T) {
	inner := errors.New("unexpected end of JSON input")
	err := &StreamError{Payload: `{"tool":`, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("StreamError does not unwrap to its cause")
	}
}

func TestErrorsAsThroughWrapping(t *testing.T) {
	var apiErr *APIError
	wrapped := fmt.Errorf("load stats: %w", &APIError{Path: "/api/stats", Status: 500})
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As failed through fmt wrapping")
	}
	if apiErr.Status != 500 {
		t.Errorf("Status = %d", apiErr.Status)
	}
}

func TestExportErrorMessage(t *testing.T) {
	inner := errors.New("disk full")
	err := &ExportError{Format: "md", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ExportError does not unwrap")
	}
	if !strings.Contains(err.Error(), "md") {
		t.Errorf("Error() = %q", err.Error())
	}
}
