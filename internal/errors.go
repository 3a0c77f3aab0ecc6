package internal

import (
	"errors"
	"fmt"
)

// ErrNoResult is returned when a retried call exhausts its attempts.
// Callers must treat it as "operation failed, state unchanged".
var ErrNoResult = errors.New("no result after retries")

// APIError represents a non-2xx HTTP response from the backend.
type APIError struct {
	Path   string
	Status int
	Body   string
	Err    error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %s returned HTTP %d", e.Path, e.Status)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// RequestError represents a network-level failure (connection refused,
// timeout, cancelled context).
type RequestError struct {
	Path string
	Err  error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request error: %s: %v", e.Path, e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// AppError represents a 2xx response whose payload reports failure
// (status != success).
type AppError struct {
	Path    string
	Status  string
	Message string
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend error [%s] %s: %s", e.Status, e.Path, e.Message)
	}
	return fmt.Sprintf("backend error [%s] %s", e.Status, e.Path)
}

// StreamError represents a malformed approval payload encountered
// mid-stream. It terminates the stream; it is never retried.
type StreamError struct {
	Payload string
	Err     error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("stream error: malformed approval payload: %v", e.Err)
}

func (e *StreamError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during session export.
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
