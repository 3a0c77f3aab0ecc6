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

// ApprovalMarker is the literal sentinel the backend embeds in the
// chat stream when an agent action needs user consent. Text before it
// is normal content; text after it is an ApprovalRequest JSON payload.
const ApprovalMarker = "[APPROVAL_REQUIRED]"

// streamReadSize is the read granularity for the chunked response.
const streamReadSize = 4096

// ChunkFunc is invoked after every received chunk with the full
// accumulated visible buffer, for incremental rendering.
type ChunkFunc func(visible string)

// StreamResult is the transient outcome of one streaming turn. It is
// not persisted beyond the exchange.
type StreamResult struct {
	// Text is the visible content: everything streamed, or the part
	// before the approval marker when one was seen.
	Text string
	// Approval is non-nil when the stream was interrupted by a
	// successfully parsed approval request.
	Approval *ApprovalRequest
	// Stopped reports a deliberate cancellation. Partial text is kept;
	// there is no rollback.
	Stopped bool
	// Elapsed is the wall time of the exchange, for the reply footer.
	Elapsed time.Duration
}

// StreamChat opens a cancellable streaming request to the chat
// endpoint and consumes it. The accumulated buffer is scanned for the
// approval marker on every chunk; once the payload after the marker
// parses, reading stops early: the server has paused work pending
// the decision. A marker whose payload never parses by stream end is
// logged and ignored.
//
// Streaming failures are not retried; retry is reserved for
// idempotent reads.
func (c *Client) StreamChat(ctx context.Context, chat *ChatRequest, onChunk ChunkFunc) (*StreamResult, error) {
	payload, err := json.Marshal(chat)
	if err != nil {
		return nil, fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/chat"), bytes.NewReader(payload))
	if err != nil {
		return nil, &RequestError{Path: "/chat", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	// The shared client enforces a whole-request timeout, which would
	// cut long generations short. Streams are bounded by ctx instead.
	streamClient := &http.Client{Transport: c.HTTP.Transport}

	start := time.Now()
	resp, err := streamClient.Do(req)
	if err != nil {
		if isCancel(ctx, err) {
			return &StreamResult{Stopped: true, Elapsed: time.Since(start)}, nil
		}
		c.notify("error", "Generation failed")
		return nil, &RequestError{Path: "/chat", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.notify("error", fmt.Sprintf("Generation failed: HTTP %d", resp.StatusCode))
		return nil, &APIError{Path: "/chat", Status: resp.StatusCode}
	}

	var full strings.Builder
	buf := make([]byte, streamReadSize)
	for {
		n, readErr := resp.Body.Read(buf)
		if n > 0 {
			full.WriteString(string(buf[:n]))
			text := full.String()

			if idx := strings.Index(text, ApprovalMarker); idx >= 0 {
				pre := text[:idx]
				if onChunk != nil {
					onChunk(pre)
				}
				raw := strings.TrimSpace(text[idx+len(ApprovalMarker):])
				var approval ApprovalRequest
				if err := json.Unmarshal([]byte(raw), &approval); err == nil {
					return &StreamResult{
						Text:     pre,
						Approval: &approval,
						Elapsed:  time.Since(start),
					}, nil
				}
				// Payload may still be arriving; keep reading. If the
				// stream ends before it parses, the interrupt is
				// dropped below.
			} else if onChunk != nil {
				onChunk(text)
			}
		}

		if readErr != nil {
			text := full.String()
			visible := text
			if idx := strings.Index(text, ApprovalMarker); idx >= 0 {
				visible = text[:idx]
				raw := strings.TrimSpace(text[idx+len(ApprovalMarker):])
				serr := &StreamError{Payload: raw, Err: errors.New("incomplete payload at stream end")}
				LogError("approval interrupt dropped: %v", serr)
			}

			if errors.Is(readErr, io.EOF) {
				return &StreamResult{Text: visible, Elapsed: time.Since(start)}, nil
			}
			if isCancel(ctx, readErr) {
				return &StreamResult{Text: visible, Stopped: true, Elapsed: time.Since(start)}, nil
			}
			c.notify("error", "Generation failed")
			return &StreamResult{Text: visible, Elapsed: time.Since(start)},
				&RequestError{Path: "/chat", Err: readErr}
		}
	}
}

// isCancel distinguishes a deliberate stop from a network failure.
func isCancel(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, context.Canceled)
}
