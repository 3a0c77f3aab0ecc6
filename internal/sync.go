package internal

import (
	"context"
	"time"
)

// PollInterval is the canonical synchronization interval. One poller,
// one interval.
const PollInterval = 3 * time.Second

// SyncResult is what one polling cycle fetched. Messages are not yet
// applied to the store: polling runs off the event loop, and the
// store is mutated only on it.
type SyncResult struct {
	// Mode is the backend chat mode ("cli" or "browser").
	Mode string
	// Settings is the full settings document fetched for the cycle.
	Settings Settings
	// Messages are those newer than the cursor snapshot, in server
	// order (ascending ids; the client never re-sorts).
	Messages []Message
}

// Synchronizer reconciles local state with the server on a fixed
// timer: every cycle re-fetches mode/config and, only while the
// chat screen is visible with an active session, fetches messages
// newer than the polling cursor. Messages are fetched in cli mode
// too: that is how conversation driven from the backend's CLI side
// reaches this screen. With no active session the message fetch is
// not even issued.
type Synchronizer struct {
	quiet *Client
}

// NewSynchronizer binds a poller to a client. Polling failures are
// logged, never notified.
func NewSynchronizer(client *Client) *Synchronizer {
	return &Synchronizer{quiet: client.Quiet()}
}

// Poll runs one cycle against a snapshot of the store's active
// session and cursor. The caller applies the returned messages on the
// event loop.
func (s *Synchronizer) Poll(ctx context.Context, viewingChat bool, sessionID, afterID int64) (*SyncResult, error) {
	var settings Settings
	if err := s.quiet.GetJSON(ctx, "/api/settings", &settings); err != nil {
		LogDebug("poll: settings fetch failed: %v", err)
		return nil, err
	}

	res := &SyncResult{Mode: settings.Mode(), Settings: settings}

	if !viewingChat || sessionID == 0 {
		return res, nil
	}

	msgs, err := s.quiet.Messages(ctx, sessionID, afterID)
	if err != nil {
		LogDebug("poll: message fetch failed: %v", err)
		return res, err
	}
	res.Messages = msgs
	return res, nil
}
