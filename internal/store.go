package internal

import (
	"time"

	"github.com/google/uuid"
)

// sessionNameLimit is how much of the first message becomes the lazily
// created session's name.
const sessionNameLimit = 50

// SessionNameFor derives a new session's name from its first message.
func SessionNameFor(text string) string {
	if runes := []rune(text); len(runes) > sessionNameLimit {
		return string(runes[:sessionNameLimit])
	}
	return text
}

// PendingMessage is an optimistic local echo of an outgoing user
// message, shown before the server confirms it. It carries a key so
// reconciliation can identify and drop it once the real message
// arrives through a fetch.
type PendingMessage struct {
	Key     string
	Content string
	SentAt  time.Time
}

// SessionStore is the client-side view of the active conversation:
// the active session id (0 means "no session yet": the first message
// creates one), the ordered message list, and the polling cursor. It
// holds state only; network calls stay with the Client, and all
// mutation happens on the UI event loop, so there is no locking.
//
// Invariant: the cursor always equals the maximum id across all
// messages ever applied for the active session. Apply is the single
// place where fetched messages and optimistic echoes meet; appending
// an echo and advancing the cursor are never reordered around it.
type SessionStore struct {
	activeID int64
	messages []Message
	cursor   int64
	pending  []PendingMessage
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// ActiveID returns the active session id, 0 when none.
func (s *SessionStore) ActiveID() int64 { return s.activeID }

// HasActive reports whether a session is active.
func (s *SessionStore) HasActive() bool { return s.activeID != 0 }

// Cursor returns the highest message id applied so far.
func (s *SessionStore) Cursor() int64 { return s.cursor }

// Messages returns the ordered message list.
func (s *SessionStore) Messages() []Message { return s.messages }

// Pending returns the outstanding optimistic echoes.
func (s *SessionStore) Pending() []PendingMessage { return s.pending }

// Clear resets to the "no session yet" state (the New Chat action).
// The next outgoing message creates a session lazily.
func (s *SessionStore) Clear() {
	s.activeID = 0
	s.cursor = 0
	s.messages = nil
	s.pending = nil
}

// Activate makes the given session active with an empty history and a
// zero cursor, so the next fetch starts from the beginning. Used both
// when selecting an existing session (followed by a full history
// Apply) and after lazy creation, where the zero cursor lets the
// first poll capture the just-sent message. Outstanding echoes are
// kept: lazy creation happens mid-send.
func (s *SessionStore) Activate(id int64) {
	s.activeID = id
	s.cursor = 0
	s.messages = nil
}

// AppendLocal records an optimistic echo for an outgoing user message
// and returns its key. The echo lives outside the message list and is
// reconciled away by the next Apply.
func (s *SessionStore) AppendLocal(content string) string {
	key := uuid.NewString()
	s.pending = append(s.pending, PendingMessage{
		Key:     key,
		Content: content,
		SentAt:  time.Now(),
	})
	return key
}

// DropLocal removes one optimistic echo by key; used when a send
// fails outright and the echo must be rolled back.
func (s *SessionStore) DropLocal(key string) {
	for i, p := range s.pending {
		if p.Key == key {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}

// Apply merges fetched messages into the store: duplicates (id at or
// below the cursor) are dropped, the rest are appended in the order
// the server returned them, the cursor advances to the maximum id
// seen, and optimistic echoes confirmed by an incoming user message
// are removed. Returns the messages actually appended.
func (s *SessionStore) Apply(msgs []Message) []Message {
	var appended []Message
	for _, m := range msgs {
		if m.ID <= s.cursor {
			continue
		}
		s.messages = append(s.messages, m)
		s.cursor = m.ID
		if m.Role == "user" {
			s.confirmPending(m.Content)
		}
		appended = append(appended, m)
	}
	return appended
}

// confirmPending drops the oldest optimistic echo matching the
// confirmed content. Matching by content is enough here: only one
// send is in flight at a time.
func (s *SessionStore) confirmPending(content string) {
	for i, p := range s.pending {
		if p.Content == content {
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return
		}
	}
}
