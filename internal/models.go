package internal

import (
	"encoding/json"
	"time"
)

// Session represents a chat session as returned by the backend.
// The server is the source of truth; the client only caches the
// active session.
type Session struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsPinned  bool   `json:"is_pinned"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// SessionList is the payload of GET /api/sessions.
type SessionList struct {
	Sessions []Session `json:"sessions"`
	Current  int64     `json:"current,omitempty"`
}

// Message is a single message within a session. IDs are assigned by
// the server and are strictly increasing within a session.
type Message struct {
	ID        int64           `json:"id"`
	Role      string          `json:"role"` // "user" or "assistant"
	Content   string          `json:"content"`
	CreatedAt string          `json:"created_at,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
}

// MessageList is the payload of GET /api/sessions/{id}[?after_id=n].
type MessageList struct {
	SessionID int64     `json:"session_id,omitempty"`
	Messages  []Message `json:"messages"`
}

// Attachment is a staged file sent along with a chat message.
type Attachment struct {
	Name string `json:"name"`
	Type string `json:"type"` // "image" or "document"
	Data string `json:"data,omitempty"`
}

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message    string       `json:"message"`
	SessionID  int64        `json:"session_id"`
	Files      []Attachment `json:"files"`
	DeepSearch bool         `json:"deep_search"`
}

// ApprovalRequest is the structured payload the backend embeds in the
// chat stream after the approval marker. It is resolved by exactly one
// client decision.
type ApprovalRequest struct {
	Tool   string          `json:"tool"`
	Args   json.RawMessage `json:"args"`
	ID     string          `json:"id"`
	Reason string          `json:"reason"`
}

// DecisionResult is the payload of POST /api/agent/allow.
type DecisionResult struct {
	Status string          `json:"status"` // "success", "denied", or an error status
	Tool   string          `json:"tool,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// HealthStatus is the payload of GET /api/health. Either the ollama
// block or the bare status field may be present depending on backend
// version.
type HealthStatus struct {
	Ollama *struct {
		Available bool   `json:"available"`
		Model     string `json:"model,omitempty"`
	} `json:"ollama,omitempty"`
	Status string `json:"status,omitempty"`
}

// Health tri-state derived from HealthStatus plus the HTTP outcome.
type Health int

const (
	HealthOffline Health = iota
	HealthBackendReady
	HealthConnected
)

func (h Health) String() string {
	switch h {
	case HealthConnected:
		return "Connected"
	case HealthBackendReady:
		return "Backend Ready"
	default:
		return "Offline"
	}
}

// Classify maps a health payload to the tri-state used by the UI.
// A reachable backend without a responding model is "Backend Ready".
func (hs *HealthStatus) Classify() Health {
	if hs == nil {
		return HealthOffline
	}
	if hs.Ollama != nil && hs.Ollama.Available {
		return HealthConnected
	}
	return HealthBackendReady
}

// Stats is the dashboard payload of GET /api/stats.
type Stats struct {
	TotalDocuments int64  `json:"total_documents"`
	TotalChunks    int64  `json:"total_chunks"`
	TotalSessions  int64  `json:"total_sessions"`
	TotalMessages  int64  `json:"total_messages"`
	CurrentModel   string `json:"current_model"`
	HybridSearch   bool   `json:"hybrid_search"`
}

// FileInfo describes an uploaded file as listed by GET /api/files.
type FileInfo struct {
	Name     string   `json:"name"`
	Size     int64    `json:"size"`
	SizeText string   `json:"size_formatted,omitempty"`
	Indexed  bool     `json:"indexed"`
	Tags     []string `json:"tags,omitempty"`
	Modified string   `json:"modified,omitempty"`
}

// FileList is the payload of GET /api/files.
type FileList struct {
	Files []FileInfo `json:"files"`
}

// Prompt is a saved prompt template.
type Prompt struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// PromptList is the payload of GET /api/prompts.
type PromptList struct {
	Prompts []Prompt `json:"prompts"`
}

// Settings mirrors the backend configuration document. Keys the client
// does not know about are preserved untouched.
type Settings map[string]interface{}

// Mode returns the chat mode ("cli" or "browser") from a settings
// payload, defaulting to cli when absent.
func (s Settings) Mode() string {
	if m, ok := s["mode"].(string); ok && m != "" {
		return m
	}
	return "cli"
}

// SearchResults is the payload of GET /api/search.
type SearchResults struct {
	Sessions []Session `json:"sessions"`
	Messages []struct {
		SessionID int64  `json:"session_id"`
		Snippet   string `json:"snippet"`
	} `json:"messages"`
	Files []FileInfo `json:"files"`
}

// ParseMessageTime parses a server timestamp, tolerating both RFC3339
// and the backend's second-precision format.
func ParseMessageTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02 15:04:05", s); err == nil {
		return t
	}
	return time.Time{}
}
