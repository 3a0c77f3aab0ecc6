package internal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"
)

// Well-known state keys. Nothing in the core depends on these for
// correctness; they only restore the previous look on startup.
const (
	StateTheme     = "theme"
	StateLastView  = "last_view"
	StateSessionID = "session_id"
)

// StateStore persists small UI preferences (theme, last view, last
// session id) in a local SQLite file, the terminal
// equivalent of the browser's localStorage. All reads degrade to the
// zero value when the store is missing or unreadable.
type StateStore struct {
	db *sql.DB
}

// DefaultStatePath returns ~/.ragchat/state.db.
func DefaultStatePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".ragchat", "state.db"), nil
}

// OpenStateStore opens (and if needed creates) the state database.
func OpenStateStore(path string) (*StateStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS ui_state (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize state schema: %w", err)
	}
	return &StateStore{db: db}, nil
}

// Close releases the underlying database.
func (s *StateStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the stored value for key, or "" when absent.
func (s *StateStore) Get(key string) string {
	if s == nil || s.db == nil {
		return ""
	}
	var value string
	err := s.db.QueryRow("SELECT value FROM ui_state WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err != sql.ErrNoRows {
			LogDebug("state read failed for %q: %v", key, err)
		}
		return ""
	}
	return value
}

// Set stores a value for key, replacing any previous one.
func (s *StateStore) Set(key, value string) {
	if s == nil || s.db == nil {
		return
	}
	_, err := s.db.Exec(
		"INSERT INTO ui_state (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		LogDebug("state write failed for %q: %v", key, err)
	}
}

// GetInt returns the stored value parsed as an integer, 0 when absent
// or malformed.
func (s *StateStore) GetInt(key string) int64 {
	v := s.Get(key)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// SetInt stores an integer value for key.
func (s *StateStore) SetInt(key string, value int64) {
	s.Set(key, strconv.FormatInt(value, 10))
}

// LastView returns the persisted view, defaulting to the dashboard
// for unknown or missing names.
func (s *StateStore) LastView() View {
	if v, ok := ParseView(s.Get(StateLastView)); ok {
		return v
	}
	return ViewDashboard
}

// SaveView persists the current view.
func (s *StateStore) SaveView(v View) {
	s.Set(StateLastView, v.String())
}
