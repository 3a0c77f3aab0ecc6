package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/ragchat/internal"
)

// JSONExporter exports sessions in JSON format (pretty-printed)
type JSONExporter struct{}

type jsonSession struct {
	Session  *internal.Session  `json:"session"`
	Messages []internal.Message `json:"messages"`
}

// Export exports a session and its messages to JSON format
func (e *JSONExporter) Export(session *internal.Session, messages []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonSession{Session: session, Messages: messages})
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
