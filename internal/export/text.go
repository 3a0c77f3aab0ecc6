package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// TextExporter exports sessions as plain text
type TextExporter struct{}

// Export exports a session and its messages as plain text
func (e *TextExporter) Export(session *internal.Session, messages []internal.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "%s\n", headerName(session))
	_, _ = fmt.Fprintf(w, "%s\n\n", strings.Repeat("=", len(headerName(session))))

	for _, msg := range messages {
		role := strings.ToUpper(msg.Role)
		if msg.CreatedAt != "" {
			_, _ = fmt.Fprintf(w, "[%s] %s:\n%s\n\n", msg.CreatedAt, role, msg.Content)
		} else {
			_, _ = fmt.Fprintf(w, "%s:\n%s\n\n", role, msg.Content)
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *TextExporter) Extension() string {
	return "txt"
}
