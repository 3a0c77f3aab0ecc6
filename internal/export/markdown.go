package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/ragchat/internal"
)

// MarkdownExporter exports sessions in Markdown format
type MarkdownExporter struct{}

// Export exports a session and its messages to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, messages []internal.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", headerName(session))
	_, _ = fmt.Fprintf(w, "**Session:** %d  \n", session.ID)
	if session.UpdatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Updated:** %s  \n", session.UpdatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range messages {
		timestamp := ""
		if msg.CreatedAt != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.CreatedAt)
		}

		content := escapeMarkdown(msg.Content)
		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", roleTitle(msg.Role), timestamp, content)

		if i < len(messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

func roleTitle(role string) string {
	if role == "" {
		return "Unknown"
	}
	return strings.ToUpper(role[:1]) + role[1:]
}

func headerName(session *internal.Session) string {
	if session.Name != "" {
		return session.Name
	}
	return fmt.Sprintf("Session %d", session.ID)
}

// escapeMarkdown escapes markdown special characters outside code blocks
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	var result []string
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(line, "```") {
			inCodeBlock = !inCodeBlock
			result = append(result, line)
		} else if inCodeBlock {
			result = append(result, line)
		} else {
			line = strings.ReplaceAll(line, "**", "\\*\\*")
			line = strings.ReplaceAll(line, "__", "\\_\\_")
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
