package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/iksnae/ragchat/internal"
)

func testSession() *internal.Session {
	return &internal.Session{ID: 3, Name: "Quarterly numbers", UpdatedAt: "2026-08-28 10:30:00"}
}

func testMessages() []internal.Message {
	return []internal.Message{
		{ID: 1, Role: "user", Content: "What were the Q2 totals?", CreatedAt: "2026-08-28 10:29:00"},
		{ID: 2, Role: "assistant", Content: "Revenue was **up 12%**."},
	}
}

func TestNewExporter(t *testing.T) {
	tests := []struct {
		format  string
		wantExt string
		wantErr bool
	}{
		{"txt", "txt", false},
		{"text", "txt", false},
		{"md", "md", false},
		{"markdown", "md", false},
		{"json", "json", false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			exp, err := NewExporter(tt.format)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewExporter(%q) error = %v", tt.format, err)
			}
			if err == nil && exp.Extension() != tt.wantExt {
				t.Errorf("Extension() = %q, want %q", exp.Extension(), tt.wantExt)
			}
		})
	}
}

func TestTextExport(t *testing.T) {
	var buf bytes.Buffer
	exp := &TextExporter{}
	if err := exp.Export(testSession(), testMessages(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Quarterly numbers") {
		t.Error("session name missing")
	}
	if !strings.Contains(out, "USER") || !strings.Contains(out, "ASSISTANT") {
		t.Errorf("role labels missing:\n%s", out)
	}
	if !strings.Contains(out, "What were the Q2 totals?") {
		t.Error("message content missing")
	}
}

func TestMarkdownExport(t *testing.T) {
	var buf bytes.Buffer
	exp := &MarkdownExporter{}
	if err := exp.Export(testSession(), testMessages(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "# Quarterly numbers") {
		t.Errorf("missing title header:\n%s", out)
	}
	if !strings.Contains(out, "**User:**") || !strings.Contains(out, "**Assistant:**") {
		t.Error("role headings missing")
	}
	// Emphasis in message content is escaped so it exports verbatim.
	if !strings.Contains(out, `\*\*up 12%\*\*`) {
		t.Errorf("markdown not escaped:\n%s", out)
	}
}

func TestMarkdownExportPreservesCodeBlocks(t *testing.T) {
	msgs := []internal.Message{
		{ID: 1, Role: "assistant", Content: "Run this:\n```sql\nSELECT ** FROM t;\n```"},
	}

	var buf bytes.Buffer
	exp := &MarkdownExporter{}
	if err := exp.Export(testSession(), msgs, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(buf.String(), "SELECT ** FROM t;") {
		t.Errorf("code block content was escaped:\n%s", buf.String())
	}
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	exp := &JSONExporter{}
	if err := exp.Export(testSession(), testMessages(), &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var decoded struct {
		Session  internal.Session   `json:"session"`
		Messages []internal.Message `json:"messages"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Session.ID != 3 {
		t.Errorf("session id = %d", decoded.Session.ID)
	}
	if len(decoded.Messages) != 2 {
		t.Errorf("messages = %d, want 2", len(decoded.Messages))
	}
}

func TestExportEmptySession(t *testing.T) {
	for _, format := range []string{"txt", "md", "json"} {
		t.Run(format, func(t *testing.T) {
			exp, err := NewExporter(format)
			if err != nil {
				t.Fatal(err)
			}
			var buf bytes.Buffer
			if err := exp.Export(&internal.Session{ID: 1}, nil, &buf); err != nil {
				t.Fatalf("empty export failed: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("empty export produced no output at all")
			}
		})
	}
}
