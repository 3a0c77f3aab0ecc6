package internal

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
)

// Endpoint wrappers over Client. Paths must stay byte-compatible with
// the backend; do not "clean them up".

// ListSessions fetches all sessions plus the server's current id.
func (c *Client) ListSessions(ctx context.Context) (*SessionList, error) {
	var out SessionList
	if err := c.GetJSON(ctx, "/api/sessions", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSession creates a session and returns its server-assigned id.
func (c *Client) CreateSession(ctx context.Context, name string) (int64, error) {
	var out struct {
		Status    string `json:"status"`
		SessionID int64  `json:"session_id"`
	}
	if err := c.PostJSON(ctx, "/api/sessions", map[string]string{"name": name}, &out); err != nil {
		return 0, err
	}
	if out.SessionID == 0 {
		return 0, &AppError{Path: "/api/sessions", Status: out.Status, Message: "no session id returned"}
	}
	return out.SessionID, nil
}

// Messages fetches messages for a session. afterID = 0 fetches the
// full history; otherwise only messages with greater ids are returned.
func (c *Client) Messages(ctx context.Context, sessionID, afterID int64) ([]Message, error) {
	path := fmt.Sprintf("/api/sessions/%d", sessionID)
	if afterID > 0 {
		path = fmt.Sprintf("%s?after_id=%d", path, afterID)
	}
	var out MessageList
	if err := c.GetJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// RenameSession renames a session.
func (c *Client) RenameSession(ctx context.Context, sessionID int64, name string) error {
	path := fmt.Sprintf("/api/sessions/%d/rename", sessionID)
	var out struct {
		Success bool   `json:"success"`
		Status  string `json:"status"`
	}
	if err := c.DoJSON(ctx, http.MethodPut, path, map[string]string{"name": name}, &out); err != nil {
		return err
	}
	if !out.Success && out.Status != "success" {
		return &AppError{Path: path, Status: out.Status}
	}
	return nil
}

// PinSession sets a session's pinned flag.
func (c *Client) PinSession(ctx context.Context, sessionID int64, pinned bool) error {
	path := fmt.Sprintf("/api/sessions/%d/pin", sessionID)
	return c.PostJSON(ctx, path, map[string]bool{"is_pinned": pinned}, nil)
}

// DeleteSession deletes one session.
func (c *Client) DeleteSession(ctx context.Context, sessionID int64) error {
	return c.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/sessions/%d", sessionID), nil, nil)
}

// BulkDeleteSessions deletes several sessions in one call and returns
// the number the server actually removed.
func (c *Client) BulkDeleteSessions(ctx context.Context, ids []int64) (int, error) {
	var out struct {
		Status       string `json:"status"`
		DeletedCount int    `json:"deleted_count"`
	}
	body := map[string][]int64{"session_ids": ids}
	if err := c.PostJSON(ctx, "/api/sessions/bulk_delete", body, &out); err != nil {
		return 0, err
	}
	if out.Status != "success" {
		return 0, &AppError{Path: "/api/sessions/bulk_delete", Status: out.Status}
	}
	return out.DeletedCount, nil
}

// ExportSession downloads a server-side export (format "txt" or "md").
func (c *Client) ExportSession(ctx context.Context, sessionID int64, format string) ([]byte, error) {
	return c.Download(ctx, fmt.Sprintf("/api/sessions/%d/export?format=%s", sessionID, url.QueryEscape(format)))
}

// ResolveApproval submits an approve/deny decision for a pending
// agent action.
func (c *Client) ResolveApproval(ctx context.Context, sessionID int64, actionID, decision string) (*DecisionResult, error) {
	body := map[string]interface{}{
		"session_id": sessionID,
		"action_id":  actionID,
		"decision":   decision,
	}
	var out DecisionResult
	if err := c.PostJSON(ctx, "/api/agent/allow", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetSettings fetches the backend configuration document.
func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	var out Settings
	if err := c.GetJSON(ctx, "/api/settings", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateSettings merges the given keys into the backend configuration.
func (c *Client) UpdateSettings(ctx context.Context, changes Settings) error {
	var out struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := c.PostJSON(ctx, "/api/settings", changes, &out); err != nil {
		return err
	}
	if out.Status != "success" {
		return &AppError{Path: "/api/settings", Status: out.Status, Message: out.Error}
	}
	return nil
}

// ResetSettings restores backend defaults.
func (c *Client) ResetSettings(ctx context.Context) error {
	return c.PostJSON(ctx, "/api/settings/reset", nil, nil)
}

// SetMode switches the backend chat mode ("cli" or "browser").
func (c *Client) SetMode(ctx context.Context, mode string) error {
	return c.PostJSON(ctx, "/set_mode", map[string]string{"mode": mode}, nil)
}

// ListFiles fetches the uploaded file listing.
func (c *Client) ListFiles(ctx context.Context) ([]FileInfo, error) {
	var out FileList
	if err := c.GetJSON(ctx, "/api/files", &out); err != nil {
		return nil, err
	}
	return out.Files, nil
}

// UploadFiles posts the staged files as one multipart request.
func (c *Client) UploadFiles(ctx context.Context, files map[string]io.Reader) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, r := range files {
		part, err := mw.CreateFormFile("files", name)
		if err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
		if _, err := io.Copy(part, r); err != nil {
			return fmt.Errorf("stage %s: %w", name, err)
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/files/upload"), &buf)
	if err != nil {
		return &RequestError{Path: "/api/files/upload", Err: err}
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.HTTP.Do(req)
	if err != nil {
		c.notify("error", "Upload failed: connection error")
		return &RequestError{Path: "/api/files/upload", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.notify("error", fmt.Sprintf("Upload failed: HTTP %d", resp.StatusCode))
		return &APIError{Path: "/api/files/upload", Status: resp.StatusCode}
	}
	return nil
}

// DeleteFile removes an uploaded file by name.
func (c *Client) DeleteFile(ctx context.Context, name string) error {
	return c.DoJSON(ctx, http.MethodDelete, "/api/files/"+url.PathEscape(name), nil, nil)
}

// PreviewFile fetches a file preview.
func (c *Client) PreviewFile(ctx context.Context, name string) ([]byte, error) {
	return c.Download(ctx, "/api/files/preview/"+url.PathEscape(name))
}

// IngestFile asks the backend to (re)index one file.
func (c *Client) IngestFile(ctx context.Context, name string) error {
	return c.PostJSON(ctx, "/api/files/"+url.PathEscape(name)+"/ingest", nil, nil)
}

// SetFileTags replaces the tag list on a file.
func (c *Client) SetFileTags(ctx context.Context, name string, tags []string) error {
	return c.PostJSON(ctx, "/api/files/"+url.PathEscape(name)+"/tags", map[string][]string{"tags": tags}, nil)
}

// GetStats fetches the dashboard aggregates. Retried: the dashboard is
// the first thing shown and an idempotent read.
func (c *Client) GetStats(ctx context.Context) (*Stats, error) {
	var out Stats
	if err := c.GetJSONRetry(ctx, "/api/stats", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search runs a global search across sessions, messages and files.
func (c *Client) Search(ctx context.Context, query string) (*SearchResults, error) {
	var out SearchResults
	if err := c.GetJSON(ctx, "/api/search?q="+url.QueryEscape(query), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPrompts fetches saved prompt templates.
func (c *Client) ListPrompts(ctx context.Context) ([]Prompt, error) {
	var out PromptList
	if err := c.GetJSON(ctx, "/api/prompts", &out); err != nil {
		return nil, err
	}
	return out.Prompts, nil
}

// CreatePrompt saves a prompt template.
func (c *Client) CreatePrompt(ctx context.Context, title, content string) error {
	body := map[string]string{"title": title, "content": content}
	return c.PostJSON(ctx, "/api/prompts", body, nil)
}

// DeletePrompt removes a prompt template.
func (c *Client) DeletePrompt(ctx context.Context, id int64) error {
	return c.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/prompts/%d", id), nil, nil)
}
