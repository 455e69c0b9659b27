// Package client is the Go SDK the admin console builds on. There is no
// server push: every view is a cached snapshot, every mutation is followed
// by a re-fetch of the parent aggregate, and the server is always the
// source of truth.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"internship-management-api/models"
)

// APIError is any failure reported by the backend, whether as a non-2xx
// status or as success:false inside a 2xx body. Both are treated the same:
// surface the message, mutate nothing locally.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// IsConflict reports whether the server rejected the call because the
// record's status had moved under the caller.
func IsConflict(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusConflict
}

// IsNotFound reports whether the target record vanished.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// Client is a thin wrapper over the backend's request contract.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// envelope mirrors the backend's response shell. Payload fields live
// alongside it in each response struct.
type envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (e *envelope) failed() bool { return !e.Success }

func (e *envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// request performs one call and decodes the body into out, which must embed
// envelope. success:false in a 2xx body is an error exactly like a non-2xx
// status.
func (c *Client) request(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		// Ignore decode errors here; a non-JSON body still carries the
		// HTTP status.
		_ = json.Unmarshal(raw, &env)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Message: env.message()}
	}
	if env.failed() {
		return &APIError{Status: resp.StatusCode, Message: env.message()}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// --- Logbook ---

type logbookEntryResponse struct {
	envelope
	Entry *models.LogbookEntry `json:"entry"`
}

type logbookListResponse struct {
	envelope
	Entries []models.LogbookEntry `json:"entries"`
	Total   int                   `json:"total"`
}

// FetchLogbookEntry re-fetches one entry, the logbook aggregate root.
func (c *Client) FetchLogbookEntry(ctx context.Context, entryID int) (*models.LogbookEntry, error) {
	var resp logbookEntryResponse
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/api/v1/logbook/%d", entryID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// ListLogbookEntries lists entries, optionally filtered by status.
func (c *Client) ListLogbookEntries(ctx context.Context, status string) ([]models.LogbookEntry, error) {
	path := "/api/v1/logbook"
	if status != "" {
		path += "?status=" + status
	}
	var resp logbookListResponse
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}

// ReviewLogbookEntry submits a supervisor decision. observedStatus is the
// status this client last saw; the server answers 409 if it has moved.
func (c *Client) ReviewLogbookEntry(ctx context.Context, entryID int, observedStatus, targetStatus, feedback string) (*models.LogbookEntry, error) {
	body := map[string]string{
		"status":          targetStatus,
		"feedback":        feedback,
		"observed_status": observedStatus,
	}
	var resp logbookEntryResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/api/v1/logbook/%d/review", entryID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Entry, nil
}

// --- Tasks and assignments ---

type taskResponse struct {
	envelope
	Task *models.Task `json:"task"`
}

type taskListResponse struct {
	envelope
	Tasks []models.Task `json:"tasks"`
	Total int           `json:"total"`
}

type assignmentResponse struct {
	envelope
	Assignment *models.TaskAssignment `json:"assignment"`
}

// FetchTask re-fetches the full task aggregate with nested assignments,
// comments and attachments.
func (c *Client) FetchTask(ctx context.Context, taskID int) (*models.Task, error) {
	var resp taskResponse
	if err := c.request(ctx, http.MethodGet, fmt.Sprintf("/api/v1/tasks/%d", taskID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Task, nil
}

// ListTasks lists task aggregates, optionally filtered by the admin-owned
// task status.
func (c *Client) ListTasks(ctx context.Context, status string) ([]models.Task, error) {
	path := "/api/v1/tasks"
	if status != "" {
		path += "?status=" + status
	}
	var resp taskListResponse
	if err := c.request(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Tasks, nil
}

// UpdateAssignmentStatus changes one intern's status on one task.
func (c *Client) UpdateAssignmentStatus(ctx context.Context, taskID, internID int, observedStatus, targetStatus string, notes *string) (*models.TaskAssignment, error) {
	body := map[string]interface{}{
		"status":          targetStatus,
		"observed_status": observedStatus,
	}
	if notes != nil {
		body["notes"] = *notes
	}
	var resp assignmentResponse
	if err := c.request(ctx, http.MethodPatch, fmt.Sprintf("/api/v1/tasks/%d/assignments/%d", taskID, internID), body, &resp); err != nil {
		return nil, err
	}
	return resp.Assignment, nil
}

// ReopenAssignment moves a done assignment back to in_progress.
func (c *Client) ReopenAssignment(ctx context.Context, taskID, internID int) (*models.TaskAssignment, error) {
	var resp assignmentResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/assignments/%d/reopen", taskID, internID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Assignment, nil
}

// PauseAssignment moves an in_progress assignment back to pending.
func (c *Client) PauseAssignment(ctx context.Context, taskID, internID int) (*models.TaskAssignment, error) {
	var resp assignmentResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/assignments/%d/pause", taskID, internID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Assignment, nil
}

// --- Collaboration layer ---

type commentResponse struct {
	envelope
	Comment *models.TaskComment `json:"comment"`
}

type attachmentResponse struct {
	envelope
	Attachment *models.TaskAttachment `json:"attachment"`
}

// AddComment posts a comment on a task.
func (c *Client) AddComment(ctx context.Context, taskID int, body string) (*models.TaskComment, error) {
	var resp commentResponse
	if err := c.request(ctx, http.MethodPost, fmt.Sprintf("/api/v1/tasks/%d/comments", taskID), map[string]string{"body": body}, &resp); err != nil {
		return nil, err
	}
	return resp.Comment, nil
}

// EditComment overwrites a comment's body.
func (c *Client) EditComment(ctx context.Context, commentID int, body string) (*models.TaskComment, error) {
	var resp commentResponse
	if err := c.request(ctx, http.MethodPut, fmt.Sprintf("/api/v1/comments/%d", commentID), map[string]string{"body": body}, &resp); err != nil {
		return nil, err
	}
	return resp.Comment, nil
}

// DeleteComment hard-deletes a comment. Not idempotent: the second call on
// the same id fails with a not-found APIError.
func (c *Client) DeleteComment(ctx context.Context, commentID int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/comments/%d", commentID), nil, nil)
}

// UploadAttachment sends the file as multipart form data.
func (c *Client) UploadAttachment(ctx context.Context, taskID int, fileName string, file io.Reader, description string) (*models.TaskAttachment, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy file into form: %w", err)
	}
	if description != "" {
		if err := writer.WriteField("description", description); err != nil {
			return nil, fmt.Errorf("write description field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/api/v1/tasks/%d/attachments", c.baseURL, taskID), &buf)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var decoded attachmentResponse
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &decoded)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || decoded.failed() {
		return nil, &APIError{Status: resp.StatusCode, Message: decoded.message()}
	}
	return decoded.Attachment, nil
}

// DeleteAttachment removes an attachment. A bad-gateway APIError means the
// byte store refused and the metadata is still intact server-side.
func (c *Client) DeleteAttachment(ctx context.Context, attachmentID int) error {
	return c.request(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/attachments/%d", attachmentID), nil, nil)
}

// DownloadAttachment streams the attachment bytes. Caller closes the reader.
func (c *Client) DownloadAttachment(ctx context.Context, attachmentID int) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/v1/attachments/%d/download", c.baseURL, attachmentID), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		var env envelope
		_ = json.Unmarshal(raw, &env)
		return nil, &APIError{Status: resp.StatusCode, Message: env.message()}
	}
	return resp.Body, nil
}
