package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// maxErrorBody caps how much of an error response is kept in APIError
const maxErrorBody = 512

// MessageSender delivers a user message and returns the assistant reply
type MessageSender interface {
	SendMessage(ctx context.Context, sessionID, message string) (*ChatResponse, error)
}

// SessionAPI is the part of the backend the session store talks to
type SessionAPI interface {
	ListSessions(ctx context.Context) (*SessionListResponse, error)
	DeleteSession(ctx context.Context, sessionID string) error
	ClearSession(ctx context.Context, sessionID string) error
	SessionHistory(ctx context.Context, sessionID string) (*HistoryResponse, error)
}

// Client is a typed wrapper over the chat backend's HTTP API. It holds no
// conversation state.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the backend address
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SendMessage posts a user message to /chat
func (c *Client) SendMessage(ctx context.Context, sessionID, message string) (*ChatResponse, error) {
	var resp ChatResponse
	req := ChatRequest{SessionID: sessionID, Message: message}
	if err := c.do(ctx, "send", http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListSessions fetches every session the backend knows about
func (c *Client) ListSessions(ctx context.Context) (*SessionListResponse, error) {
	var resp SessionListResponse
	if err := c.do(ctx, "list", http.MethodGet, "/sessions", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteSession removes a session from the backend
func (c *Client) DeleteSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, "delete", http.MethodDelete, "/sessions/"+url.PathEscape(sessionID), nil, nil)
}

// ClearSession resets a session's backend history without deleting it
func (c *Client) ClearSession(ctx context.Context, sessionID string) error {
	return c.do(ctx, "clear", http.MethodPost, "/clear", ClearRequest{SessionID: sessionID}, nil)
}

// SessionHistory fetches the backend-held history of a session
func (c *Client) SessionHistory(ctx context.Context, sessionID string) (*HistoryResponse, error) {
	var resp HistoryResponse
	path := "/sessions/" + url.PathEscape(sessionID) + "/history"
	if err := c.do(ctx, "history", http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Tools fetches the backend's tool catalogue
func (c *Client) Tools(ctx context.Context) (*ToolsResponse, error) {
	var resp ToolsResponse
	if err := c.do(ctx, "tools", http.MethodGet, "/tools", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &APIError{Op: op, Path: path, Err: fmt.Errorf("failed to encode request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &APIError{Op: op, Path: path, Err: err}
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		LogDebug("%s %s failed after %s (request %s): %v", method, path, time.Since(start), requestID, err)
		return &APIError{Op: op, Path: path, Err: err}
	}
	defer resp.Body.Close()
	LogDebug("%s %s -> %d in %s (request %s)", method, path, resp.StatusCode, time.Since(start), requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &APIError{
			Op:         op,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &APIError{Op: op, Path: path, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}
