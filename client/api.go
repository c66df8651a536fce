package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/wellspace/modules/session"
)

// DraftForm carries the editable fields of a session draft. SessionID empty
// means the save creates a new session.
type DraftForm struct {
	SessionID string
	Title     string
	Tags      []string
	DataURL   string
}

// Client is the HTTP API client. It is safe for concurrent use, including
// replacing the token while requests are in flight.
type Client struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithToken sets the bearer token at construction.
func WithToken(token string) ClientOption {
	return func(c *Client) {
		c.token = token
	}
}

// NewClient creates an API client for the server at baseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token, e.g. after login.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) bearerToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Result is a decoded server verdict: the session the server returned (nil
// for deletes) and the envelope message for surfacing.
type Result struct {
	Session *session.Session
	Message string
}

// envelope mirrors the server's response shape.
type envelope struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Data    json.RawMessage     `json:"data"`
	Errors  map[string][]string `json:"errors"`
}

// ListPublished fetches the public listing.
func (c *Client) ListPublished(ctx context.Context) ([]session.Session, error) {
	return c.list(ctx, "/api/sessions")
}

// ListMine fetches the caller's sessions, drafts included.
func (c *Client) ListMine(ctx context.Context) ([]session.Session, error) {
	return c.list(ctx, "/api/sessions/my-sessions")
}

// GetMine fetches one owned session.
func (c *Client) GetMine(ctx context.Context, id string) (*session.Session, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/sessions/my-sessions/"+id, nil)
	if err != nil {
		return nil, err
	}
	return decodeSession(env)
}

// SaveDraft persists the form, creating or updating per form.SessionID.
func (c *Client) SaveDraft(ctx context.Context, form DraftForm) (*Result, error) {
	body := map[string]any{
		"title":         form.Title,
		"tags":          form.Tags,
		"json_file_url": form.DataURL,
	}
	if form.SessionID != "" {
		body["sessionId"] = form.SessionID
	}

	env, err := c.do(ctx, http.MethodPost, "/api/sessions/my-sessions/save-draft", body)
	if err != nil {
		return nil, err
	}
	saved, err := decodeSession(env)
	if err != nil {
		return nil, err
	}
	return &Result{Session: saved, Message: env.Message}, nil
}

// Publish moves the session to published.
func (c *Client) Publish(ctx context.Context, id string) (*Result, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/sessions/my-sessions/publish", map[string]any{
		"sessionId": id,
	})
	if err != nil {
		return nil, err
	}
	published, err := decodeSession(env)
	if err != nil {
		return nil, err
	}
	return &Result{Session: published, Message: env.Message}, nil
}

// Delete permanently removes the session.
func (c *Client) Delete(ctx context.Context, id string) (*Result, error) {
	env, err := c.do(ctx, http.MethodDelete, "/api/sessions/my-sessions/"+id, nil)
	if err != nil {
		return nil, err
	}
	return &Result{Message: env.Message}, nil
}

func (c *Client) list(ctx context.Context, path string) ([]session.Session, error) {
	env, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	sessions := []session.Session{}
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &sessions); err != nil {
			return nil, fmt.Errorf("failed to decode session list: %w", err)
		}
	}
	return sessions, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.bearerToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &NetworkError{Err: fmt.Errorf("malformed response: %w", err)}
	}

	if !env.Success {
		return nil, &APIError{
			Status:  resp.StatusCode,
			Message: env.Message,
			Fields:  env.Errors,
		}
	}
	return &env, nil
}

func decodeSession(env *envelope) (*session.Session, error) {
	if len(env.Data) == 0 {
		return nil, nil
	}
	var s session.Session
	if err := json.Unmarshal(env.Data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &s, nil
}
