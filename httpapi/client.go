// Package httpapi implements [nexus.Transport] for the GG Nexus
// conversation API over HTTP/JSON.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ggnexus/nexus"
)

// Interface compliance check.
var _ nexus.Transport = (*Client)(nil)

const (
	chatPath     = "/api/chat"
	historyPath  = "/api/chat/history/"
	sessionsPath = "/api/chat/sessions"
)

// Client implements [nexus.Transport] against the GG Nexus backend.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new [Client] for the API at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	Mood      string `json:"mood,omitempty"`
	SessionID string `json:"session_id"`
}

type historyResponse struct {
	Messages  []historyMessage `json:"messages"`
	SessionID string           `json:"session_id"`
}

type historyMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

type sessionsResponse struct {
	Sessions []sessionSummary `json:"sessions"`
}

type sessionSummary struct {
	SessionID    string `json:"session_id"`
	Title        string `json:"title"`
	Preview      string `json:"preview"`
	MessageCount int    `json:"message_count"`
	LastTime     string `json:"last_time"`
}

// apiError is the backend's error body shape.
type apiError struct {
	Error string `json:"error"`
}

// Send implements [nexus.Transport].
func (c *Client) Send(ctx context.Context, sessionID, text string) (nexus.Reply, error) {
	body, err := json.Marshal(chatRequest{Message: text, SessionID: sessionID})
	if err != nil {
		return nexus.Reply{}, fmt.Errorf("httpapi: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+chatPath, bytes.NewReader(body))
	if err != nil {
		return nexus.Reply{}, fmt.Errorf("httpapi: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nexus.Reply{}, fmt.Errorf("httpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nexus.Reply{}, parseHTTPError(resp)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nexus.Reply{}, fmt.Errorf("httpapi: decode chat response: %w", err)
	}
	return nexus.Reply{Text: out.Response, MoodHint: out.Mood}, nil
}

// History implements [nexus.Transport].
func (c *Client) History(ctx context.Context, sessionID string) ([]nexus.HistoryEntry, error) {
	var out historyResponse
	if err := c.get(ctx, historyPath+url.PathEscape(sessionID), &out); err != nil {
		return nil, err
	}

	entries := make([]nexus.HistoryEntry, len(out.Messages))
	for i, m := range out.Messages {
		entries[i] = nexus.HistoryEntry{
			Role:      nexus.Role(m.Role),
			Content:   m.Content,
			Timestamp: parseTimestamp(m.Timestamp),
		}
	}
	return entries, nil
}

// ListSessions implements [nexus.Transport].
func (c *Client) ListSessions(ctx context.Context) ([]nexus.SessionSummary, error) {
	var out sessionsResponse
	if err := c.get(ctx, sessionsPath, &out); err != nil {
		return nil, err
	}

	sessions := make([]nexus.SessionSummary, len(out.Sessions))
	for i, s := range out.Sessions {
		sessions[i] = nexus.SessionSummary{
			ID:           s.SessionID,
			Title:        s.Title,
			Preview:      s.Preview,
			MessageCount: s.MessageCount,
			LastActivity: parseTimestamp(s.LastTime),
		}
	}
	return sessions, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("httpapi: %w", err)
	}
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpapi: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return parseHTTPError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("httpapi: decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

// parseHTTPError maps a non-200 response to an error. HTTP 429 wraps
// [nexus.ErrRateLimited] so the controller can show the "busy" message
// instead of the generic one.
func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpapi: HTTP %d (failed to read body: %w)", resp.StatusCode, err)
	}

	msg := string(body)
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		msg = apiErr.Error
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("httpapi: %s: %w", msg, nexus.ErrRateLimited)
	}
	return fmt.Errorf("httpapi: HTTP %d: %s", resp.StatusCode, msg)
}

// timestampLayouts covers RFC 3339 and the backend's bare ISO format
// (no timezone suffix), which Go's time.Time JSON decoding rejects.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

// parseTimestamp parses a backend timestamp, returning the zero time
// when the value is empty or unparseable. Listing and ordering degrade
// gracefully without a timestamp; nothing else depends on it.
func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
