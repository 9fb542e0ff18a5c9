package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/ggnexus/nexus"
	"github.com/ggnexus/nexus/json"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ nexus.Transport = (*Client)(nil)

// Client implements [nexus.Transport] against the Google Gemini API,
// persisting transcripts under a local directory.
type Client struct {
	client  *genai.Client
	model   string
	dir     string
	profile string
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithProfile appends a player profile block to the system prompt so
// the companion knows who it is talking to.
func WithProfile(block string) Option {
	return func(c *Client) { c.profile = block }
}

// WithLogger sets the structured logger. Logging is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithClock sets the timestamp source. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// New creates a new Gemini [Client] with the given API key, storing
// transcripts under dir.
func New(ctx context.Context, apiKey, dir string, opts ...Option) (*Client, error) {
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c := &Client{
		client: gc,
		model:  defaultModel,
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Send implements [nexus.Transport]. The model sees the full persisted
// transcript of the session plus the new message; the updated
// transcript is written back after a successful reply.
func (c *Client) Send(ctx context.Context, sessionID, text string) (nexus.Reply, error) {
	path, err := c.sessionPath(sessionID)
	if err != nil {
		return nexus.Reply{}, err
	}

	s, err := json.Load(path)
	if err != nil {
		s = nexus.Session{ID: sessionID, CreatedAt: c.now()}
	}

	contents := ConvertMessages(s.Messages)
	contents = append(contents, &genai.Content{
		Role:  "user",
		Parts: []*genai.Part{{Text: text}},
	})

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, c.config())
	if err != nil {
		return nexus.Reply{}, translateErr(err)
	}
	raw := strings.TrimSpace(resp.Text())
	mood, clean := nexus.ExtractMood(raw)

	now := c.now()
	s.Messages = append(s.Messages,
		nexus.UserMessage{Content: text, Timestamp: now},
		nexus.AssistantMessage{Content: clean, Mood: mood, Timestamp: now},
	)
	s.UpdatedAt = now
	if err := json.Save(path, s); err != nil {
		// Losing the transcript is not worth losing the reply.
		c.logger.Warn("transcript save failed", "session", sessionID, "error", err)
	}

	return nexus.Reply{Text: clean, MoodHint: string(mood)}, nil
}

// History implements [nexus.Transport] from the local transcript.
// Assistant entries carry their stored mood re-encoded as a leading
// tag, matching what a remote backend returns.
func (c *Client) History(ctx context.Context, sessionID string) ([]nexus.HistoryEntry, error) {
	path, err := c.sessionPath(sessionID)
	if err != nil {
		return nil, err
	}
	s, err := json.Load(path)
	if err != nil {
		return nil, fmt.Errorf("gemini: load transcript: %w", err)
	}

	entries := make([]nexus.HistoryEntry, 0, len(s.Messages))
	for _, msg := range s.Messages {
		switch m := msg.(type) {
		case nexus.UserMessage:
			entries = append(entries, nexus.HistoryEntry{
				Role:      nexus.RoleUser,
				Content:   m.Content,
				Timestamp: m.Timestamp,
			})
		case nexus.AssistantMessage:
			content := m.Content
			if m.Mood != "" {
				content = fmt.Sprintf("[MOOD:%s] %s", m.Mood, m.Content)
			}
			entries = append(entries, nexus.HistoryEntry{
				Role:      nexus.RoleAssistant,
				Content:   content,
				Timestamp: m.Timestamp,
			})
		}
	}
	return entries, nil
}

// ListSessions implements [nexus.Transport] from the local transcript
// directory.
func (c *Client) ListSessions(ctx context.Context) ([]nexus.SessionSummary, error) {
	return json.List(c.dir)
}

func (c *Client) config() *genai.GenerateContentConfig {
	temp := float32(temperature)
	prompt := systemPrompt
	if c.profile != "" {
		prompt += "\n\n" + c.profile
	}
	return &genai.GenerateContentConfig{
		MaxOutputTokens: defaultMaxTokens,
		Temperature:     &temp,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: prompt}},
		},
	}
}

func (c *Client) sessionPath(sessionID string) (string, error) {
	if sessionID == "" || strings.ContainsAny(sessionID, `/\`) {
		return "", fmt.Errorf("gemini: invalid session id: %q", sessionID)
	}
	return filepath.Join(c.dir, sessionID+".json"), nil
}

// translateErr wraps SDK errors; quota exhaustion surfaces as
// [nexus.ErrRateLimited] so the controller shows the "busy" message.
func translateErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("gemini: %s: %w", apiErr.Message, nexus.ErrRateLimited)
	}
	return fmt.Errorf("gemini: %w", err)
}

// ConvertMessages converts transcript messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []nexus.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case nexus.UserMessage:
			result = append(result, &genai.Content{
				Role:  "user",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		case nexus.AssistantMessage:
			result = append(result, &genai.Content{
				Role:  "model",
				Parts: []*genai.Part{{Text: m.Content}},
			})
		}
	}
	return result
}
