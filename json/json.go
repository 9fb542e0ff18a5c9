// Package json implements JSON persistence for conversation
// transcripts, one file per session.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ggnexus/nexus"
)

// envelope is the v1 wire format for a persisted session.
type envelope struct {
	Version   int          `json:"version"`
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

// messageDTO is the JSON representation of a Message with a role
// discriminator. Mood is present only on assistant messages.
type messageDTO struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Mood      nexus.Mood `json:"mood,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// MarshalSession serializes a Session to JSON in v1 envelope format.
func MarshalSession(s nexus.Session) ([]byte, error) {
	env := envelope{
		Version:   1,
		ID:        s.ID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  make([]messageDTO, len(s.Messages)),
	}
	for i, msg := range s.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSession deserializes a Session from JSON in v1 envelope format.
func UnmarshalSession(data []byte) (nexus.Session, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nexus.Session{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nexus.Session{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]nexus.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return nexus.Session{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = msg
	}
	return nexus.Session{
		ID:        env.ID,
		CreatedAt: env.CreatedAt,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

func marshalMessage(msg nexus.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case nexus.UserMessage:
		return messageDTO{
			Role:      string(nexus.RoleUser),
			Content:   m.Content,
			Timestamp: m.Timestamp,
		}, nil
	case nexus.AssistantMessage:
		return messageDTO{
			Role:      string(nexus.RoleAssistant),
			Content:   m.Content,
			Mood:      m.Mood,
			Timestamp: m.Timestamp,
		}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (nexus.Message, error) {
	switch nexus.Role(dto.Role) {
	case nexus.RoleUser:
		return nexus.UserMessage{
			Content:   dto.Content,
			Timestamp: dto.Timestamp,
		}, nil
	case nexus.RoleAssistant:
		return nexus.AssistantMessage{
			Content:   dto.Content,
			Mood:      dto.Mood,
			Timestamp: dto.Timestamp,
		}, nil
	default:
		return nil, fmt.Errorf("unknown message role: %q", dto.Role)
	}
}

// Save writes a Session to a JSON file, creating parent directories as
// needed. The write is atomic: temp file then rename.
func Save(path string, s nexus.Session) error {
	data, err := MarshalSession(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Session from a JSON file.
func Load(path string) (nexus.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nexus.Session{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalSession(data)
}

// List summarizes every persisted session under dir, most recent first.
// Unreadable or malformed files are skipped.
func List(dir string) ([]nexus.SessionSummary, error) {
	fsys := os.DirFS(dir)
	matches, err := doublestar.Glob(fsys, "*.json")
	if err != nil {
		return nil, fmt.Errorf("glob sessions: %w", err)
	}

	summaries := make([]nexus.SessionSummary, 0, len(matches))
	for _, m := range matches {
		s, err := Load(filepath.Join(dir, m))
		if err != nil {
			continue
		}
		summaries = append(summaries, Summarize(s))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].LastActivity.After(summaries[j].LastActivity)
	})
	return summaries, nil
}

// Summarize condenses a session into its listing row: the title is the
// first user message, the preview is the last message of either role.
func Summarize(s nexus.Session) nexus.SessionSummary {
	sum := nexus.SessionSummary{
		ID:           s.ID,
		Title:        "New conversation",
		MessageCount: len(s.Messages),
		LastActivity: s.UpdatedAt,
	}
	for _, msg := range s.Messages {
		if um, ok := msg.(nexus.UserMessage); ok {
			sum.Title = clip(um.Content, 80)
			break
		}
	}
	if n := len(s.Messages); n > 0 {
		last := s.Messages[n-1]
		switch m := last.(type) {
		case nexus.UserMessage:
			sum.Preview = clip(m.Content, 100)
		case nexus.AssistantMessage:
			sum.Preview = clip(m.Content, 100)
		}
		if sum.LastActivity.IsZero() {
			switch m := last.(type) {
			case nexus.UserMessage:
				sum.LastActivity = m.Timestamp
			case nexus.AssistantMessage:
				sum.LastActivity = m.Timestamp
			}
		}
	}
	return sum
}

// clip truncates s to at most n runes, appending an ellipsis when it
// was cut.
func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
