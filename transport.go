package nexus

import (
	"context"
	"time"
)

// Reply is a successful Send result. MoodHint carries an out-of-band
// emotional-state hint when the backend already parsed one out of the
// response; it is validated against the vocabulary before use.
type Reply struct {
	Text     string
	MoodHint string
}

// HistoryEntry is one stored message as returned by a Transport.
// Content may still contain control tags; callers strip them before
// display.
type HistoryEntry struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Transport is the request/response layer to the remote conversation
// API. Implementations perform no retries; throttling is reported by
// wrapping ErrRateLimited, and any other error is a generic transport
// failure.
type Transport interface {
	// Send submits a user message for the given session and returns the
	// assistant's reply.
	Send(ctx context.Context, sessionID, text string) (Reply, error)

	// History returns the stored messages for a session in
	// chronological order. It may return an empty slice.
	History(ctx context.Context, sessionID string) ([]HistoryEntry, error)

	// ListSessions returns summaries of known sessions,
	// most-recent-first.
	ListSessions(ctx context.Context) ([]SessionSummary, error)
}

// Greeter produces personalized seed messages for empty sessions. The
// core treats it as an opaque string producer.
type Greeter interface {
	// Welcome greets the user when an existing session turns out to
	// have no history.
	Welcome(ctx context.Context) string

	// FreshStart greets the user after an explicit "new conversation".
	FreshStart(ctx context.Context) string
}
