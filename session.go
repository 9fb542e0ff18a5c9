package nexus

import "time"

// Session represents a conversation session.
type Session struct {
	ID        string
	Messages  []Message
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionSummary is a read-only projection of a stored session, used
// for history listings. Listings are ordered most-recent-first.
type SessionSummary struct {
	ID           string
	Title        string
	Preview      string
	MessageCount int
	LastActivity time.Time
}
