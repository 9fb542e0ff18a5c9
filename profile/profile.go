// Package profile holds the player profile and implements
// [nexus.Greeter] with greetings personalized from it.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/ggnexus/nexus"
)

// Interface compliance check.
var _ nexus.Greeter = (*Summary)(nil)

// defaultName is used when no username is configured.
const defaultName = "Player"

// Summary describes the player the companion is talking to.
type Summary struct {
	Username      string
	FavoriteGames []string
	Region        string
	Goals         string
}

// Name returns the username, or a generic fallback.
func (s *Summary) Name() string {
	if s.Username == "" {
		return defaultName
	}
	return s.Username
}

// Welcome implements [nexus.Greeter]. It opens a session that has no
// usable history.
func (s *Summary) Welcome(ctx context.Context) string {
	return fmt.Sprintf("What's good, %s. I'm Nexus — your gaming companion. I know your games, I learn your playstyle, and I get better every time we talk. What can I help you with?", s.Name())
}

// FreshStart implements [nexus.Greeter]. It opens a deliberately new
// session.
func (s *Summary) FreshStart(ctx context.Context) string {
	return fmt.Sprintf("Fresh session! What's on your mind, %s?", s.Name())
}

// PromptBlock renders the profile as a system prompt fragment for a
// direct model transport. Empty fields are omitted; an entirely empty
// profile renders as nothing.
func (s *Summary) PromptBlock() string {
	var lines []string
	if s.Username != "" {
		lines = append(lines, "Username: "+s.Username)
	}
	if len(s.FavoriteGames) > 0 {
		lines = append(lines, "Favorite games: "+strings.Join(s.FavoriteGames, ", "))
	}
	if s.Region != "" {
		lines = append(lines, "Region: "+s.Region)
	}
	if s.Goals != "" {
		lines = append(lines, "Goals: "+s.Goals)
	}
	if len(lines) == 0 {
		return ""
	}
	return "Player profile:\n" + strings.Join(lines, "\n")
}
