// Package bubbletea provides the Bubble Tea TUI for the Nexus
// companion.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ggnexus/nexus"
)

// Controller is the conversation state the TUI renders and drives. All
// methods must be safe for concurrent use; the mutating ones block on
// the network and are called from command goroutines.
type Controller interface {
	Log() []nexus.Message
	Mood() nexus.Mood
	Awaiting() bool
	Load(ctx context.Context)
	Submit(ctx context.Context, text string)
	NewSession(ctx context.Context)
	Switch(ctx context.Context, id string)
	ListSessions(ctx context.Context) ([]nexus.SessionSummary, error)
}

// NewProgram creates the Bubble Tea program for a Model. It is
// separate from Run so the caller can wire the controller's change
// notifications to p.Send before starting.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

// Run runs the program until it exits. When ctx is cancelled the
// program quits gracefully.
func Run(ctx context.Context, p *tea.Program) error {
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// ChangedMsg signals that controller state changed and the view should
// re-read it.
type ChangedMsg struct{}

// SessionsLoadedMsg delivers the session list for the picker overlay.
type SessionsLoadedMsg struct {
	Sessions []nexus.SessionSummary
	Err      error
}
