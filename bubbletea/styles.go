package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/ggnexus/nexus"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	UserMsg  lipgloss.Style
	BotName  lipgloss.Style
	MoodTag  lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Accent   lipgloss.Style
	Selected lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t nexus.Theme) Styles {
	return Styles{
		UserMsg:  lipgloss.NewStyle().Foreground(ansiColor(t.UserMsg)).Bold(true),
		BotName:  lipgloss.NewStyle().Foreground(ansiColor(t.BotName)).Bold(true),
		MoodTag:  lipgloss.NewStyle().Foreground(ansiColor(t.MoodTag)).Faint(true),
		Error:    lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:    lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:   lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Selected: lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true).Reverse(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
