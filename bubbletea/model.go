package bubbletea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ggnexus/nexus"
	"github.com/ggnexus/nexus/markdown"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the companion TUI. It holds no
// conversation state of its own; every render reads the controller.
type Model struct {
	// Input is the text input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable conversation area. Exported for test
	// access.
	Viewport viewport.Model

	ctrl   Controller
	theme  nexus.Theme
	styles Styles

	// Session picker overlay state.
	picking   bool
	sessions  []nexus.SessionSummary
	cursor    int
	pickerErr error

	ready bool
}

// New creates a new TUI Model over the given controller.
func New(ctrl Controller, theme nexus.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask me anything about games..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = 0

	return Model{
		Input:  ti,
		ctrl:   ctrl,
		theme:  theme,
		styles: NewStyles(theme),
	}
}

// Init implements tea.Model. It activates the persisted session.
func (m Model) Init() tea.Cmd {
	ctrl := m.ctrl
	return tea.Batch(
		textinput.Blink,
		func() tea.Msg {
			ctrl.Load(context.Background())
			return ChangedMsg{}
		},
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChangedMsg:
		m.Viewport.SetContent(m.renderContent())
		m.Viewport.GotoBottom()
		return m, nil

	case SessionsLoadedMsg:
		m.picking = true
		m.sessions = msg.Sessions
		m.pickerErr = msg.Err
		m.cursor = 0
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	if m.picking {
		b.WriteString(m.pickerView())
	} else {
		b.WriteString(m.Viewport.View())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputHeight := 1
	statusHeight := 1
	gaps := 2 // newlines between sections
	vpHeight := max(msg.Height-inputHeight-statusHeight-gaps, 1)

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}
	m.Viewport.SetContent(m.renderContent())
	m.Viewport.GotoBottom()
	m.Input.Width = msg.Width
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.picking {
		return m.handlePickerKey(msg)
	}

	switch msg.Type {
	case tea.KeyEnter:
		if m.ctrl.Awaiting() {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		m.Input.SetValue("")
		return m, m.submitCmd(text)

	case tea.KeyCtrlN:
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctrl.NewSession(context.Background())
			return ChangedMsg{}
		}

	case tea.KeyCtrlO:
		ctrl := m.ctrl
		return m, func() tea.Msg {
			sessions, err := ctrl.ListSessions(context.Background())
			return SessionsLoadedMsg{Sessions: sessions, Err: err}
		}
	}

	// Typing goes to the input; non-character keys also scroll the
	// viewport ('j'/'k' would otherwise conflict).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	if msg.Type != tea.KeyRunes {
		m.Viewport, cmd = m.Viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.Input, cmd = m.Input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.picking = false
		return m, nil

	case tea.KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case tea.KeyDown:
		if m.cursor < len(m.sessions)-1 {
			m.cursor++
		}
		return m, nil

	case tea.KeyEnter:
		if len(m.sessions) == 0 {
			m.picking = false
			return m, nil
		}
		id := m.sessions[m.cursor].ID
		m.picking = false
		ctrl := m.ctrl
		return m, func() tea.Msg {
			ctrl.Switch(context.Background(), id)
			return ChangedMsg{}
		}
	}
	return m, nil
}

func (m Model) submitCmd(text string) tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		ctrl.Submit(context.Background(), text)
		return ChangedMsg{}
	}
}

// suggestions seed an empty conversation with things to ask.
var suggestions = []string{
	"What should I play tonight?",
	"Help me climb ranked",
	"Any hidden indie gems lately?",
}

// renderContent renders the conversation log at the current viewport
// width.
func (m Model) renderContent() string {
	log := m.ctrl.Log()
	if len(log) == 0 {
		return ""
	}
	width := m.Viewport.Width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	for i, msg := range log {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch msg := msg.(type) {
		case nexus.UserMessage:
			b.WriteString(m.styles.UserMsg.Render("You"))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().Width(width).Render(msg.Content))
		case nexus.AssistantMessage:
			b.WriteString(m.styles.BotName.Render("NEXUS"))
			if msg.Mood != "" {
				b.WriteString(" ")
				b.WriteString(m.styles.MoodTag.Render("· " + string(msg.Mood)))
			}
			b.WriteString("\n")
			b.WriteString(markdown.Render(msg.Content, width, m.theme))
		}
	}

	// Until the user has said something, show things to ask.
	if !hasUserMessage(log) {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Muted.Render("Try one of these:"))
		for _, s := range suggestions {
			b.WriteString("\n")
			b.WriteString(m.styles.Muted.Render("  · " + s))
		}
	}
	return b.String()
}

func hasUserMessage(log []nexus.Message) bool {
	for _, msg := range log {
		if _, ok := msg.(nexus.UserMessage); ok {
			return true
		}
	}
	return false
}

func (m Model) pickerView() string {
	height := m.Viewport.Height
	width := m.Viewport.Width

	var b strings.Builder
	b.WriteString(m.styles.Accent.Render("Sessions"))
	b.WriteString("\n\n")

	switch {
	case m.pickerErr != nil:
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("Couldn't load sessions: %v", m.pickerErr)))
	case len(m.sessions) == 0:
		b.WriteString(m.styles.Muted.Render("No saved sessions yet."))
	default:
		now := time.Now()
		for i, s := range m.sessions {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.pickerRow(s, i == m.cursor, width, now))
		}
	}

	// Pad to viewport height so the status line stays put.
	content := b.String()
	if lines := strings.Count(content, "\n") + 1; lines < height {
		content += strings.Repeat("\n", height-lines)
	}
	return content
}

func (m Model) pickerRow(s nexus.SessionSummary, selected bool, width int, now time.Time) string {
	marker := "  "
	if selected {
		marker = "> "
	}
	meta := fmt.Sprintf("%d msgs", s.MessageCount)
	if rel := RelTime(s.LastActivity, now); rel != "" {
		meta += " · " + rel
	}

	titleWidth := max(width-len(marker)-len(meta)-3, 10)
	title := Truncate(s.Title, titleWidth)

	row := marker + title + "  " + m.styles.Muted.Render(meta)
	if selected {
		return m.styles.Selected.Render(marker+title) + "  " + m.styles.Muted.Render(meta)
	}
	return row
}

func (m Model) statusLine() string {
	label := moodLabel(m.ctrl.Mood(), m.ctrl.Awaiting())
	hints := "Enter send · Ctrl+N new session · Ctrl+O sessions · Ctrl+C quit"
	if m.picking {
		hints = "Enter open · Esc close"
	}
	return m.styles.Accent.Render(label) + "  " + m.styles.Muted.Render(hints)
}

// moodLabel condenses mood and in-flight state into the status word.
func moodLabel(mood nexus.Mood, awaiting bool) string {
	if awaiting {
		return "THINKING..."
	}
	switch mood {
	case nexus.MoodHappy:
		return "READY"
	case nexus.MoodEmpathy:
		return "LISTENING"
	case nexus.MoodExcited:
		return "HYPED"
	default:
		return "ONLINE"
	}
}
