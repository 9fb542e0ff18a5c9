// Package chat implements the conversation session controller. The
// controller owns the in-memory message log and mood state for the
// active session: it issues sends with optimistic updates, reconciles
// against server-confirmed history, and converts every transport
// failure into visible log content. It never returns errors to its
// callers; the rendering layer only ever observes state.
package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/ggnexus/nexus"
)

// Messages synthesized into the log when a send fails. The
// rate-limited wording tells the user the companion is busy rather
// than broken.
const (
	failureText     = "I'm having trouble connecting right now. Try again in a moment."
	rateLimitedText = "I'm getting a lot of messages at once — give me a moment, then send that again."
)

// Controller drives a client-identified conversation session. All
// exported methods are safe for concurrent use. Transport calls happen
// outside the internal lock; each outstanding call is tagged with the
// session id active at issue time, and completions whose tag no longer
// matches are discarded silently.
type Controller struct {
	transport nexus.Transport
	ids       *nexus.IdentityStore
	greeter   nexus.Greeter
	logger    *slog.Logger
	now       func() time.Time
	onChange  func()

	mu       sync.Mutex
	session  string // active session id
	log      []nexus.Message
	mood     nexus.Mood
	awaiting bool // at most one outstanding send per session
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. Logging is off by default.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithClock sets the timestamp source. Useful for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithOnChange registers a callback invoked after every observable
// state change, outside the controller lock. The rendering layer uses
// it to schedule a re-render.
func WithOnChange(fn func()) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a Controller with the given collaborators.
func New(transport nexus.Transport, ids *nexus.IdentityStore, greeter nexus.Greeter, opts ...Option) *Controller {
	c := &Controller{
		transport: transport,
		ids:       ids,
		greeter:   greeter,
		logger:    slog.New(slog.DiscardHandler),
		now:       time.Now,
		mood:      nexus.MoodHappy,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Log returns a copy of the in-memory message log in chronological
// order.
func (c *Controller) Log() []nexus.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]nexus.Message, len(c.log))
	copy(out, c.log)
	return out
}

// Mood returns the companion's current displayed mood.
func (c *Controller) Mood() nexus.Mood {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mood
}

// Awaiting reports whether a send is outstanding for the active
// session.
func (c *Controller) Awaiting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.awaiting
}

// SessionID returns the active session id, or the empty string before
// Load.
func (c *Controller) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

// ListSessions returns summaries of known sessions, most-recent-first.
// It delegates to the transport; listing never mutates controller
// state.
func (c *Controller) ListSessions(ctx context.Context) ([]nexus.SessionSummary, error) {
	return c.transport.ListSessions(ctx)
}

// Load activates the persisted session id, fetching its history. Call
// once on startup.
func (c *Controller) Load(ctx context.Context) {
	c.Switch(ctx, c.ids.Current())
}

// Submit sends the user's message to the active session. Empty or
// whitespace-only input is a no-op, as is a submit while a send is
// already outstanding (dropped, not queued). The user message is
// appended before the network call begins; failures are converted to a
// synthesized assistant message and the controller returns to an
// interactive state.
func (c *Controller) Submit(ctx context.Context, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	c.mu.Lock()
	if c.awaiting {
		c.mu.Unlock()
		return
	}
	if c.session == "" {
		c.session = c.ids.Current()
	}
	id := c.session
	c.awaiting = true
	c.log = append(c.log, nexus.UserMessage{Content: text, Timestamp: c.now()})
	c.mood = nexus.MoodThinking
	c.mu.Unlock()
	c.notify()

	reply, err := c.transport.Send(ctx, id, text)

	c.mu.Lock()
	if c.session != id {
		// The user moved on while this send was outstanding; its
		// result belongs to a log that no longer exists.
		c.mu.Unlock()
		c.logger.Debug("discarded stale response", "session", id)
		return
	}
	c.awaiting = false

	if err != nil {
		content := failureText
		if errors.Is(err, nexus.ErrRateLimited) {
			content = rateLimitedText
		}
		c.log = append(c.log, nexus.AssistantMessage{Content: content, Mood: nexus.MoodEmpathy, Timestamp: c.now()})
		c.mood = nexus.MoodEmpathy
		c.mu.Unlock()
		c.notify()
		c.logger.Warn("send failed", "session", id, "error", err)
		return
	}

	mood, clean := nexus.ExtractMood(reply.Text)
	if mood == "" {
		if hinted, ok := nexus.ParseMood(reply.MoodHint); ok {
			mood = hinted
		}
	}
	if mood == "" {
		mood = resolveHeuristic(clean, text)
	}
	c.log = append(c.log, nexus.AssistantMessage{Content: clean, Mood: mood, Timestamp: c.now()})
	c.mood = mood
	c.mu.Unlock()
	c.notify()
}

// NewSession starts a fresh conversation: the identity store rotates to
// a new id, the log is cleared, and a personalized greeting is seeded.
// An in-flight send for the previous session is ignored when it
// completes.
func (c *Controller) NewSession(ctx context.Context) {
	greeting := c.greeter.FreshStart(ctx)
	c.mu.Lock()
	c.session = c.ids.Rotate()
	c.awaiting = false
	c.log = []nexus.Message{nexus.AssistantMessage{Content: greeting, Mood: nexus.MoodHappy, Timestamp: c.now()}}
	c.mood = nexus.MoodHappy
	c.mu.Unlock()
	c.notify()
}

// Switch adopts an existing session id: the in-memory log is discarded
// and replaced wholesale by the fetched history. Empty or unfetchable
// history seeds a personalized welcome instead. The current mood is
// re-derived from the last assistant message so returning to an old
// session keeps its emotional context.
func (c *Controller) Switch(ctx context.Context, id string) {
	c.mu.Lock()
	c.ids.Set(id)
	c.session = id
	c.awaiting = false
	c.log = nil
	c.mood = nexus.MoodThinking
	c.mu.Unlock()
	c.notify()

	entries, err := c.transport.History(ctx, id)
	if err != nil {
		c.logger.Warn("history fetch failed", "session", id, "error", err)
	}
	if err != nil || len(entries) == 0 {
		c.seed(ctx, id)
		return
	}

	msgs := make([]nexus.Message, 0, len(entries))
	for _, e := range entries {
		if e.Role == nexus.RoleAssistant {
			mood, text := nexus.ExtractMood(e.Content)
			if mood == "" {
				mood = nexus.Classify(text)
			}
			msgs = append(msgs, nexus.AssistantMessage{Content: text, Mood: mood, Timestamp: e.Timestamp})
			continue
		}
		msgs = append(msgs, nexus.UserMessage{Content: e.Content, Timestamp: e.Timestamp})
	}

	mood := nexus.MoodHappy
	for i := len(msgs) - 1; i >= 0; i-- {
		if am, ok := msgs[i].(nexus.AssistantMessage); ok {
			mood = am.Mood
			break
		}
	}

	c.mu.Lock()
	if c.session != id {
		c.mu.Unlock()
		c.logger.Debug("discarded stale history", "session", id)
		return
	}
	c.log = msgs
	c.mood = mood
	c.mu.Unlock()
	c.notify()
}

// seed fills an empty session with the welcome greeting, unless the
// active session changed while the greeting was being produced.
func (c *Controller) seed(ctx context.Context, id string) {
	greeting := c.greeter.Welcome(ctx)
	c.mu.Lock()
	if c.session != id {
		c.mu.Unlock()
		return
	}
	c.log = []nexus.Message{nexus.AssistantMessage{Content: greeting, Mood: nexus.MoodHappy, Timestamp: c.now()}}
	c.mood = nexus.MoodHappy
	c.mu.Unlock()
	c.notify()
}

func (c *Controller) notify() {
	if c.onChange != nil {
		c.onChange()
	}
}

// resolveHeuristic prefers a non-neutral classification of the
// assistant's reply, then of the user's message, and settles on happy
// when both read as neutral.
func resolveHeuristic(replyText, userText string) nexus.Mood {
	if m := nexus.Classify(replyText); m != nexus.MoodIdle {
		return m
	}
	if m := nexus.Classify(userText); m != nexus.MoodIdle {
		return m
	}
	return nexus.MoodHappy
}
