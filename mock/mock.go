// Package mock provides test doubles for nexus interfaces using function fields.
package mock

import (
	"context"

	"github.com/ggnexus/nexus"
)

// Interface compliance checks.
var (
	_ nexus.Transport = (*Transport)(nil)
	_ nexus.Greeter   = (*Greeter)(nil)
	_ nexus.KV        = (*KV)(nil)
)

// Transport is a test double for nexus.Transport.
// Set the function fields for the methods you need.
type Transport struct {
	SendFn         func(ctx context.Context, sessionID, text string) (nexus.Reply, error)
	HistoryFn      func(ctx context.Context, sessionID string) ([]nexus.HistoryEntry, error)
	ListSessionsFn func(ctx context.Context) ([]nexus.SessionSummary, error)
}

// Send delegates to SendFn.
func (t *Transport) Send(ctx context.Context, sessionID, text string) (nexus.Reply, error) {
	return t.SendFn(ctx, sessionID, text)
}

// History delegates to HistoryFn.
func (t *Transport) History(ctx context.Context, sessionID string) ([]nexus.HistoryEntry, error) {
	return t.HistoryFn(ctx, sessionID)
}

// ListSessions delegates to ListSessionsFn.
func (t *Transport) ListSessions(ctx context.Context) ([]nexus.SessionSummary, error) {
	return t.ListSessionsFn(ctx)
}

// Greeter is a test double for nexus.Greeter.
type Greeter struct {
	WelcomeFn    func(ctx context.Context) string
	FreshStartFn func(ctx context.Context) string
}

// Welcome delegates to WelcomeFn.
func (g *Greeter) Welcome(ctx context.Context) string {
	return g.WelcomeFn(ctx)
}

// FreshStart delegates to FreshStartFn.
func (g *Greeter) FreshStart(ctx context.Context) string {
	return g.FreshStartFn(ctx)
}

// KV is a test double for nexus.KV. Useful for injecting backend
// failures; use the state package's Memory for a working in-memory
// backend.
type KV struct {
	GetFn func(key string) (string, bool, error)
	SetFn func(key, value string) error
}

// Get delegates to GetFn.
func (k *KV) Get(key string) (string, bool, error) {
	return k.GetFn(key)
}

// Set delegates to SetFn.
func (k *KV) Set(key, value string) error {
	return k.SetFn(key, value)
}
