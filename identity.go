package nexus

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"
)

// KV is the persistence backend for the identity store. Implementations
// decide how keys are scoped (a file per key, an in-memory map for
// tests).
type KV interface {
	// Get returns the stored value for key. ok is false when the key
	// has never been set.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key.
	Set(key, value string) error
}

// identityKey is the KV key under which the active session id lives.
const identityKey = "session_id"

// IdentityStore generates, persists, and rotates the active
// conversation-session identifier. Persistence is best-effort: a
// failing backend degrades to in-memory identity, which just means a
// fresh session on the next start.
type IdentityStore struct {
	mu    sync.Mutex
	kv    KV
	id    string
	newID func() string
}

// NewIdentityStore creates an IdentityStore over the given backend.
func NewIdentityStore(kv KV) *IdentityStore {
	return &IdentityStore{kv: kv, newID: NewSessionID}
}

// Current returns the active session id, creating and persisting one
// on first call if none exists.
func (s *IdentityStore) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id != "" {
		return s.id
	}
	if v, ok, err := s.kv.Get(identityKey); err == nil && ok && v != "" {
		s.id = v
		return s.id
	}
	s.id = s.newID()
	s.persist()
	return s.id
}

// Set adopts an externally supplied session id and persists it.
func (s *IdentityStore) Set(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.persist()
}

// Rotate generates a fresh id, persists it, and returns it.
func (s *IdentityStore) Rotate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = s.newID()
	s.persist()
	return s.id
}

// persist writes the active id to the backend. Write failures are
// swallowed: the id stays valid in memory for this run.
func (s *IdentityStore) persist() {
	_ = s.kv.Set(identityKey, s.id)
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID produces an identifier unique across concurrent clients
// with overwhelming probability: a millisecond timestamp joined with a
// random component, both base36. Session ids are not credentials, so
// cryptographic unguessability is not a goal.
func NewSessionID() string {
	var b strings.Builder
	b.WriteString("session-")
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 36))
	b.WriteByte('-')
	for range 7 {
		b.WriteByte(idAlphabet[rand.IntN(len(idAlphabet))])
	}
	return b.String()
}
