// Package state provides key-value backends for client-side state,
// satisfying [nexus.KV]. File persists across restarts; Memory is for
// tests and ephemeral runs.
package state

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ggnexus/nexus"
)

// Interface compliance checks.
var (
	_ nexus.KV = (*Memory)(nil)
	_ nexus.KV = (*File)(nil)
)

// Memory is an in-memory KV backend.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{m: make(map[string]string)}
}

// Get implements [nexus.KV].
func (s *Memory) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	return v, ok, nil
}

// Set implements [nexus.KV].
func (s *Memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}

// File stores each key as a small file under dir. Keys must be simple
// names without path separators.
type File struct {
	dir string
}

// NewFile creates a file-backed KV rooted at dir. The directory is
// created lazily on first Set.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

// Get implements [nexus.KV].
func (s *File) Get(key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("state: read %s: %w", key, err)
	}
	return strings.TrimSpace(string(data)), true, nil
}

// Set implements [nexus.KV]. The write is atomic (tmp file + rename).
func (s *File) Set(key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("state: create directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(value+"\n"), 0o600); err != nil {
		return fmt.Errorf("state: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("state: rename %s: %w", key, err)
	}
	return nil
}

func (s *File) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("state: invalid key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}
