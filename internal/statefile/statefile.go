// Package statefile is the default local store for the clock: one JSON
// document holding the persisted timer record and user preferences. Every
// write replaces the document atomically. Writes that only refresh the
// remaining time of an unchanged run skip fsync.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tinytelemetry/hourglass/internal/model"
)

const (
	defaultFileMode = 0644
	defaultDirMode  = 0755
)

type document struct {
	Timer       *model.TimerState `json:"timer,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Store is a model.StateStore backed by a single JSON file.
type Store struct {
	mu       sync.Mutex
	path     string
	doc      document
	unsynced bool
}

var _ model.StateStore = (*Store)(nil)

// syncFile flushes a written temp file; tests count calls.
var syncFile = func(f *os.File) error { return f.Sync() }

// NewMemory returns a store that keeps everything in memory. The clock uses
// it when no durable backend can be opened.
func NewMemory() *Store {
	return &Store{doc: document{Preferences: map[string]string{}}}
}

// Open loads the document at path, creating its directory. A missing file
// starts empty; an unreadable or corrupt one is logged and replaced on the
// next write.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("statefile: path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), defaultDirMode); err != nil {
		return nil, fmt.Errorf("statefile: mkdir: %w", err)
	}

	s := &Store{path: path}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("statefile: read: %w", err)
	case len(strings.TrimSpace(string(data))) > 0:
		if uerr := json.Unmarshal(data, &s.doc); uerr != nil {
			log.Printf("statefile: ignoring corrupt %s: %v", path, uerr)
			s.doc = document{}
		}
	}
	if s.doc.Preferences == nil {
		s.doc.Preferences = map[string]string{}
	}
	return s, nil
}

// Path returns the backing file path; empty for a memory store.
func (s *Store) Path() string { return s.path }

func (s *Store) LoadTimerState() (model.TimerState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Timer == nil {
		return model.TimerState{}, false, nil
	}
	return *s.doc.Timer, true, nil
}

func (s *Store) SaveTimerState(st model.TimerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	durable := s.doc.Timer == nil || !sameRun(*s.doc.Timer, st)
	s.doc.Timer = &st
	return s.write(durable)
}

// sameRun reports whether next only refreshes prev's remaining time.
func sameRun(prev, next model.TimerState) bool {
	if prev.State != next.State || prev.WasRunning != next.WasRunning || prev.Duration != next.Duration {
		return false
	}
	switch {
	case prev.Deadline == nil || next.Deadline == nil:
		return prev.Deadline == nil && next.Deadline == nil && prev.Remaining == next.Remaining
	default:
		return prev.Deadline.Equal(*next.Deadline)
	}
}

func (s *Store) ClearTimerState() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc.Timer == nil {
		return nil
	}
	s.doc.Timer = nil
	return s.writeLocked()
}

func (s *Store) Preference(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.doc.Preferences[key]
	return v, ok, nil
}

func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.doc.Preferences[key]; ok && cur == value {
		return nil
	}
	s.doc.Preferences[key] = value
	return s.writeLocked()
}

// Close rewrites the document durably if the last write skipped fsync.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.unsynced {
		return nil
	}
	return s.write(true)
}

func (s *Store) writeLocked() error { return s.write(true) }

func (s *Store) write(durable bool) error {
	if s.path == "" {
		return nil
	}
	payload, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("statefile: marshal: %w", err)
	}
	payload = append(payload, '\n')

	tmp := s.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, defaultFileMode)
	if err != nil {
		return fmt.Errorf("statefile: open tmp: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("statefile: write tmp: %w", err)
	}
	if durable {
		if err := syncFile(f); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return fmt.Errorf("statefile: sync tmp: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("statefile: close tmp: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("statefile: rename: %w", err)
	}
	s.unsynced = !durable
	return nil
}
