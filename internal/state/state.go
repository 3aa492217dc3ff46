// Package state persists the terminal's trivial durable flags (the
// tutorial-completed marker and read notification IDs) in a small JSON
// file. Everything else the terminal shows is owned by the backend.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

type flags struct {
	TutorialCompleted bool     `json:"tutorial_completed"`
	ReadNotifications []string `json:"read_notifications"`
}

// FlagStore reads and writes the flag file. Writes go through a temp
// file and rename so a crash never leaves a half-written file.
type FlagStore struct {
	path string

	mu    sync.Mutex
	flags flags
}

// NewFlagStore opens (or initializes) the flag file at path. A missing
// or corrupt file starts from empty flags.
func NewFlagStore(path string) (*FlagStore, error) {
	if path == "" {
		return nil, fmt.Errorf("state: a file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("state: create directory: %w", err)
	}

	store := &FlagStore{path: path}
	data, err := os.ReadFile(path)
	if err == nil {
		// A corrupt file is treated as empty rather than fatal.
		_ = json.Unmarshal(data, &store.flags)
	}
	return store, nil
}

// TutorialCompleted reports whether the operator finished the tutorial.
func (s *FlagStore) TutorialCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flags.TutorialCompleted
}

// SetTutorialCompleted marks the tutorial done and persists.
func (s *FlagStore) SetTutorialCompleted() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flags.TutorialCompleted = true
	return s.save()
}

// IsNotificationRead reports whether a notification ID was marked read.
func (s *FlagStore) IsNotificationRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, read := range s.flags.ReadNotifications {
		if read == id {
			return true
		}
	}
	return false
}

// MarkNotificationRead records a notification ID as read and persists.
func (s *FlagStore) MarkNotificationRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, read := range s.flags.ReadNotifications {
		if read == id {
			return nil
		}
	}
	s.flags.ReadNotifications = append(s.flags.ReadNotifications, id)
	return s.save()
}

// save writes the flags atomically. Callers hold the mutex.
func (s *FlagStore) save() error {
	data, err := json.MarshalIndent(s.flags, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode flags: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("state: write flags: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("state: replace flags: %w", err)
	}
	return nil
}
