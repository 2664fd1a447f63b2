package store

import (
	"context"
	"sync"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// MemoryStore keeps settings in memory only. Used by tests and as the
// fallback when no database is available.
type MemoryStore struct {
	mu       sync.RWMutex
	settings debate.Settings
}

// NewMemoryStore returns a store preloaded with the default settings.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{settings: debate.DefaultSettings()}
}

// Load returns a copy of the stored settings.
func (s *MemoryStore) Load(_ context.Context) (debate.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySettings(s.settings), nil
}

// Save replaces the stored settings.
func (s *MemoryStore) Save(_ context.Context, settings debate.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = copySettings(settings)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }

func copySettings(settings debate.Settings) debate.Settings {
	copied := settings
	copied.Participants = append([]debate.Participant(nil), settings.Participants...)
	return copied
}
