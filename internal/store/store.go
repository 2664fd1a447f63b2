package store

import (
	"context"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// SettingsStore persists the debate configuration between runs. Both
// SQLiteStore and MemoryStore implement this interface; the engine never
// touches it mid-session, it only receives a snapshot at start.
type SettingsStore interface {
	Load(ctx context.Context) (debate.Settings, error)
	Save(ctx context.Context, settings debate.Settings) error
	Close() error
}
