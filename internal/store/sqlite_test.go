package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteLoadDefaultsOnEmptyDatabase(t *testing.T) {
	s := newTestSQLiteStore(t)

	settings, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	defaults := debate.DefaultSettings()
	if settings.Topic != defaults.Topic {
		t.Fatalf("topic = %q, want default %q", settings.Topic, defaults.Topic)
	}
	if settings.TimeLimitMinutes != defaults.TimeLimitMinutes {
		t.Fatalf("time limit = %d, want %d", settings.TimeLimitMinutes, defaults.TimeLimitMinutes)
	}
	if len(settings.Participants) != len(defaults.Participants) {
		t.Fatalf("participants = %d, want %d", len(settings.Participants), len(defaults.Participants))
	}
}

func TestSQLiteSaveLoadRoundtrip(t *testing.T) {
	s := newTestSQLiteStore(t)

	saved := debate.DefaultSettings()
	saved.Topic = "Should pineapple be on pizza?"
	saved.TimeLimitMinutes = 25
	saved.ThinkingSeconds = 0
	saved.Language = "es"
	saved.Participants = []debate.Participant{
		{ID: "mod", Name: "Mod", Role: debate.RoleModerator},
		{ID: "a", Name: "A", Role: debate.RoleMember, IsCustom: true},
		{ID: "b", Name: "B", Role: debate.RoleMember},
	}
	saved.AI = debate.ProviderConfig{Provider: debate.ProviderLocal, LocalPort: 9999}

	if err := s.Save(context.Background(), saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if loaded.Topic != saved.Topic {
		t.Fatalf("topic = %q, want %q", loaded.Topic, saved.Topic)
	}
	if loaded.TimeLimitMinutes != 25 || loaded.Language != "es" {
		t.Fatalf("loaded = %+v", loaded)
	}
	if loaded.ThinkingSeconds != 0 {
		t.Fatalf("thinking seconds = %d, want 0 preserved", loaded.ThinkingSeconds)
	}
	if len(loaded.Participants) != 3 || !loaded.Participants[1].IsCustom {
		t.Fatalf("participants = %+v", loaded.Participants)
	}
	if loaded.AI.Provider != debate.ProviderLocal || loaded.AI.LocalPort != 9999 {
		t.Fatalf("ai config = %+v", loaded.AI)
	}
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.db")

	first, err := NewSQLiteStore(context.Background(), path)
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	saved := debate.DefaultSettings()
	saved.Topic = "persisted topic"
	if err := first.Save(context.Background(), saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	first.Close()

	second, err := NewSQLiteStore(context.Background(), path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer second.Close()

	loaded, err := second.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() after reopen error = %v", err)
	}
	if loaded.Topic != "persisted topic" {
		t.Fatalf("topic = %q, want persisted topic", loaded.Topic)
	}
}

func TestSQLiteSkipsCorruptRows(t *testing.T) {
	s := newTestSQLiteStore(t)

	if _, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)`,
		keyTimeLimit, "not json at all",
	); err != nil {
		t.Fatalf("seed corrupt row: %v", err)
	}

	loaded, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.TimeLimitMinutes != debate.DefaultSettings().TimeLimitMinutes {
		t.Fatalf("corrupt row overrode default: %d", loaded.TimeLimitMinutes)
	}
}
