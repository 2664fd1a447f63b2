package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// One row per settings key, JSON values. The keys mirror the fields a user
// edits independently on the settings screen.
const (
	keyParticipants = "participants"
	keyTopic        = "debateTopic"
	keyTimeLimit    = "timeLimit"
	keyThinkingTime = "thinkingTime"
	keyLanguage     = "language"
	keyAIConfig     = "aiConfig"
)

// SQLiteStore persists settings in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and if needed initializes) the settings database.
// If dbPath is empty, defaults to "./data/roundtable.db".
func NewSQLiteStore(ctx context.Context, dbPath string) (*SQLiteStore, error) {
	if dbPath == "" {
		dbPath = "./data/roundtable.db"
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS settings (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize settings schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Load reads the stored settings, filling defaults for missing or
// unreadable values so a stale database never blocks startup.
func (s *SQLiteStore) Load(ctx context.Context) (debate.Settings, error) {
	settings := debate.DefaultSettings()

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return debate.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return debate.Settings{}, fmt.Errorf("scan settings row: %w", err)
		}

		switch key {
		case keyParticipants:
			var participants []debate.Participant
			if json.Unmarshal([]byte(value), &participants) == nil && len(participants) > 0 {
				settings.Participants = participants
			}
		case keyTopic:
			var topic string
			if json.Unmarshal([]byte(value), &topic) == nil && topic != "" {
				settings.Topic = topic
			}
		case keyTimeLimit:
			var minutes int
			if json.Unmarshal([]byte(value), &minutes) == nil && minutes > 0 {
				settings.TimeLimitMinutes = minutes
			}
		case keyThinkingTime:
			var seconds int
			if json.Unmarshal([]byte(value), &seconds) == nil && seconds >= 0 {
				settings.ThinkingSeconds = seconds
			}
		case keyLanguage:
			var language string
			if json.Unmarshal([]byte(value), &language) == nil && language != "" {
				settings.Language = language
			}
		case keyAIConfig:
			var ai debate.ProviderConfig
			if json.Unmarshal([]byte(value), &ai) == nil && ai.Provider != "" {
				settings.AI = ai
			}
		}
	}
	return settings, rows.Err()
}

// Save writes every settings key in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, settings debate.Settings) error {
	values := map[string]any{
		keyParticipants: settings.Participants,
		keyTopic:        settings.Topic,
		keyTimeLimit:    settings.TimeLimitMinutes,
		keyThinkingTime: settings.ThinkingSeconds,
		keyLanguage:     settings.Language,
		keyAIConfig:     settings.AI,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer tx.Rollback()

	for key, value := range values {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO settings (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value
		`, key, string(encoded)); err != nil {
			return fmt.Errorf("write setting %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
