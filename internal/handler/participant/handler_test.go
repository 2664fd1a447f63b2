package participant

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/internal/model/debate"
	"github.com/Dysaca22/round-table/internal/service/ai"
	"github.com/Dysaca22/round-table/internal/store"
)

type idleGateway struct{}

func (idleGateway) ValidateConfig(context.Context, debate.ProviderConfig) error { return nil }

func (idleGateway) OpenDebate(ctx context.Context, _ ai.Request) (ai.OpenResult, error) {
	<-ctx.Done()
	return ai.OpenResult{}, ctx.Err()
}

func (idleGateway) GetContribution(ctx context.Context, _ debate.Participant, _ ai.Request) (ai.ContributionResult, error) {
	<-ctx.Done()
	return ai.ContributionResult{}, ctx.Err()
}

func (idleGateway) GetDecision(ctx context.Context, _ debate.Participant, _ ai.Request) (ai.DecisionResult, error) {
	<-ctx.Done()
	return ai.DecisionResult{}, ctx.Err()
}

func setupRouter(t *testing.T) (*chi.Mux, *engine.Engine, store.SettingsStore) {
	t.Helper()
	settings := store.NewMemoryStore()
	eng := engine.New(idleGateway{}, zerolog.Nop())
	t.Cleanup(func() {
		if eng.Status() != debate.StatusConfiguring {
			_ = eng.Reset()
		}
	})

	handler := New(settings, eng)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, eng, settings
}

func putRoster(r *chi.Mux, roster []debate.Participant) *httptest.ResponseRecorder {
	payload, _ := json.Marshal(roster)
	req := httptest.NewRequest(http.MethodPut, "/participants", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func validRoster() []debate.Participant {
	return []debate.Participant{
		{ID: "mod", Name: "Mod", Role: debate.RoleModerator},
		{ID: "a", Name: "A", Role: debate.RoleMember},
		{ID: "b", Name: "B", Role: debate.RoleMember},
	}
}

func TestListDefaultRoster(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/participants", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var roster []debate.Participant
	if err := json.Unmarshal(resp.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode roster: %v", err)
	}
	if len(roster) != len(debate.Seed()) {
		t.Fatalf("roster size = %d, want %d", len(roster), len(debate.Seed()))
	}
}

func TestReplaceRoster(t *testing.T) {
	r, _, settings := setupRouter(t)

	if resp := putRoster(r, validRoster()); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored, err := settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(stored.Participants) != 3 || stored.Participants[0].ID != "mod" {
		t.Fatalf("persisted roster = %+v", stored.Participants)
	}
}

func TestReplaceRosterValidation(t *testing.T) {
	tests := []struct {
		name   string
		roster []debate.Participant
	}{
		{
			name: "no moderator",
			roster: []debate.Participant{
				{ID: "a", Name: "A", Role: debate.RoleMember},
				{ID: "b", Name: "B", Role: debate.RoleMember},
			},
		},
		{
			name: "two moderators",
			roster: []debate.Participant{
				{ID: "m1", Name: "M1", Role: debate.RoleModerator},
				{ID: "m2", Name: "M2", Role: debate.RoleModerator},
				{ID: "a", Name: "A", Role: debate.RoleMember},
			},
		},
		{
			name: "duplicate ids",
			roster: []debate.Participant{
				{ID: "mod", Name: "Mod", Role: debate.RoleModerator},
				{ID: "a", Name: "A", Role: debate.RoleMember},
				{ID: "a", Name: "Also A", Role: debate.RoleMember},
			},
		},
		{
			name: "empty name",
			roster: []debate.Participant{
				{ID: "mod", Name: "Mod", Role: debate.RoleModerator},
				{ID: "a", Name: "", Role: debate.RoleMember},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := setupRouter(t)
			if resp := putRoster(r, tt.roster); resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestReplaceRosterLockedWhileActive(t *testing.T) {
	r, eng, settings := setupRouter(t)

	current, err := settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = eng.Start(context.Background(), engine.StartConfig{
		Topic:        current.Topic,
		Language:     current.Language,
		Participants: current.Participants,
		Provider:     current.AI,
		TimeLimit:    time.Hour,
	})
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if resp := putRoster(r, validRoster()); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	if err := eng.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}
	if resp := putRoster(r, validRoster()); resp.Code != http.StatusConflict {
		t.Fatalf("paused session: expected 409, got %d", resp.Code)
	}
}
