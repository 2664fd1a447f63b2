package settings

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

func setupRouter(t *testing.T) (*chi.Mux, store.SettingsStore, *engine.Engine) {
	t.Helper()
	settings := store.NewMemoryStore()
	eng := engine.New(idleGateway{}, zerolog.Nop())
	t.Cleanup(func() {
		if eng.Status() != debate.StatusConfiguring {
			_ = eng.Reset()
		}
	})
	handler := New(settings, ai.NewService(zerolog.Nop()), eng)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, settings, eng
}

func TestGetDefaults(t *testing.T) {
	r, _, _ := setupRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var got debate.Settings
	if err := json.Unmarshal(resp.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if got.TimeLimitMinutes != debate.DefaultSettings().TimeLimitMinutes {
		t.Fatalf("time limit = %d, want default", got.TimeLimitMinutes)
	}
}

func TestPutSettings(t *testing.T) {
	r, settings, _ := setupRouter(t)

	updated := debate.DefaultSettings()
	updated.Topic = "updated topic"
	updated.Language = "es"
	payload, _ := json.Marshal(updated)

	req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	stored, err := settings.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stored.Topic != "updated topic" || stored.Language != "es" {
		t.Fatalf("persisted settings = %+v", stored)
	}
}

func TestPutSettingsRejectsInvalid(t *testing.T) {
	r, _, _ := setupRouter(t)

	invalid := debate.DefaultSettings()
	invalid.Language = "fr"
	payload, _ := json.Marshal(invalid)

	req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPutSettingsLockedWhileActive(t *testing.T) {
	r, settings, eng := setupRouter(t)

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

	payload, _ := json.Marshal(debate.DefaultSettings())
	req := httptest.NewRequest(http.MethodPut, "/settings", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestTestConnection(t *testing.T) {
	r, _, _ := setupRouter(t)

	tests := []struct {
		name   string
		cfg    debate.ProviderConfig
		wantOK bool
	}{
		{
			name:   "ark complete",
			cfg:    debate.ProviderConfig{Provider: debate.ProviderArk, APIKey: "k", Model: "m"},
			wantOK: true,
		},
		{
			name:   "ark missing key",
			cfg:    debate.ProviderConfig{Provider: debate.ProviderArk, Model: "m"},
			wantOK: false,
		},
		{
			name:   "unknown provider",
			cfg:    debate.ProviderConfig{Provider: "smoke-signals"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, _ := json.Marshal(tt.cfg)
			req := httptest.NewRequest(http.MethodPost, "/settings/test-connection", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)

			if resp.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.Code)
			}

			var body struct {
				OK    bool   `json:"ok"`
				Error string `json:"error"`
			}
			if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.OK != tt.wantOK {
				t.Fatalf("ok = %v (%s), want %v", body.OK, body.Error, tt.wantOK)
			}
		})
	}
}
