package debate

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/internal/store"
	"github.com/Dysaca22/round-table/pkg/utils"
)

// Handler exposes the debate lifecycle and transcript endpoints.
type Handler struct {
	engine   *engine.Engine
	settings store.SettingsStore
}

// New creates the debate handler.
func New(eng *engine.Engine, settings store.SettingsStore) *Handler {
	return &Handler{engine: eng, settings: settings}
}

// RegisterRoutes registers the debate routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/debate", h.handleSnapshot)
	r.Get("/debate/messages", h.handleMessages)
	r.Get("/debate/export", h.handleExport)
	r.Post("/debate/start", h.handleStart)
	r.Post("/debate/pause", h.handlePause)
	r.Post("/debate/resume", h.handleResume)
	r.Post("/debate/reset", h.handleReset)
}

func (h *Handler) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) handleMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.engine.Messages())
}

// handleStart snapshots the persisted settings into a session configuration.
// The engine never re-reads settings once started, so mid-session edits to
// the stored configuration cannot affect a live debate.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Load(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}

	cfg := engine.StartConfig{
		Topic:         settings.Topic,
		Language:      settings.Language,
		Participants:  settings.Participants,
		Provider:      settings.AI,
		TimeLimit:     time.Duration(settings.TimeLimitMinutes) * time.Minute,
		ThinkingDelay: time.Duration(settings.ThinkingSeconds) * time.Second,
	}

	if err := h.engine.Start(r.Context(), cfg); err != nil {
		switch {
		case errors.Is(err, engine.ErrAlreadyStarted):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) handlePause(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Pause(); err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) handleResume(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Resume(); err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.Reset(); err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.engine.Snapshot())
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	text, err := h.engine.Export()
	if err != nil {
		utils.RespondError(w, http.StatusConflict, err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="AI-Debate-Transcript.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
