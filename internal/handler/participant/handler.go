package participant

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/internal/model/debate"
	"github.com/Dysaca22/round-table/internal/store"
	"github.com/Dysaca22/round-table/pkg/utils"
)

// Handler serves the participant roster.
type Handler struct {
	settings store.SettingsStore
	engine   *engine.Engine
}

// New creates the participant handler.
func New(settings store.SettingsStore, eng *engine.Engine) *Handler {
	return &Handler{settings: settings, engine: eng}
}

// RegisterRoutes registers the roster routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/participants", h.handleList)
	r.Put("/participants", h.handleReplace)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Load(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load participants")
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings.Participants)
}

// handleReplace swaps the whole roster. Roster edits are only defined while
// the session is configuring; during an active debate the registry is
// read-only.
func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	if h.engine.Status() != debate.StatusConfiguring {
		utils.RespondError(w, http.StatusConflict, "participants are locked while a debate is active")
		return
	}

	var participants []debate.Participant
	if err := json.NewDecoder(r.Body).Decode(&participants); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := debate.ValidateRoster(participants); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	settings, err := h.settings.Load(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	settings.Participants = participants

	if err := h.settings.Save(r.Context(), settings); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to save participants")
		return
	}
	utils.RespondJSON(w, http.StatusOK, participants)
}
