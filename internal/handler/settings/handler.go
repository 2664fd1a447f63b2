package settings

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/internal/model/debate"
	"github.com/Dysaca22/round-table/internal/service/ai"
	"github.com/Dysaca22/round-table/internal/store"
	"github.com/Dysaca22/round-table/pkg/utils"
)

// Handler serves debate settings and provider connectivity checks.
type Handler struct {
	settings store.SettingsStore
	gateway  ai.Gateway
	engine   *engine.Engine
}

// New creates the settings handler.
func New(settings store.SettingsStore, gateway ai.Gateway, eng *engine.Engine) *Handler {
	return &Handler{settings: settings, gateway: gateway, engine: eng}
}

// RegisterRoutes registers the settings routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.handleGet)
	r.Put("/settings", h.handlePut)
	r.Post("/settings/test-connection", h.handleTestConnection)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settings.Load(r.Context())
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to load settings")
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}

// handlePut replaces the stored settings. A running or suspended debate owns
// its configuration snapshot, so edits are only accepted while configuring.
func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	if h.engine.Status() != debate.StatusConfiguring {
		utils.RespondError(w, http.StatusConflict, "settings are locked while a debate is active")
		return
	}

	var settings debate.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := settings.Validate(); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.settings.Save(r.Context(), settings); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	utils.RespondJSON(w, http.StatusOK, settings)
}

func (h *Handler) handleTestConnection(w http.ResponseWriter, r *http.Request) {
	var cfg debate.ProviderConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.gateway.ValidateConfig(r.Context(), cfg); err != nil {
		utils.RespondJSON(w, http.StatusOK, map[string]any{
			"ok":    false,
			"error": err.Error(),
		})
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"ok": true})
}
