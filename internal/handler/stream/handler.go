package stream

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/engine"
	"github.com/Dysaca22/round-table/pkg/utils"
)

const heartbeatInterval = 15 * time.Second

// Handler streams the live debate feed over Server-Sent Events.
type Handler struct {
	engine *engine.Engine
	logger zerolog.Logger
}

// New creates the stream handler.
func New(eng *engine.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: eng,
		logger: logger.With().Str("component", "sse").Logger(),
	}
}

// RegisterRoutes registers the SSE route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/debate/events", h.handleEvents)
}

// snapshotEvent is the first frame of every stream so late subscribers can
// render current state before incremental events arrive.
type snapshotEvent struct {
	Type     string          `json:"type"`
	Snapshot engine.Snapshot `json:"snapshot"`
}

func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events, cancel := h.engine.Subscribe()
	defer cancel()

	utils.SendSSEChunk(w, flusher, snapshotEvent{
		Type:     "snapshot",
		Snapshot: h.engine.Snapshot(),
	})

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	h.logger.Debug().Str("remote", r.RemoteAddr).Msg("sse subscriber connected")

	for {
		select {
		case <-r.Context().Done():
			h.logger.Debug().Str("remote", r.RemoteAddr).Msg("sse subscriber disconnected")
			return
		case ev, open := <-events:
			if !open {
				return
			}
			utils.SendSSEChunk(w, flusher, ev)
		case <-heartbeat.C:
			utils.SendSSEEvent(w, flusher, "heartbeat", map[string]int64{"ts": time.Now().Unix()})
		}
	}
}
