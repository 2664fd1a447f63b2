package live

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/engine"
)

const pingInterval = 30 * time.Second

// outgoingMessage is the frame envelope pushed to WebSocket clients.
type outgoingMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// WebSocketHandler mirrors the live debate feed over a WebSocket connection
// for clients that cannot hold an SSE stream open.
type WebSocketHandler struct {
	engine   *engine.Engine
	logger   zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the WebSocket handler.
func NewWebSocketHandler(eng *engine.Engine, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		engine: eng,
		logger: logger.With().Str("component", "ws").Logger(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes registers the WebSocket route.
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/debate/ws", h.handleWebSocket)
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	events, cancel := h.engine.Subscribe()
	defer cancel()

	h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client connected")

	// The client never sends application frames; the read pump only detects
	// disconnects and answers control frames.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
					h.logger.Warn().Err(err).Msg("websocket read error")
				}
				return
			}
		}
	}()

	if err := h.write(conn, "snapshot", h.engine.Snapshot()); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			h.logger.Debug().Str("remote", conn.RemoteAddr().String()).Msg("websocket client disconnected")
			return
		case ev, open := <-events:
			if !open {
				return
			}
			if err := h.write(conn, "event", ev); err != nil {
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

func (h *WebSocketHandler) write(conn *websocket.Conn, msgType string, data interface{}) error {
	return conn.WriteJSON(outgoingMessage{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	})
}
