package engine

import "github.com/Dysaca22/round-table/internal/model/debate"

// EventType tags the live-feed events the engine publishes.
type EventType string

const (
	// EventMessage carries a newly appended transcript message.
	EventMessage EventType = "message"
	// EventStatus carries a session status change, with the terminal reason
	// when there is one.
	EventStatus EventType = "status"
	// EventTurn carries a new current turn.
	EventTurn EventType = "turn"
)

// Event is one entry of the live debate feed consumed by the SSE and
// WebSocket handlers.
type Event struct {
	Type    EventType       `json:"type"`
	Message *debate.Message `json:"message,omitempty"`
	Status  debate.Status   `json:"status,omitempty"`
	Turn    *debate.Turn    `json:"turn,omitempty"`
	Reason  string          `json:"reason,omitempty"`
}

// Subscribe registers a live-feed subscriber. The returned cancel function
// must be called when the consumer goes away; it closes the channel. Slow
// subscribers lose events rather than blocking the engine.
func (e *Engine) Subscribe() (<-chan Event, func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.nextSub
	e.nextSub++
	ch := make(chan Event, 16)
	e.subs[id] = ch

	cancel := func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subs[id]; ok {
			delete(e.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

func (e *Engine) publishLocked(ev Event) {
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
