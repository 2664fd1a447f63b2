package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/metrics"
	"github.com/Dysaca22/round-table/internal/model/debate"
	"github.com/Dysaca22/round-table/internal/service/ai"
	"github.com/Dysaca22/round-table/internal/transcript"
)

// MaxTurns caps a session regardless of the clock.
const MaxTurns = 20

const (
	reasonMaxTurns = "max turns reached"
	reasonTimeUp   = "time expired"
)

var (
	ErrAlreadyStarted   = errors.New("a debate session is already active")
	ErrNotRunning       = errors.New("debate is not running")
	ErrNotPaused        = errors.New("debate is not paused")
	ErrNotStarted       = errors.New("no debate session to reset")
	ErrNoModerator      = errors.New("roster needs exactly one moderator")
	ErrNotEnoughMembers = errors.New("at least two members are required to start")
	ErrEmptyTranscript  = errors.New("transcript is empty")
)

// StartConfig is the configuration snapshot a session runs with. The engine
// never re-reads settings mid-session.
type StartConfig struct {
	Topic         string
	Language      string
	Participants  []debate.Participant
	Provider      debate.ProviderConfig
	TimeLimit     time.Duration
	ThinkingDelay time.Duration
}

// Engine drives the debate: it decides whose turn it is, invokes the
// generation gateway, applies results to the transcript, detects
// termination, and manages pause/resume and the session clock.
//
// It is the sole owner of the session status, current turn and turn counter.
// At most one gateway call is outstanding at any time; results arriving
// after the session left Running for a terminal state, or after a reset, are
// dropped. Each session carries a generation number for that purpose.
type Engine struct {
	gateway ai.Gateway
	logger  zerolog.Logger

	mu   sync.Mutex
	cond *sync.Cond

	status    debate.Status
	turn      *debate.Turn
	turnCount int
	reason    string
	gen       uint64

	topic         string
	language      string
	roster        []debate.Participant
	provider      debate.ProviderConfig
	thinking      time.Duration
	lastSpeakerID string

	log   *transcript.Log
	clock *Clock

	// sessionCtx lives for the whole session and is cancelled on reset;
	// runCtx only spans one Running stretch and is cancelled by Pause, so a
	// pending thinking delay aborts while an in-flight gateway call (which
	// uses sessionCtx) runs to completion.
	sessionCtx    context.Context
	sessionCancel context.CancelFunc
	runCtx        context.Context
	runCancel     context.CancelFunc

	tickEvery time.Duration
	pick      func(n int) int

	subs    map[int]chan Event
	nextSub int
}

// Option tweaks engine construction. Used by tests to make the clock fast
// and the speaker override deterministic.
type Option func(*Engine)

// WithPick replaces the uniform random source used for the moderator
// self-selection override.
func WithPick(pick func(n int) int) Option {
	return func(e *Engine) { e.pick = pick }
}

// WithTickInterval overrides the one-second clock cadence.
func WithTickInterval(d time.Duration) Option {
	return func(e *Engine) { e.tickEvery = d }
}

// New creates an engine in the Configuring state.
func New(gateway ai.Gateway, logger zerolog.Logger, opts ...Option) *Engine {
	e := &Engine{
		gateway:   gateway,
		logger:    logger.With().Str("component", "engine").Logger(),
		status:    debate.StatusConfiguring,
		log:       transcript.NewLog(),
		tickEvery: time.Second,
		pick:      rand.IntN,
		subs:      make(map[int]chan Event),
	}
	e.cond = sync.NewCond(&e.mu)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start validates the configuration snapshot, opens the debate through the
// gateway and begins cycling turns. Validation failures leave the session in
// Configuring without touching the transcript or turn counter; a failed
// opening call moves it to Failed.
func (e *Engine) Start(ctx context.Context, cfg StartConfig) error {
	if _, ok := debate.Moderator(cfg.Participants); !ok {
		return ErrNoModerator
	}
	if len(debate.Members(cfg.Participants)) < 2 {
		return ErrNotEnoughMembers
	}
	if err := e.gateway.ValidateConfig(ctx, cfg.Provider); err != nil {
		return fmt.Errorf("provider configuration: %w", err)
	}

	e.mu.Lock()
	if e.status != debate.StatusConfiguring {
		e.mu.Unlock()
		return ErrAlreadyStarted
	}

	e.gen++
	gen := e.gen
	e.status = debate.StatusRunning
	e.turn = nil
	e.turnCount = 0
	e.reason = ""
	e.lastSpeakerID = ""
	e.topic = cfg.Topic
	e.language = cfg.Language
	e.roster = append([]debate.Participant(nil), cfg.Participants...)
	e.provider = cfg.Provider
	e.thinking = cfg.ThinkingDelay
	e.log = transcript.NewLog()
	e.sessionCtx, e.sessionCancel = context.WithCancel(context.Background())
	e.runCtx, e.runCancel = context.WithCancel(e.sessionCtx)
	e.clock = newClock(int(cfg.TimeLimit/time.Second), e.tickEvery, func() { e.timeUp(gen) })
	e.clock.start()
	e.publishLocked(Event{Type: EventStatus, Status: e.status})
	e.mu.Unlock()

	metrics.SessionsStarted.Inc()
	e.logger.Info().
		Str("topic", cfg.Topic).
		Int("participants", len(cfg.Participants)).
		Str("provider", string(cfg.Provider.Provider)).
		Msg("debate started")

	go e.open(gen)
	go e.loop(gen)
	return nil
}

// Pause freezes the clock and suspends scheduling of the next turn. A
// gateway call already in flight runs to completion and its result is still
// applied.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != debate.StatusRunning {
		return ErrNotRunning
	}

	e.status = debate.StatusPaused
	e.clock.pause()
	if e.runCancel != nil {
		e.runCancel()
	}
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventStatus, Status: e.status})
	e.logger.Info().Msg("debate paused")
	return nil
}

// Resume re-arms the clock and re-triggers the pending turn, if any.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != debate.StatusPaused {
		return ErrNotPaused
	}

	e.status = debate.StatusRunning
	e.clock.resume()
	e.runCtx, e.runCancel = context.WithCancel(e.sessionCtx)
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventStatus, Status: e.status})
	e.logger.Info().Msg("debate resumed")
	return nil
}

// Reset tears the session down and returns to Configuring. It also serves
// mid-session teardown: the session context is cancelled and the generation
// bumped, so pending completions cannot mutate the next session's state.
func (e *Engine) Reset() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status == debate.StatusConfiguring {
		return ErrNotStarted
	}

	e.gen++
	if e.sessionCancel != nil {
		e.sessionCancel()
	}
	if e.clock != nil {
		e.clock.stop()
		e.clock = nil
	}
	e.status = debate.StatusConfiguring
	e.turn = nil
	e.turnCount = 0
	e.reason = ""
	e.lastSpeakerID = ""
	e.log = transcript.NewLog()
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventStatus, Status: e.status})
	e.logger.Info().Msg("debate reset")
	return nil
}

// Status returns the current session status.
func (e *Engine) Status() debate.Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Snapshot is the read model served by the status endpoint.
type Snapshot struct {
	Status           debate.Status `json:"status"`
	Turn             *debate.Turn  `json:"turn,omitempty"`
	TurnCount        int           `json:"turnCount"`
	MaxTurns         int           `json:"maxTurns"`
	RemainingSeconds int           `json:"remainingSeconds"`
	Reason           string        `json:"reason,omitempty"`
	Topic            string        `json:"topic,omitempty"`
	Messages         int           `json:"messages"`
}

// Snapshot returns a consistent view of the session state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap := Snapshot{
		Status:    e.status,
		TurnCount: e.turnCount,
		MaxTurns:  MaxTurns,
		Reason:    e.reason,
		Topic:     e.topic,
		Messages:  e.log.Len(),
	}
	if e.turn != nil {
		turn := *e.turn
		snap.Turn = &turn
	}
	if e.clock != nil {
		snap.RemainingSeconds = e.clock.remainingSeconds()
	}
	return snap
}

// Messages returns the transcript, most recent first.
func (e *Engine) Messages() []debate.Message {
	e.mu.Lock()
	log := e.log
	e.mu.Unlock()
	return log.Messages()
}

// Export renders the transcript as the plain-text download. It is available
// whenever a session has produced at least one message.
func (e *Engine) Export() (string, error) {
	e.mu.Lock()
	status, topic, roster, log := e.status, e.topic, e.roster, e.log
	e.mu.Unlock()

	if status == debate.StatusConfiguring {
		return "", ErrNotStarted
	}
	if log.Len() == 0 {
		return "", ErrEmptyTranscript
	}
	return log.Export(topic, roster), nil
}

// open performs the opening gateway call of a freshly started session.
func (e *Engine) open(gen uint64) {
	e.mu.Lock()
	if e.gen != gen {
		e.mu.Unlock()
		return
	}
	req := e.requestLocked()
	ctx := e.sessionCtx
	moderator, _ := debate.Moderator(e.roster)
	e.mu.Unlock()

	res, err := e.gateway.OpenDebate(ctx, req)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.status.Terminal() || e.status == debate.StatusConfiguring {
		return
	}
	if err != nil {
		metrics.GenerationFailures.Inc()
		e.failLocked(err.Error())
		return
	}

	msg := e.log.Append(moderator.ID, res.Contribution)
	e.publishLocked(Event{Type: EventMessage, Message: &msg})
	e.setTurnLocked(&debate.Turn{SpeakerID: res.NextSpeakerID, Phase: debate.PhaseContributing})
}

// loop is the session worker: it waits for a turn to become current while
// the session is Running, advances it, and repeats. It exits when the
// session reaches a terminal state or is reset.
func (e *Engine) loop(gen uint64) {
	for {
		turn, ok := e.awaitTurn(gen)
		if !ok {
			return
		}
		e.advance(gen, turn)
	}
}

// awaitTurn blocks until the session is Running with a current turn. It
// returns false once the session is terminal, reset, or superseded.
func (e *Engine) awaitTurn(gen uint64) (debate.Turn, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for {
		if e.gen != gen {
			return debate.Turn{}, false
		}
		switch e.status {
		case debate.StatusRunning:
			if e.turn != nil {
				return *e.turn, true
			}
		case debate.StatusPaused:
			// wait for resume
		default:
			return debate.Turn{}, false
		}
		e.cond.Wait()
	}
}

// advance executes one turn: cap check, speaker resolution, cooperative
// thinking delay, then exactly one gateway call whose result is applied
// under the state lock.
func (e *Engine) advance(gen uint64, turn debate.Turn) {
	e.mu.Lock()
	if e.gen != gen || e.status != debate.StatusRunning {
		e.mu.Unlock()
		return
	}
	if e.turnCount >= MaxTurns {
		e.finishLocked(reasonMaxTurns)
		e.mu.Unlock()
		return
	}
	speaker, ok := debate.FindParticipant(e.roster, turn.SpeakerID)
	if !ok {
		e.failLocked("speaker not found: " + turn.SpeakerID)
		e.mu.Unlock()
		return
	}
	req := e.requestLocked()
	ctx := e.sessionCtx
	thinking := e.thinking
	e.mu.Unlock()

	if !e.thinkingPause(gen, thinking) {
		// Paused or torn down before the call went out; the turn stays
		// current and will be retried after resume.
		return
	}

	// The turn counter counts issued generation calls, so it must move
	// after the cancellable delay: a turn interrupted mid-delay is retried,
	// not double-counted.
	e.mu.Lock()
	if e.gen != gen || e.status != debate.StatusRunning {
		e.mu.Unlock()
		return
	}
	e.turnCount++
	e.mu.Unlock()

	switch turn.Phase {
	case debate.PhaseContributing:
		res, err := e.gateway.GetContribution(ctx, speaker, req)
		e.applyContribution(gen, speaker, res, err)
	case debate.PhaseDeciding:
		res, err := e.gateway.GetDecision(ctx, speaker, req)
		e.applyDecision(gen, speaker, res, err)
	}
}

// thinkingPause waits the configured delay before a generation call. It is a
// cooperative pause point: Pause or Reset aborts it immediately. Returns
// true when the call should go out.
func (e *Engine) thinkingPause(gen uint64, d time.Duration) bool {
	if d <= 0 {
		return e.runnable(gen)
	}

	e.mu.Lock()
	if e.gen != gen || e.status != debate.StatusRunning {
		e.mu.Unlock()
		return false
	}
	runCtx := e.runCtx
	e.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return e.runnable(gen)
	case <-runCtx.Done():
		return false
	}
}

func (e *Engine) runnable(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen == gen && e.status == debate.StatusRunning
}

// applyContribution appends a member's contribution and hands the turn to
// the moderator for a decision. Results arriving after termination or reset
// are dropped; results arriving while Paused are still applied.
func (e *Engine) applyContribution(gen uint64, speaker debate.Participant, res ai.ContributionResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.status.Terminal() || e.status == debate.StatusConfiguring {
		return
	}
	if err != nil {
		metrics.GenerationFailures.Inc()
		e.failLocked(err.Error())
		return
	}

	msg := e.log.Append(speaker.ID, res.Contribution)
	e.lastSpeakerID = speaker.ID
	e.publishLocked(Event{Type: EventMessage, Message: &msg})
	metrics.TurnsTotal.WithLabelValues(string(debate.PhaseContributing)).Inc()

	moderator, ok := debate.Moderator(e.roster)
	if !ok {
		e.failLocked("moderator not found in roster")
		return
	}
	e.setTurnLocked(&debate.Turn{SpeakerID: moderator.ID, Phase: debate.PhaseDeciding})
}

// applyDecision appends the moderator's summary and installs the next
// contributing turn. The named speaker must be an existing member; if the
// moderator picked whoever just spoke, the engine overrides the choice
// uniformly at random among the other members rather than asking again.
func (e *Engine) applyDecision(gen uint64, moderator debate.Participant, res ai.DecisionResult, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.status.Terminal() || e.status == debate.StatusConfiguring {
		return
	}
	if err != nil {
		metrics.GenerationFailures.Inc()
		e.failLocked(err.Error())
		return
	}

	msg := e.log.Append(moderator.ID, res.Contribution)
	e.publishLocked(Event{Type: EventMessage, Message: &msg})
	metrics.TurnsTotal.WithLabelValues(string(debate.PhaseDeciding)).Inc()

	next := res.NextSpeakerID
	candidate, ok := debate.FindParticipant(e.roster, next)
	if !ok || candidate.Role != debate.RoleMember {
		e.failLocked("invalid speaker id: " + next)
		return
	}

	if next == e.lastSpeakerID {
		others := make([]debate.Participant, 0)
		for _, p := range debate.Members(e.roster) {
			if p.ID != e.lastSpeakerID {
				others = append(others, p)
			}
		}
		// With no alternatives the original (invalid but only) choice is
		// kept; the two-member floor makes that unreachable in practice.
		if len(others) > 0 {
			next = others[e.pick(len(others))].ID
		}
	}

	e.setTurnLocked(&debate.Turn{SpeakerID: next, Phase: debate.PhaseContributing})
}

// timeUp is the clock expiry callback.
func (e *Engine) timeUp(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen || e.status != debate.StatusRunning {
		return
	}
	e.finishLocked(reasonTimeUp)
}

func (e *Engine) setTurnLocked(turn *debate.Turn) {
	e.turn = turn
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventTurn, Turn: turn})
}

func (e *Engine) finishLocked(reason string) {
	e.status = debate.StatusFinished
	e.reason = reason
	e.turn = nil
	if e.clock != nil {
		e.clock.stop()
	}
	metrics.SessionsEnded.WithLabelValues("finished").Inc()
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventStatus, Status: e.status, Reason: reason})
	e.logger.Info().Str("reason", reason).Int("turns", e.turnCount).Msg("debate finished")
}

func (e *Engine) failLocked(reason string) {
	e.status = debate.StatusFailed
	e.reason = reason
	e.turn = nil
	if e.clock != nil {
		e.clock.stop()
	}
	metrics.SessionsEnded.WithLabelValues("failed").Inc()
	e.cond.Broadcast()
	e.publishLocked(Event{Type: EventStatus, Status: e.status, Reason: reason})
	e.logger.Error().Str("reason", reason).Int("turns", e.turnCount).Msg("debate failed")
}

// requestLocked snapshots the gateway request context. Callers hold e.mu.
func (e *Engine) requestLocked() ai.Request {
	return ai.Request{
		Topic:        e.topic,
		Language:     e.language,
		Participants: append([]debate.Participant(nil), e.roster...),
		History:      e.log.Chronological(),
		Provider:     e.provider,
	}
}
