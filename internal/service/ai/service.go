package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

const (
	overloadMaxAttempts = 5
	overloadRetryDelay  = 1500 * time.Millisecond

	// overloadPlaceholder completes a turn when the upstream stays
	// overloaded past the retry budget, instead of failing the session.
	overloadPlaceholder = "[The AI model is temporarily overloaded. Skipping this turn. Please try again later.]"
)

// generator is the provider seam: one system+user prompt in, raw text out.
type generator interface {
	generate(ctx context.Context, system, user string) (string, error)
}

// Service implements Gateway on top of the configured provider. It builds
// the prompts, parses the structured payload out of raw model output, and
// absorbs transient overloads for member contributions.
type Service struct {
	logger     zerolog.Logger
	httpClient *http.Client

	retryAttempts int
	retryDelay    time.Duration

	// newGenerator is replaceable in tests.
	newGenerator func(ctx context.Context, cfg debate.ProviderConfig) (generator, error)
}

// NewService creates the generation gateway.
func NewService(logger zerolog.Logger) *Service {
	s := &Service{
		logger:        logger.With().Str("component", "ai").Logger(),
		httpClient:    &http.Client{Timeout: 120 * time.Second},
		retryAttempts: overloadMaxAttempts,
		retryDelay:    overloadRetryDelay,
	}
	s.newGenerator = s.buildGenerator
	return s
}

func (s *Service) buildGenerator(ctx context.Context, cfg debate.ProviderConfig) (generator, error) {
	switch cfg.Provider {
	case debate.ProviderArk:
		return newArkGenerator(ctx, cfg)
	case debate.ProviderLocal:
		return newLocalGenerator(cfg, s.httpClient), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// ValidateConfig checks the provider settings without issuing a generation:
// ark needs a credential and model, local needs a reachable endpoint.
func (s *Service) ValidateConfig(ctx context.Context, cfg debate.ProviderConfig) error {
	switch cfg.Provider {
	case debate.ProviderArk:
		if cfg.APIKey == "" {
			return ErrMissingAPIKey
		}
		if cfg.Model == "" {
			return ErrMissingModel
		}
		return nil
	case debate.ProviderLocal:
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return newLocalGenerator(cfg, s.httpClient).ping(pingCtx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// OpenDebate asks the moderator to introduce the topic and pick the first
// speaker.
func (s *Service) OpenDebate(ctx context.Context, req Request) (OpenResult, error) {
	moderator, ok := debate.Moderator(req.Participants)
	if !ok {
		return OpenResult{}, ErrMissingModerator
	}

	system := moderator.Persona + languageInstruction(req.Language)
	user := openingPrompt(req.Topic, debate.Members(req.Participants)) + jsonInstruction(moderatorPayloadExample)

	var result OpenResult
	if err := s.invoke(ctx, req.Provider, system, user, &result); err != nil {
		return OpenResult{}, fmt.Errorf("could not start debate: %w", err)
	}
	if result.Contribution == "" || result.NextSpeakerID == "" {
		return OpenResult{}, fmt.Errorf("opening response is missing required fields")
	}
	return result, nil
}

// GetContribution asks a member for their in-character contribution.
// Transient overloads are retried up to the attempt budget with a fixed
// delay; when the budget is exhausted the turn completes with a placeholder
// rather than failing the session.
func (s *Service) GetContribution(ctx context.Context, speaker debate.Participant, req Request) (ContributionResult, error) {
	system := speaker.Persona + languageInstruction(req.Language)
	user := contributionPrompt(req.Topic, historyBlock(req.History, req.Participants)) + jsonInstruction(memberPayloadExample)

	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		var result ContributionResult
		err := s.invoke(ctx, req.Provider, system, user, &result)
		if err == nil {
			if result.Contribution == "" {
				return ContributionResult{}, fmt.Errorf("contribution response is missing required fields")
			}
			return result, nil
		}
		if !isOverloaded(err) {
			return ContributionResult{}, fmt.Errorf("could not get member contribution: %w", err)
		}

		s.logger.Warn().
			Str("speaker", speaker.ID).
			Int("attempt", attempt).
			Int("max", s.retryAttempts).
			Msg("model overloaded, retrying contribution")

		if attempt < s.retryAttempts {
			select {
			case <-time.After(s.retryDelay):
			case <-ctx.Done():
				return ContributionResult{}, ctx.Err()
			}
		}
	}

	s.logger.Warn().Str("speaker", speaker.ID).Msg("model overloaded, skipping turn after retries")
	return ContributionResult{Contribution: overloadPlaceholder}, nil
}

// GetDecision asks the moderator to summarize the last point and name the
// next speaker. The candidate list excludes whoever just spoke.
func (s *Service) GetDecision(ctx context.Context, moderator debate.Participant, req Request) (DecisionResult, error) {
	lastSpeaker := debate.Participant{Name: "The previous speaker"}
	if len(req.History) > 0 {
		if p, ok := debate.FindParticipant(req.Participants, req.History[len(req.History)-1].AuthorID); ok {
			lastSpeaker = p
		}
	}

	candidates := make([]debate.Participant, 0)
	for _, p := range debate.Members(req.Participants) {
		if p.ID != lastSpeaker.ID {
			candidates = append(candidates, p)
		}
	}

	system := moderator.Persona + languageInstruction(req.Language)
	user := decisionPrompt(req.Topic, historyBlock(req.History, req.Participants), lastSpeaker, candidates) + jsonInstruction(moderatorPayloadExample)

	var result DecisionResult
	if err := s.invoke(ctx, req.Provider, system, user, &result); err != nil {
		return DecisionResult{}, fmt.Errorf("could not get moderator decision: %w", err)
	}
	if result.Contribution == "" || result.NextSpeakerID == "" {
		return DecisionResult{}, fmt.Errorf("decision response is missing required fields")
	}
	return result, nil
}

// invoke runs one generation and decodes the structured payload from the raw
// output.
func (s *Service) invoke(ctx context.Context, cfg debate.ProviderConfig, system, user string, v any) error {
	gen, err := s.newGenerator(ctx, cfg)
	if err != nil {
		return err
	}

	raw, err := gen.generate(ctx, system, user)
	if err != nil {
		return err
	}
	return decodeResult(raw, v)
}

// isOverloaded recognizes the transient-overload signal, either as the typed
// sentinel or inside an upstream error message.
func isOverloaded(err error) bool {
	if errors.Is(err, ErrOverloaded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "503") && strings.Contains(msg, "overloaded")
}
