package ai

import (
	"context"
	"errors"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

var (
	// ErrOverloaded marks a transient upstream overload; the gateway retries
	// it internally before degrading to a placeholder contribution.
	ErrOverloaded = errors.New("model temporarily overloaded")

	ErrMissingAPIKey    = errors.New("an API key is required for the ark provider")
	ErrMissingModel     = errors.New("a model name is required for the ark provider")
	ErrUnknownProvider  = errors.New("unknown generation provider")
	ErrMissingModerator = errors.New("moderator not found in roster")
)

// Request carries the debate context shared by every generation call. History
// is chronological, oldest first.
type Request struct {
	Topic        string
	Language     string
	Participants []debate.Participant
	History      []debate.Message
	Provider     debate.ProviderConfig
}

// OpenResult is the moderator's opening remarks plus the first speaker.
type OpenResult struct {
	Contribution  string `json:"contribution"`
	NextSpeakerID string `json:"nextSpeakerId"`
}

// ContributionResult is a member's in-character contribution.
type ContributionResult struct {
	Contribution string `json:"contribution"`
}

// DecisionResult is the moderator's summary plus the next speaker.
type DecisionResult struct {
	Contribution  string `json:"contribution"`
	NextSpeakerID string `json:"nextSpeakerId"`
}

// Gateway is the generation capability the turn engine consumes. Responses
// are structured records; parsing of the provider's raw output happens behind
// this boundary so the engine never re-parses free-form text.
type Gateway interface {
	// ValidateConfig checks that the selected provider can be used: the ark
	// provider needs a credential, the local provider a reachable endpoint.
	ValidateConfig(ctx context.Context, cfg debate.ProviderConfig) error

	OpenDebate(ctx context.Context, req Request) (OpenResult, error)
	GetContribution(ctx context.Context, speaker debate.Participant, req Request) (ContributionResult, error)
	GetDecision(ctx context.Context, moderator debate.Participant, req Request) (DecisionResult, error)
}
