package debate

import (
	"fmt"
	"strings"
)

// Provider selects which generation backend a session talks to.
type Provider string

const (
	// ProviderArk is the hosted model endpoint; it needs a credential.
	ProviderArk Provider = "ark"
	// ProviderLocal is an OpenAI-compatible server on localhost; it only
	// needs the endpoint to be reachable.
	ProviderLocal Provider = "local"
)

// ProviderConfig carries everything the generation gateway needs to reach
// the selected backend.
type ProviderConfig struct {
	Provider  Provider `json:"provider"`
	APIKey    string   `json:"apiKey,omitempty"`
	Model     string   `json:"model,omitempty"`
	BaseURL   string   `json:"baseUrl,omitempty"`
	Region    string   `json:"region,omitempty"`
	LocalPort int      `json:"localPort,omitempty"`
}

// Settings is the durable debate configuration, loaded at startup and saved
// on every change. The engine only reads a snapshot of it at Start.
type Settings struct {
	Participants     []Participant  `json:"participants"`
	Topic            string         `json:"topic"`
	TimeLimitMinutes int            `json:"timeLimitMinutes"`
	ThinkingSeconds  int            `json:"thinkingSeconds"`
	Language         string         `json:"language"`
	AI               ProviderConfig `json:"ai"`
}

// DefaultSettings mirrors the application's out-of-the-box configuration.
func DefaultSettings() Settings {
	return Settings{
		Participants:     Seed(),
		Topic:            DefaultTopic,
		TimeLimitMinutes: 10,
		ThinkingSeconds:  4,
		Language:         "en",
		AI: ProviderConfig{
			Provider:  ProviderArk,
			BaseURL:   "https://ark.cn-beijing.volces.com/api/v3",
			Region:    "cn-beijing",
			LocalPort: 1234,
		},
	}
}

// Validate checks the fields a user can edit through the settings surface.
func (s Settings) Validate() error {
	if err := ValidateRoster(s.Participants); err != nil {
		return err
	}
	if strings.TrimSpace(s.Topic) == "" {
		return fmt.Errorf("debate topic is required")
	}
	if s.TimeLimitMinutes < 1 {
		return fmt.Errorf("time limit must be at least one minute")
	}
	if s.ThinkingSeconds < 0 {
		return fmt.Errorf("thinking delay cannot be negative")
	}
	switch s.Language {
	case "en", "es":
	default:
		return fmt.Errorf("unsupported language %q", s.Language)
	}
	switch s.AI.Provider {
	case ProviderArk, ProviderLocal:
	default:
		return fmt.Errorf("unknown provider %q", s.AI.Provider)
	}
	return nil
}
