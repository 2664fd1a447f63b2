package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// Config aggregates every service setting read from the environment.
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Store    StoreConfig
	Env      string
	LogLevel string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server:   server,
		AI:       ai,
		Store:    StoreConfig{Path: getEnvOrDefault("DB_PATH", "./data/roundtable.db")},
		Env:      getEnvOrDefault("APP_ENV", "development"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}, nil
}

// IsDevelopment reports whether the service runs in development mode, which
// switches logging to the human-readable console writer.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development" || c.Env == "dev"
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig carries the provider defaults used to seed persisted settings on
// first run. Once seeded, the persisted settings own the provider choice.
type AIConfig struct {
	APIKey    string
	Model     string
	BaseURL   string
	Region    string
	LocalPort int
}

func loadAIConfig() (AIConfig, error) {
	localPort := 1234
	if override, err := parseOptionalIntEnv("LOCAL_LLM_PORT"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		localPort = *override
	}

	return AIConfig{
		APIKey:    strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		Model:     strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:   getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:    getEnvOrDefault("ARK_REGION", "cn-beijing"),
		LocalPort: localPort,
	}, nil
}

// ProviderDefaults maps the environment-derived values into a provider
// configuration for freshly initialized settings.
func (c AIConfig) ProviderDefaults() debate.ProviderConfig {
	return debate.ProviderConfig{
		Provider:  debate.ProviderArk,
		APIKey:    c.APIKey,
		Model:     c.Model,
		BaseURL:   c.BaseURL,
		Region:    c.Region,
		LocalPort: c.LocalPort,
	}
}

// StoreConfig describes settings persistence. Path "memory" selects the
// in-memory store.
type StoreConfig struct {
	Path string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
