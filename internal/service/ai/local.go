package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

const defaultLocalPort = 1234

// localGenerator talks to an OpenAI-compatible chat-completions server on
// localhost (LM Studio and friends).
type localGenerator struct {
	baseURL string
	client  *http.Client
}

func newLocalGenerator(cfg debate.ProviderConfig, client *http.Client) *localGenerator {
	port := cfg.LocalPort
	if port == 0 {
		port = defaultLocalPort
	}
	return &localGenerator{
		baseURL: fmt.Sprintf("http://localhost:%d/v1", port),
		client:  client,
	}
}

type chatCompletionRequest struct {
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (g *localGenerator) generate(ctx context.Context, system, user string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.7,
		Stream:      false,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("connect to local model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusServiceUnavailable {
			return "", fmt.Errorf("%w: %s", ErrOverloaded, string(body))
		}
		return "", fmt.Errorf("local model request failed: %s - %s", resp.Status, string(body))
	}

	var parsed chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("local model returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// ping verifies the local server is reachable, mirroring the settings
// screen's connection test against the models listing.
func (g *localGenerator) ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/models", nil)
	if err != nil {
		return err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("connect to local model server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("local model server check failed: %s - %s", resp.Status, string(body))
	}
	return nil
}
