package ai

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/Dysaca22/round-table/internal/model/debate"
)

// arkGenerator runs a system+user prompt through the hosted ark model via an
// eino chat chain.
type arkGenerator struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

func newArkGenerator(ctx context.Context, cfg debate.ProviderConfig) (*arkGenerator, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if cfg.Model == "" {
		return nil, ErrMissingModel
	}

	temperature := float32(0.8)
	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:     cfg.BaseURL,
		Region:      cfg.Region,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Temperature: &temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("create ark chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("compile chat chain: %w", err)
	}

	return &arkGenerator{chain: runnable}, nil
}

func (g *arkGenerator) generate(ctx context.Context, system, user string) (string, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{
		"system": system,
		"query":  user,
	})
	if err != nil {
		return "", fmt.Errorf("run ark chain: %w", err)
	}
	return response.Content, nil
}
