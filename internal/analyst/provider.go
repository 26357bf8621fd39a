package analyst

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/deepseek"
	"github.com/cloudwego/eino-ext/components/model/openai"
	acl "github.com/cloudwego/eino-ext/libs/acl/openai"

	"StockAnalyst/internal/config"
)

// NewChatModel builds the chat model for cfg.Provider.
// "openai" talks to any OpenAI-compatible endpoint; "deepseek" uses the native client.
func NewChatModel(ctx context.Context, cfg config.LLMConfig) (ChatGenerator, error) {
	switch cfg.Provider {
	case "", "openai":
		maxTokens := cfg.MaxTokens
		temperature := cfg.SamplingTemperature()
		cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:     cfg.BaseURL,
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			MaxTokens:   &maxTokens,
			Temperature: &temperature,
			Timeout:     cfg.Timeout,
			ResponseFormat: &acl.ChatCompletionResponseFormat{
				Type: acl.ChatCompletionResponseFormatTypeJSONObject,
			},
		})
		if err != nil {
			return nil, fmt.Errorf("create openai chat model: %w", err)
		}
		return cm, nil
	case "deepseek":
		cm, err := deepseek.NewChatModel(ctx, &deepseek.ChatModelConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.SamplingTemperature(),
			Timeout:     cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create deepseek chat model: %w", err)
		}
		return cm, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
