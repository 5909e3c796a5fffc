package llm

import (
	"context"
	"fmt"

	"github.com/tuttoai/agenda-ai-platform/internal/config"
	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

// New selects an LLM client from configuration. An unset provider is
// auto-detected from whichever API key is present; when nothing is
// configured, or the chosen provider cannot be constructed, the request
// degrades to the deterministic mock instead of failing.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) Client {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.UseMockLLM {
		return NewMockClient(ProviderMock, cfg.LLMModel)
	}

	provider := cfg.LLMProvider
	if provider == "" {
		switch {
		case cfg.OpenAIAPIKey != "":
			provider = ProviderOpenAI
		case cfg.GoogleAPIKey != "":
			provider = ProviderGemini
		case cfg.GroqAPIKey != "":
			provider = ProviderGroq
		default:
			logger.Warn("no LLM api key configured, using mock client")
			return NewMockClient(ProviderMock, cfg.LLMModel)
		}
	}

	client, err := build(ctx, provider, cfg)
	if err != nil {
		logger.Warn("failed to create LLM client, using mock", "provider", provider, "error", err)
		return NewMockClient(provider, cfg.LLMModel)
	}

	// When a second provider is configured, chain it behind the primary
	// so transient provider failures retry against the other backend.
	if fbProvider := fallbackProvider(provider, cfg); fbProvider != "" {
		if fb, err := build(ctx, fbProvider, cfg); err == nil {
			logger.Info("llm fallback configured", "primary", provider, "fallback", fbProvider)
			return NewFallbackClient(client, fb, logger)
		}
	}
	return client
}

// fallbackProvider picks the first other provider with credentials.
func fallbackProvider(primary string, cfg *config.Config) string {
	candidates := []struct {
		provider string
		key      string
	}{
		{ProviderOpenAI, cfg.OpenAIAPIKey},
		{ProviderGemini, cfg.GoogleAPIKey},
		{ProviderGroq, cfg.GroqAPIKey},
	}
	for _, c := range candidates {
		if c.provider != primary && c.key != "" {
			return c.provider
		}
	}
	return ""
}

func build(ctx context.Context, provider string, cfg *config.Config) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.LLMModel)
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg.GoogleAPIKey, cfg.LLMModel)
	case ProviderGroq:
		return NewGroqClient(cfg.GroqAPIKey, cfg.LLMModel)
	case ProviderMock:
		return NewMockClient(ProviderMock, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("llm: unsupported provider %q", provider)
	}
}
