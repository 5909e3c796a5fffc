package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuttoai/agenda-ai-platform/internal/config"
)

func TestNewDefaultsToMockWithoutKeys(t *testing.T) {
	client := New(context.Background(), &config.Config{}, nil)
	_, ok := client.(*MockClient)
	assert.True(t, ok, "expected mock client, got %T", client)
	assert.True(t, client.Available())
}

func TestNewHonorsMockFlag(t *testing.T) {
	cfg := &config.Config{UseMockLLM: true, OpenAIAPIKey: "sk-test"}
	client := New(context.Background(), cfg, nil)
	_, ok := client.(*MockClient)
	assert.True(t, ok, "USE_MOCK_LLM must win over configured keys")
}

func TestNewAutoDetectsProviderFromKeys(t *testing.T) {
	cfg := &config.Config{OpenAIAPIKey: "sk-test"}
	client := New(context.Background(), cfg, nil)
	oc, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected openai client, got %T", client)
	assert.True(t, oc.Available())

	cfg = &config.Config{GroqAPIKey: "gsk-test"}
	client = New(context.Background(), cfg, nil)
	gc, ok := client.(*OpenAIClient)
	require.True(t, ok, "expected groq-compatible client, got %T", client)
	assert.True(t, gc.Available())
}

func TestNewChainsFallbackWhenTwoKeysConfigured(t *testing.T) {
	cfg := &config.Config{OpenAIAPIKey: "sk-test", GroqAPIKey: "gsk-test"}
	client := New(context.Background(), cfg, nil)
	fc, ok := client.(*FallbackClient)
	require.True(t, ok, "expected fallback chain, got %T", client)
	assert.True(t, fc.Available())
}

func TestNewUnknownProviderFallsBackToMock(t *testing.T) {
	cfg := &config.Config{LLMProvider: "telepathy", OpenAIAPIKey: "sk-test"}
	client := New(context.Background(), cfg, nil)
	_, ok := client.(*MockClient)
	assert.True(t, ok, "unsupported provider should degrade to mock")
}

func TestNewProviderWithoutKeyFallsBackToMock(t *testing.T) {
	cfg := &config.Config{LLMProvider: ProviderOpenAI}
	client := New(context.Background(), cfg, nil)
	_, ok := client.(*MockClient)
	assert.True(t, ok, "missing key should degrade to mock")
}
