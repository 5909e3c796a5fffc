package llm

import (
	"context"
	"strings"
)

// MockClient is the deterministic fallback used when no provider
// credentials are configured. Responses are keyed on keywords in the
// latest message so conversational flows stay testable offline.
type MockClient struct {
	provider string
	model    string
}

// NewMockClient creates a mock client. Empty tags default to "mock".
func NewMockClient(provider, model string) *MockClient {
	if provider == "" {
		provider = ProviderMock
	}
	if model == "" {
		model = "mock-model"
	}
	return &MockClient{provider: provider, model: model}
}

// Generate returns a canned Portuguese response for the latest message.
func (c *MockClient) Generate(_ context.Context, messages []Message, _ Options) (Response, error) {
	var last string
	if len(messages) > 0 {
		last = strings.ToLower(messages[len(messages)-1].Content)
	}

	var content string
	switch {
	case strings.Contains(last, "agendar") || strings.Contains(last, "agendamento"):
		content = "Entendi que você quer fazer um agendamento. Vou processar isso para você."
	case strings.Contains(last, "disponibilidade") || strings.Contains(last, "horário"):
		content = "Vou verificar a disponibilidade de horários para você."
	case strings.Contains(last, "cancelar"):
		content = "Vou cancelar o agendamento solicitado."
	case strings.Contains(last, "listar"):
		content = "Vou listar os agendamentos para você."
	default:
		content = "Recebi sua mensagem e vou processar: " + truncate(last, 100)
	}

	return Response{
		Content:  content,
		Provider: c.provider,
		Model:    c.model,
		Usage:    Usage{PromptTokens: 50, CompletionTokens: 25, TotalTokens: 75},
	}, nil
}

// Available always reports true; the mock never needs credentials.
func (c *MockClient) Available() bool {
	return true
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
