// Package llm normalizes calls to multiple text-generation backends
// behind one request/response interface. Providers are a closed set of
// tagged variants selected by configuration; the deterministic mock keeps
// LLM-dependent flows testable without network access.
package llm

import "context"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider tags for the supported backends.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderGroq   = "groq"
	ProviderMock   = "mock"
)

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Usage reports token accounting when the provider supplies it.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Options tune a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Response is the normalized generation result.
type Response struct {
	Content  string `json:"content"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Usage    Usage  `json:"usage"`
}

// Client is the text-generation capability consumed by the agent.
type Client interface {
	Generate(ctx context.Context, messages []Message, opts Options) (Response, error)
	Available() bool
}
