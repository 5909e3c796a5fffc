package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const groqBaseURL = "https://api.groq.com/openai/v1"

// Default models per provider, matching the provider's cheapest chat tier.
const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGroqModel   = "llama2-70b-4096"
)

// OpenAIClient talks to OpenAI's chat completions API, or to any
// OpenAI-compatible backend (Groq) via a custom base URL.
type OpenAIClient struct {
	client   *openai.Client
	provider string
	model    string
	hasKey   bool
}

// NewOpenAIClient builds a client for api.openai.com.
func NewOpenAIClient(apiKey, model string) (*OpenAIClient, error) {
	if model == "" {
		model = defaultOpenAIModel
	}
	return newCompatibleClient(ProviderOpenAI, apiKey, model, "")
}

// NewGroqClient builds a client for Groq's OpenAI-compatible API.
func NewGroqClient(apiKey, model string) (*OpenAIClient, error) {
	if model == "" {
		model = defaultGroqModel
	}
	return newCompatibleClient(ProviderGroq, apiKey, model, groqBaseURL)
}

func newCompatibleClient(provider, apiKey, model, baseURL string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("llm: %s api key is required", provider)
	}
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = newHTTPClient()
	return &OpenAIClient{
		client:   openai.NewClientWithConfig(cfg),
		provider: provider,
		model:    model,
		hasKey:   true,
	}, nil
}

// Generate sends a chat completion request and normalizes the response.
func (c *OpenAIClient) Generate(ctx context.Context, messages []Message, opts Options) (Response, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: opts.Temperature,
	}
	if opts.MaxTokens > 0 {
		req.MaxTokens = opts.MaxTokens
	}
	for _, msg := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    msg.Role,
			Content: msg.Content,
		})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("llm: %s completion: %w", c.provider, err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, errors.New("llm: empty completion response")
	}
	return Response{
		Content:  resp.Choices[0].Message.Content,
		Provider: c.provider,
		Model:    c.model,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// Available reports whether the client holds credentials.
func (c *OpenAIClient) Available() bool {
	return c != nil && c.hasKey
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: 10 * time.Second,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
