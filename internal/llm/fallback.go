package llm

import (
	"context"

	"github.com/tuttoai/agenda-ai-platform/pkg/logging"
)

// FallbackClient wraps a primary client with a fallback provider. If the
// primary fails, the same request is retried once against the fallback.
type FallbackClient struct {
	primary  Client
	fallback Client
	logger   *logging.Logger
}

// NewFallbackClient creates a fallback-enabled client. A nil fallback
// leaves only the primary in play.
func NewFallbackClient(primary, fallback Client, logger *logging.Logger) *FallbackClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClient{primary: primary, fallback: fallback, logger: logger}
}

func (c *FallbackClient) Generate(ctx context.Context, messages []Message, opts Options) (Response, error) {
	resp, err := c.primary.Generate(ctx, messages, opts)
	if err == nil {
		return resp, nil
	}

	c.logger.Warn("primary LLM failed, attempting fallback",
		"error", err.Error(),
		"fallback_available", c.fallback != nil,
	)
	if c.fallback == nil {
		return Response{}, err
	}

	fallbackResp, fallbackErr := c.fallback.Generate(ctx, messages, opts)
	if fallbackErr != nil {
		c.logger.Error("fallback LLM also failed",
			"primary_error", err.Error(),
			"fallback_error", fallbackErr.Error(),
		)
		return Response{}, fallbackErr
	}

	c.logger.Info("fallback LLM succeeded after primary failure")
	return fallbackResp, nil
}

// Available reports whether either wrapped client can serve requests.
func (c *FallbackClient) Available() bool {
	if c.primary != nil && c.primary.Available() {
		return true
	}
	return c.fallback != nil && c.fallback.Available()
}
