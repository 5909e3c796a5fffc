package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuttoai/agenda-ai-platform/internal/llm"
)

// History persists the message log of a conversation. Load returns an
// empty history for unknown conversation ids.
type History interface {
	Load(ctx context.Context, conversationID string) ([]llm.Message, error)
	Save(ctx context.Context, conversationID string, messages []llm.Message) error
}

func conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}

// RedisHistory keeps conversation logs in Redis with a TTL, so idle
// conversations expire on their own.
type RedisHistory struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisHistory constructs a Redis-backed history store.
func NewRedisHistory(client *redis.Client, ttl time.Duration) *RedisHistory {
	if client == nil {
		panic("agent: redis client required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisHistory{client: client, ttl: ttl}
}

func (s *RedisHistory) Load(ctx context.Context, conversationID string) ([]llm.Message, error) {
	data, err := s.client.Get(ctx, conversationKey(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("agent: load history: %w", err)
	}
	var messages []llm.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("agent: decode history: %w", err)
	}
	return messages, nil
}

func (s *RedisHistory) Save(ctx context.Context, conversationID string, messages []llm.Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("agent: marshal history: %w", err)
	}
	if err := s.client.Set(ctx, conversationKey(conversationID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("agent: persist history: %w", err)
	}
	return nil
}

// MemoryHistory is the in-process substitute used in tests and when
// Redis is not configured.
type MemoryHistory struct {
	mu    sync.Mutex
	convs map[string][]llm.Message
}

func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{convs: make(map[string][]llm.Message)}
}

func (s *MemoryHistory) Load(_ context.Context, conversationID string) ([]llm.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	messages := s.convs[conversationID]
	out := make([]llm.Message, len(messages))
	copy(out, messages)
	return out, nil
}

func (s *MemoryHistory) Save(_ context.Context, conversationID string, messages []llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]llm.Message, len(messages))
	copy(stored, messages)
	s.convs[conversationID] = stored
	return nil
}
