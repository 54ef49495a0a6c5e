// File: internal/services/ai_service.go
package services

import (
	"context"
	"time"

	"github.com/okizari/go-threadchat/internal/services/ai"
)

// AIService wraps a completion provider with per-call timeouts and a single
// bounded retry on the non-streaming path. Streaming calls are never retried:
// delivered fragments cannot be taken back.
type AIService struct {
	provider ai.CompletionProvider
	config   *ai.Config
	logger   Logger
}

func NewAIService(config *ai.Config, provider ai.CompletionProvider, logger Logger) (*AIService, error) {
	if err := config.Validate(); err != nil {
		return nil, ai.NewConfigError(err.Error())
	}
	if provider == nil {
		return nil, ai.NewConfigError("completion provider is required")
	}

	return &AIService{
		provider: provider,
		config:   config,
		logger:   logger,
	}, nil
}

// ChatCompletion returns a non-streamed reply for the full message history.
func (s *AIService) ChatCompletion(ctx context.Context, messages []ai.ChatMessage) (string, error) {
	var reply string
	var lastErr error

	for attempt := 1; attempt <= s.config.MaxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
		reply, lastErr = s.provider.ChatCompletion(callCtx, s.config.Model, messages)
		cancel()

		if lastErr == nil {
			return reply, nil
		}
		if ctx.Err() != nil {
			return "", lastErr
		}

		s.logger.Warn("completion attempt failed",
			"attempt", attempt, "max_retries", s.config.MaxRetries, "error", lastErr)
		if attempt < s.config.MaxRetries {
			select {
			case <-ctx.Done():
				return "", lastErr
			case <-time.After(s.config.RetryDelay):
			}
		}
	}

	return "", lastErr
}

// StreamChatCompletion forwards deltas to onDelta under the configured timeout.
func (s *AIService) StreamChatCompletion(ctx context.Context, messages []ai.ChatMessage, onDelta func(string) error) error {
	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()
	return s.provider.StreamChatCompletion(callCtx, s.config.Model, messages, onDelta)
}
