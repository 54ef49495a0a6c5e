// File: internal/services/chat/types.go
package chat

import (
	"context"

	"github.com/okizari/go-threadchat/internal/services/ai"
)

// Logger defines the logging interface used across chat services.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	Debug(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
}

// CompletionClient is the upstream model boundary as seen from a turn. The
// model and retry policy live behind it.
type CompletionClient interface {
	ChatCompletion(ctx context.Context, messages []ai.ChatMessage) (string, error)
	StreamChatCompletion(ctx context.Context, messages []ai.ChatMessage, onDelta func(string) error) error
}

// TurnResult is what one completed turn hands back to the presenter.
type TurnResult struct {
	Reply string
	// ThreadTitle is set when this turn's user message was the thread's first
	// message and the registry just assigned a display name.
	ThreadTitle string
	ThreadNamed bool
}
