// File: internal/services/ai/interface.go
package ai

import "context"

// ChatMessage is one role-tagged entry of the conversation sent upstream.
type ChatMessage struct {
	Role    string
	Content string
}

// CompletionProvider handles chat completions against the language model.
// Both methods receive the entire reconstructed history each turn; the
// provider keeps no context between calls.
type CompletionProvider interface {
	// ChatCompletion returns the assistant reply as one complete text.
	ChatCompletion(ctx context.Context, model string, messages []ChatMessage) (string, error)
	// StreamChatCompletion delivers the reply as incremental fragments in
	// arrival order. Concatenating every delta yields the same text a
	// non-streamed call would return.
	StreamChatCompletion(ctx context.Context, model string, messages []ChatMessage, onDelta func(string) error) error
}

// ProviderStatus represents provider health.
type ProviderStatus struct {
	IsHealthy bool
	Message   string
}
