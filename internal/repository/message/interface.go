package message

import (
	"context"

	"github.com/okizari/go-threadchat/internal/domain"
)

// MessageRepository handles the append-only conversation log. Messages are
// never mutated or deleted.
type MessageRepository interface {
	Append(ctx context.Context, message *domain.Message) (*domain.Message, error)
	// FindByThreadID replays the full log in append order. An unknown thread
	// yields an empty slice, not an error.
	FindByThreadID(ctx context.Context, threadID string) ([]domain.Message, error)
	CountByThreadID(ctx context.Context, threadID string) (int64, error)
}
