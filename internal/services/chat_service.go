// File: internal/services/chat_service.go
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/okizari/go-threadchat/internal/domain"
	"github.com/okizari/go-threadchat/internal/repository/message"
	"github.com/okizari/go-threadchat/internal/repository/thread"
	chatservice "github.com/okizari/go-threadchat/internal/services/chat"
)

// ChatService is the facade the handlers talk to: thread registry reads plus
// turn orchestration.
type ChatService struct {
	config      *chatservice.Config
	threadRepo  thread.ThreadRepository
	messageRepo message.MessageRepository
	turnService *chatservice.TurnService
	logger      Logger
}

func NewChatService(
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	aiService *AIService,
	logger Logger,
) (*ChatService, error) {
	if threadRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "thread repository is required")
	}
	if messageRepo == nil {
		return nil, chatservice.NewValidationError("constructor", "message repository is required")
	}
	if aiService == nil {
		return nil, chatservice.NewValidationError("constructor", "AI service is required")
	}

	config := chatservice.DefaultConfig()
	if err := config.Validate(); err != nil {
		return nil, chatservice.NewValidationError("config", err.Error())
	}

	turnService := chatservice.NewTurnService(config, threadRepo, messageRepo, aiService, logger)

	return &ChatService{
		config:      config,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		turnService: turnService,
		logger:      logger,
	}, nil
}

// NewThreadID mints the identifier for a "New Chat". The registry row is
// written lazily on the thread's first message.
func (s *ChatService) NewThreadID() string {
	return uuid.NewString()
}

// GetUserThreads returns the owner's threads in storage order (oldest first).
func (s *ChatService) GetUserThreads(ctx context.Context, username string) ([]domain.Thread, error) {
	threads, err := s.threadRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, chatservice.NewStorageError("list_threads", "could not list threads", err)
	}
	return threads, nil
}

// GetThreadMessages replays a thread's full transcript.
func (s *ChatService) GetThreadMessages(ctx context.Context, username, threadID string) ([]domain.Message, error) {
	return s.turnService.Replay(ctx, username, threadID)
}

// RenameThread updates a thread's display name after an ownership check.
func (s *ChatService) RenameThread(ctx context.Context, username, threadID, title string) error {
	owned, err := s.threadRepo.ExistsByIDAndUsername(ctx, threadID, username)
	if err != nil {
		return chatservice.NewStorageError("rename_thread", "could not check thread ownership", err)
	}
	if !owned {
		return chatservice.NewUnauthorizedError(username, threadID)
	}
	if err := s.threadRepo.Rename(ctx, threadID, domain.TitleFromMessage(title)); err != nil {
		return chatservice.NewStorageError("rename_thread", "could not rename thread", err)
	}
	return nil
}

// SubmitTurn runs one non-streaming turn.
func (s *ChatService) SubmitTurn(ctx context.Context, username, threadID, text string) (*chatservice.TurnResult, error) {
	return s.turnService.SubmitTurn(ctx, username, threadID, text)
}

// StreamTurn runs one turn with incremental delivery.
func (s *ChatService) StreamTurn(ctx context.Context, username, threadID, text string, onDelta func(string) error) (*chatservice.TurnResult, error) {
	return s.turnService.StreamTurn(ctx, username, threadID, text, onDelta)
}
