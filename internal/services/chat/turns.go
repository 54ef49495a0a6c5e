// File: internal/services/chat/turns.go
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/okizari/go-threadchat/internal/domain"
	"github.com/okizari/go-threadchat/internal/repository/message"
	"github.com/okizari/go-threadchat/internal/repository/thread"
	"github.com/okizari/go-threadchat/internal/services/ai"
)

// TurnService orchestrates one conversation turn: persist the user message,
// replay the thread, call the model with the entire history, persist the
// reply. The conversation log is the sole source of truth; nothing is cached
// between turns.
type TurnService struct {
	config      *Config
	threadRepo  thread.ThreadRepository
	messageRepo message.MessageRepository
	client      CompletionClient
	logger      Logger
}

func NewTurnService(
	config *Config,
	threadRepo thread.ThreadRepository,
	messageRepo message.MessageRepository,
	client CompletionClient,
	logger Logger,
) *TurnService {
	return &TurnService{
		config:      config,
		threadRepo:  threadRepo,
		messageRepo: messageRepo,
		client:      client,
		logger:      logger,
	}
}

// SubmitTurn runs a full non-streaming turn and returns the assistant reply.
// On upstream failure the user message stays persisted and no assistant
// message is appended; the thread legally ends with an unanswered user turn.
func (s *TurnService) SubmitTurn(ctx context.Context, username, threadID, text string) (*TurnResult, error) {
	history, result, err := s.prepareTurn(ctx, username, threadID, text)
	if err != nil {
		return nil, err
	}

	reply, err := s.client.ChatCompletion(ctx, history)
	if err != nil {
		s.logger.Error("model call failed", "thread_id", threadID, "error", err)
		return nil, NewUpstreamError("completion", "language model call failed", err)
	}

	if err := s.appendMessage(ctx, threadID, domain.RoleAssistant, reply); err != nil {
		return nil, err
	}

	result.Reply = reply
	return result, nil
}

// StreamTurn is SubmitTurn with incremental delivery: fragments go to onDelta
// in arrival order and their concatenation is what gets persisted. Streaming
// never changes the final log content.
func (s *TurnService) StreamTurn(ctx context.Context, username, threadID, text string, onDelta func(string) error) (*TurnResult, error) {
	history, result, err := s.prepareTurn(ctx, username, threadID, text)
	if err != nil {
		return nil, err
	}

	var fullReply strings.Builder
	streamErr := s.client.StreamChatCompletion(ctx, history, func(delta string) error {
		fullReply.WriteString(delta)
		if onDelta != nil {
			return onDelta(delta)
		}
		return nil
	})
	if streamErr != nil {
		s.logger.Error("model stream failed", "thread_id", threadID, "error", streamErr)
		return nil, NewUpstreamError("streaming", "language model stream failed", streamErr)
	}

	// The full reply has already been delivered; persist it even if the
	// client hung up right at the end of the stream.
	reply := fullReply.String()
	if err := s.appendMessage(context.Background(), threadID, domain.RoleAssistant, reply); err != nil {
		return nil, err
	}

	result.Reply = reply
	return result, nil
}

// Replay reconstructs a thread's transcript from durable storage. Ownership
// is enforced; an owned thread with no persisted state replays empty.
func (s *TurnService) Replay(ctx context.Context, username, threadID string) ([]domain.Message, error) {
	t, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, thread.ErrThreadNotFound) {
			// A freshly minted, never-written thread has nothing to replay.
			return []domain.Message{}, nil
		}
		return nil, NewStorageError("replay", "could not load thread", err)
	}
	if t.Username != username {
		return nil, NewUnauthorizedError(username, threadID)
	}

	messages, err := s.messageRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, NewStorageError("replay", "could not replay thread", err)
	}
	return messages, nil
}

// prepareTurn validates the submission, lazily registers an unnamed thread,
// appends the user message, and replays the resulting history.
func (s *TurnService) prepareTurn(ctx context.Context, username, threadID, text string) ([]ai.ChatMessage, *TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, NewValidationError("submit", "message cannot be empty")
	}
	if len(text) > s.config.MaxMessageLen {
		return nil, nil, NewValidationError("submit", "message too long")
	}
	if strings.TrimSpace(threadID) == "" {
		return nil, nil, NewValidationError("submit", "thread ID is required")
	}

	result := &TurnResult{}

	t, err := s.threadRepo.FindByID(ctx, threadID)
	switch {
	case errors.Is(err, thread.ErrThreadNotFound):
		// First message of a new session: register the thread and name it
		// from this message.
		title := domain.TitleFromMessage(text)
		storageCtx, cancel := context.WithTimeout(ctx, s.config.StorageTimeout)
		err := s.threadRepo.Upsert(storageCtx, &domain.Thread{ID: threadID, Title: title, Username: username})
		cancel()
		if err != nil {
			return nil, nil, NewStorageError("register_thread", "could not register thread", err)
		}
		result.ThreadNamed = true
		result.ThreadTitle = title
		s.logger.Info("thread registered", "thread_id", threadID, "title", title)
	case err != nil:
		return nil, nil, NewStorageError("find_thread", "could not load thread", err)
	case t.Username != username:
		return nil, nil, NewUnauthorizedError(username, threadID)
	default:
		// Pre-registered but still empty threads also take their name from
		// the first message.
		count, err := s.messageRepo.CountByThreadID(ctx, threadID)
		if err != nil {
			return nil, nil, NewStorageError("count_messages", "could not inspect thread", err)
		}
		if count == 0 && t.Title == "" {
			title := domain.TitleFromMessage(text)
			if err := s.threadRepo.Rename(ctx, threadID, title); err != nil {
				return nil, nil, NewStorageError("name_thread", "could not name thread", err)
			}
			result.ThreadNamed = true
			result.ThreadTitle = title
		}
	}

	if err := s.appendMessage(ctx, threadID, domain.RoleUser, text); err != nil {
		return nil, nil, err
	}

	messages, err := s.messageRepo.FindByThreadID(ctx, threadID)
	if err != nil {
		return nil, nil, NewStorageError("replay", "could not replay thread", err)
	}

	history := make([]ai.ChatMessage, len(messages))
	for i, m := range messages {
		history[i] = ai.ChatMessage{Role: m.Role, Content: m.Content}
	}
	return history, result, nil
}

func (s *TurnService) appendMessage(ctx context.Context, threadID, role, content string) error {
	storageCtx, cancel := context.WithTimeout(ctx, s.config.StorageTimeout)
	defer cancel()

	_, err := s.messageRepo.Append(storageCtx, &domain.Message{
		ThreadID: threadID,
		Role:     role,
		Content:  content,
	})
	if err != nil {
		return NewStorageError("append", "could not persist "+role+" message", err)
	}
	return nil
}
