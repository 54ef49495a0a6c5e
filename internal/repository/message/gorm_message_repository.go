// File: internal/repository/message/gorm_message_repository.go

package message

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/okizari/go-threadchat/internal/domain"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &gormMessageRepository{db: db}
}

// Append adds one message to the end of the thread's log. The insert is a
// single atomic write; the auto-incremented ID fixes the replay order.
func (r *gormMessageRepository) Append(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	if err := r.validateMessageInput(message); err != nil {
		log.Printf("[MessageRepository] Validation failed: %v", err)
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		log.Printf("[MessageRepository] Database error appending message for thread %s: %v", message.ThreadID, err)
		return nil, errors.New("database error appending message")
	}

	return message, nil
}

// FindByThreadID replays the full log, oldest first.
func (r *gormMessageRepository) FindByThreadID(ctx context.Context, threadID string) ([]domain.Message, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, errors.New("invalid thread ID")
	}

	messages := []domain.Message{}
	err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error replaying thread %s: %v", threadID, err)
		return nil, errors.New("database error fetching messages")
	}

	return messages, nil
}

func (r *gormMessageRepository) CountByThreadID(ctx context.Context, threadID string) (int64, error) {
	if strings.TrimSpace(threadID) == "" {
		return 0, errors.New("invalid thread ID")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	if err != nil {
		log.Printf("[MessageRepository] Database error counting messages for thread %s: %v", threadID, err)
		return 0, errors.New("database error counting messages")
	}

	return count, nil
}

func (r *gormMessageRepository) validateMessageInput(message *domain.Message) error {
	if message == nil {
		return errors.New("message cannot be nil")
	}
	if strings.TrimSpace(message.ThreadID) == "" {
		return errors.New("thread ID is required")
	}
	if message.Role != domain.RoleUser && message.Role != domain.RoleAssistant {
		return errors.New("invalid message role")
	}
	if strings.TrimSpace(message.Content) == "" {
		return errors.New("message content cannot be empty")
	}
	return nil
}
