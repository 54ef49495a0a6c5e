// File: internal/repository/thread/gorm_thread_repository.go

package thread

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/okizari/go-threadchat/internal/domain"
)

var ErrThreadNotFound = errors.New("thread not found")

type gormThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &gormThreadRepository{db: db}
}

// Upsert registers a thread or overwrites its title and owner.
func (r *gormThreadRepository) Upsert(ctx context.Context, thread *domain.Thread) error {
	if err := r.validateThreadInput(thread); err != nil {
		log.Printf("[ThreadRepository] Validation failed: %v", err)
		return fmt.Errorf("validation failed: %w", err)
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "username", "updated_at"}),
		}).
		Create(thread).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error during thread upsert for user %q: %v", thread.Username, err)
		return errors.New("database error saving thread")
	}

	return nil
}

func (r *gormThreadRepository) FindByID(ctx context.Context, threadID string) (*domain.Thread, error) {
	if strings.TrimSpace(threadID) == "" {
		return nil, errors.New("invalid thread ID")
	}

	var thread domain.Thread
	err := r.db.WithContext(ctx).Where("id = ?", threadID).First(&thread).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrThreadNotFound
		}
		log.Printf("[ThreadRepository] Database error finding thread %s: %v", threadID, err)
		return nil, errors.New("database query failed")
	}
	return &thread, nil
}

// FindByUsername returns only the given owner's threads, oldest first.
func (r *gormThreadRepository) FindByUsername(ctx context.Context, username string) ([]domain.Thread, error) {
	if strings.TrimSpace(username) == "" {
		return nil, errors.New("username is required")
	}

	var threads []domain.Thread
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("created_at ASC, id ASC").
		Find(&threads).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error finding threads for user %q: %v", username, err)
		return nil, errors.New("database error fetching threads")
	}

	return threads, nil
}

func (r *gormThreadRepository) Rename(ctx context.Context, threadID, title string) error {
	if strings.TrimSpace(threadID) == "" {
		return errors.New("invalid thread ID")
	}

	result := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ?", threadID).
		Update("title", title)
	if result.Error != nil {
		log.Printf("[ThreadRepository] Database error renaming thread %s: %v", threadID, result.Error)
		return errors.New("database error renaming thread")
	}
	if result.RowsAffected == 0 {
		return ErrThreadNotFound
	}

	return nil
}

// ExistsByIDAndUsername checks ownership without exposing thread data.
func (r *gormThreadRepository) ExistsByIDAndUsername(ctx context.Context, threadID, username string) (bool, error) {
	if strings.TrimSpace(threadID) == "" || strings.TrimSpace(username) == "" {
		return false, errors.New("invalid thread ID or username")
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Thread{}).
		Where("id = ? AND username = ?", threadID, username).
		Count(&count).Error
	if err != nil {
		log.Printf("[ThreadRepository] Database error checking thread ownership for %s: %v", threadID, err)
		return false, errors.New("database error checking thread ownership")
	}

	return count > 0, nil
}

func (r *gormThreadRepository) validateThreadInput(thread *domain.Thread) error {
	if thread == nil {
		return errors.New("thread cannot be nil")
	}
	if strings.TrimSpace(thread.ID) == "" {
		return errors.New("thread ID is required")
	}
	if strings.TrimSpace(thread.Username) == "" {
		return errors.New("owner username is required")
	}
	if len(thread.Title) > 200 {
		return errors.New("title must be 200 characters or less")
	}
	return nil
}
