package user

import (
	"context"

	"github.com/okizari/go-threadchat/internal/domain"
)

// UserRepository handles credential data operations.
type UserRepository interface {
	// Upsert inserts the user, or replaces the stored password hash when the
	// username is already registered.
	Upsert(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}
