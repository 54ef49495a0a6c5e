package thread

import (
	"context"

	"github.com/okizari/go-threadchat/internal/domain"
)

// ThreadRepository handles the durable thread registry. There is no delete:
// threads accumulate for the lifetime of the store.
type ThreadRepository interface {
	// Upsert is idempotent and keyed on the thread ID; it overwrites title
	// and owner.
	Upsert(ctx context.Context, thread *domain.Thread) error
	FindByID(ctx context.Context, threadID string) (*domain.Thread, error)
	// FindByUsername returns the owner's threads in creation order (oldest
	// first). Presentation layers reverse for newest-first display.
	FindByUsername(ctx context.Context, username string) ([]domain.Thread, error)
	Rename(ctx context.Context, threadID, title string) error
	ExistsByIDAndUsername(ctx context.Context, threadID, username string) (bool, error)
}
