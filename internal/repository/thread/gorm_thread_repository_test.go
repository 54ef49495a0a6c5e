// File: internal/repository/thread/gorm_thread_repository_test.go

package thread

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/okizari/go-threadchat/internal/domain"
)

func newTestRepo(t *testing.T) ThreadRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Thread{}))
	return NewThreadRepository(db)
}

func TestUpsertAndFindByID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.NewString()

	err := repo.Upsert(ctx, &domain.Thread{ID: id, Title: "First thread", Username: "alice"})
	require.NoError(t, err)

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "First thread", found.Title)
	assert.Equal(t, "alice", found.Username)
}

func TestUpsertOverwritesTitle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &domain.Thread{ID: id, Title: "Old", Username: "alice"}))
	require.NoError(t, repo.Upsert(ctx, &domain.Thread{ID: id, Title: "New", Username: "alice"}))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", found.Title)

	threads, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, threads, 1, "upsert on the same ID must not duplicate the thread")
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestFindByUsernameScopedToOwner(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	mine := []domain.Thread{
		{ID: uuid.NewString(), Title: "oldest", Username: "alice", CreatedAt: base},
		{ID: uuid.NewString(), Title: "middle", Username: "alice", CreatedAt: base.Add(time.Minute)},
		{ID: uuid.NewString(), Title: "newest", Username: "alice", CreatedAt: base.Add(2 * time.Minute)},
	}
	for i := range mine {
		require.NoError(t, repo.Upsert(ctx, &mine[i]))
	}
	require.NoError(t, repo.Upsert(ctx, &domain.Thread{ID: uuid.NewString(), Title: "not mine", Username: "bob"}))

	threads, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, threads, 3)
	assert.Equal(t, "oldest", threads[0].Title)
	assert.Equal(t, "middle", threads[1].Title)
	assert.Equal(t, "newest", threads[2].Title)
}

func TestFindByUsernameEmptyResult(t *testing.T) {
	repo := newTestRepo(t)

	threads, err := repo.FindByUsername(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, threads)
}

func TestRename(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &domain.Thread{ID: id, Title: "", Username: "alice"}))
	require.NoError(t, repo.Rename(ctx, id, "Named now"))

	found, err := repo.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Named now", found.Title)

	err = repo.Rename(ctx, uuid.NewString(), "ghost")
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestExistsByIDAndUsername(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	id := uuid.NewString()

	require.NoError(t, repo.Upsert(ctx, &domain.Thread{ID: id, Title: "t", Username: "alice"}))

	ok, err := repo.ExistsByIDAndUsername(ctx, id, "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ExistsByIDAndUsername(ctx, id, "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}
