package repository

import (
	"context"
	"sync"
	"testing"

	"users-service/internal/domain"
	"users-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMemoryRepo(t *testing.T) *MemoryUserRepository {
	t.Helper()
	repo, err := NewMemoryUserRepository(logger.Discard())
	require.NoError(t, err)
	return repo
}

func TestMemoryUserRepository_CreateAndGet(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", true))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)

	// возвращаем копию, а не объект из memdb
	found.FirstName = "Changed"
	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.FirstName)
}

func TestMemoryUserRepository_IgnoresCallerID(t *testing.T) {
	repo := newTestMemoryRepo(t)

	created, err := repo.Create(context.Background(), &domain.User{ID: 99, FirstName: "Ann", LastName: "Lee"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
}

func TestMemoryUserRepository_GetNotFound(t *testing.T) {
	repo := newTestMemoryRepo(t)

	_, err := repo.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemoryUserRepository_ListOrderedByID(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	for i := 0; i < 130; i++ {
		_, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", i%2 == 0))
		require.NoError(t, err)
	}

	users, err = repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 130)
	for i, u := range users {
		assert.Equal(t, int64(i+1), u.ID)
	}
}

func TestMemoryUserRepository_Update(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", true))
	require.NoError(t, err)

	active := false
	updated, err := repo.Update(ctx, created.ID, domain.UserPatch{IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "Ann", updated.FirstName)
	assert.Equal(t, "Lee", updated.LastName)
	assert.False(t, updated.IsActive)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found.IsActive)

	_, err = repo.Update(ctx, 42, domain.UserPatch{IsActive: &active})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestMemoryUserRepository_DeleteDoesNotReuseID(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	first, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", true))
	require.NoError(t, err)

	removed, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, removed.ID)

	_, err = repo.Delete(ctx, first.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	second, err := repo.Create(ctx, domain.NewUser("Bob", "Ray", false))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryUserRepository_Counts(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	for _, active := range []bool{true, false, true} {
		_, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", active))
		require.NoError(t, err)
	}

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	active, err := repo.CountActive(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, active)
}

func TestMemoryUserRepository_ConcurrentCreate(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	ids := make(chan int64, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", true))
			if assert.NoError(t, err) {
				ids <- u.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
}

func TestMemoryUserRepository_CanceledContext(t *testing.T) {
	repo := newTestMemoryRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Create(ctx, domain.NewUser("Ann", "Lee", true))
	assert.ErrorIs(t, err, context.Canceled)
}
