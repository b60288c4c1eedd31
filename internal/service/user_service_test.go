package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"users-service/internal/domain"
	"users-service/internal/repository"
	"users-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServices(t *testing.T) (*UserService, *StatsService) {
	t.Helper()

	repo, err := repository.NewMemoryUserRepository(logger.Discard())
	require.NoError(t, err)

	return NewUserService(repo, logger.Discard()), NewStatsService(repo, logger.Discard())
}

// failingRepo отвечает ошибкой хранилища на любой вызов
type failingRepo struct {
	err error
}

func (r failingRepo) Create(context.Context, *domain.User) (*domain.User, error) { return nil, r.err }
func (r failingRepo) List(context.Context) ([]domain.User, error)                { return nil, r.err }
func (r failingRepo) GetByID(context.Context, int64) (*domain.User, error)       { return nil, r.err }
func (r failingRepo) Update(context.Context, int64, domain.UserPatch) (*domain.User, error) {
	return nil, r.err
}
func (r failingRepo) Delete(context.Context, int64) (*domain.User, error) { return nil, r.err }
func (r failingRepo) Count(context.Context) (int, error)                 { return 0, r.err }
func (r failingRepo) CountActive(context.Context) (int, error)           { return 0, r.err }

func TestUserService_CreateAndGet(t *testing.T) {
	userSvc, _ := setupTestServices(t)
	ctx := logger.WithRequestIDContext(context.Background(), "req-1")

	created, err := userSvc.Create(ctx, &domain.User{ID: 77, FirstName: "Ann", LastName: "Lee", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID, "caller supplied id must be ignored")

	found, err := userSvc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", found.FirstName)
	assert.Equal(t, "Lee", found.LastName)
	assert.True(t, found.IsActive)
}

func TestUserService_List(t *testing.T) {
	userSvc, _ := setupTestServices(t)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		_, err := userSvc.Create(ctx, domain.NewUser(fmt.Sprintf("User%d", i), "Lee", true))
		require.NoError(t, err)
	}

	users, err := userSvc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, n)
}

func TestUserService_Update(t *testing.T) {
	userSvc, _ := setupTestServices(t)
	ctx := context.Background()

	created, err := userSvc.Create(ctx, domain.NewUser("Ann", "Lee", true))
	require.NoError(t, err)

	t.Run("PartialUpdate", func(t *testing.T) {
		lastName := "Leeson"
		updated, err := userSvc.Update(ctx, created.ID, domain.UserPatch{LastName: &lastName})
		require.NoError(t, err)
		assert.Equal(t, "Ann", updated.FirstName)
		assert.Equal(t, "Leeson", updated.LastName)
		assert.True(t, updated.IsActive)
	})

	t.Run("EmptyPatchReturnsCurrent", func(t *testing.T) {
		current, err := userSvc.Update(ctx, created.ID, domain.UserPatch{})
		require.NoError(t, err)
		assert.Equal(t, "Leeson", current.LastName)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := userSvc.Update(ctx, 999, domain.UserPatch{})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestUserService_DeleteIsNotRepeatable(t *testing.T) {
	userSvc, _ := setupTestServices(t)
	ctx := context.Background()

	created, err := userSvc.Create(ctx, domain.NewUser("Ann", "Lee", true))
	require.NoError(t, err)

	removed, err := userSvc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)

	_, err = userSvc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = userSvc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_StorageErrorsPropagate(t *testing.T) {
	storageErr := fmt.Errorf("%w: connection reset", domain.ErrDatabaseError)
	userSvc := NewUserService(failingRepo{err: storageErr}, logger.Discard())
	ctx := context.Background()

	_, err := userSvc.Create(ctx, domain.NewUser("Ann", "Lee", true))
	assert.ErrorIs(t, err, domain.ErrDatabaseError)

	_, err = userSvc.List(ctx)
	assert.ErrorIs(t, err, domain.ErrDatabaseError)

	_, err = userSvc.Get(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrDatabaseError)

	active := true
	_, err = userSvc.Update(ctx, 1, domain.UserPatch{IsActive: &active})
	assert.ErrorIs(t, err, domain.ErrDatabaseError)

	_, err = userSvc.Delete(ctx, 1)
	assert.ErrorIs(t, err, domain.ErrDatabaseError)
}

func TestStatsService_GetStats(t *testing.T) {
	userSvc, statsSvc := setupTestServices(t)
	ctx := context.Background()

	for _, active := range []bool{true, true, false} {
		_, err := userSvc.Create(ctx, domain.NewUser("Ann", "Lee", active))
		require.NoError(t, err)
	}

	stats, err := statsSvc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.LessOrEqual(t, stats.ActiveUsers, stats.TotalUsers, "Active users cannot exceed total users")

	failing := NewStatsService(failingRepo{err: errors.New("down")}, logger.Discard())
	_, err = failing.GetStats(ctx)
	assert.Error(t, err)
}
