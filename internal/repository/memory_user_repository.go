// Репозиторий пользователей в памяти поверх go-memdb (для локального запуска и тестов)
package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"users-service/internal/domain"

	"github.com/hashicorp/go-memdb"
)

const (
	usersTable    = "users"
	idIndex       = "id"
	isActiveIndex = "is_active"
)

func userSchema() *memdb.DBSchema {
	return &memdb.DBSchema{
		Tables: map[string]*memdb.TableSchema{
			usersTable: {
				Name: usersTable,
				Indexes: map[string]*memdb.IndexSchema{
					idIndex: {
						Name:    idIndex,
						Unique:  true,
						Indexer: &memdb.IntFieldIndex{Field: "ID"},
					},
					isActiveIndex: {
						Name:    isActiveIndex,
						Indexer: &memdb.BoolFieldIndex{Field: "IsActive"},
					},
				},
			},
		},
	}
}

type MemoryUserRepository struct {
	db     *memdb.MemDB
	logger *slog.Logger
	// lastID меняется только внутри write-транзакции, а она у memdb всегда одна
	lastID int64
}

func NewMemoryUserRepository(logger *slog.Logger) (*MemoryUserRepository, error) {
	db, err := memdb.NewMemDB(userSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory database: %w", err)
	}

	return &MemoryUserRepository{
		db:     db,
		logger: logger,
	}, nil
}

// Create creates a new user. IDs grow monotonically and are never reused.
func (r *MemoryUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	created := *user
	created.ID = r.lastID + 1

	if err := txn.Insert(usersTable, &created); err != nil {
		return nil, fmt.Errorf("%w: failed to create user: %w", domain.ErrDatabaseError, err)
	}
	r.lastID = created.ID
	txn.Commit()

	r.logger.Info("user created", slog.Int64("user_id", created.ID))
	out := created
	return &out, nil
}

// List returns all users ordered by ID
func (r *MemoryUserRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(usersTable, idIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list users: %w", domain.ErrDatabaseError, err)
	}

	users := make([]domain.User, 0)
	for obj := it.Next(); obj != nil; obj = it.Next() {
		users = append(users, *obj.(*domain.User))
	}

	// int-индекс memdb хранит varint, порядок итерации не числовой
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}

// GetByID retrieves a user by ID
func (r *MemoryUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.db.Txn(false)
	defer txn.Abort()

	existing, err := r.first(txn, id)
	if err != nil {
		return nil, err
	}

	out := *existing
	return &out, nil
}

// Update replaces the fields present in the patch
func (r *MemoryUserRepository) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := r.first(txn, id)
	if err != nil {
		return nil, err
	}

	// объекты в memdb неизменяемы, обновляем копию
	updated := *existing
	updated.Apply(patch)

	if err := txn.Insert(usersTable, &updated); err != nil {
		return nil, fmt.Errorf("%w: failed to update user: %w", domain.ErrDatabaseError, err)
	}
	txn.Commit()

	r.logger.Info("user updated", slog.Int64("user_id", id))
	out := updated
	return &out, nil
}

// Delete removes a user and returns the removed record
func (r *MemoryUserRepository) Delete(ctx context.Context, id int64) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	txn := r.db.Txn(true)
	defer txn.Abort()

	existing, err := r.first(txn, id)
	if err != nil {
		return nil, err
	}

	if err := txn.Delete(usersTable, existing); err != nil {
		return nil, fmt.Errorf("%w: failed to delete user: %w", domain.ErrDatabaseError, err)
	}
	txn.Commit()

	r.logger.Info("user deleted", slog.Int64("user_id", id))
	out := *existing
	return &out, nil
}

// Count returns the total number of users
func (r *MemoryUserRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, idIndex)
}

// CountActive returns the number of active users
func (r *MemoryUserRepository) CountActive(ctx context.Context) (int, error) {
	return r.count(ctx, isActiveIndex, true)
}

func (r *MemoryUserRepository) count(ctx context.Context, index string, args ...interface{}) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	txn := r.db.Txn(false)
	defer txn.Abort()

	it, err := txn.Get(usersTable, index, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to count users: %w", domain.ErrDatabaseError, err)
	}

	n := 0
	for obj := it.Next(); obj != nil; obj = it.Next() {
		n++
	}
	return n, nil
}

func (r *MemoryUserRepository) first(txn *memdb.Txn, id int64) (*domain.User, error) {
	obj, err := txn.First(usersTable, idIndex, id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get user: %w", domain.ErrDatabaseError, err)
	}
	if obj == nil {
		return nil, domain.ErrUserNotFound
	}
	return obj.(*domain.User), nil
}
