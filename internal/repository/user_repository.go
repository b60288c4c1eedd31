// Имплементация репозитория для работы с пользователями в базе данных postgresql
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"users-service/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, first_name, last_name, is_active`

type UserRepositoryImpl struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewUserRepository(pool *pgxpool.Pool, logger *slog.Logger) *UserRepositoryImpl {
	return &UserRepositoryImpl{
		pool:   pool,
		logger: logger,
	}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.IsActive); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create creates a new user
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, is_active)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	created, err := scanUser(r.pool.QueryRow(ctx, query, user.FirstName, user.LastName, user.IsActive))
	if err != nil {
		r.logger.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to create user: %w", domain.ErrDatabaseError, err)
	}

	r.logger.Info("user created", slog.Int64("user_id", created.ID))
	return created, nil
}

// List returns all users ordered by ID
func (r *UserRepositoryImpl) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to list users: %w", domain.ErrDatabaseError, err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to scan user: %w", domain.ErrDatabaseError, err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("failed to iterate users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: failed to list users: %w", domain.ErrDatabaseError, err)
	}

	return users, nil
}

// GetByID retrieves a user by ID
func (r *UserRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, r.rowError("get", id, err)
	}

	return user, nil
}

// Update replaces the fields present in the patch, absent fields keep their value
func (r *UserRepositoryImpl) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
			last_name  = COALESCE($3, last_name),
			is_active  = COALESCE($4, is_active)
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, id, patch.FirstName, patch.LastName, patch.IsActive))
	if err != nil {
		return nil, r.rowError("update", id, err)
	}

	r.logger.Info("user updated", slog.Int64("user_id", id))
	return user, nil
}

// Delete removes a user and returns the removed record
func (r *UserRepositoryImpl) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, id))
	if err != nil {
		return nil, r.rowError("delete", id, err)
	}

	r.logger.Info("user deleted", slog.Int64("user_id", id))
	return user, nil
}

// Count returns the total number of users
func (r *UserRepositoryImpl) Count(ctx context.Context) (int, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		r.logger.Error("failed to count users", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: failed to count users: %w", domain.ErrDatabaseError, err)
	}

	return int(count), nil
}

// CountActive returns the number of active users
func (r *UserRepositoryImpl) CountActive(ctx context.Context) (int, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_active`).Scan(&count); err != nil {
		r.logger.Error("failed to count active users", slog.String("error", err.Error()))
		return 0, fmt.Errorf("%w: failed to count active users: %w", domain.ErrDatabaseError, err)
	}

	return int(count), nil
}

func (r *UserRepositoryImpl) rowError(op string, id int64, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrUserNotFound
	}

	r.logger.Error("failed to "+op+" user",
		slog.Int64("user_id", id),
		slog.String("error", err.Error()),
	)
	return fmt.Errorf("%w: failed to %s user: %w", domain.ErrDatabaseError, op, err)
}
