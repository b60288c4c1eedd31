// Интерфейсы репозиториев для работы с даннымми
package repository

import (
	"context"

	"users-service/internal/domain"
)

type UserRepository interface {
	// Create stores a new user and assigns its ID
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// List returns all users ordered by ID
	List(ctx context.Context) ([]domain.User, error)
	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// Update replaces the fields present in the patch
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	// Delete removes a user and returns the removed record
	Delete(ctx context.Context, id int64) (*domain.User, error)
	// Count returns the total number of users
	Count(ctx context.Context) (int, error)
	// CountActive returns the number of active users
	CountActive(ctx context.Context) (int, error)
}

// Stats represents overall system statistics
type Stats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
}
