package service

import (
	"context"
	"fmt"
	"log/slog"

	"users-service/internal/domain"
	"users-service/internal/repository"
	"users-service/pkg/logger"
)

type UserService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewUserService(userRepo repository.UserRepository, logger *slog.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Create stores a new user. The ID is always assigned by the repository.
func (s *UserService) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.WithRequestID(ctx, s.logger)

	toCreate := *user
	toCreate.ID = 0

	created, err := s.userRepo.Create(ctx, &toCreate)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user created",
		slog.Int64("user_id", created.ID),
		slog.Bool("is_active", created.IsActive),
	)

	return created, nil
}

// List returns every user
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	logger.WithRequestID(ctx, s.logger).Debug("users listed", slog.Int("count", len(users)))

	return users, nil
}

// Get retrieves a user by ID
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// Update applies a partial update. An empty patch returns the current record.
func (s *UserService) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	if patch.IsEmpty() {
		return s.Get(ctx, id)
	}

	log := logger.WithRequestID(ctx, s.logger)
	log.Info("updating user", slog.Int64("user_id", id))

	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	log.Info("user updated",
		slog.Int64("user_id", id),
		slog.Bool("is_active", user.IsActive),
	)

	return user, nil
}

// Delete removes a user and returns the removed record
func (s *UserService) Delete(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.Delete(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	logger.WithRequestID(ctx, s.logger).Info("user deleted", slog.Int64("user_id", id))

	return user, nil
}
