package service

import (
	"context"
	"fmt"
	"log/slog"

	"users-service/internal/repository"
)

type StatsService struct {
	userRepo repository.UserRepository
	logger   *slog.Logger
}

func NewStatsService(userRepo repository.UserRepository, logger *slog.Logger) *StatsService {
	return &StatsService{
		userRepo: userRepo,
		logger:   logger,
	}
}

func (s *StatsService) GetStats(ctx context.Context) (*repository.Stats, error) {
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	active, err := s.userRepo.CountActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	s.logger.Debug("stats retrieved",
		slog.Int("total_users", total),
		slog.Int("active_users", active),
	)

	return &repository.Stats{
		TotalUsers:  total,
		ActiveUsers: active,
	}, nil
}
