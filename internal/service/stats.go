package service

import (
	"context"
	"errors"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/storage"
)

// StatsService computes read-side summaries.
type StatsService struct {
	store storage.Store
}

// NewStatsService creates a new StatsService.
func NewStatsService(store storage.Store) *StatsService {
	return &StatsService{store: store}
}

// ForUser returns habit statistics for an existing user.
func (s *StatsService) ForUser(ctx context.Context, userID string) (*domain.Stats, error) {
	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.NewUserNotFoundError(userID)
		}
		return nil, domain.NewInternalError(err)
	}

	stats, err := s.store.Stats().ForUser(ctx, userID)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}
	return stats, nil
}
