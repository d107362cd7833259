package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/streakd/streakd/internal/domain"
)

type statsRepository struct {
	ex sqlx.ExtContext
}

func (r *statsRepository) ForUser(ctx context.Context, userID string) (*domain.Stats, error) {
	query := r.ex.Rebind(`
		SELECT
			(SELECT COUNT(*) FROM habits WHERE user_id = ?) AS total_habits,
			(SELECT COUNT(*) FROM habits WHERE user_id = ? AND current_streak > 0) AS habits_with_active_streak,
			(SELECT COALESCE(MAX(longest_streak), 0) FROM habits WHERE user_id = ?) AS longest_streak_ever,
			(SELECT COUNT(*) FROM completions WHERE user_id = ?) AS total_completions_all_time
	`)

	var stats domain.Stats
	if err := sqlx.GetContext(ctx, r.ex, &stats, query, userID, userID, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	return &stats, nil
}
