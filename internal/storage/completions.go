package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/streakd/streakd/internal/domain"
)

const completionColumns = `id, habit_id, user_id, completed_at, reflection, created_at`

type completionRepository struct {
	ex sqlx.ExtContext
	d  *dialect
}

func (r *completionRepository) Create(ctx context.Context, c *domain.Completion) error {
	query := r.ex.Rebind(`
		INSERT INTO completions (` + completionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := r.ex.ExecContext(ctx, query,
		c.ID, c.HabitID, c.UserID, c.CompletedAt.UTC(), c.Reflection, c.CreatedAt.UTC(),
	)
	if err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create completion: %w", err)
	}
	return nil
}

func (r *completionRepository) ListForHabit(ctx context.Context, habitID string, opts ListOptions) ([]*domain.Completion, int, error) {
	opts.Normalize()

	var total int
	countQuery := r.ex.Rebind(`SELECT COUNT(*) FROM completions WHERE habit_id = ?`)
	if err := sqlx.GetContext(ctx, r.ex, &total, countQuery, habitID); err != nil {
		return nil, 0, fmt.Errorf("failed to count completions: %w", err)
	}

	query := r.ex.Rebind(`
		SELECT ` + completionColumns + ` FROM completions
		WHERE habit_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)
	completions := []*domain.Completion{}
	if err := sqlx.SelectContext(ctx, r.ex, &completions, query, habitID, opts.PerPage, opts.offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list completions: %w", err)
	}
	for _, c := range completions {
		c.CompletedAt = c.CompletedAt.UTC()
		c.CreatedAt = c.CreatedAt.UTC()
	}
	return completions, total, nil
}

func (r *completionRepository) ArchiveForUser(ctx context.Context, userID string) (int64, error) {
	query := r.ex.Rebind(`
		INSERT INTO completion_archive (id, habit_id, user_id, completed_at, reflection, archived_at)
		SELECT id, habit_id, user_id, completed_at, reflection, ?
		FROM completions
		WHERE user_id = ?
	`)
	result, err := r.ex.ExecContext(ctx, query, time.Now().UTC(), userID)
	if err != nil {
		return 0, fmt.Errorf("failed to archive completions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
