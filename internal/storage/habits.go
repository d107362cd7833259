package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/streakd/streakd/internal/domain"
)

const habitColumns = `id, user_id, name, description, cadence, reminder_time,
	current_streak, longest_streak, last_completed_at, created_at, updated_at`

type habitRepository struct {
	ex sqlx.ExtContext
	d  *dialect
}

func (r *habitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := r.ex.Rebind(`
		INSERT INTO habits (` + habitColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.ex.ExecContext(ctx, query,
		h.ID, h.UserID, h.Name, h.Description, string(h.Cadence), h.ReminderTime,
		h.CurrentStreak, h.LongestStreak, utcPtr(h.LastCompletedAt),
		h.CreatedAt.UTC(), h.UpdatedAt.UTC(),
	)
	if err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create habit: %w", err)
	}
	return nil
}

func (r *habitRepository) GetForOwner(ctx context.Context, id, userID string) (*domain.Habit, error) {
	return r.getForOwner(ctx, id, userID, "")
}

func (r *habitRepository) LockForOwner(ctx context.Context, id, userID string) (*domain.Habit, error) {
	return r.getForOwner(ctx, id, userID, r.d.lockSuffix)
}

func (r *habitRepository) getForOwner(ctx context.Context, id, userID, suffix string) (*domain.Habit, error) {
	query := r.ex.Rebind(`SELECT ` + habitColumns + ` FROM habits WHERE id = ? AND user_id = ?` + suffix)

	var h domain.Habit
	if err := sqlx.GetContext(ctx, r.ex, &h, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	normalizeHabit(&h)
	return &h, nil
}

func (r *habitRepository) LockAllForOwner(ctx context.Context, userID string) ([]string, error) {
	query := r.ex.Rebind(`SELECT id FROM habits WHERE user_id = ? ORDER BY id` + r.d.lockSuffix)

	var ids []string
	if err := sqlx.SelectContext(ctx, r.ex, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to lock habits: %w", err)
	}
	return ids, nil
}

func (r *habitRepository) ListForOwner(ctx context.Context, userID string, opts ListOptions) ([]*domain.Habit, int, error) {
	opts.Normalize()

	var total int
	countQuery := r.ex.Rebind(`SELECT COUNT(*) FROM habits WHERE user_id = ?`)
	if err := sqlx.GetContext(ctx, r.ex, &total, countQuery, userID); err != nil {
		return nil, 0, fmt.Errorf("failed to count habits: %w", err)
	}

	query := r.ex.Rebind(`
		SELECT ` + habitColumns + ` FROM habits
		WHERE user_id = ?
		ORDER BY created_at, id
		LIMIT ? OFFSET ?
	`)
	habits := []*domain.Habit{}
	if err := sqlx.SelectContext(ctx, r.ex, &habits, query, userID, opts.PerPage, opts.offset()); err != nil {
		return nil, 0, fmt.Errorf("failed to list habits: %w", err)
	}
	for _, h := range habits {
		normalizeHabit(h)
	}
	return habits, total, nil
}

func (r *habitRepository) Update(ctx context.Context, h *domain.Habit) error {
	query := r.ex.Rebind(`
		UPDATE habits SET
			name = ?, description = ?, cadence = ?, reminder_time = ?,
			current_streak = ?, longest_streak = ?, last_completed_at = ?,
			updated_at = ?
		WHERE id = ? AND user_id = ?
	`)
	result, err := r.ex.ExecContext(ctx, query,
		h.Name, h.Description, string(h.Cadence), h.ReminderTime,
		h.CurrentStreak, h.LongestStreak, utcPtr(h.LastCompletedAt),
		h.UpdatedAt.UTC(),
		h.ID, h.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}
	return requireRow(result)
}

func (r *habitRepository) Delete(ctx context.Context, id, userID string) error {
	query := r.ex.Rebind(`DELETE FROM habits WHERE id = ? AND user_id = ?`)
	result, err := r.ex.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	return requireRow(result)
}

func normalizeHabit(h *domain.Habit) {
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	h.LastCompletedAt = utcPtr(h.LastCompletedAt)
}
