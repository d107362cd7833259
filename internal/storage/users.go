package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/streakd/streakd/internal/domain"
)

const userColumns = `id, username, email, xp, level, avatar_state, created_at, updated_at`

type userRepository struct {
	ex sqlx.ExtContext
	d  *dialect
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := r.ex.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.ex.ExecContext(ctx, query,
		u.ID, u.Username, u.Email, u.XP, u.Level, u.AvatarState,
		u.CreatedAt.UTC(), u.UpdatedAt.UTC(),
	)
	if err != nil {
		if r.d.isUniqueViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, id, "")
}

func (r *userRepository) Lock(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, id, r.d.lockSuffix)
}

func (r *userRepository) get(ctx context.Context, id, suffix string) (*domain.User, error) {
	query := r.ex.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?` + suffix)

	var u domain.User
	if err := sqlx.GetContext(ctx, r.ex, &u, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func (r *userRepository) UpdateProgress(ctx context.Context, u *domain.User) error {
	query := r.ex.Rebind(`UPDATE users SET xp = ?, level = ?, updated_at = ? WHERE id = ?`)
	result, err := r.ex.ExecContext(ctx, query, u.XP, u.Level, u.UpdatedAt.UTC(), u.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return requireRow(result)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	query := r.ex.Rebind(`DELETE FROM users WHERE id = ?`)
	result, err := r.ex.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result)
}
