// Package storage is the persistence gateway for streakd: repositories over
// users, habits and completions with transactional lock-and-load access.
package storage

import (
	"context"
	"errors"

	"github.com/streakd/streakd/internal/domain"
)

// Common sentinel errors for storage operations.
var (
	// ErrNotFound is returned when a requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a write violates a uniqueness constraint.
	ErrConflict = errors.New("resource already exists")
)

// ListOptions specifies pagination for list queries.
type ListOptions struct {
	Page    int
	PerPage int
}

// Normalize ensures ListOptions has valid default values.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PerPage < 1 {
		o.PerPage = 50
	}
	if o.PerPage > 100 {
		o.PerPage = 100
	}
}

func (o ListOptions) offset() int {
	return (o.Page - 1) * o.PerPage
}

// Store is the main interface for accessing all repositories.
// Reads outside a transaction take no locks.
type Store interface {
	Habits() HabitRepository
	Users() UserRepository
	Completions() CompletionRepository
	Stats() StatsRepository

	// WithTx executes the given function within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// A cancelled ctx rolls the transaction back.
	WithTx(ctx context.Context, fn func(TxStore) error) error

	// Close releases any resources held by the store.
	Close() error
}

// TxStore provides access to repositories within a transaction context.
// Lock methods hold their rows exclusively until the transaction ends.
//
// Lock order is fixed for the whole system: habit rows first (ascending id
// when several are needed), then the owning user row.
type TxStore interface {
	Habits() LockingHabitRepository
	Users() LockingUserRepository
	Completions() CompletionRepository
}

// HabitRepository defines operations for managing habits. Every operation is
// scoped to the owning user so other users' habits are indistinguishable
// from missing ones.
type HabitRepository interface {
	// Create inserts a new habit.
	Create(ctx context.Context, habit *domain.Habit) error

	// GetForOwner retrieves a habit by ID owned by userID.
	// Returns ErrNotFound if no such habit exists for this owner.
	GetForOwner(ctx context.Context, id, userID string) (*domain.Habit, error)

	// ListForOwner returns a page of userID's habits and the total count.
	ListForOwner(ctx context.Context, userID string, opts ListOptions) ([]*domain.Habit, int, error)

	// Update writes all mutable fields of a habit.
	// Returns ErrNotFound if the habit does not exist for its owner.
	Update(ctx context.Context, habit *domain.Habit) error

	// Delete removes a habit and, by cascade, its completions.
	// Returns ErrNotFound if the habit does not exist for this owner.
	Delete(ctx context.Context, id, userID string) error
}

// LockingHabitRepository adds row locks to HabitRepository.
type LockingHabitRepository interface {
	HabitRepository

	// LockForOwner loads and exclusively locks a habit owned by userID.
	// Returns ErrNotFound if no such habit exists for this owner.
	LockForOwner(ctx context.Context, id, userID string) (*domain.Habit, error)

	// LockAllForOwner locks every habit of userID in ascending id order and
	// returns their IDs.
	LockAllForOwner(ctx context.Context, userID string) ([]string, error)
}

// UserRepository defines operations for managing users.
type UserRepository interface {
	// Create inserts a new user.
	// Returns ErrConflict if the username or email is taken.
	Create(ctx context.Context, user *domain.User) error

	// Get retrieves a user by ID.
	// Returns ErrNotFound if the user does not exist.
	Get(ctx context.Context, id string) (*domain.User, error)

	// UpdateProgress writes a user's XP and level.
	// Returns ErrNotFound if the user does not exist.
	UpdateProgress(ctx context.Context, user *domain.User) error

	// Delete removes a user and, by cascade, their habits and completions.
	// Returns ErrNotFound if the user does not exist.
	Delete(ctx context.Context, id string) error
}

// LockingUserRepository adds row locks to UserRepository.
type LockingUserRepository interface {
	UserRepository

	// Lock loads and exclusively locks a user.
	// Returns ErrNotFound if the user does not exist.
	Lock(ctx context.Context, id string) (*domain.User, error)
}

// CompletionRepository defines operations for the append-only completion log.
type CompletionRepository interface {
	// Create appends a completion record.
	Create(ctx context.Context, completion *domain.Completion) error

	// ListForHabit returns a page of a habit's completions, newest first,
	// and the total count.
	ListForHabit(ctx context.Context, habitID string, opts ListOptions) ([]*domain.Completion, int, error)

	// ArchiveForUser copies all of a user's completions into the archive
	// table and returns how many were copied.
	ArchiveForUser(ctx context.Context, userID string) (int64, error)
}

// StatsRepository provides read-side aggregates.
type StatsRepository interface {
	// ForUser computes habit statistics for userID. Unknown users yield zero stats.
	ForUser(ctx context.Context, userID string) (*domain.Stats, error)
}
