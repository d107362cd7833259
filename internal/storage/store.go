package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/jmoiron/sqlx"
)

// SQLStore implements Store over database/sql through sqlx. The same
// repositories serve SQLite and PostgreSQL; only the dialect differs.
type SQLStore struct {
	db      *sqlx.DB
	dialect dialect

	mu     sync.Mutex
	closed bool

	habits      *habitRepository
	users       *userRepository
	completions *completionRepository
	stats       *statsRepository
}

func newSQLStore(db *sqlx.DB, d dialect) *SQLStore {
	store := &SQLStore{db: db, dialect: d}
	store.habits = &habitRepository{ex: db, d: &store.dialect}
	store.users = &userRepository{ex: db, d: &store.dialect}
	store.completions = &completionRepository{ex: db, d: &store.dialect}
	store.stats = &statsRepository{ex: db}
	return store
}

// Driver returns the name of the underlying database driver.
func (s *SQLStore) Driver() string {
	return s.dialect.driver
}

// Habits returns the habit repository.
func (s *SQLStore) Habits() HabitRepository {
	return s.habits
}

// Users returns the user repository.
func (s *SQLStore) Users() UserRepository {
	return s.users
}

// Completions returns the completion repository.
func (s *SQLStore) Completions() CompletionRepository {
	return s.completions
}

// Stats returns the stats repository.
func (s *SQLStore) Stats() StatsRepository {
	return s.stats
}

// Ping verifies the database is reachable.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLStore) SchemaVersion() (int, error) {
	return GetCurrentVersion(s.db)
}

// WithTx executes a function within a transaction.
func (s *SQLStore) WithTx(ctx context.Context, fn func(TxStore) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	txStore := &sqlTxStore{
		habits:      &habitRepository{ex: tx, d: &s.dialect},
		users:       &userRepository{ex: tx, d: &s.dialect},
		completions: &completionRepository{ex: tx, d: &s.dialect},
	}

	if err := fn(txStore); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

// sqlTxStore implements TxStore for a transaction.
type sqlTxStore struct {
	habits      *habitRepository
	users       *userRepository
	completions *completionRepository
}

func (s *sqlTxStore) Habits() LockingHabitRepository {
	return s.habits
}

func (s *sqlTxStore) Users() LockingUserRepository {
	return s.users
}

func (s *sqlTxStore) Completions() CompletionRepository {
	return s.completions
}
