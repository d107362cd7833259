package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/storage"
)

// day returns 09:00 UTC on the given March 2026 day
func day(d int) time.Time {
	return time.Date(2026, 3, d, 9, 0, 0, 0, time.UTC)
}

func strPtr(s string) *string { return &s }

type fixture struct {
	store       *storage.SQLStore
	users       *UserService
	habits      *HabitService
	completions *CompletionService
	stats       *StatsService
	user        *domain.User
	habit       *domain.Habit
}

// newFixture opens a temp SQLite store with one registered user owning one
// daily habit. The completion service awards 10 XP on the triangular curve.
func newFixture(t *testing.T, opts ...CompletionOption) *fixture {
	t.Helper()
	store, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "streakd.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	f := &fixture{
		store:       store,
		users:       NewUserService(store, false),
		habits:      NewHabitService(store),
		completions: NewCompletionService(store, opts...),
		stats:       NewStatsService(store),
	}

	ctx := context.Background()
	f.user, err = f.users.Register(ctx, RegisterUserInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	f.habit, err = f.habits.Create(ctx, f.user.ID, CreateHabitInput{Name: "Read"})
	require.NoError(t, err)
	return f
}

func (f *fixture) complete(t *testing.T, at time.Time) (*CompletionResult, error) {
	t.Helper()
	return f.completions.Complete(context.Background(), CompleteInput{
		HabitID: f.habit.ID,
		UserID:  f.user.ID,
		Now:     at,
	})
}

func (f *fixture) reloadHabit(t *testing.T) *domain.Habit {
	t.Helper()
	h, err := f.store.Habits().GetForOwner(context.Background(), f.habit.ID, f.user.ID)
	require.NoError(t, err)
	return h
}

func (f *fixture) reloadUser(t *testing.T) *domain.User {
	t.Helper()
	u, err := f.store.Users().Get(context.Background(), f.user.ID)
	require.NoError(t, err)
	return u
}

func (f *fixture) completionCount(t *testing.T) int {
	t.Helper()
	_, total, err := f.store.Completions().ListForHabit(context.Background(), f.habit.ID, storage.ListOptions{})
	require.NoError(t, err)
	return total
}

// setProgress writes xp and level for the fixture user directly
func (f *fixture) setProgress(t *testing.T, xp, level int64) {
	t.Helper()
	u := f.reloadUser(t)
	u.XP = xp
	u.Level = level
	require.NoError(t, f.store.Users().UpdateProgress(context.Background(), u))
}

// ============================================================================
// Fault injection
// ============================================================================

// faultStore wraps a Store so that selected transactional calls fail.
type faultStore struct {
	storage.Store
	completionErr error
	userLockErr   error
}

func (s *faultStore) WithTx(ctx context.Context, fn func(storage.TxStore) error) error {
	return s.Store.WithTx(ctx, func(tx storage.TxStore) error {
		return fn(&faultTx{TxStore: tx, s: s})
	})
}

type faultTx struct {
	storage.TxStore
	s *faultStore
}

func (t *faultTx) Users() storage.LockingUserRepository {
	if t.s.userLockErr == nil {
		return t.TxStore.Users()
	}
	return &faultUsers{LockingUserRepository: t.TxStore.Users(), err: t.s.userLockErr}
}

func (t *faultTx) Completions() storage.CompletionRepository {
	if t.s.completionErr == nil {
		return t.TxStore.Completions()
	}
	return &faultCompletions{CompletionRepository: t.TxStore.Completions(), err: t.s.completionErr}
}

type faultUsers struct {
	storage.LockingUserRepository
	err error
}

func (u *faultUsers) Lock(ctx context.Context, id string) (*domain.User, error) {
	return nil, u.err
}

type faultCompletions struct {
	storage.CompletionRepository
	err error
}

func (c *faultCompletions) Create(ctx context.Context, completion *domain.Completion) error {
	return c.err
}
