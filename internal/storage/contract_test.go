package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/streakd/streakd/internal/domain"
)

// The repository contract runs against every backend. Each subtest gets a
// fresh, migrated store from newStore.

func stringPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
}

// createTestUser inserts a user with sensible defaults for testing
func createTestUser(t *testing.T, store Store, id, username string) *domain.User {
	t.Helper()
	now := baseTime()
	u := &domain.User{
		ID:          id,
		Username:    username,
		Email:       username + "@example.com",
		XP:          0,
		Level:       1,
		AvatarState: domain.DefaultAvatarState,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := store.Users().Create(context.Background(), u); err != nil {
		t.Fatalf("failed to create user %s: %v", id, err)
	}
	return u
}

// createTestHabit inserts a daily habit owned by userID
func createTestHabit(t *testing.T, store Store, id, userID, name string, createdAt time.Time) *domain.Habit {
	t.Helper()
	h := &domain.Habit{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Cadence:   domain.CadenceDaily,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if err := store.Habits().Create(context.Background(), h); err != nil {
		t.Fatalf("failed to create habit %s: %v", id, err)
	}
	return h
}

func createTestCompletion(t *testing.T, store Store, id, habitID, userID string, at time.Time) *domain.Completion {
	t.Helper()
	c := &domain.Completion{
		ID:          id,
		HabitID:     habitID,
		UserID:      userID,
		CompletedAt: at,
		CreatedAt:   at,
	}
	if err := store.Completions().Create(context.Background(), c); err != nil {
		t.Fatalf("failed to create completion %s: %v", id, err)
	}
	return c
}

func runRepositoryContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	// ============================================================================
	// User Repository
	// ============================================================================

	t.Run("user create and get", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")

		got, err := store.Users().Get(ctx, "usr-1")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.Username != "alice" || got.Email != "alice@example.com" {
			t.Errorf("unexpected user: %+v", got)
		}
		if got.XP != 0 || got.Level != 1 {
			t.Errorf("expected xp 0 level 1, got xp %d level %d", got.XP, got.Level)
		}
		if !got.CreatedAt.Equal(baseTime()) {
			t.Errorf("expected created_at %v, got %v", baseTime(), got.CreatedAt)
		}
		if got.CreatedAt.Location() != time.UTC {
			t.Errorf("expected UTC timestamps, got %v", got.CreatedAt.Location())
		}
	})

	t.Run("user duplicate username conflicts", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")

		dup := &domain.User{
			ID: "usr-2", Username: "alice", Email: "other@example.com",
			Level: 1, AvatarState: domain.DefaultAvatarState,
			CreatedAt: baseTime(), UpdatedAt: baseTime(),
		}
		err := store.Users().Create(ctx, dup)
		if !errors.Is(err, ErrConflict) {
			t.Errorf("expected ErrConflict, got: %v", err)
		}
	})

	t.Run("user get missing returns ErrNotFound", func(t *testing.T) {
		store := newStore(t)
		_, err := store.Users().Get(ctx, "usr-none")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("user update progress", func(t *testing.T) {
		store := newStore(t)
		u := createTestUser(t, store, "usr-1", "alice")

		u.XP = 310
		u.Level = 3
		u.UpdatedAt = baseTime().Add(time.Hour)
		if err := store.Users().UpdateProgress(ctx, u); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		got, _ := store.Users().Get(ctx, "usr-1")
		if got.XP != 310 || got.Level != 3 {
			t.Errorf("expected xp 310 level 3, got xp %d level %d", got.XP, got.Level)
		}

		missing := &domain.User{ID: "usr-none", Level: 1, UpdatedAt: baseTime()}
		if err := store.Users().UpdateProgress(ctx, missing); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got: %v", err)
		}
	})

	t.Run("user delete cascades", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestHabit(t, store, "hab-1", "usr-1", "Read", baseTime())
		createTestCompletion(t, store, "cmp-1", "hab-1", "usr-1", baseTime())

		if err := store.Users().Delete(ctx, "usr-1"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		if _, err := store.Habits().GetForOwner(ctx, "hab-1", "usr-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected habit to be deleted, got: %v", err)
		}
		stats, err := store.Stats().ForUser(ctx, "usr-1")
		if err != nil {
			t.Fatalf("failed to compute stats: %v", err)
		}
		if stats.TotalCompletionsAllTime != 0 {
			t.Errorf("expected completions to be deleted, got %d", stats.TotalCompletionsAllTime)
		}
		if err := store.Users().Delete(ctx, "usr-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got: %v", err)
		}
	})

	// ============================================================================
	// Habit Repository
	// ============================================================================

	t.Run("habit create and get for owner", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestUser(t, store, "usr-2", "bob")

		h := &domain.Habit{
			ID:           "hab-1",
			UserID:       "usr-1",
			Name:         "Meditate",
			Description:  stringPtr("Ten minutes"),
			Cadence:      domain.CadenceDaily,
			ReminderTime: stringPtr("07:30"),
			CreatedAt:    baseTime(),
			UpdatedAt:    baseTime(),
		}
		if err := store.Habits().Create(ctx, h); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		got, err := store.Habits().GetForOwner(ctx, "hab-1", "usr-1")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if got.Name != "Meditate" || got.Cadence != domain.CadenceDaily {
			t.Errorf("unexpected habit: %+v", got)
		}
		if got.Description == nil || *got.Description != "Ten minutes" {
			t.Errorf("expected description 'Ten minutes', got %v", got.Description)
		}
		if got.ReminderTime == nil || *got.ReminderTime != "07:30" {
			t.Errorf("expected reminder_time '07:30', got %v", got.ReminderTime)
		}
		if got.LastCompletedAt != nil {
			t.Errorf("expected nil last_completed_at, got %v", got.LastCompletedAt)
		}

		if _, err := store.Habits().GetForOwner(ctx, "hab-1", "usr-2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for other owner, got: %v", err)
		}
	})

	t.Run("habit list is paged in creation order", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestUser(t, store, "usr-2", "bob")
		for i := 0; i < 5; i++ {
			createTestHabit(t, store, fmt.Sprintf("hab-%d", i), "usr-1", fmt.Sprintf("Habit %d", i), baseTime().Add(time.Duration(i)*time.Minute))
		}
		createTestHabit(t, store, "hab-other", "usr-2", "Other", baseTime())

		got, total, err := store.Habits().ListForOwner(ctx, "usr-1", ListOptions{Page: 2, PerPage: 2})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if total != 5 {
			t.Errorf("expected total 5, got %d", total)
		}
		if len(got) != 2 || got[0].ID != "hab-2" || got[1].ID != "hab-3" {
			t.Errorf("unexpected page: %+v", got)
		}

		empty, total, err := store.Habits().ListForOwner(ctx, "usr-none", ListOptions{})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if total != 0 || empty == nil || len(empty) != 0 {
			t.Errorf("expected empty non-nil list, got %v (total %d)", empty, total)
		}
	})

	t.Run("habit update writes streak fields", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		h := createTestHabit(t, store, "hab-1", "usr-1", "Run", baseTime())

		completed := baseTime().Add(25 * time.Hour).Truncate(time.Microsecond)
		h.CurrentStreak = 4
		h.LongestStreak = 9
		h.LastCompletedAt = timePtr(completed)
		h.UpdatedAt = completed
		if err := store.Habits().Update(ctx, h); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}

		got, _ := store.Habits().GetForOwner(ctx, "hab-1", "usr-1")
		if got.CurrentStreak != 4 || got.LongestStreak != 9 {
			t.Errorf("expected streak 4/9, got %d/%d", got.CurrentStreak, got.LongestStreak)
		}
		if got.LastCompletedAt == nil || !got.LastCompletedAt.Equal(completed) {
			t.Errorf("expected last_completed_at %v, got %v", completed, got.LastCompletedAt)
		}

		h.UserID = "usr-2"
		if err := store.Habits().Update(ctx, h); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for other owner, got: %v", err)
		}
	})

	t.Run("habit delete", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestHabit(t, store, "hab-1", "usr-1", "Run", baseTime())

		if err := store.Habits().Delete(ctx, "hab-1", "usr-2"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound for other owner, got: %v", err)
		}
		if err := store.Habits().Delete(ctx, "hab-1", "usr-1"); err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if _, err := store.Habits().GetForOwner(ctx, "hab-1", "usr-1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got: %v", err)
		}
	})

	// ============================================================================
	// Completion Repository
	// ============================================================================

	t.Run("completions list newest first", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestHabit(t, store, "hab-1", "usr-1", "Run", baseTime())
		for i := 0; i < 3; i++ {
			createTestCompletion(t, store, fmt.Sprintf("cmp-%d", i), "hab-1", "usr-1", baseTime().Add(time.Duration(i)*24*time.Hour))
		}

		got, total, err := store.Completions().ListForHabit(ctx, "hab-1", ListOptions{})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if total != 3 || len(got) != 3 {
			t.Fatalf("expected 3 completions, got %d (total %d)", len(got), total)
		}
		if got[0].ID != "cmp-2" || got[2].ID != "cmp-0" {
			t.Errorf("expected newest first, got %s..%s", got[0].ID, got[2].ID)
		}
		if got[0].Reflection != nil {
			t.Errorf("expected nil reflection, got %v", got[0].Reflection)
		}
	})

	t.Run("completions archive for user", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestHabit(t, store, "hab-1", "usr-1", "Run", baseTime())
		createTestCompletion(t, store, "cmp-1", "hab-1", "usr-1", baseTime())
		createTestCompletion(t, store, "cmp-2", "hab-1", "usr-1", baseTime().Add(24*time.Hour))

		var archived int64
		err := store.WithTx(ctx, func(tx TxStore) error {
			n, err := tx.Completions().ArchiveForUser(ctx, "usr-1")
			archived = n
			if err != nil {
				return err
			}
			return tx.Users().Delete(ctx, "usr-1")
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if archived != 2 {
			t.Errorf("expected 2 archived completions, got %d", archived)
		}
	})

	// ============================================================================
	// Stats Repository
	// ============================================================================

	t.Run("stats for user", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		a := createTestHabit(t, store, "hab-a", "usr-1", "A", baseTime())
		createTestHabit(t, store, "hab-b", "usr-1", "B", baseTime())
		createTestCompletion(t, store, "cmp-1", "hab-a", "usr-1", baseTime())

		a.CurrentStreak = 2
		a.LongestStreak = 7
		a.UpdatedAt = baseTime()
		if err := store.Habits().Update(ctx, a); err != nil {
			t.Fatalf("failed to update habit: %v", err)
		}

		stats, err := store.Stats().ForUser(ctx, "usr-1")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		want := domain.Stats{TotalHabits: 2, HabitsWithActiveStreak: 1, LongestStreakEver: 7, TotalCompletionsAllTime: 1}
		if *stats != want {
			t.Errorf("expected %+v, got %+v", want, *stats)
		}

		empty, err := store.Stats().ForUser(ctx, "usr-none")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if *empty != (domain.Stats{}) {
			t.Errorf("expected zero stats, got %+v", *empty)
		}
	})

	// ============================================================================
	// Transactions
	// ============================================================================

	t.Run("tx commits on success", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")

		err := store.WithTx(ctx, func(tx TxStore) error {
			return tx.Habits().Create(ctx, &domain.Habit{
				ID: "hab-tx", UserID: "usr-1", Name: "Tx", Cadence: domain.CadenceDaily,
				CreatedAt: baseTime(), UpdatedAt: baseTime(),
			})
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if _, err := store.Habits().GetForOwner(ctx, "hab-tx", "usr-1"); err != nil {
			t.Errorf("expected habit to exist after commit, got: %v", err)
		}
	})

	t.Run("tx rolls back on error", func(t *testing.T) {
		store := newStore(t)
		u := createTestUser(t, store, "usr-1", "alice")

		err := store.WithTx(ctx, func(tx TxStore) error {
			u.XP = 500
			if err := tx.Users().UpdateProgress(ctx, u); err != nil {
				return err
			}
			return errors.New("intentional error")
		})
		if err == nil {
			t.Fatal("expected error, got nil")
		}

		got, _ := store.Users().Get(ctx, "usr-1")
		if got.XP != 0 {
			t.Errorf("expected xp to be rolled back to 0, got %d", got.XP)
		}
	})

	t.Run("tx locks rows", func(t *testing.T) {
		store := newStore(t)
		createTestUser(t, store, "usr-1", "alice")
		createTestHabit(t, store, "hab-b", "usr-1", "B", baseTime())
		createTestHabit(t, store, "hab-a", "usr-1", "A", baseTime().Add(time.Minute))

		err := store.WithTx(ctx, func(tx TxStore) error {
			h, err := tx.Habits().LockForOwner(ctx, "hab-a", "usr-1")
			if err != nil {
				return err
			}
			if h.Name != "A" {
				t.Errorf("expected habit A, got %s", h.Name)
			}
			if _, err := tx.Habits().LockForOwner(ctx, "hab-a", "usr-2"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for other owner, got: %v", err)
			}
			if _, err := tx.Users().Lock(ctx, "usr-1"); err != nil {
				return err
			}
			ids, err := tx.Habits().LockAllForOwner(ctx, "usr-1")
			if err != nil {
				return err
			}
			if len(ids) != 2 || ids[0] != "hab-a" || ids[1] != "hab-b" {
				t.Errorf("expected ids in ascending order, got %v", ids)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
	})

	t.Run("tx with cancelled context does not run", func(t *testing.T) {
		store := newStore(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		called := false
		err := store.WithTx(cctx, func(tx TxStore) error {
			called = true
			return nil
		})
		if err == nil {
			t.Error("expected error for cancelled context, got nil")
		}
		if called {
			t.Error("expected fn not to be called")
		}
	})
}
