package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/logger"
	"github.com/streakd/streakd/internal/storage"
	"github.com/streakd/streakd/pkg/idgen"
)

// DefaultXPPerCompletion is the award used when none is configured.
const DefaultXPPerCompletion = 10

// CompletionService marks habits done and applies streak and XP progression
// as one atomic unit.
type CompletionService struct {
	store     storage.Store
	clock     Clock
	loc       *time.Location
	award     int64
	threshold domain.ThresholdFunc
}

// CompletionOption configures a CompletionService.
type CompletionOption func(*CompletionService)

// WithClock sets the clock used when a completion carries no timestamp.
func WithClock(clock Clock) CompletionOption {
	return func(s *CompletionService) {
		s.clock = clock
	}
}

// WithLocation sets the reference timezone for period boundaries.
func WithLocation(loc *time.Location) CompletionOption {
	return func(s *CompletionService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithAward sets the XP granted per accepted completion.
func WithAward(xp int64) CompletionOption {
	return func(s *CompletionService) {
		s.award = xp
	}
}

// WithThreshold sets the level curve.
func WithThreshold(fn domain.ThresholdFunc) CompletionOption {
	return func(s *CompletionService) {
		if fn != nil {
			s.threshold = fn
		}
	}
}

// NewCompletionService creates a new CompletionService.
func NewCompletionService(store storage.Store, opts ...CompletionOption) *CompletionService {
	s := &CompletionService{
		store:     store,
		clock:     systemClock,
		loc:       time.UTC,
		award:     DefaultXPPerCompletion,
		threshold: domain.TriangularThreshold(100),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CompleteInput contains the input for completing a habit.
type CompleteInput struct {
	HabitID string
	UserID  string
	// Now is the completion instant. Zero means the service clock.
	Now        time.Time
	Reflection *string
}

// CompletionResult is the outcome of an accepted completion.
type CompletionResult struct {
	Habit        *domain.Habit       `json:"habit"`
	User         domain.ProgressView `json:"user"`
	LeveledUp    bool                `json:"leveled_up"`
	LevelsGained int64               `json:"levels_gained"`
	XPGained     int64               `json:"xp_gained"`
	Completion   *domain.Completion  `json:"completion"`
}

// Complete records one completion of a habit owned by the user.
//
// Locks are taken habit first, then user. A second completion in the same
// period fails with ALREADY_COMPLETED and changes nothing. Any failure rolls
// back the habit, the user and the completion record together.
func (s *CompletionService) Complete(ctx context.Context, in CompleteInput) (*CompletionResult, error) {
	reflection, err := normalizeReflection(in.Reflection)
	if err != nil {
		return nil, err
	}

	now := in.Now
	if now.IsZero() {
		now = s.clock()
	}
	now = now.UTC().Truncate(time.Microsecond)

	completionID, err := idgen.Generate(idgen.PrefixCompletion)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	var result *CompletionResult
	err = s.store.WithTx(ctx, func(tx storage.TxStore) error {
		habit, err := tx.Habits().LockForOwner(ctx, in.HabitID, in.UserID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domain.NewHabitNotFoundError(in.HabitID)
			}
			return err
		}

		user, err := tx.Users().Lock(ctx, in.UserID)
		if err != nil {
			return fmt.Errorf("failed to load owner of habit %s: %w", habit.ID, err)
		}

		class, err := domain.Classify(habit.Cadence, habit.LastCompletedAt, now, s.loc)
		if err != nil {
			return err
		}
		if class == domain.Duplicate {
			return domain.NewAlreadyCompletedError(habit.ID, habit.Cadence, habit.LastCompletedAt.Format(time.RFC3339))
		}

		streak, err := domain.NextStreak(habit.Streak(), class, now)
		if err != nil {
			return err
		}
		habit.ApplyStreak(streak)
		habit.UpdatedAt = now

		progress := domain.Progress(user.XP, user.Level, s.award, s.threshold)
		xpGained := progress.XP - user.XP
		user.XP = progress.XP
		user.Level = progress.Level
		user.UpdatedAt = now

		completion := &domain.Completion{
			ID:          completionID,
			HabitID:     habit.ID,
			UserID:      user.ID,
			CompletedAt: now,
			Reflection:  reflection,
			CreatedAt:   now,
		}

		if err := tx.Habits().Update(ctx, habit); err != nil {
			return err
		}
		if err := tx.Users().UpdateProgress(ctx, user); err != nil {
			return err
		}
		if err := tx.Completions().Create(ctx, completion); err != nil {
			return err
		}

		result = &CompletionResult{
			Habit:        habit,
			User:         user.Progress(),
			LeveledUp:    progress.LeveledUp,
			LevelsGained: progress.LevelsGained,
			XPGained:     xpGained,
			Completion:   completion,
		}
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}

	logger.Debug("habit completed",
		"habit_id", result.Habit.ID,
		"user_id", result.User.ID,
		"streak", result.Habit.CurrentStreak,
		"xp", result.User.XP,
	)
	if result.LeveledUp {
		logger.Info("user leveled up",
			"user_id", result.User.ID,
			"level", result.User.Level,
			"levels_gained", result.LevelsGained,
		)
	}

	return result, nil
}

// normalizeReflection trims the text; blank text is treated as absent.
func normalizeReflection(r *string) (*string, error) {
	if r == nil {
		return nil, nil
	}
	text := strings.TrimSpace(*r)
	if text == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(text) > domain.MaxReflectionLength {
		return nil, domain.NewValidationError([]string{
			fmt.Sprintf("reflection must be at most %d characters", domain.MaxReflectionLength),
		})
	}
	return &text, nil
}
