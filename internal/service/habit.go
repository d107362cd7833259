package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/storage"
	"github.com/streakd/streakd/pkg/idgen"
)

// HabitService handles habit business logic.
type HabitService struct {
	store storage.Store
	clock Clock
}

// NewHabitService creates a new HabitService.
func NewHabitService(store storage.Store) *HabitService {
	return &HabitService{store: store, clock: systemClock}
}

// CreateHabitInput contains the input for creating a habit.
type CreateHabitInput struct {
	Name         string
	Description  *string
	Cadence      domain.Cadence
	ReminderTime *string
}

// Create creates a new habit for userID.
func (s *HabitService) Create(ctx context.Context, userID string, input CreateHabitInput) (*domain.Habit, error) {
	name := strings.TrimSpace(input.Name)
	cadence := input.Cadence
	if cadence == "" {
		cadence = domain.CadenceDaily
	}

	var details []string
	details = append(details, validateName(name)...)
	details = append(details, validateCadence(cadence)...)
	details = append(details, validateReminder(input.ReminderTime)...)
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	if _, err := s.store.Users().Get(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.NewUserNotFoundError(userID)
		}
		return nil, domain.NewInternalError(err)
	}

	id, err := idgen.Generate(idgen.PrefixHabit)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	now := s.clock()
	habit := &domain.Habit{
		ID:           id,
		UserID:       userID,
		Name:         name,
		Description:  blankToNil(input.Description),
		Cadence:      cadence,
		ReminderTime: blankToNil(input.ReminderTime),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Habits().Create(ctx, habit); err != nil {
		return nil, domain.NewInternalError(err)
	}
	return habit, nil
}

// Get retrieves a habit owned by userID.
func (s *HabitService) Get(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.store.Habits().GetForOwner(ctx, id, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.NewHabitNotFoundError(id)
		}
		return nil, domain.NewInternalError(err)
	}
	return habit, nil
}

// List retrieves userID's habits with pagination.
func (s *HabitService) List(ctx context.Context, userID string, page, perPage int) ([]*domain.Habit, int, error) {
	habits, total, err := s.store.Habits().ListForOwner(ctx, userID, storage.ListOptions{Page: page, PerPage: perPage})
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return habits, total, nil
}

// UpdateHabitInput contains the input for updating a habit. Nil fields are
// left unchanged; an empty description or reminder time clears it.
type UpdateHabitInput struct {
	Name         *string
	Description  *string
	Cadence      *domain.Cadence
	ReminderTime *string
}

// Update changes a habit's descriptive fields. The habit row is locked so
// the update cannot overwrite a concurrent completion's streak.
func (s *HabitService) Update(ctx context.Context, id, userID string, input UpdateHabitInput) (*domain.Habit, error) {
	var details []string
	if input.Name != nil {
		trimmed := strings.TrimSpace(*input.Name)
		input.Name = &trimmed
		details = append(details, validateName(trimmed)...)
	}
	if input.Cadence != nil {
		details = append(details, validateCadence(*input.Cadence)...)
	}
	details = append(details, validateReminder(input.ReminderTime)...)
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	var updated *domain.Habit
	err := s.store.WithTx(ctx, func(tx storage.TxStore) error {
		habit, err := tx.Habits().LockForOwner(ctx, id, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domain.NewHabitNotFoundError(id)
			}
			return err
		}

		if input.Name != nil {
			habit.Name = *input.Name
		}
		if input.Description != nil {
			habit.Description = blankToNil(input.Description)
		}
		if input.Cadence != nil {
			habit.Cadence = *input.Cadence
		}
		if input.ReminderTime != nil {
			habit.ReminderTime = blankToNil(input.ReminderTime)
		}
		habit.UpdatedAt = s.clock()

		if err := tx.Habits().Update(ctx, habit); err != nil {
			return err
		}
		updated = habit
		return nil
	})
	if err != nil {
		return nil, asDomainError(err)
	}
	return updated, nil
}

// Delete removes a habit and its completions.
func (s *HabitService) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.Habits().Delete(ctx, id, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return domain.NewHabitNotFoundError(id)
		}
		return domain.NewInternalError(err)
	}
	return nil
}

// ListCompletions retrieves a habit's completions, newest first.
func (s *HabitService) ListCompletions(ctx context.Context, id, userID string, page, perPage int) ([]*domain.Completion, int, error) {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, 0, err
	}
	completions, total, err := s.store.Completions().ListForHabit(ctx, id, storage.ListOptions{Page: page, PerPage: perPage})
	if err != nil {
		return nil, 0, domain.NewInternalError(err)
	}
	return completions, total, nil
}

func validateName(name string) []string {
	if name == "" {
		return []string{"name is required"}
	}
	if utf8.RuneCountInString(name) > domain.MaxHabitNameLength {
		return []string{fmt.Sprintf("name must be at most %d characters", domain.MaxHabitNameLength)}
	}
	return nil
}

func validateCadence(c domain.Cadence) []string {
	if !c.IsValid() {
		return []string{fmt.Sprintf("cadence %q is not supported", c)}
	}
	return nil
}

func validateReminder(r *string) []string {
	if r == nil || *r == "" {
		return nil
	}
	if !domain.ValidReminderTime(*r) {
		return []string{"reminder_time must be HH:MM (24-hour)"}
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
