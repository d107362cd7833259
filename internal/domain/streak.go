package domain

import (
	"errors"
	"time"
)

// ErrDuplicateCompletion is returned when a Duplicate classification reaches
// the streak updater. Callers must reject duplicates before updating streaks.
var ErrDuplicateCompletion = errors.New("duplicate completion cannot update a streak")

// StreakState holds a habit's streak counters.
type StreakState struct {
	Current         int64
	Longest         int64
	LastCompletedAt *time.Time
}

// NextStreak computes the streak state after a completion at now.
// Longest never decreases and is always at least Current.
func NextStreak(s StreakState, c Classification, now time.Time) (StreakState, error) {
	next := StreakState{Longest: s.Longest}

	switch c {
	case FirstEver, Reset:
		next.Current = 1
	case Continuation:
		next.Current = s.Current + 1
	case Duplicate:
		return s, ErrDuplicateCompletion
	default:
		return s, errors.New("unknown classification: " + c.String())
	}

	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	completedAt := now
	next.LastCompletedAt = &completedAt
	return next, nil
}
