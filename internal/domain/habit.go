package domain

import (
	"regexp"
	"time"
)

// Cadence is the recurrence pattern that defines what counts as one period.
type Cadence string

const (
	// CadenceDaily is one period per calendar day in the reference timezone.
	CadenceDaily Cadence = "daily"
)

// ValidCadences contains all supported cadence values.
var ValidCadences = []Cadence{CadenceDaily}

// IsValid checks if the cadence is supported.
func (c Cadence) IsValid() bool {
	for _, v := range ValidCadences {
		if c == v {
			return true
		}
	}
	return false
}

// Habit is a recurring personal habit owned by a single user.
type Habit struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	Name            string     `json:"name" db:"name"`
	Description     *string    `json:"description,omitempty" db:"description"`
	Cadence         Cadence    `json:"cadence" db:"cadence"`
	ReminderTime    *string    `json:"reminder_time,omitempty" db:"reminder_time"`
	CurrentStreak   int64      `json:"current_streak" db:"current_streak"`
	LongestStreak   int64      `json:"longest_streak" db:"longest_streak"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty" db:"last_completed_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Streak returns the habit's streak counters.
func (h *Habit) Streak() StreakState {
	return StreakState{
		Current:         h.CurrentStreak,
		Longest:         h.LongestStreak,
		LastCompletedAt: h.LastCompletedAt,
	}
}

// ApplyStreak copies a computed streak state onto the habit.
func (h *Habit) ApplyStreak(s StreakState) {
	h.CurrentStreak = s.Current
	h.LongestStreak = s.Longest
	h.LastCompletedAt = s.LastCompletedAt
}

var reminderTimePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidReminderTime checks that s is a 24-hour HH:MM time.
func ValidReminderTime(s string) bool {
	return reminderTimePattern.MatchString(s)
}

// MaxHabitNameLength is the maximum length of a habit name.
const MaxHabitNameLength = 200
