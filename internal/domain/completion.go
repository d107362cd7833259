package domain

import "time"

// MaxReflectionLength is the maximum length of a reflection text in characters.
const MaxReflectionLength = 2000

// Completion is an append-only record of one successful habit completion.
type Completion struct {
	ID          string    `json:"id" db:"id"`
	HabitID     string    `json:"habit_id" db:"habit_id"`
	UserID      string    `json:"user_id" db:"user_id"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
	Reflection  *string   `json:"reflection,omitempty" db:"reflection"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Stats is the read-side summary of a user's habits.
type Stats struct {
	TotalHabits             int64 `json:"total_habits" db:"total_habits"`
	HabitsWithActiveStreak  int64 `json:"habits_with_active_streak" db:"habits_with_active_streak"`
	LongestStreakEver       int64 `json:"longest_streak_ever" db:"longest_streak_ever"`
	TotalCompletionsAllTime int64 `json:"total_completions_all_time" db:"total_completions_all_time"`
}
