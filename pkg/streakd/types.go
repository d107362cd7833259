package streakd

import "time"

// Cadence is how often a habit is expected to be completed.
type Cadence string

// CadenceDaily is one period per calendar day in the server's timezone.
const CadenceDaily Cadence = "daily"

// Habit is a recurring activity owned by one user.
type Habit struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Name            string     `json:"name"`
	Description     *string    `json:"description,omitempty"`
	Cadence         Cadence    `json:"cadence"`
	ReminderTime    *string    `json:"reminder_time,omitempty"`
	CurrentStreak   int64      `json:"current_streak"`
	LongestStreak   int64      `json:"longest_streak"`
	LastCompletedAt *time.Time `json:"last_completed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HabitList is one page of habits.
type HabitList struct {
	Habits     []*Habit `json:"data"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// User is a registered account as returned by RegisterUser.
type User struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	XP          int64     `json:"xp"`
	Level       int64     `json:"level"`
	AvatarState string    `json:"avatar_state"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Progress is a user's public progression view.
type Progress struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	XP          int64  `json:"xp"`
	Level       int64  `json:"level"`
	AvatarState string `json:"avatar_state"`
}

// Completion records one accepted completion of a habit.
type Completion struct {
	ID          string    `json:"id"`
	HabitID     string    `json:"habit_id"`
	UserID      string    `json:"user_id"`
	CompletedAt time.Time `json:"completed_at"`
	Reflection  *string   `json:"reflection,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CompletionList is one page of completions, newest first.
type CompletionList struct {
	Completions []*Completion `json:"data"`
	Page        int           `json:"page"`
	PerPage     int           `json:"per_page"`
	Total       int           `json:"total"`
	TotalPages  int           `json:"total_pages"`
}

// CompletionResult is the outcome of CompleteHabit.
type CompletionResult struct {
	Habit        *Habit      `json:"habit"`
	User         Progress    `json:"user"`
	LeveledUp    bool        `json:"leveled_up"`
	LevelsGained int64       `json:"levels_gained"`
	XPGained     int64       `json:"xp_gained"`
	Completion   *Completion `json:"completion"`
}

// Stats aggregates a user's habits.
type Stats struct {
	TotalHabits             int64 `json:"total_habits"`
	HabitsWithActiveStreak  int64 `json:"habits_with_active_streak"`
	LongestStreakEver       int64 `json:"longest_streak_ever"`
	TotalCompletionsAllTime int64 `json:"total_completions_all_time"`
}

type registerUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type createHabitRequest struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description,omitempty"`
	Cadence      *Cadence `json:"cadence,omitempty"`
	ReminderTime *string  `json:"reminder_time,omitempty"`
}

type completeHabitRequest struct {
	Reflection *string `json:"reflection,omitempty"`
}

// paginatedResponse is the wire shape of list endpoints.
type paginatedResponse[T any] struct {
	Data       []*T `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		PerPage    int `json:"per_page"`
		Total      int `json:"total"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}
