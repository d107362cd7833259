package domain

import "time"

// DefaultAvatarState is assigned to newly registered users.
const DefaultAvatarState = "default"

// User owns habits and accumulates progression.
// XP is a lifetime counter and never decreases; Level starts at 1.
type User struct {
	ID          string    `json:"id" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	XP          int64     `json:"xp" db:"xp"`
	Level       int64     `json:"level" db:"level"`
	AvatarState string    `json:"avatar_state" db:"avatar_state"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProgressView is the public projection of a user returned by the completion
// engine. It carries only numeric progression fields and display data.
type ProgressView struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	XP          int64  `json:"xp"`
	Level       int64  `json:"level"`
	AvatarState string `json:"avatar_state"`
}

// Progress returns the user's public progression view.
func (u *User) Progress() ProgressView {
	return ProgressView{
		ID:          u.ID,
		Username:    u.Username,
		XP:          u.XP,
		Level:       u.Level,
		AvatarState: u.AvatarState,
	}
}
