package request

import (
	"strings"

	"github.com/streakd/streakd/internal/domain"
)

// CreateHabitRequest represents a request to create a habit.
type CreateHabitRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	Cadence      string  `json:"cadence,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// Validate validates the create habit request.
func (r *CreateHabitRequest) Validate() []string {
	var errors []string

	if strings.TrimSpace(r.Name) == "" {
		errors = append(errors, "name is required")
	}
	if r.Cadence != "" && !domain.Cadence(r.Cadence).IsValid() {
		errors = append(errors, "cadence must be one of: daily")
	}
	if r.ReminderTime != nil && *r.ReminderTime != "" && !domain.ValidReminderTime(*r.ReminderTime) {
		errors = append(errors, "reminder_time must be HH:MM (24-hour)")
	}

	return errors
}

// UpdateHabitRequest represents a request to update a habit.
type UpdateHabitRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	Cadence      *string `json:"cadence,omitempty"`
	ReminderTime *string `json:"reminder_time,omitempty"`
}

// Validate validates the update habit request.
func (r *UpdateHabitRequest) Validate() []string {
	var errors []string

	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		errors = append(errors, "name cannot be empty")
	}
	if r.Cadence != nil && !domain.Cadence(*r.Cadence).IsValid() {
		errors = append(errors, "cadence must be one of: daily")
	}
	if r.ReminderTime != nil && *r.ReminderTime != "" && !domain.ValidReminderTime(*r.ReminderTime) {
		errors = append(errors, "reminder_time must be HH:MM (24-hour)")
	}
	if r.Name == nil && r.Description == nil && r.Cadence == nil && r.ReminderTime == nil {
		errors = append(errors, "at least one field must be provided")
	}

	return errors
}

// CompleteHabitRequest is the optional body of a completion.
type CompleteHabitRequest struct {
	Reflection *string `json:"reflection,omitempty"`
}
