package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a domain error code.
type ErrorCode string

const (
	ErrCodeHabitNotFound    ErrorCode = "HABIT_NOT_FOUND"
	ErrCodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserExists       ErrorCode = "USER_EXISTS"
	ErrCodeAlreadyCompleted ErrorCode = "ALREADY_COMPLETED"
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthenticated  ErrorCode = "UNAUTHENTICATED"
	ErrCodeInternalError    ErrorCode = "INTERNAL_ERROR"
)

// DomainError represents an error in the domain layer with context.
// Err carries the underlying cause for logging; it is never sent to clients.
type DomainError struct {
	Code    ErrorCode
	Message string
	Context map[string]interface{}
	Err     error
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// HasCode reports whether err is a DomainError with the given code.
func HasCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// NewHabitNotFoundError creates a habit not found error. It is also returned
// when the habit exists but belongs to another user.
func NewHabitNotFoundError(habitID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeHabitNotFound,
		Message: fmt.Sprintf("Habit %s not found", habitID),
		Context: map[string]interface{}{"id": habitID},
	}
}

// NewUserNotFoundError creates a user not found error.
func NewUserNotFoundError(userID string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUserNotFound,
		Message: fmt.Sprintf("User %s not found", userID),
		Context: map[string]interface{}{"id": userID},
	}
}

// NewUserExistsError creates an error for a username or email already taken.
func NewUserExistsError(username string) *DomainError {
	return &DomainError{
		Code:    ErrCodeUserExists,
		Message: "A user with this username or email already exists",
		Context: map[string]interface{}{"username": username},
	}
}

// NewAlreadyCompletedError creates an error for a second completion in the same period.
func NewAlreadyCompletedError(habitID string, cadence Cadence, lastCompletedAt string) *DomainError {
	return &DomainError{
		Code:    ErrCodeAlreadyCompleted,
		Message: "Habit already completed for the current period",
		Context: map[string]interface{}{
			"id":                habitID,
			"cadence":           string(cadence),
			"last_completed_at": lastCompletedAt,
		},
	}
}

// NewValidationError creates a validation error.
func NewValidationError(details []string) *DomainError {
	return &DomainError{
		Code:    ErrCodeValidationFailed,
		Message: "Validation failed",
		Context: map[string]interface{}{"details": details},
	}
}

// NewUnauthenticatedError creates an error for requests without a user identity.
func NewUnauthenticatedError() *DomainError {
	return &DomainError{
		Code:    ErrCodeUnauthenticated,
		Message: "Missing user identity",
		Context: map[string]interface{}{},
	}
}

// NewInternalError creates an internal error.
func NewInternalError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInternalError,
		Message: "An internal error occurred",
		Context: map[string]interface{}{},
		Err:     err,
	}
}
