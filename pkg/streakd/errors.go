package streakd

import (
	"errors"
	"fmt"
)

// Sentinel errors for connection-related issues.
var (
	// ErrServerNotRunning indicates the server is not reachable.
	ErrServerNotRunning = errors.New("server is not running or unreachable")
	// ErrServerUnhealthy indicates the health check failed.
	ErrServerUnhealthy = errors.New("server health check failed")
)

// ErrorCode represents a domain error code from the API.
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

// Error represents an error response from the streakd API.
type Error struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Context    map[string]interface{}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Details returns the validation messages of a VALIDATION_FAILED error.
func (e *Error) Details() []string {
	return extractStringSlice(e.Context, "details")
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// IsHabitNotFound returns true if the habit does not exist or belongs to another user.
func IsHabitNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeHabitNotFound)
}

// IsUserNotFound returns true if the user does not exist.
func IsUserNotFound(err error) bool {
	return hasErrorCode(err, ErrCodeUserNotFound)
}

// IsUserExists returns true if the username or email is already taken.
func IsUserExists(err error) bool {
	return hasErrorCode(err, ErrCodeUserExists)
}

// IsAlreadyCompleted returns true if the habit was already completed this period.
func IsAlreadyCompleted(err error) bool {
	return hasErrorCode(err, ErrCodeAlreadyCompleted)
}

// IsValidationFailed returns true if the request was rejected by validation.
func IsValidationFailed(err error) bool {
	return hasErrorCode(err, ErrCodeValidationFailed)
}

// IsUnauthenticated returns true if the request carried no user identity.
func IsUnauthenticated(err error) bool {
	return hasErrorCode(err, ErrCodeUnauthenticated)
}

// IsServerNotRunning returns true if the error indicates the server is not running.
func IsServerNotRunning(err error) bool {
	return errors.Is(err, ErrServerNotRunning)
}

// IsServerUnhealthy returns true if the error indicates the server is unhealthy.
func IsServerUnhealthy(err error) bool {
	return errors.Is(err, ErrServerUnhealthy)
}

func hasErrorCode(err error, code ErrorCode) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
