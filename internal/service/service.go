// Package service holds streakd's business operations. Services translate
// storage errors into domain errors; handlers never see storage sentinels.
package service

import (
	"errors"
	"time"

	"github.com/streakd/streakd/internal/domain"
)

// Clock returns the current time.
type Clock func() time.Time

func systemClock() time.Time {
	return time.Now().UTC()
}

// asDomainError passes domain errors through and wraps anything else as internal.
func asDomainError(err error) error {
	if err == nil {
		return nil
	}
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return domain.NewInternalError(err)
}
