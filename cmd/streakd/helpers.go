package main

import (
	"errors"
	"os"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/pkg/streakd"
)

var errNoUser = errors.New("no user configured: pass --user, set STREAKD_USER or client.user")

// getClient creates a client from the resolved config
func getClient(needUser bool) (*streakd.Client, error) {
	if needUser && cfg.Client.User == "" {
		return nil, errNoUser
	}
	return streakd.NewClient(
		streakd.WithHost(cfg.Client.Host),
		streakd.WithPort(cfg.Client.Port),
		streakd.WithUserID(cfg.Client.User),
	)
}

// mapErrorToExitCode maps an error to the appropriate exit code
func mapErrorToExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if streakd.IsServerNotRunning(err) {
		return ExitServerNotRunning
	}

	switch {
	case streakd.IsHabitNotFound(err), streakd.IsUserNotFound(err):
		return ExitNotFound
	case streakd.IsAlreadyCompleted(err), streakd.IsUserExists(err):
		return ExitConflict
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeHabitNotFound, domain.ErrCodeUserNotFound:
			return ExitNotFound
		case domain.ErrCodeAlreadyCompleted, domain.ErrCodeUserExists:
			return ExitConflict
		}
	}

	return ExitGeneralError
}

// handleError prints the error and returns the exit code for it
func handleError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	printError(os.Stderr, err, jsonOutput)
	return mapErrorToExitCode(err)
}
