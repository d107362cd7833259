package service

import (
	"context"
	"errors"
	"net/mail"
	"regexp"
	"strings"

	"github.com/streakd/streakd/internal/domain"
	"github.com/streakd/streakd/internal/logger"
	"github.com/streakd/streakd/internal/storage"
	"github.com/streakd/streakd/pkg/idgen"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

// UserService handles user registration, lookup and deletion.
type UserService struct {
	store           storage.Store
	clock           Clock
	archiveOnDelete bool
}

// NewUserService creates a new UserService. When archiveOnDelete is set,
// a deleted user's completions are copied to the archive first.
func NewUserService(store storage.Store, archiveOnDelete bool) *UserService {
	return &UserService{store: store, clock: systemClock, archiveOnDelete: archiveOnDelete}
}

// RegisterUserInput contains the input for registering a user.
type RegisterUserInput struct {
	Username string
	Email    string
}

// Register creates a user at level 1 with no XP.
func (s *UserService) Register(ctx context.Context, input RegisterUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	var details []string
	if !usernamePattern.MatchString(username) {
		details = append(details, "username must be 3-32 letters, digits, '.', '_' or '-'")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details = append(details, "email must be a valid address")
	}
	if len(details) > 0 {
		return nil, domain.NewValidationError(details)
	}

	id, err := idgen.Generate(idgen.PrefixUser)
	if err != nil {
		return nil, domain.NewInternalError(err)
	}

	now := s.clock()
	user := &domain.User{
		ID:          id,
		Username:    username,
		Email:       email,
		XP:          0,
		Level:       1,
		AvatarState: domain.DefaultAvatarState,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, storage.ErrConflict) {
			return nil, domain.NewUserExistsError(username)
		}
		return nil, domain.NewInternalError(err)
	}

	logger.Info("user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Get retrieves a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.store.Users().Get(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.NewUserNotFoundError(id)
		}
		return nil, domain.NewInternalError(err)
	}
	return user, nil
}

// Delete removes a user with their habits and completions. The user's habits
// are locked before the user row, matching the completion lock order.
func (s *UserService) Delete(ctx context.Context, id string) error {
	var archived int64
	err := s.store.WithTx(ctx, func(tx storage.TxStore) error {
		if _, err := tx.Habits().LockAllForOwner(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Users().Lock(ctx, id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return domain.NewUserNotFoundError(id)
			}
			return err
		}

		if s.archiveOnDelete {
			n, err := tx.Completions().ArchiveForUser(ctx, id)
			if err != nil {
				return err
			}
			archived = n
		}

		return tx.Users().Delete(ctx, id)
	})
	if err != nil {
		return asDomainError(err)
	}

	logger.Info("user deleted", "user_id", id, "archived_completions", archived)
	return nil
}
