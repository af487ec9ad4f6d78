package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/service/auth"
	"github.com/phrazzld/tasks-api/internal/store"
)

// UserService provides account operations.
type UserService interface {
	// RegisterUser validates and stores a new account.
	// Returns store.ErrEmailExists when the address is taken.
	RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error)

	// Authenticate returns the user whose credentials match, or ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	// GetUser retrieves a user by their ID
	GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error)

	// UpdateProfile changes the name and/or email of the user.
	// Returns store.ErrEmailExists when the new address is taken.
	UpdateProfile(ctx context.Context, userID uuid.UUID, patch domain.ProfilePatch) (*domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore        store.UserStore
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
	now              func() time.Time
}

var _ UserService = (*UserServiceImpl)(nil)

// NewUserService creates a new UserService
func NewUserService(
	userStore store.UserStore,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:        userStore,
		passwordVerifier: passwordVerifier,
		logger:           logger.With(slog.String("component", "user_service")),
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// RegisterUser implements UserService.RegisterUser
func (s *UserServiceImpl) RegisterUser(ctx context.Context, name, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration rejected: email already exists")
		} else {
			log.Error("failed to create user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := domain.ValidateCredentials(email, password); err != nil {
		return nil, err
	}

	user, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to look up user by email", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to authenticate user: %w", err)
	}

	if err := s.passwordVerifier.Compare(user.HashedPassword, password); err != nil {
		log.Debug("login failed: password mismatch", slog.String("user_id", user.ID.String()))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetUser implements UserService.GetUser
func (s *UserServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.userStore.GetByID(ctx, userID)
	if err != nil {
		log := logger.FromContextOrDefault(ctx, s.logger)
		if store.IsNotFoundError(err) {
			log.Debug("user not found", slog.String("user_id", userID.String()))
		} else {
			log.Error("failed to retrieve user",
				slog.String("error", err.Error()),
				slog.String("user_id", userID.String()))
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile implements UserService.UpdateProfile
func (s *UserServiceImpl) UpdateProfile(
	ctx context.Context,
	userID uuid.UUID,
	patch domain.ProfilePatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	patch.Normalize()
	if err := patch.Validate(); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if now.Before(user.CreatedAt) {
		now = user.CreatedAt
	}
	patch.Apply(user, now)

	if err := s.userStore.Update(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("profile update rejected: email already exists")
		} else if !store.IsNotFoundError(err) {
			log.Error("failed to update profile", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	log.Info("profile updated", slog.String("user_id", user.ID.String()))
	return user, nil
}
