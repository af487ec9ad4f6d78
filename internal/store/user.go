package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It validates the user and hashes user.Password when HashedPassword is empty.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their (case-insensitive) email address.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user carries HashedPassword for credential checks.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists the user's name, email and UpdatedAt.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email belongs to another account.
	Update(ctx context.Context, user *domain.User) error
}
