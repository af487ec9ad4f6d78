package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every method is
// scoped by owner: a task belonging to someone else behaves exactly like a
// missing one.
type TaskStore interface {
	// Create saves a new task. Returns ErrInvalidEntity if the task fails validation.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves the owner's task. Returns ErrTaskNotFound otherwise.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// Update applies patch to the owner's task in one atomic statement, refreshes
	// updated_at, and returns the stored row. Returns ErrTaskNotFound when no row matched.
	Update(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// Delete removes the owner's task. Returns ErrTaskNotFound when no row matched.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// List returns one page of the owner's tasks matching query, which must
	// already be normalized. Returns an empty, non-nil slice when nothing matches.
	List(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) ([]domain.Task, error)

	// Count returns how many of the owner's tasks match filter.
	Count(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) (int, error)

	// CountByStatus groups the owner's tasks by status.
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error)
}
