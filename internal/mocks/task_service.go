package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/service"
	"github.com/stretchr/testify/mock"
)

// TaskService is a testify mock of service.TaskService.
type TaskService struct {
	mock.Mock
}

var _ service.TaskService = (*TaskService)(nil)

func (m *TaskService) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	query domain.TaskQuery,
) (*domain.TaskPage, error) {
	args := m.Called(ctx, ownerID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskPage), args.Error(1)
}

func (m *TaskService) ComputeStats(ctx context.Context, ownerID uuid.UUID) (*domain.TaskStats, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskStats), args.Error(1)
}

func (m *TaskService) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input domain.NewTaskInput,
) (*domain.Task, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskService) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskService) UpdateTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	args := m.Called(ctx, id, ownerID, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *TaskService) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}
