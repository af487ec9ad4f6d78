package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// TaskService provides the task use cases for one authenticated owner.
type TaskService interface {
	// ListTasks returns one page of the owner's tasks. The query is normalized
	// first, so callers may pass raw values.
	ListTasks(ctx context.Context, ownerID uuid.UUID, query domain.TaskQuery) (*domain.TaskPage, error)

	// ComputeStats counts the owner's tasks per status.
	ComputeStats(ctx context.Context, ownerID uuid.UUID) (*domain.TaskStats, error)

	// CreateTask validates input and stores a new task owned by ownerID.
	CreateTask(ctx context.Context, ownerID uuid.UUID, input domain.NewTaskInput) (*domain.Task, error)

	// GetTask returns the owner's task, or store.ErrTaskNotFound.
	GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// UpdateTask applies a partial update and returns the stored task.
	UpdateTask(ctx context.Context, id, ownerID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// DeleteTask removes the owner's task, or returns store.ErrTaskNotFound.
	DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error
}

// TaskServiceImpl implements the TaskService interface
type TaskServiceImpl struct {
	taskStore    store.TaskStore
	defaultLimit int
	maxLimit     int
	logger       *slog.Logger
	now          func() time.Time
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService. Page limits come from cfg; a
// non-positive default falls back to domain.DefaultPageLimit.
func NewTaskService(taskStore store.TaskStore, cfg config.TasksConfig, logger *slog.Logger) (*TaskServiceImpl, error) {
	if taskStore == nil {
		return nil, domain.NewValidationError("taskStore", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	defaultLimit := cfg.DefaultPageLimit
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultPageLimit
	}
	return &TaskServiceImpl{
		taskStore:    taskStore,
		defaultLimit: defaultLimit,
		maxLimit:     cfg.MaxPageLimit,
		logger:       logger.With(slog.String("component", "task_service")),
		now:          func() time.Time { return time.Now().UTC() },
	}, nil
}

// ListTasks implements TaskService.ListTasks. The page fetch and the total
// count run concurrently and are not snapshot-consistent with each other.
func (s *TaskServiceImpl) ListTasks(
	ctx context.Context,
	ownerID uuid.UUID,
	query domain.TaskQuery,
) (*domain.TaskPage, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	q := query.Normalize(s.defaultLimit, s.maxLimit)

	var (
		tasks []domain.Task
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		tasks, err = s.taskStore.List(gctx, ownerID, q)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.taskStore.Count(gctx, ownerID, q.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}

	log.Debug("listed tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int("page", q.Page),
		slog.Int("returned", len(tasks)),
		slog.Int("total", total))

	return &domain.TaskPage{
		Tasks:      tasks,
		Pagination: domain.NewPagination(q.Page, q.Limit, total),
	}, nil
}

// ComputeStats implements TaskService.ComputeStats
func (s *TaskServiceImpl) ComputeStats(ctx context.Context, ownerID uuid.UUID) (*domain.TaskStats, error) {
	counts, err := s.taskStore.CountByStatus(ctx, ownerID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to compute task stats",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to compute task stats: %w", err)
	}
	stats := domain.NewTaskStats(counts)
	return &stats, nil
}

// CreateTask implements TaskService.CreateTask
func (s *TaskServiceImpl) CreateTask(
	ctx context.Context,
	ownerID uuid.UUID,
	input domain.NewTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(ownerID, input, s.now())
	if err != nil {
		log.Debug("rejected invalid task", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask implements TaskService.GetTask
func (s *TaskServiceImpl) GetTask(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id, ownerID)
	if err != nil {
		s.logLookupFailure(ctx, "failed to get task", id, err)
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.UpdateTask
func (s *TaskServiceImpl) UpdateTask(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	patch.Normalize()
	if err := patch.Validate(); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Debug("rejected invalid task update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	task, err := s.taskStore.Update(ctx, id, ownerID, patch)
	if err != nil {
		s.logLookupFailure(ctx, "failed to update task", id, err)
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// DeleteTask implements TaskService.DeleteTask
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id, ownerID); err != nil {
		s.logLookupFailure(ctx, "failed to delete task", id, err)
		return fmt.Errorf("failed to delete task: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", slog.String("task_id", id.String()))
	return nil
}

// logLookupFailure logs misses at debug level; they are ordinary client errors.
func (s *TaskServiceImpl) logLookupFailure(ctx context.Context, msg string, id uuid.UUID, err error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	attrs := []any{slog.String("error", err.Error()), slog.String("task_id", id.String())}
	if store.IsNotFoundError(err) {
		log.Debug(msg, attrs...)
		return
	}
	log.Error(msg, attrs...)
}
