package sqlite

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/store"
	"gorm.io/gorm"
)

const priorityRank = `CASE priority WHEN 'low' THEN 1 WHEN 'medium' THEN 2 WHEN 'high' THEN 3 ELSE 0 END`

var sortColumns = map[domain.SortField]string{
	domain.SortByCreatedAt: "created_at",
	domain.SortByUpdatedAt: "updated_at",
	domain.SortByTitle:     "title",
	domain.SortByPriority:  priorityRank,
	domain.SortByDueDate:   "due_date",
}

// TaskStore implements store.TaskStore on SQLite through gorm.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
	now    func() time.Time
}

// NewTaskStore creates a TaskStore. If logger is nil, a default logger will be used.
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	row := newTaskRow(task)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return mapError(err)
	}

	log.Info("task created successfully", slog.String("task_id", task.ID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	row, err := s.find(s.db.WithContext(ctx), id, ownerID)
	if err != nil {
		return nil, err
	}
	task, err := row.toDomain()
	if err != nil {
		return nil, store.NewStoreError("task", "get", "corrupt task row", err)
	}
	return &task, nil
}

func (s *TaskStore) find(db *gorm.DB, id, ownerID uuid.UUID) (*taskRow, error) {
	var row taskRow
	err := db.Where("id = ? AND owner_id = ?", id.String(), ownerID.String()).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		return nil, store.NewStoreError("task", "get", "failed to get task", mapError(err))
	}
	return &row, nil
}

// Update implements store.TaskStore.Update. The read and write share one
// transaction, so the change is atomic.
func (s *TaskStore) Update(
	ctx context.Context,
	id, ownerID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	var updated domain.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row, err := s.find(tx, id, ownerID)
		if err != nil {
			return err
		}
		task, err := row.toDomain()
		if err != nil {
			return store.NewStoreError("task", "update", "corrupt task row", err)
		}

		now := s.now()
		if now.Before(task.CreatedAt) {
			now = task.CreatedAt
		}
		patch.Apply(&task, now)

		cols := patch.Columns()
		cols["updated_at"] = task.UpdatedAt
		res := tx.Model(&taskRow{}).
			Where("id = ? AND owner_id = ?", id.String(), ownerID.String()).
			Updates(cols)
		if res.Error != nil {
			return mapError(res.Error)
		}
		if res.RowsAffected == 0 {
			return store.ErrTaskNotFound
		}
		updated = task
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update task",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
		}
		return nil, err
	}

	log.Info("task updated successfully", slog.String("task_id", id.String()))
	return &updated, nil
}

// Delete implements store.TaskStore.Delete
func (s *TaskStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id.String(), ownerID.String()).
		Delete(&taskRow{})
	if res.Error != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			slog.String("error", res.Error.Error()),
			slog.String("task_id", id.String()))
		return store.NewStoreError("task", "delete", "failed to delete task", mapError(res.Error))
	}
	if res.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) filtered(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&taskRow{}).Where("owner_id = ?", ownerID.String())
	if filter.Status != nil {
		q = q.Where("status = ?", string(*filter.Status))
	}
	if filter.Priority != nil {
		q = q.Where("priority = ?", string(*filter.Priority))
	}
	if filter.Search != "" {
		// Both sides are folded in Go; SQLite's own lower() and LIKE only
		// fold ASCII.
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		q = q.Where(`(unicode_lower(title) LIKE ? ESCAPE '\' OR unicode_lower(COALESCE(description, '')) LIKE ? ESCAPE '\')`,
			pattern, pattern)
	}
	return q
}

// List implements store.TaskStore.List
func (s *TaskStore) List(ctx context.Context, ownerID uuid.UUID, q domain.TaskQuery) ([]domain.Task, error) {
	col, ok := sortColumns[q.SortBy]
	if !ok {
		col = sortColumns[domain.DefaultSortField]
	}
	dir := "DESC"
	if q.SortOrder == domain.SortAsc {
		dir = "ASC"
	}
	if q.SortBy == domain.SortByDueDate {
		dir += " NULLS LAST"
	}

	var rows []taskRow
	err := s.filtered(ctx, ownerID, q.Filter).
		Order(col + " " + dir).
		Order("id ASC").
		Limit(q.Limit).
		Offset(q.Offset()).
		Find(&rows).Error
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, store.NewStoreError("task", "list", "failed to query tasks", mapError(err))
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		task, err := row.toDomain()
		if err != nil {
			return nil, store.NewStoreError("task", "list", "corrupt task row", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

// Count implements store.TaskStore.Count
func (s *TaskStore) Count(ctx context.Context, ownerID uuid.UUID, filter domain.TaskFilter) (int, error) {
	var total int64
	if err := s.filtered(ctx, ownerID, filter).Count(&total).Error; err != nil {
		return 0, store.NewStoreError("task", "count", "failed to count tasks", mapError(err))
	}
	return int(total), nil
}

// CountByStatus implements store.TaskStore.CountByStatus
func (s *TaskStore) CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.TaskStatus]int, error) {
	var groups []struct {
		Status string
		N      int
	}
	err := s.db.WithContext(ctx).Model(&taskRow{}).
		Select("status, COUNT(*) AS n").
		Where("owner_id = ?", ownerID.String()).
		Group("status").
		Scan(&groups).Error
	if err != nil {
		return nil, store.NewStoreError("task", "stats", "failed to aggregate tasks", mapError(err))
	}

	counts := make(map[domain.TaskStatus]int, len(groups))
	for _, g := range groups {
		counts[domain.TaskStatus(g.Status)] = g.N
	}
	return counts, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
