//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/phrazzld/tasks-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCreateTask(
	ctx context.Context,
	t *testing.T,
	s *postgres.PostgresTaskStore,
	owner uuid.UUID,
	in domain.NewTaskInput,
	created time.Time,
) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(owner, in, created)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, task))
	return task
}

func TestPostgresTaskStore_CRUD(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx, cancel := context.WithTimeout(context.Background(), testdb.TestTimeout)
		defer cancel()

		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := testdb.MustInsertUser(ctx, t, tx, "crud@example.com")
		other := testdb.MustInsertUser(ctx, t, tx, "other@example.com")

		due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
		task := mustCreateTask(ctx, t, s, owner, domain.NewTaskInput{Title: "Write tests", DueDate: &due}, time.Now())

		got, err := s.GetByID(ctx, task.ID, owner)
		require.NoError(t, err)
		assert.Equal(t, task.Title, got.Title)
		assert.Equal(t, domain.TaskStatusPending, got.Status)
		require.NotNil(t, got.DueDate)
		assert.True(t, due.Equal(*got.DueDate))

		_, err = s.GetByID(ctx, task.ID, other)
		assert.ErrorIs(t, err, store.ErrTaskNotFound, "foreign task must look missing")

		title := "Write more tests"
		status := domain.TaskStatusInProgress
		updated, err := s.Update(ctx, task.ID, owner, domain.TaskPatch{Title: &title, Status: &status, DueDateSet: true})
		require.NoError(t, err)
		assert.Equal(t, title, updated.Title)
		assert.Equal(t, status, updated.Status)
		assert.Nil(t, updated.DueDate, "explicit null clears due date")
		assert.False(t, updated.UpdatedAt.Before(updated.CreatedAt))

		_, err = s.Update(ctx, task.ID, other, domain.TaskPatch{Title: &title})
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		assert.ErrorIs(t, s.Delete(ctx, task.ID, other), store.ErrTaskNotFound)
		require.NoError(t, s.Delete(ctx, task.ID, owner))
		assert.ErrorIs(t, s.Delete(ctx, task.ID, owner), store.ErrTaskNotFound, "second delete is not found")
	})
}

func TestPostgresTaskStore_CreateRejectsMissingOwner(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresTaskStore(tx, nil)
		task, err := domain.NewTask(uuid.New(), domain.NewTaskInput{Title: "orphan"}, time.Now())
		require.NoError(t, err)

		err = s.Create(context.Background(), task)
		assert.ErrorIs(t, err, store.ErrInvalidEntity)
	})
}

func TestPostgresTaskStore_ListAndCount(t *testing.T) {
	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		ctx := context.Background()
		s := postgres.NewPostgresTaskStore(tx, nil)
		owner := testdb.MustInsertUser(ctx, t, tx, "list@example.com")
		stranger := testdb.MustInsertUser(ctx, t, tx, "stranger@example.com")

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		high := domain.TaskPriorityHigh
		low := domain.TaskPriorityLow
		done := domain.TaskStatusCompleted
		soon := base.Add(24 * time.Hour)

		for i := 0; i < 12; i++ {
			in := domain.NewTaskInput{Title: fmt.Sprintf("task %02d", i)}
			switch {
			case i%3 == 0:
				in.Priority = &high
			case i%3 == 1:
				in.Priority = &low
			}
			if i < 4 {
				in.Status = &done
			}
			if i == 5 {
				in.Description = ptr("contains 100% literal")
				in.DueDate = &soon
			}
			mustCreateTask(ctx, t, s, owner, in, base.Add(time.Duration(i)*time.Minute))
		}
		mustCreateTask(ctx, t, s, stranger, domain.NewTaskInput{Title: "not mine"}, base)

		t.Run("default page newest first", func(t *testing.T) {
			q := domain.TaskQuery{}.Normalize(5, 100)
			tasks, err := s.List(ctx, owner, q)
			require.NoError(t, err)
			require.Len(t, tasks, 5)
			assert.Equal(t, "task 11", tasks[0].Title)
			assert.Equal(t, "task 07", tasks[4].Title)

			total, err := s.Count(ctx, owner, q.Filter)
			require.NoError(t, err)
			assert.Equal(t, 12, total)
		})

		t.Run("last partial page", func(t *testing.T) {
			q := domain.TaskQuery{Page: 3}.Normalize(5, 100)
			tasks, err := s.List(ctx, owner, q)
			require.NoError(t, err)
			assert.Len(t, tasks, 2)
		})

		t.Run("page beyond end is empty not nil", func(t *testing.T) {
			tasks, err := s.List(ctx, owner, domain.TaskQuery{Page: 10}.Normalize(5, 100))
			require.NoError(t, err)
			assert.NotNil(t, tasks)
			assert.Empty(t, tasks)
		})

		t.Run("status filter", func(t *testing.T) {
			q := domain.TaskQuery{Filter: domain.TaskFilter{Status: &done}}.Normalize(10, 100)
			total, err := s.Count(ctx, owner, q.Filter)
			require.NoError(t, err)
			assert.Equal(t, 4, total)
		})

		t.Run("search escapes wildcards", func(t *testing.T) {
			q := domain.TaskQuery{Filter: domain.TaskFilter{Search: "100%"}}.Normalize(10, 100)
			tasks, err := s.List(ctx, owner, q)
			require.NoError(t, err)
			require.Len(t, tasks, 1)
			assert.Equal(t, "task 05", tasks[0].Title)

			q = domain.TaskQuery{Filter: domain.TaskFilter{Search: "TASK 1"}}.Normalize(10, 100)
			total, err := s.Count(ctx, owner, q.Filter)
			require.NoError(t, err)
			assert.Equal(t, 2, total, "case-insensitive title match")
		})

		t.Run("priority sorts by rank", func(t *testing.T) {
			q := domain.TaskQuery{SortBy: domain.SortByPriority, SortOrder: domain.SortDesc, Limit: 20}.Normalize(10, 100)
			tasks, err := s.List(ctx, owner, q)
			require.NoError(t, err)
			require.Len(t, tasks, 12)
			for i := 1; i < len(tasks); i++ {
				assert.GreaterOrEqual(t, tasks[i-1].Priority.Rank(), tasks[i].Priority.Rank())
				if tasks[i-1].Priority == tasks[i].Priority {
					assert.Less(t, tasks[i-1].ID.String(), tasks[i].ID.String(), "ties break on id")
				}
			}
		})

		t.Run("due date nulls last", func(t *testing.T) {
			for _, order := range []domain.SortOrder{domain.SortAsc, domain.SortDesc} {
				q := domain.TaskQuery{SortBy: domain.SortByDueDate, SortOrder: order, Limit: 20}.Normalize(10, 100)
				tasks, err := s.List(ctx, owner, q)
				require.NoError(t, err)
				require.NotNil(t, tasks[0].DueDate, "order %s", order)
				assert.Nil(t, tasks[len(tasks)-1].DueDate)
			}
		})

		t.Run("count by status", func(t *testing.T) {
			counts, err := s.CountByStatus(ctx, owner)
			require.NoError(t, err)
			assert.Equal(t, map[domain.TaskStatus]int{
				domain.TaskStatusCompleted: 4,
				domain.TaskStatusPending:   8,
			}, counts)

			empty, err := s.CountByStatus(ctx, uuid.New())
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	})
}

func ptr[T any](v T) *T { return &v }
