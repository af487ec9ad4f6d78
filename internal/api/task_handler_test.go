package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/mocks"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

// envelope mirrors the success response with a typed data field.
type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// newTaskRouter mounts the task routes the way the server does, with a
// stand-in for the auth middleware.
func newTaskRouter(svc *mocks.TaskService, userID uuid.UUID) http.Handler {
	h := NewTaskHandler(svc, nil)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != uuid.Nil {
				req = req.WithContext(shared.WithUserID(req.Context(), userID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/tasks", h.ListTasks)
	r.Post("/api/tasks", h.CreateTask)
	r.Get("/api/tasks/stats", h.GetStats)
	r.Get("/api/tasks/{id}", h.GetTask)
	r.Put("/api/tasks/{id}", h.UpdateTask)
	r.Delete("/api/tasks/{id}", h.DeleteTask)
	return r
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.False(t, body.Success)
	return body
}

func TestTaskHandler_ListTasks(t *testing.T) {
	userID := uuid.New()
	svc := new(mocks.TaskService)
	router := newTaskRouter(svc, userID)

	page := &domain.TaskPage{
		Tasks:      []domain.Task{{ID: uuid.New(), Title: "Ship it", OwnerID: userID}},
		Pagination: domain.NewPagination(2, 5, 6),
	}
	svc.On("ListTasks", mock.Anything, userID, mock.MatchedBy(func(q domain.TaskQuery) bool {
		return q.Page == 2 && q.Limit == 5 &&
			q.Filter.Status != nil && *q.Filter.Status == domain.TaskStatusPending &&
			q.Filter.Priority == nil &&
			q.Filter.Search == "ship" &&
			q.SortBy == domain.SortByTitle && q.SortOrder == domain.SortAsc
	})).Return(page, nil)

	rr := do(t, router, http.MethodGet,
		"/api/tasks?page=2&limit=5&status=pending&priority=all&search=ship&sortBy=title&sortOrder=ASC", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var body envelope[domain.TaskPage]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Tasks, 1)
	assert.Equal(t, "Ship it", body.Data.Tasks[0].Title)
	assert.Equal(t, domain.Pagination{CurrentPage: 2, TotalPages: 2, TotalTasks: 6, HasPrevPage: true}, body.Data.Pagination)
	svc.AssertExpectations(t)
}

func TestTaskHandler_ListTasksEmptyIsArray(t *testing.T) {
	userID := uuid.New()
	svc := new(mocks.TaskService)
	svc.On("ListTasks", mock.Anything, userID, mock.Anything).Return(&domain.TaskPage{
		Tasks:      []domain.Task{},
		Pagination: domain.NewPagination(1, 10, 0),
	}, nil)

	rr := do(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"tasks":[]`)
}

func TestTaskHandler_Unauthenticated(t *testing.T) {
	svc := new(mocks.TaskService)
	rr := do(t, newTaskRouter(svc, uuid.Nil), http.MethodGet, "/api/tasks", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "ListTasks", mock.Anything, mock.Anything, mock.Anything)
}

func TestTaskHandler_GetStats(t *testing.T) {
	userID := uuid.New()
	svc := new(mocks.TaskService)
	svc.On("ComputeStats", mock.Anything, userID).Return(&domain.TaskStats{Total: 3, Pending: 1, InProgress: 1, Completed: 1}, nil)

	rr := do(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/stats", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t,
		`{"success":true,"data":{"stats":{"total":3,"pending":1,"in-progress":1,"completed":1}}}`,
		rr.Body.String())
}

func TestTaskHandler_CreateTask(t *testing.T) {
	userID := uuid.New()

	t.Run("created", func(t *testing.T) {
		svc := new(mocks.TaskService)
		created := &domain.Task{ID: uuid.New(), Title: "Write tests", OwnerID: userID}
		svc.On("CreateTask", mock.Anything, userID, mock.MatchedBy(func(in domain.NewTaskInput) bool {
			return in.Title == "Write tests" &&
				in.DueDate != nil && in.DueDate.Equal(time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC))
		})).Return(created, nil)

		rr := do(t, newTaskRouter(svc, userID), http.MethodPost, "/api/tasks",
			`{"title":"Write tests","dueDate":"2030-01-15"}`)

		require.Equal(t, http.StatusCreated, rr.Code)
		var body envelope[TaskData]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Task created successfully", body.Message)
		assert.Equal(t, created.ID, body.Data.Task.ID)
	})

	t.Run("validation errors are collected", func(t *testing.T) {
		svc := new(mocks.TaskService)
		rr := do(t, newTaskRouter(svc, userID), http.MethodPost, "/api/tasks",
			`{"title":"   ","status":"done","dueDate":"31/12/2030"}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeError(t, rr)
		assert.Equal(t, "Validation failed", body.Message)
		assert.Equal(t, []domain.FieldError{
			{Field: "title", Message: "Task title is required"},
			{Field: "status", Message: "Invalid status value"},
			{Field: "dueDate", Message: "Invalid date format"},
		}, body.Errors)
		svc.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(mocks.TaskService)
		rr := do(t, newTaskRouter(svc, userID), http.MethodPost, "/api/tasks", `{"title":`)
		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Invalid request format", decodeError(t, rr).Message)
	})
}

func TestTaskHandler_GetTask(t *testing.T) {
	userID, taskID := uuid.New(), uuid.New()

	t.Run("found", func(t *testing.T) {
		svc := new(mocks.TaskService)
		svc.On("GetTask", mock.Anything, taskID, userID).Return(&domain.Task{ID: taskID, Title: "Mine"}, nil)

		rr := do(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/"+taskID.String(), "")
		require.Equal(t, http.StatusOK, rr.Code)
		var body envelope[TaskData]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Mine", body.Data.Task.Title)
	})

	t.Run("foreign or missing task is 404", func(t *testing.T) {
		svc := new(mocks.TaskService)
		svc.On("GetTask", mock.Anything, taskID, userID).Return(nil, store.ErrTaskNotFound)

		rr := do(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/"+taskID.String(), "")
		require.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Task not found", decodeError(t, rr).Message)
	})

	t.Run("malformed id is 400", func(t *testing.T) {
		svc := new(mocks.TaskService)
		rr := do(t, newTaskRouter(svc, userID), http.MethodGet, "/api/tasks/not-a-uuid", "")

		require.Equal(t, http.StatusBadRequest, rr.Code)
		body := decodeError(t, rr)
		assert.Equal(t, []domain.FieldError{{Field: "id", Message: "Invalid task ID"}}, body.Errors)
		svc.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTaskHandler_UpdateTask(t *testing.T) {
	userID, taskID := uuid.New(), uuid.New()

	t.Run("partial update clears due date", func(t *testing.T) {
		svc := new(mocks.TaskService)
		updated := &domain.Task{ID: taskID, Title: "Same", Status: domain.TaskStatusCompleted}
		svc.On("UpdateTask", mock.Anything, taskID, userID, mock.MatchedBy(func(p domain.TaskPatch) bool {
			return p.Title == nil && p.Status != nil && *p.Status == domain.TaskStatusCompleted &&
				p.DueDateSet && p.DueDate == nil
		})).Return(updated, nil)

		rr := do(t, newTaskRouter(svc, userID), http.MethodPut, "/api/tasks/"+taskID.String(),
			`{"status":"completed","dueDate":null}`)

		require.Equal(t, http.StatusOK, rr.Code)
		var body envelope[TaskData]
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "Task updated successfully", body.Message)
		assert.Equal(t, domain.TaskStatusCompleted, body.Data.Task.Status)
	})

	t.Run("explicit empty title", func(t *testing.T) {
		svc := new(mocks.TaskService)
		rr := do(t, newTaskRouter(svc, userID), http.MethodPut, "/api/tasks/"+taskID.String(), `{"title":""}`)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, []domain.FieldError{{Field: "title", Message: "Title must be between 1 and 200 characters"}},
			decodeError(t, rr).Errors)
	})

	t.Run("store failure is 500", func(t *testing.T) {
		svc := new(mocks.TaskService)
		svc.On("UpdateTask", mock.Anything, taskID, userID, mock.Anything).Return(nil, errors.New("deadlock detected"))

		rr := do(t, newTaskRouter(svc, userID), http.MethodPut, "/api/tasks/"+taskID.String(), `{"priority":"low"}`)
		require.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Equal(t, "Failed to update task", decodeError(t, rr).Message)
		assert.NotContains(t, rr.Body.String(), "deadlock")
	})
}

func TestTaskHandler_DeleteTask(t *testing.T) {
	userID, taskID := uuid.New(), uuid.New()
	svc := new(mocks.TaskService)
	svc.On("DeleteTask", mock.Anything, taskID, userID).Return(nil).Once()
	svc.On("DeleteTask", mock.Anything, taskID, userID).Return(store.ErrTaskNotFound)
	router := newTaskRouter(svc, userID)

	rr := do(t, router, http.MethodDelete, "/api/tasks/"+taskID.String(), "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true,"message":"Task deleted successfully"}`, rr.Body.String())

	rr = do(t, router, http.MethodDelete, "/api/tasks/"+taskID.String(), "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
