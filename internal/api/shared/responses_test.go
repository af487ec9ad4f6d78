package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithSuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)

	t.Run("with data and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondWithSuccess(w, req, http.StatusCreated, "Task created successfully", map[string]int{"n": 1})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"success":true,"message":"Task created successfully","data":{"n":1}}`, w.Body.String())
	})

	t.Run("without data", func(t *testing.T) {
		w := httptest.NewRecorder()
		RespondWithSuccess(w, req, http.StatusOK, "Task deleted successfully", nil)
		assert.JSONEq(t, `{"success":true,"message":"Task deleted successfully"}`, w.Body.String())
	})
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"bad": make(chan int)})
	assert.Equal(t, http.StatusOK, w.Code, "status is committed before encoding")
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/x", nil)
	req = req.WithContext(SetTraceID(req.Context()))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusBadRequest, "Validation failed",
		WithFieldErrors([]domain.FieldError{{Field: "id", Message: "Invalid task ID"}}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, []domain.FieldError{{Field: "id", Message: "Invalid task ID"}}, body.Errors)
	assert.Equal(t, GetTraceID(req.Context()), body.TraceID)
}

func TestRespondWithErrorNoTraceID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")
	assert.JSONEq(t, `{"success":false,"message":"Task not found"}`, w.Body.String())
}

func TestRespondWithErrorAndLog(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		opts      []ResponseOption
		wantLevel string
	}{
		{"server error logs at error", http.StatusInternalServerError, nil, "ERROR"},
		{"client error logs at debug", http.StatusNotFound, nil, "DEBUG"},
		{"elevated client error logs at warn", http.StatusUnauthorized, []ResponseOption{WithElevatedLogLevel()}, "WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			log, buf := logger.GetTestLogger(t)
			ctx := logger.WithLogger(context.Background(), log)
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil).WithContext(ctx)
			w := httptest.NewRecorder()

			err := errors.New("query failed for ada@example.com")
			RespondWithErrorAndLog(w, req, tc.status, "Server error", err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "query failed", "internal error must not leak")

			entries, perr := buf.GetLogEntries()
			require.NoError(t, perr)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.wantLevel, entries[0]["level"])
			assert.Equal(t, "API error response", entries[0]["msg"])
			assert.NotContains(t, entries[0]["error"], "ada@example.com")
		})
	}
}
