package logger_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		level      string
		logDebug   bool
		logInfo    bool
		logWarning bool
	}{
		{level: "debug", logDebug: true, logInfo: true, logWarning: true},
		{level: "INFO", logDebug: false, logInfo: true, logWarning: true},
		{level: "warn", logDebug: false, logInfo: false, logWarning: true},
		{level: "bogus", logDebug: false, logInfo: true, logWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &logger.TestLogBuffer{}
			l := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, buf)

			l.Debug("debug message")
			l.Info("info message")
			l.Warn("warn message")

			assert.Equal(t, tt.logDebug, strings.Contains(buf.String(), "debug message"))
			assert.Equal(t, tt.logInfo, strings.Contains(buf.String(), "info message"))
			assert.Equal(t, tt.logWarning, strings.Contains(buf.String(), "warn message"))
			assert.Same(t, l, slog.Default(), "Setup should install the logger as default")
		})
	}
}

func TestSetupEmitsJSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &logger.TestLogBuffer{}
	l := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, buf)
	l.Info("hello", "component", "test")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "test", entry["component"])
}

func TestContextHelpers(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		ctx := context.Background()
		assert.Nil(t, logger.FromContext(ctx))
		assert.Empty(t, logger.TraceIDFromContext(ctx))
		assert.Same(t, slog.Default(), logger.FromContextOrDefault(ctx, nil))
	})

	t.Run("fallback when context has no logger", func(t *testing.T) {
		fallback, _ := logger.GetTestLogger(t)
		assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	})

	t.Run("context logger wins over fallback", func(t *testing.T) {
		scoped, buf := logger.GetTestLogger(t)
		fallback, _ := logger.GetTestLogger(t)
		ctx := logger.WithLogger(context.Background(), scoped)

		got := logger.FromContextOrDefault(ctx, fallback)
		require.Same(t, scoped, got)

		got.Info("scoped message")
		logger.AssertLogContains(t, buf, "scoped message")
	})

	t.Run("trace id round trip", func(t *testing.T) {
		ctx := logger.WithTraceID(context.Background(), "abc-123")
		assert.Equal(t, "abc-123", logger.TraceIDFromContext(ctx))
	})
}

func TestParseLevel(t *testing.T) {
	level, ok := logger.ParseLevel("Error")
	assert.True(t, ok)
	assert.Equal(t, slog.LevelError, level)

	level, ok = logger.ParseLevel("")
	assert.False(t, ok)
	assert.Equal(t, slog.LevelInfo, level)
}
