package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogHandler(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(newLogHandler(&out, HandlerTypeJSON, LogLevelWarn))
		logger.Info("Dropped.")
		logger.Warn("Kept.", "pos", 3)

		var record map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &record))
		assert.Equal(t, "Kept.", record["msg"])
		assert.Equal(t, float64(3), record["pos"])
	})

	t.Run("text", func(t *testing.T) {
		var out bytes.Buffer
		logger := slog.New(newLogHandler(&out, HandlerTypeText, LogLevelDebug))
		logger.Debug("Visible.")
		assert.Contains(t, out.String(), "msg=Visible.")
	})

	t.Run("unknown values fall back", func(t *testing.T) {
		invariantsMetric.Reset()
		var out bytes.Buffer
		logger := slog.New(newLogHandler(&out, "yaml", "loud"))
		logger.Info("Fallback.")
		assert.Contains(t, out.String(), `"msg":"Fallback."`)
		assert.Equal(t, 1, GetMetricValue("log", "unsupported_log_level"))
		assert.Equal(t, 1, GetMetricValue("log", "unsupported_handler_type"))
	})
}

func TestInitLogging(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	SetTestFlag(t, "log_level", "DEBUG")
	SetTestFlag(t, "log_handler_type", "text")
	InitLogging()
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
