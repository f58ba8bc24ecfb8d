package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" DEBUG ", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, true, "")

	logger.Debug("hidden")
	logger.Info("object deleted", "key", "1-a.png")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "object deleted", line["msg"])
	assert.Equal(t, "1-a.png", line["key"])
	assert.Contains(t, line, "ts")
	assert.NotContains(t, line, "time")
}

func TestNew_DevelopmentDefaultsToDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, false, "")

	logger.Debug("probe")

	assert.Contains(t, buf.String(), "probe")
}
