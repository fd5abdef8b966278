package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for raw, want := range tests {
		got, err := ParseLevel(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "info", "json")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("request", "status", 200)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "request", entry["msg"])
	assert.EqualValues(t, 200, entry["status"])
}

func TestPrettyHandler(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(&buf, "debug", "pretty")
	require.NoError(t, err)

	log.With("request_id", "abc").WithGroup("store").Error("ping failed",
		"error", errors.New("timeout"),
		slog.Group("conn", "host", "db"))

	out := buf.String()
	assert.Contains(t, out, "ping failed")
	assert.Contains(t, out, "request_id"+reset+"=abc")
	assert.Contains(t, out, "store.error"+reset+"=timeout")
	assert.Contains(t, out, "store.conn.host"+reset+"=db")
}
