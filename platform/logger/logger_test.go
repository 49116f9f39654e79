package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Configure mutates process-wide state; these tests run sequentially.

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":    slog.LevelDebug,
		"INFO":     slog.LevelInfo,
		"Warning":  slog.LevelWarn,
		"warn":     slog.LevelWarn,
		"error":    slog.LevelError,
		"CRITICAL": slog.LevelError,
	}
	for name, want := range cases {
		got, err := ParseLevel(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestConfigureOnlyAdjustsLevelOnceInstalled(t *testing.T) {
	var buf bytes.Buffer
	host := Install(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: Leveler()}))

	got, err := Configure("production", "ERROR")
	require.NoError(t, err)
	assert.Same(t, host, got)
	assert.Equal(t, slog.LevelError, Level())

	got.Info("dropped")
	assert.Zero(t, buf.Len())

	_, err = Configure("production", "DEBUG")
	require.NoError(t, err)
	got.Debug("kept")
	assert.Contains(t, buf.String(), `"msg":"kept"`)
}

func TestConfigureRejectsUnknownLevel(t *testing.T) {
	_, err := Configure("production", "loud")
	assert.Error(t, err)
}

func TestNewSelectsHandlerByEnv(t *testing.T) {
	var jsonBuf, devBuf bytes.Buffer

	New("production", slog.LevelInfo, &jsonBuf).Info("hello", "k", "v")
	assert.Contains(t, jsonBuf.String(), `"k":"v"`)

	New("development", slog.LevelInfo, &devBuf).Info("hello", "k", "v")
	assert.Contains(t, devBuf.String(), "hello")
	assert.NotContains(t, devBuf.String(), `"msg"`)
}

func TestWithContextAddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	log := New("production", slog.LevelInfo, &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	log.WithContext(ctx).Info("handled")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
}
