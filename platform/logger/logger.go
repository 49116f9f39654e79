// Package logger provides structured logging infrastructure for the application.
// This is part of the platform layer and contains no business logic.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
)

// Context key types for storing values in context
type contextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
)

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

var (
	mu        sync.Mutex
	level     = new(slog.LevelVar)
	installed *Logger
)

// ParseLevel maps LOG_LEVEL names onto slog levels. CRITICAL has no slog
// counterpart and is treated as ERROR.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR", "CRITICAL":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// New creates a logger writing to w. Development environments get colored
// console output, everything else JSON.
func New(env string, lvl slog.Leveler, w io.Writer) *Logger {
	var handler slog.Handler
	if strings.EqualFold(env, "development") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      lvl,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	return &Logger{Logger: slog.New(handler)}
}

// Configure sets up the process-wide logger. The first call installs a
// handler on stdout and makes it the slog default. Once a handler is
// installed, later calls (for example from an embedding host that already
// configured logging) only adjust the level so records are never duplicated.
func Configure(env, levelName string) (*Logger, error) {
	lvl, err := ParseLevel(levelName)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()

	level.Set(lvl)
	if installed != nil {
		return installed, nil
	}
	installed = New(env, level, os.Stdout)
	slog.SetDefault(installed.Logger)
	return installed, nil
}

// Install adopts a handler provided by a hosting process. Subsequent
// Configure calls only change the level of h when it honours Level().
func Install(h slog.Handler) *Logger {
	mu.Lock()
	defer mu.Unlock()

	installed = &Logger{Logger: slog.New(h)}
	slog.SetDefault(installed.Logger)
	return installed
}

// Level returns the shared level used by installed handlers.
func Level() slog.Level {
	return level.Level()
}

// Leveler exposes the shared level so hosts can bind their handlers to it.
func Leveler() slog.Leveler {
	return level
}

// Nop returns a logger that discards everything. Useful in tests.
func Nop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// WithContext returns a logger with context values extracted.
// Supports request_id from context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if ctx == nil {
		return l
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok && requestID != "" {
		return l.WithRequestID(requestID)
	}
	return l
}

// WithRequestID returns a logger with request ID
func (l *Logger) WithRequestID(requestID string) *Logger {
	return &Logger{
		Logger: l.With(slog.String("request_id", requestID)),
	}
}

// HTTPRequest logs an HTTP request
func (l *Logger) HTTPRequest(method, path string, status int, latencyMs float64, clientIP string) {
	l.Info("http_request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.Float64("latency_ms", latencyMs),
		slog.String("client_ip", clientIP),
	)
}

// HTTPError logs an HTTP error
func (l *Logger) HTTPError(method, path string, status int, err error, clientIP string) {
	l.Error("http_error",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
		slog.String("client_ip", clientIP),
	)
}

// RateLimitExceeded logs rate limit events
func (l *Logger) RateLimitExceeded(clientIP, path string) {
	l.Warn("rate_limit_exceeded",
		slog.String("client_ip", clientIP),
		slog.String("path", path),
	)
}
