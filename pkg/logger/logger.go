// Package logger provides structured logging using slog with loop context support.
package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// TickIDKey is the context key for the control-loop tick ID.
	TickIDKey contextKey = "tick_id"
	// ServiceIDKey is the context key for the monitored service ID.
	ServiceIDKey contextKey = "service_id"
	// TargetIDKey is the context key for the build target ID.
	TargetIDKey contextKey = "target_id"
)

// Logger wraps slog.Logger with additional context-aware methods.
type Logger struct {
	*slog.Logger
}

// New creates a new Logger with the specified level and format.
func New(level slog.Level, json bool) *Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	if json {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// Default creates a logger with default settings (INFO level, JSON format).
func Default() *Logger {
	return New(slog.LevelInfo, true)
}

// ParseLevel maps a config level string to a slog.Level. Unknown values
// fall back to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithContext returns a new Logger with fields extracted from the context.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	logger := l.Logger

	if tickID, ok := ctx.Value(TickIDKey).(string); ok && tickID != "" {
		logger = logger.With("tick_id", tickID)
	}

	if serviceID, ok := ctx.Value(ServiceIDKey).(string); ok && serviceID != "" {
		logger = logger.With("service_id", serviceID)
	}

	if targetID, ok := ctx.Value(TargetIDKey).(string); ok && targetID != "" {
		logger = logger.With("target_id", targetID)
	}

	return &Logger{Logger: logger}
}

// WithError returns a new Logger with the error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With("error", err.Error()),
	}
}

// ContextWithTickID adds a tick ID to the context.
func ContextWithTickID(ctx context.Context, tickID string) context.Context {
	return context.WithValue(ctx, TickIDKey, tickID)
}

// ContextWithServiceID adds a service ID to the context.
func ContextWithServiceID(ctx context.Context, serviceID string) context.Context {
	return context.WithValue(ctx, ServiceIDKey, serviceID)
}

// ContextWithTargetID adds a build target ID to the context.
func ContextWithTargetID(ctx context.Context, targetID string) context.Context {
	return context.WithValue(ctx, TargetIDKey, targetID)
}

// TickIDFromContext extracts the tick ID from context.
func TickIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(TickIDKey).(string); ok {
		return id
	}
	return ""
}

// ServiceIDFromContext extracts the service ID from context.
func ServiceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ServiceIDKey).(string); ok {
		return id
	}
	return ""
}
