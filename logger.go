package simidx

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with the engine's own field vocabulary. This
// provides structured logging with consistent field names across RECORD and
// CLASSIFY.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithScope adds a scope field to the logger.
func (l *Logger) WithScope(scope string) *Logger {
	return &Logger{Logger: l.Logger.With("scope", scope)}
}

// WithFeatureIndex adds a feature_index field to the logger.
func (l *Logger) WithFeatureIndex(featureIndex string) *Logger {
	return &Logger{Logger: l.Logger.With("feature_index", featureIndex)}
}

// WithCommand adds a command field to the logger.
func (l *Logger) WithCommand(command string) *Logger {
	return &Logger{Logger: l.Logger.With("command", command)}
}

// LogRecord logs a RECORD invocation: how many requests it carried, how
// long it took, and whether it failed.
func (l *Logger) LogRecord(ctx context.Context, count int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "record failed",
			"requests", count,
			"duration", d,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "record completed",
			"requests", count,
			"duration", d,
		)
	}
}

// LogClassify logs a CLASSIFY invocation: how many queries it ran, how many
// candidates survived filtering, how long it took, and whether it failed.
func (l *Logger) LogClassify(ctx context.Context, queries, candidates int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "classify failed",
			"queries", queries,
			"duration", d,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "classify completed",
			"queries", queries,
			"candidates", candidates,
			"duration", d,
		)
	}
}
