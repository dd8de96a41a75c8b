package recgo

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/recgo/model"
)

// Logger wraps slog.Logger with recgo-specific context.
// This provides structured logging with consistent field names.
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

// WithID adds a record id field to the logger (useful for tagging operations).
func (l *Logger) WithID(id model.RecordID) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", uint32(id)),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(ctx context.Context, id model.RecordID, err error) {
	if err != nil {
		l.ErrorContext(ctx, "insert failed",
			"id", uint32(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "insert completed",
			"id", uint32(id),
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(ctx context.Context, id model.RecordID, relocated bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"id", uint32(id),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"id", uint32(id),
			"index_relocated", relocated,
		)
	}
}

// LogRemove logs a remove operation.
func (l *Logger) LogRemove(ctx context.Context, id model.RecordID, removed bool) {
	l.DebugContext(ctx, "remove completed",
		"id", uint32(id),
		"removed", removed,
	)
}

// LogRangeQuery logs a range query over the ordered index.
func (l *Logger) LogRangeQuery(ctx context.Context, minKey, maxKey, results int) {
	l.DebugContext(ctx, "range query completed",
		"min", minKey,
		"max", maxKey,
		"results", results,
	)
}

// LogShortestPath logs a shortest-path query.
func (l *Logger) LogShortestPath(ctx context.Context, from, to model.RecordID, hops int, found bool) {
	l.DebugContext(ctx, "shortest path completed",
		"from", uint32(from),
		"to", uint32(to),
		"hops", hops,
		"found", found,
	)
}
