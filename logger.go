package cutoffgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with engine-specific helpers.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogIngest logs a record ingest operation.
func (l *Logger) LogIngest(ctx context.Context, count, total int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "ingest failed",
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "ingest completed",
			"count", count,
			"total", total,
		)
	}
}

// LogSearch logs a record search operation.
func (l *Logger) LogSearch(ctx context.Context, limit, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"limit", limit,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"limit", limit,
			"results", results,
		)
	}
}

// LogVectorSearch logs a similarity search operation.
func (l *Logger) LogVectorSearch(ctx context.Context, limit, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "vector search failed",
			"limit", limit,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "vector search completed",
			"limit", limit,
			"results", results,
		)
	}
}

// LogEmbedding logs an embedding generation.
func (l *Logger) LogEmbedding(ctx context.Context, textLen int) {
	l.DebugContext(ctx, "embedding generated",
		"text_len", textLen,
	)
}

// LogClear logs a full engine clear.
func (l *Logger) LogClear(ctx context.Context) {
	l.InfoContext(ctx, "engine cleared")
}
