package logger

import (
	"context"
	"log/slog"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context.
// If no logger is found, it returns the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithRequestID adds a request ID to the logger in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("request_id", requestID))
}

// WithEvalID tags the logger in the context with an evaluation id so that
// all log lines of one evaluation attempt can be correlated.
func WithEvalID(ctx context.Context, evalID string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("eval_uuid", evalID))
}

// WithSubmID tags the logger in the context with a submission id.
func WithSubmID(ctx context.Context, submID string) context.Context {
	return WithLogger(ctx, FromContext(ctx).With("subm_uuid", submID))
}
