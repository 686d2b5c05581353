// Package logger carries a *slog.Logger through request contexts so handlers
// several layers deep can log with request-scoped fields without threading
// a logger parameter through every call.
package logger

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "wry-webdriver-slogger"

// AddToContext returns a copy of ctx carrying logger.
func AddToContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if none was set.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
