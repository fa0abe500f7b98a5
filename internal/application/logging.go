package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/planner/internal/logging"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// logFailure writes err at a level matching its kind. Ownership violations are
// recorded at WARN with the resource coordinates for auditing; missing
// resources and rejected input are routine and logged at INFO.
func logFailure(ctx context.Context, logger *slog.Logger, msg string, err error) {
	kind := ErrorKind(err)
	var rErr *ResourceError
	if errors.As(err, &rErr) {
		logger = logger.With(
			"resource_type", string(rErr.Kind),
			"resource_id", rErr.ResourceID,
			"user_id", rErr.UserID,
		)
	}
	switch kind {
	case "access_denied":
		logger.WarnContext(ctx, msg, "error_kind", kind)
	case "not_found", "validation", "conflict":
		logger.InfoContext(ctx, msg, "error", err, "error_kind", kind)
	default:
		logger.ErrorContext(ctx, msg, "error", err, "error_kind", kind)
	}
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrAccessDenied):
		return "access_denied"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
