package services

import "context"

type contextKey string

const (
	buildIDKey   contextKey = "build_id"
	projectIDKey contextKey = "project_id"
	requestIDKey contextKey = "request_id"
)

// WithBuildID annotates context with the build identifier.
func WithBuildID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, buildIDKey, id)
}

// BuildIDFromContext extracts the build identifier if present.
func BuildIDFromContext(ctx context.Context) (int64, bool) {
	switch val := ctx.Value(buildIDKey).(type) {
	case int64:
		return val, true
	case int:
		return int64(val), true
	default:
		return 0, false
	}
}

// WithProjectID annotates context with the project identifier.
func WithProjectID(ctx context.Context, project string) context.Context {
	if project == "" {
		return ctx
	}
	return context.WithValue(ctx, projectIDKey, project)
}

// ProjectIDFromContext returns the project identifier if present.
func ProjectIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(projectIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
