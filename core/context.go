package core

import "context"

// Context keys for execution options
type contextKey string

const (
	suppressHeaderKey contextKey = "suppressHeader"
	skipViewLogKey    contextKey = "skipViewLog"
)

// WithSuppressHeader stops the CLI executors from printing the run header.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

// shouldSuppressHeader returns whether headers should be suppressed from context
func shouldSuppressHeader(ctx context.Context) bool {
	val := ctx.Value(suppressHeaderKey)
	if val == nil {
		return false // default: show headers
	}
	suppress, ok := val.(bool)
	return ok && suppress
}

// WithSkipViewLog marks the context so computed outputs are not written to the view log.
func WithSkipViewLog(ctx context.Context) context.Context {
	return context.WithValue(ctx, skipViewLogKey, true)
}

// shouldSkipViewLog returns whether view logging is disabled for this context
func shouldSkipViewLog(ctx context.Context) bool {
	skip, ok := ctx.Value(skipViewLogKey).(bool)
	return ok && skip
}
