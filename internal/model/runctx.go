package model

import "context"

type runIDKey struct{}

// WithRunID tags ctx with the identifier of the current pipeline run. Sinks
// stamp it on stored rows.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext returns the run identifier set by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
