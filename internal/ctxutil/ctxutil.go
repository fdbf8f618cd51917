// Package ctxutil carries request-scoped identity through context. It has no
// internal imports so any layer may use it.
package ctxutil

import "context"

type (
	actorKey struct{}
	lineKey  struct{}
)

// WithActorID records who is performing the operation.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorKey{}, actorID)
}

// ActorFromContext returns the recorded actor, or "".
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}

// WithLineID scopes ctx to a production line.
func WithLineID(ctx context.Context, lineID string) context.Context {
	return context.WithValue(ctx, lineKey{}, lineID)
}

// LineFromContext returns the line ctx is scoped to, or "".
func LineFromContext(ctx context.Context) string {
	line, _ := ctx.Value(lineKey{}).(string)
	return line
}
