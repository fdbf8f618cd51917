package secondary

import "context"

// LogWriter records entity changes to the activity trail. The actor and line
// are taken from ctx.
type LogWriter interface {
	LogCreate(ctx context.Context, entityType, entityID string) error

	// LogUpdate records a single field change.
	LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error

	LogDelete(ctx context.Context, entityType, entityID string) error
}
