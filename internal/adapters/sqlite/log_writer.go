package sqlite

import (
	"context"

	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// LogWriterAdapter persists entity changes to the activity trail.
// Changes made without a line in ctx are dropped: the trail is per line.
type LogWriterAdapter struct {
	activity secondary.ActivityLogRepository
}

// NewLogWriterAdapter creates a LogWriterAdapter over the activity table.
func NewLogWriterAdapter(activity secondary.ActivityLogRepository) *LogWriterAdapter {
	return &LogWriterAdapter{activity: activity}
}

func (w *LogWriterAdapter) LogCreate(ctx context.Context, entityType, entityID string) error {
	return w.append(ctx, secondary.ActivityLogRecord{EntityType: entityType, EntityID: entityID, Action: "create"})
}

func (w *LogWriterAdapter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	return w.append(ctx, secondary.ActivityLogRecord{
		EntityType: entityType,
		EntityID:   entityID,
		Action:     "update",
		FieldName:  fieldName,
		OldValue:   oldValue,
		NewValue:   newValue,
	})
}

func (w *LogWriterAdapter) LogDelete(ctx context.Context, entityType, entityID string) error {
	return w.append(ctx, secondary.ActivityLogRecord{EntityType: entityType, EntityID: entityID, Action: "delete"})
}

func (w *LogWriterAdapter) append(ctx context.Context, entry secondary.ActivityLogRecord) error {
	entry.LineID = ctxutil.LineFromContext(ctx)
	if entry.LineID == "" {
		return nil
	}
	entry.ActorID = ctxutil.ActorFromContext(ctx)

	id, err := w.activity.GetNextID(ctx)
	if err != nil {
		return err
	}
	entry.ID = id
	return w.activity.Create(ctx, &entry)
}

var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
