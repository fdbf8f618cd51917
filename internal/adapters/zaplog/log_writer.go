// Package zaplog bridges entity change events to structured zap logs.
package zaplog

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// LogWriter implements secondary.LogWriter by emitting a debug entry for each
// change and then forwarding it to an optional inner writer.
type LogWriter struct {
	logger *zap.Logger
	next   secondary.LogWriter
}

// NewLogWriter creates a LogWriter. next may be nil.
func NewLogWriter(logger *zap.Logger, next secondary.LogWriter) *LogWriter {
	return &LogWriter{logger: logger.Named("activity"), next: next}
}

// LogCreate logs a create operation for an entity.
func (w *LogWriter) LogCreate(ctx context.Context, entityType, entityID string) error {
	w.emit(ctx, "create", entityType, entityID)
	if w.next == nil {
		return nil
	}
	return w.next.LogCreate(ctx, entityType, entityID)
}

// LogUpdate logs an update operation for an entity field.
func (w *LogWriter) LogUpdate(ctx context.Context, entityType, entityID, fieldName, oldValue, newValue string) error {
	w.emit(ctx, "update", entityType, entityID,
		zap.String("field", fieldName),
		zap.String("old", oldValue),
		zap.String("new", newValue),
	)
	if w.next == nil {
		return nil
	}
	return w.next.LogUpdate(ctx, entityType, entityID, fieldName, oldValue, newValue)
}

// LogDelete logs a delete operation for an entity.
func (w *LogWriter) LogDelete(ctx context.Context, entityType, entityID string) error {
	w.emit(ctx, "delete", entityType, entityID)
	if w.next == nil {
		return nil
	}
	return w.next.LogDelete(ctx, entityType, entityID)
}

func (w *LogWriter) emit(ctx context.Context, action, entityType, entityID string, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("action", action),
		zap.String("entity_type", entityType),
		zap.String("entity_id", entityID),
	}, extra...)
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		fields = append(fields, zap.String("actor", actor))
	}
	if line := ctxutil.LineFromContext(ctx); line != "" {
		fields = append(fields, zap.String("line", line))
	}
	w.logger.Debug("entity changed", fields...)
}

// Ensure LogWriter implements the interface
var _ secondary.LogWriter = (*LogWriter)(nil)
