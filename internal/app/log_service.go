package app

import (
	"context"
	"fmt"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// DefaultLogLimit is the page size ListLogs uses when none is given.
const DefaultLogLimit = 50

// MinLogRetentionDays is the youngest history PruneLogs will delete. Skill
// changes are audited from this trail, so it is never emptied outright.
const MinLogRetentionDays = 7

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	activityRepo secondary.ActivityLogRepository
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(activityRepo secondary.ActivityLogRepository) *LogServiceImpl {
	return &LogServiceImpl{activityRepo: activityRepo}
}

// ListLogs returns changes matching the filters, newest first.
func (s *LogServiceImpl) ListLogs(ctx context.Context, filters primary.LogFilters) ([]*primary.LogEntry, error) {
	if err := validateRequest(filters); err != nil {
		return nil, err
	}
	limit := filters.Limit
	if limit == 0 {
		limit = DefaultLogLimit
	}

	records, err := s.activityRepo.List(ctx, secondary.ActivityLogFilters{
		LineID:     filters.LineID,
		EntityType: filters.EntityType,
		EntityID:   filters.EntityID,
		ActorID:    filters.ActorID,
		Action:     filters.Action,
		Limit:      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}

	entries := make([]*primary.LogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, toLogEntry(r))
	}
	return entries, nil
}

// GetLog retrieves a single change by ID.
func (s *LogServiceImpl) GetLog(ctx context.Context, id string) (*primary.LogEntry, error) {
	record, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toLogEntry(record), nil
}

// PruneLogs deletes changes older than olderThanDays, never fewer than
// MinLogRetentionDays.
func (s *LogServiceImpl) PruneLogs(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < MinLogRetentionDays {
		return 0, fmt.Errorf("%w: activity younger than %d days is retained, got %d",
			ErrInvalidRequest, MinLogRetentionDays, olderThanDays)
	}
	return s.activityRepo.PruneOlderThan(ctx, olderThanDays)
}

func toLogEntry(r *secondary.ActivityLogRecord) *primary.LogEntry {
	e := primary.LogEntry(*r)
	return &e
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
