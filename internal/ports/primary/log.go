package primary

import "context"

// LogService defines the primary port for the activity trail: who changed
// which line entity, and when.
type LogService interface {
	// ListLogs returns changes matching the filters, newest first.
	ListLogs(ctx context.Context, filters LogFilters) ([]*LogEntry, error)

	// GetLog retrieves a single change by ID.
	GetLog(ctx context.Context, id string) (*LogEntry, error)

	// PruneLogs deletes changes older than olderThanDays. Recent history is
	// kept regardless of the argument.
	PruneLogs(ctx context.Context, olderThanDays int) (int, error)
}

// LogEntry is one recorded change.
type LogEntry struct {
	ID         string
	LineID     string
	Timestamp  string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string
	FieldName  string // set on updates
	OldValue   string
	NewValue   string
}

// LogFilters narrows ListLogs. Zero values match everything; a zero Limit
// means the default page size.
type LogFilters struct {
	LineID     string
	EntityType string `validate:"omitempty,oneof=line employee position skill_record rotation_plan audit recommendation"`
	EntityID   string
	ActorID    string
	Action     string `validate:"omitempty,oneof=create update delete"`
	Limit      int    `validate:"min=0,max=1000"`
}
