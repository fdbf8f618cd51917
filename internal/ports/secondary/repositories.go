// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/core/skill"
)

// InsertOutcome is the result of a keyed insert. A duplicate key is an
// ordinary outcome, not an error.
type InsertOutcome int

const (
	// Inserted means the row was written.
	Inserted InsertOutcome = iota
	// AlreadyExists means a row with the same key was already present.
	AlreadyExists
	// InsertFailed means the insert failed for another reason; the error is returned alongside.
	InsertFailed
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	default:
		return "failed"
	}
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Random is a uniform integer source over [0, n).
type Random interface {
	Intn(n int) int
}

// IDGenerator produces globally unique identifiers (bundle ids).
type IDGenerator interface {
	NewID() string
}

// LineRepository defines the secondary port for production line persistence.
type LineRepository interface {
	// Create persists a new line.
	Create(ctx context.Context, line *LineRecord) error

	// GetByID retrieves a line by its ID.
	GetByID(ctx context.Context, id string) (*LineRecord, error)

	// Exists reports whether a line with the ID exists.
	Exists(ctx context.Context, id string) (bool, error)

	// List retrieves all lines ordered by name.
	List(ctx context.Context) ([]*LineRecord, error)

	// GetNextID returns the next available line ID.
	GetNextID(ctx context.Context) (string, error)
}

// LineRecord represents a production line as stored in persistence.
type LineRecord struct {
	ID        string
	Name      string
	Shift     string
	CreatedAt string
}

// EmployeeRepository defines the secondary port for employee persistence.
// Employees are deactivated, never deleted.
type EmployeeRepository interface {
	// Create persists a new employee.
	Create(ctx context.Context, emp *EmployeeRecord) error

	// GetByID retrieves an employee by its ID.
	GetByID(ctx context.Context, id string) (*EmployeeRecord, error)

	// GetByName retrieves an employee by line and case-insensitive name.
	// Returns nil, nil when none matches.
	GetByName(ctx context.Context, lineID, name string) (*EmployeeRecord, error)

	// Update updates name, role and active flag.
	Update(ctx context.Context, emp *EmployeeRecord) error

	// List retrieves employees matching the given filters, in creation order.
	List(ctx context.Context, filters EmployeeFilters) ([]*EmployeeRecord, error)

	// GetNextID returns the next available employee ID.
	GetNextID(ctx context.Context) (string, error)
}

// EmployeeRecord represents an employee as stored in persistence.
type EmployeeRecord struct {
	ID        string
	LineID    string
	Name      string
	Role      string
	Active    bool
	CreatedAt string
	UpdatedAt string
}

// EmployeeFilters contains filter options for querying employees.
type EmployeeFilters struct {
	LineID          string
	Role            string
	IncludeInactive bool
}

// PositionRepository defines the secondary port for position persistence.
type PositionRepository interface {
	// Create persists a new position.
	Create(ctx context.Context, pos *PositionRecord) error

	// GetByID retrieves a position by its ID.
	GetByID(ctx context.Context, id string) (*PositionRecord, error)

	// GetByName retrieves a position by line and case-insensitive name.
	// Returns nil, nil when none matches.
	GetByName(ctx context.Context, lineID, name string) (*PositionRecord, error)

	// Update updates name, critical flag, sort order and active flag.
	Update(ctx context.Context, pos *PositionRecord) error

	// List retrieves positions ordered by sort order.
	List(ctx context.Context, filters PositionFilters) ([]*PositionRecord, error)

	// GetNextID returns the next available position ID.
	GetNextID(ctx context.Context) (string, error)
}

// PositionRecord represents a position as stored in persistence.
type PositionRecord struct {
	ID        string
	LineID    string
	Name      string
	Critical  bool
	SortOrder int
	Active    bool
	CreatedAt string
	UpdatedAt string
}

// PositionFilters contains filter options for querying positions.
type PositionFilters struct {
	LineID          string
	IncludeInactive bool
}

// SkillRepository defines the secondary port for skill record persistence.
// Records are unique per (employee, position).
type SkillRepository interface {
	// Get retrieves the record for a pair. Returns nil, nil when none exists.
	Get(ctx context.Context, employeeID, positionID string) (*skill.Record, error)

	// ListByLine retrieves every record on a line.
	ListByLine(ctx context.Context, lineID string) ([]skill.Record, error)

	// Save inserts or replaces the record for its pair.
	Save(ctx context.Context, rec *skill.Record) error
}

// AttendanceRepository defines the secondary port for daily attendance.
type AttendanceRepository interface {
	// Upsert writes the status for (employee, date).
	Upsert(ctx context.Context, rec *AttendanceRecord) error

	// ListByLineDate retrieves attendance for a line on a date.
	ListByLineDate(ctx context.Context, lineID, date string) ([]*AttendanceRecord, error)
}

// AttendanceRecord represents one employee's attendance on one date.
type AttendanceRecord struct {
	LineID     string
	EmployeeID string
	Date       string
	Shift      string
	Status     string // present, partial, absent
}

// RotationPlanRepository defines the secondary port for rotation plans.
// One plan per (line, date); saving again replaces it.
type RotationPlanRepository interface {
	// Save inserts or replaces the plan for (line, date).
	Save(ctx context.Context, rec *RotationPlanRecord) error

	// Get retrieves the plan for (line, date). Returns nil, nil when none exists.
	Get(ctx context.Context, lineID, date string) (*RotationPlanRecord, error)

	// ListDates returns the dates with a stored plan, oldest first.
	ListDates(ctx context.Context, lineID string) ([]string, error)

	// Delete removes the plan for (line, date).
	Delete(ctx context.Context, lineID, date string) error
}

// RotationPlanRecord represents a stored rotation plan.
type RotationPlanRecord struct {
	LineID      string
	Date        string
	Bottleneck  bool
	Plan        rotation.Plan
	GeneratedAt time.Time
}

// AuditRepository defines the secondary port for audit log persistence.
type AuditRepository interface {
	// Create persists a new draft audit.
	Create(ctx context.Context, log *audit.Log) error

	// GetByID retrieves an audit by its ID.
	GetByID(ctx context.Context, id string) (*audit.Log, error)

	// ListBySupervisor retrieves every audit of a supervisor on a line.
	ListBySupervisor(ctx context.Context, lineID, supervisorID string) ([]audit.Log, error)

	// ListCompleted retrieves audits with a result, newest first.
	ListCompleted(ctx context.Context, lineID string, limit int) ([]audit.Log, error)

	// SetResult records the result and notes of an audit.
	SetResult(ctx context.Context, id string, result audit.Result, notes string) error

	// GetNextID returns the next available audit ID.
	GetNextID(ctx context.Context) (string, error)
}

// TrainingLogRepository defines the secondary port for training logs.
// ClientID is the primary key.
type TrainingLogRepository interface {
	// Insert adds a log keyed by client id.
	Insert(ctx context.Context, log *delta.TrainingLog) (InsertOutcome, error)

	// GetByClientID retrieves a log. Returns nil, nil when none exists.
	GetByClientID(ctx context.Context, clientID string) (*delta.TrainingLog, error)

	// ListUnsynced retrieves logs of a line not yet acknowledged by the authority.
	ListUnsynced(ctx context.Context, lineID string) ([]delta.TrainingLog, error)

	// ListRecent retrieves the newest logs of a line.
	ListRecent(ctx context.Context, lineID string, limit int) ([]delta.TrainingLog, error)

	// MarkSynced sets the synced flag. Reports whether a row changed.
	MarkSynced(ctx context.Context, clientID string) (bool, error)
}

// RecommendationRepository defines the secondary port for pending recommendations.
// ClientID is the primary key.
type RecommendationRepository interface {
	// Insert adds a recommendation keyed by client id.
	Insert(ctx context.Context, rec *delta.Recommendation) (InsertOutcome, error)

	// GetByClientID retrieves a recommendation. Returns nil, nil when none exists.
	GetByClientID(ctx context.Context, clientID string) (*delta.Recommendation, error)

	// Update replaces a stored recommendation.
	Update(ctx context.Context, rec *delta.Recommendation) error

	// Delete removes a recommendation.
	Delete(ctx context.Context, clientID string) error

	// ListByPair retrieves every recommendation for (employee, position).
	ListByPair(ctx context.Context, employeeID, positionID string) ([]delta.Recommendation, error)

	// ListOpen retrieves the open recommendations of a line, oldest first.
	ListOpen(ctx context.Context, lineID string) ([]delta.Recommendation, error)

	// ListUnsynced retrieves recommendations of a line not yet acknowledged by the authority.
	ListUnsynced(ctx context.Context, lineID string) ([]delta.Recommendation, error)

	// MarkSynced sets the synced flag. Reports whether a row changed.
	MarkSynced(ctx context.Context, clientID string) (bool, error)
}

// SequenceRepository hands out per-device monotonically increasing numbers.
type SequenceRepository interface {
	// Next increments and returns the named sequence, starting at 1.
	Next(ctx context.Context, name string) (int, error)
}

// ActivityLogRepository defines the secondary port for the per-line activity log.
type ActivityLogRepository interface {
	// Create persists a new log entry.
	Create(ctx context.Context, log *ActivityLogRecord) error

	// GetByID retrieves a log entry by its ID.
	GetByID(ctx context.Context, id string) (*ActivityLogRecord, error)

	// List retrieves log entries matching the given filters, newest first.
	List(ctx context.Context, filters ActivityLogFilters) ([]*ActivityLogRecord, error)

	// GetNextID returns the next available log ID.
	GetNextID(ctx context.Context) (string, error)

	// PruneOlderThan deletes entries older than the given number of days.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// ActivityLogRecord represents one entity change.
type ActivityLogRecord struct {
	ID         string
	LineID     string
	Timestamp  string
	ActorID    string
	EntityType string
	EntityID   string
	Action     string // create, update, delete
	FieldName  string
	OldValue   string
	NewValue   string
}

// ActivityLogFilters contains filter options for querying the activity log.
type ActivityLogFilters struct {
	LineID     string
	EntityType string
	EntityID   string
	ActorID    string
	Action     string
	Limit      int
}
