// Package skill contains the pure business logic for skill qualification records.
// This is part of the Functional Core - no I/O, only pure functions.
package skill

import "time"

// Level bounds and the tier boundary for dual-signature promotions.
const (
	MinLevel       = 0
	MaxLevel       = 4
	QualifiedLevel = 3
)

// Status represents the possible states of a skill record.
type Status string

const (
	StatusApproved    Status = "approved"
	StatusPendingDual Status = "pending_dual"
)

// Role is the role an approver signs with.
type Role string

const (
	RoleOperator   Role = "operator"
	RoleTeamLead   Role = "team_lead"
	RoleSupervisor Role = "supervisor"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleOperator, RoleTeamLead, RoleSupervisor:
		return true
	}
	return false
}

// HistoryType classifies an entry in a record's audit trail.
type HistoryType string

const (
	HistoryPromotion HistoryType = "promotion"
	HistoryDemotion  HistoryType = "demotion"
	HistoryImport    HistoryType = "import"
)

// ImportActor is the actor recorded on History entries created by spreadsheet imports.
const ImportActor = "Excel Import"

// Approval is one signature given towards a promotion.
type Approval struct {
	ApproverName string
	Role         Role
	Comment      string
	ForLevel     int
	At           time.Time
}

// HistoryEntry is one completed level change. History is append-only.
type HistoryEntry struct {
	Type      HistoryType
	FromLevel int
	ToLevel   int
	By        string
	Role      Role
	Reason    string
	At        time.Time
}

// Record is the qualification of one employee on one position.
// At most one record exists per (EmployeeID, PositionID).
type Record struct {
	EmployeeID     string
	PositionID     string
	LineID         string
	CurrentLevel   int
	RequestedLevel *int // set only while Status is StatusPendingDual
	Status         Status
	Approvals      []Approval
	History        []HistoryEntry
}

// Pair identifies a record by employee and position.
type Pair struct {
	EmployeeID string
	PositionID string
}

// Key returns the (employee, position) pair for the record.
func (r Record) Key() Pair {
	return Pair{EmployeeID: r.EmployeeID, PositionID: r.PositionID}
}

// IsQualified reports whether the record counts as qualified:
// approved and at least QualifiedLevel. A nil record is not qualified.
func IsQualified(r *Record) bool {
	if r == nil {
		return false
	}
	return r.Status == StatusApproved && r.CurrentLevel >= QualifiedLevel
}

// Blank returns a new level-0 record for the pair.
func Blank(employeeID, positionID, lineID string) Record {
	return Record{
		EmployeeID:   employeeID,
		PositionID:   positionID,
		LineID:       lineID,
		CurrentLevel: MinLevel,
		Status:       StatusApproved,
	}
}

// FromImport seeds a record directly at level, bypassing the approval workflow.
// A single import History entry is recorded when level is above zero.
func FromImport(employeeID, positionID, lineID string, level int, now time.Time) Record {
	rec := Blank(employeeID, positionID, lineID)
	rec.CurrentLevel = clampLevel(level)
	if rec.CurrentLevel > MinLevel {
		rec.History = []HistoryEntry{{
			Type:      HistoryImport,
			FromLevel: MinLevel,
			ToLevel:   rec.CurrentLevel,
			By:        ImportActor,
			At:        now,
		}}
	}
	return rec
}

// Reimport applies an imported level to an existing record, appending an import
// History entry. Any pending dual signature is discarded.
func Reimport(r Record, level int, now time.Time) Record {
	next := r.clone()
	level = clampLevel(level)
	next.History = append(next.History, HistoryEntry{
		Type:      HistoryImport,
		FromLevel: r.CurrentLevel,
		ToLevel:   level,
		By:        ImportActor,
		At:        now,
	})
	next.CurrentLevel = level
	next.Status = StatusApproved
	next.RequestedLevel = nil
	next.Approvals = nil
	return next
}

func clampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// clone returns a deep copy so transitions never alias the caller's slices.
func (r Record) clone() Record {
	c := r
	if r.RequestedLevel != nil {
		v := *r.RequestedLevel
		c.RequestedLevel = &v
	}
	c.Approvals = append([]Approval(nil), r.Approvals...)
	c.History = append([]HistoryEntry(nil), r.History...)
	return c
}
