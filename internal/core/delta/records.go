// Package delta contains the pure logic of the offline delta sync protocol:
// bundle construction, checksum verification, reference resolution,
// open-recommendation deduplication, and import tallies.
// This is part of the Functional Core - no I/O, only pure functions.
package delta

import "time"

// SchemaVersion is the bundle and receipt format version.
const SchemaVersion = 2

// RecStatus is the lifecycle state of a pending recommendation.
type RecStatus string

const (
	RecOpen     RecStatus = "open"
	RecActioned RecStatus = "actioned"
)

// TrainingLog is an append-only training fact recorded on a device.
// ClientID is globally unique and is the idempotency key for sync.
type TrainingLog struct {
	ClientID             string     `json:"clientId"`
	DeviceID             string     `json:"deviceId"`
	LineID               string     `json:"lineId"`
	EmployeeID           *string    `json:"employeeId"`
	EmployeeName         string     `json:"employeeNameSnapshot"`
	EmployeeResolved     bool       `json:"employeeResolved"`
	PositionID           *string    `json:"positionId"`
	PositionName         string     `json:"positionNameSnapshot"`
	PositionResolved     bool       `json:"positionResolved"`
	TrainerName          string     `json:"trainerNameSnapshot,omitempty"`
	CreatedByName        string     `json:"createdByNameSnapshot"`
	CreatedByRole        string     `json:"createdByRole"`
	DurationMinutes      int        `json:"duration"`
	Notes                string     `json:"notes,omitempty"`
	RecommendLevelChange bool       `json:"recommendLevelChange"`
	Shift                string     `json:"shift"`
	Timestamp            time.Time  `json:"timestamp"`
	SyncedToAuthority    bool       `json:"syncedToAuthority"`
	ImportedAt           *time.Time `json:"importedAt"`
}

// Unresolved reports whether either reference failed to resolve on import.
func (l TrainingLog) Unresolved() bool {
	return !l.EmployeeResolved || !l.PositionResolved
}

// Recommendation is a suggestion to promote an employee on a position.
// At most one open recommendation exists per (employee, position).
type Recommendation struct {
	ClientID          string     `json:"clientId"`
	DeviceID          string     `json:"deviceId"`
	LineID            string     `json:"lineId"`
	TrainingLogID     string     `json:"trainingLogId"`
	EmployeeID        string     `json:"employeeId"`
	EmployeeName      string     `json:"employeeNameSnapshot"`
	PositionID        string     `json:"positionId"`
	PositionName      string     `json:"positionNameSnapshot"`
	CurrentLevel      *int       `json:"currentLevel"`
	SuggestedLevel    *int       `json:"suggestedLevel"`
	CreatedByName     string     `json:"createdByNameSnapshot"`
	CreatedByRole     string     `json:"createdByRole"`
	CreatedAt         time.Time  `json:"createdAt"`
	Status            RecStatus  `json:"status"`
	SyncedToAuthority bool       `json:"syncedToAuthority"`
	ActionedAt        *time.Time `json:"actionedAt"`
	ActionedBy        string     `json:"actionedByName,omitempty"`
	ActionedResult    string     `json:"actionedResult,omitempty"`
	ActionNote        string     `json:"actionNote,omitempty"`
}

// IsOpen reports whether the recommendation has not been actioned.
func (r Recommendation) IsOpen() bool { return r.Status == RecOpen }

// Records is the checksummed payload of a bundle.
type Records struct {
	TrainingLogs           []TrainingLog    `json:"trainingLogs"`
	PendingRecommendations []Recommendation `json:"pendingRecommendations"`
}

// Empty reports whether there is nothing to send.
func (r Records) Empty() bool {
	return len(r.TrainingLogs) == 0 && len(r.PendingRecommendations) == 0
}

// RecordCount mirrors the payload sizes in the bundle header.
type RecordCount struct {
	TrainingLogs           int `json:"trainingLogs"`
	PendingRecommendations int `json:"pendingRecommendations"`
}
