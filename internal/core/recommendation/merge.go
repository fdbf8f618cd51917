// Package recommendation decides how a training log that asks for a level
// change turns into a pending recommendation, and how one is actioned.
// This is part of the Functional Core - no I/O, only pure functions.
package recommendation

import (
	"errors"
	"strings"
	"time"

	"github.com/example/skillmatrix/internal/core/delta"
)

// Outcome is the supervisor's decision on a recommendation.
type Outcome string

const (
	OutcomePromoted Outcome = "promoted"
	OutcomeDeferred Outcome = "deferred"
	OutcomeDeclined Outcome = "declined"
)

// Valid reports whether o is a known outcome.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePromoted, OutcomeDeferred, OutcomeDeclined:
		return true
	}
	return false
}

var (
	// ErrAlreadyActioned is returned when actioning a closed recommendation.
	ErrAlreadyActioned = errors.New("recommendation already actioned")
	// ErrNoActor is returned when the actioning name is blank.
	ErrNoActor = errors.New("actioned by name is required")
	// ErrInvalidOutcome is returned for an unknown outcome.
	ErrInvalidOutcome = errors.New("invalid outcome")
)

// Decision is the result of MergeOnCreate. Exactly one of Update or Create is set.
type Decision struct {
	// Update is the existing open recommendation re-pointed at the new log.
	Update *delta.Recommendation
	// Create is a new open recommendation to insert.
	Create *delta.Recommendation
}

// NewInput describes the recommendation to create if none is open.
type NewInput struct {
	ClientID     string
	DeviceID     string
	CurrentLevel *int
	Now          time.Time
}

// MergeOnCreate keeps at most one open recommendation per (employee, position).
// existing holds the recommendations already stored for the log's pair.
// The log must carry both references.
func MergeOnCreate(existing []delta.Recommendation, log delta.TrainingLog, in NewInput) Decision {
	for _, r := range existing {
		if r.IsOpen() {
			updated := r
			updated.TrainingLogID = log.ClientID
			return Decision{Update: &updated}
		}
	}

	var suggested *int
	if in.CurrentLevel != nil {
		next := *in.CurrentLevel + 1
		suggested = &next
	}

	rec := delta.Recommendation{
		ClientID:       in.ClientID,
		DeviceID:       in.DeviceID,
		LineID:         log.LineID,
		TrainingLogID:  log.ClientID,
		EmployeeID:     deref(log.EmployeeID),
		EmployeeName:   log.EmployeeName,
		PositionID:     deref(log.PositionID),
		PositionName:   log.PositionName,
		CurrentLevel:   in.CurrentLevel,
		SuggestedLevel: suggested,
		CreatedByName:  log.CreatedByName,
		CreatedByRole:  log.CreatedByRole,
		CreatedAt:      in.Now.UTC(),
		Status:         delta.RecOpen,
	}
	return Decision{Create: &rec}
}

// Action closes an open recommendation with the supervisor's decision.
// Returns the updated copy; the input is not modified.
func Action(r delta.Recommendation, outcome Outcome, by, note string, now time.Time) (delta.Recommendation, error) {
	if !r.IsOpen() {
		return r, ErrAlreadyActioned
	}
	if strings.TrimSpace(by) == "" {
		return r, ErrNoActor
	}
	if !outcome.Valid() {
		return r, ErrInvalidOutcome
	}

	at := now.UTC()
	out := r
	out.Status = delta.RecActioned
	out.ActionedAt = &at
	out.ActionedBy = strings.TrimSpace(by)
	out.ActionedResult = string(outcome)
	out.ActionNote = strings.TrimSpace(note)
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
