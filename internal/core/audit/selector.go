// Package audit contains the pure selection logic for compliance audits.
// This is part of the Functional Core - no I/O, only pure functions.
package audit

// Result is the outcome of a completed audit.
type Result string

const (
	ResultPass Result = "pass"
	ResultFail Result = "fail"
)

// Valid reports whether r is a known result.
func (r Result) Valid() bool {
	return r == ResultPass || r == ResultFail
}

// Position is a candidate for auditing.
type Position struct {
	ID   string
	Name string
}

// Log is one audit assigned to a supervisor on a date. Result is nil until logged.
type Log struct {
	ID           string
	LineID       string
	SupervisorID string
	PositionID   string
	Date         string
	Result       *Result
	Notes        string
}

// Completed reports whether a result has been logged.
func (l Log) Completed() bool { return l.Result != nil }

// Random is a uniform source over [0, n).
type Random interface {
	Intn(n int) int
}

// Selection is the position chosen for a new draft audit.
type Selection struct {
	PositionID   string
	PositionName string
	// CycleReset is true when every position had already been audited and the
	// pool was refilled with all positions.
	CycleReset bool
}

// FindToday returns the audit already assigned to the supervisor for today, or nil.
func FindToday(history []Log, supervisorID, today string) *Log {
	for i := range history {
		if history[i].SupervisorID == supervisorID && history[i].Date == today {
			l := history[i]
			return &l
		}
	}
	return nil
}

// Select picks a position uniformly from those without a completed audit in
// history. When every position is covered the cycle resets to all positions.
// Returns nil when there are no positions.
func Select(positions []Position, history []Log, rng Random) *Selection {
	if len(positions) == 0 {
		return nil
	}

	audited := make(map[string]bool)
	for _, l := range history {
		if l.Completed() {
			audited[l.PositionID] = true
		}
	}

	var pool []Position
	for _, p := range positions {
		if !audited[p.ID] {
			pool = append(pool, p)
		}
	}

	reset := false
	if len(pool) == 0 {
		reset = true
		pool = positions
	}

	chosen := pool[rng.Intn(len(pool))]
	return &Selection{PositionID: chosen.ID, PositionName: chosen.Name, CycleReset: reset}
}
