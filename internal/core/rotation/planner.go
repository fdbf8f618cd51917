// Package rotation contains the pure rotation plan generator.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Generation is inherently sequential: periods run A, B, C and positions run in
// their pre-sorted order, and every slot's tie-break reads counters accumulated
// by the slots before it. Do not parallelize across slots.
package rotation

// Period is one of the fixed shift periods of a day.
type Period string

const (
	PeriodA Period = "A"
	PeriodB Period = "B"
	PeriodC Period = "C"
)

// Periods lists the periods in processing order.
var Periods = []Period{PeriodA, PeriodB, PeriodC}

// Violation describes why a filled slot is sub-optimal. Empty means clean.
type Violation string

const (
	ViolationNone           Violation = ""
	ViolationRepeat         Violation = "repeat"
	ViolationDouble         Violation = "double"
	ViolationUnderqualified Violation = "underqualified"
)

// GapReason tags gaps. Empty means no eligible candidate existed.
type GapReason string

const (
	GapNoCandidate GapReason = ""
	GapBBSkipped   GapReason = "bb_skipped"
)

// Employee is a present operator eligible for scheduling.
type Employee struct {
	ID   string
	Name string
}

// Position is an active position of the line.
type Position struct {
	ID       string
	Name     string
	Critical bool
}

// Pair identifies an (employee, position) combination.
type Pair struct {
	EmployeeID string
	PositionID string
}

// PairSet is a set of (employee, position) pairs.
type PairSet map[Pair]struct{}

// NewPairSet builds a set from pairs.
func NewPairSet(pairs ...Pair) PairSet {
	s := make(PairSet, len(pairs))
	for _, p := range pairs {
		s[p] = struct{}{}
	}
	return s
}

// Add inserts the pair.
func (s PairSet) Add(employeeID, positionID string) {
	s[Pair{EmployeeID: employeeID, PositionID: positionID}] = struct{}{}
}

// Has reports whether the pair is present. A nil set contains nothing.
func (s PairSet) Has(employeeID, positionID string) bool {
	_, ok := s[Pair{EmployeeID: employeeID, PositionID: positionID}]
	return ok
}

// Slot is one filled (period, position) assignment.
type Slot struct {
	Period       Period
	EmployeeID   string
	EmployeeName string
	PositionID   string
	PositionName string
	Violation    Violation
}

// HasViolation reports whether the slot was filled by a sub-optimal candidate.
func (s Slot) HasViolation() bool { return s.Violation != ViolationNone }

// Gap is one unfilled (period, position).
type Gap struct {
	Period       Period
	PositionID   string
	PositionName string
	Reason       GapReason
}

// Plan is a generated rotation for one day.
type Plan struct {
	Slots       []Slot
	Gaps        []Gap
	Suggestions []Suggestion
}

// Violations returns the slots that carry a violation.
func (p Plan) Violations() []Slot {
	var out []Slot
	for _, s := range p.Slots {
		if s.HasViolation() {
			out = append(out, s)
		}
	}
	return out
}

// Input contains everything needed to generate a plan.
// All values are pre-fetched by the caller - no I/O in the planner.
type Input struct {
	// Employees are present operators. Their order is the final, stable tie-break.
	Employees []Employee
	// Positions are active positions already ordered by SortPositions.
	Positions []Position
	Qualified PairSet
	LevelTwo  PairSet
	// Levels optionally carries current levels for ranking suggestion candidates.
	// When absent, level-two pairs rank as 2 and everything else as 0.
	Levels     map[Pair]int
	Yesterday  *Plan
	Bottleneck bool
}

// tally holds the counters shared by every slot of one generation run.
type tally struct {
	today     map[string]int
	positions map[string]map[string]bool
	yesterday PairSet
}

func newTally(in Input) *tally {
	t := &tally{
		today:     make(map[string]int, len(in.Employees)),
		positions: make(map[string]map[string]bool, len(in.Employees)),
		yesterday: make(PairSet),
	}
	if in.Yesterday != nil {
		for _, s := range in.Yesterday.Slots {
			t.yesterday.Add(s.EmployeeID, s.PositionID)
		}
	}
	return t
}

func (t *tally) assignedToday(employeeID, positionID string) bool {
	return t.positions[employeeID][positionID]
}

func (t *tally) record(employeeID, positionID string) {
	t.today[employeeID]++
	if t.positions[employeeID] == nil {
		t.positions[employeeID] = make(map[string]bool)
	}
	t.positions[employeeID][positionID] = true
}

// Generate builds the day's plan. In bottleneck mode only critical positions are
// scheduled and every non-critical (period, position) is recorded as a
// bb_skipped gap.
func Generate(in Input) Plan {
	scheduled, skipped := in.Positions, []Position(nil)
	if in.Bottleneck {
		scheduled, skipped = splitCritical(in.Positions)
	}

	var plan Plan
	t := newTally(in)

	for _, period := range Periods {
		used := make(map[string]bool)
		for _, pos := range scheduled {
			chosen, violation, ok := choose(in, t, used, pos)
			if !ok {
				plan.Gaps = append(plan.Gaps, Gap{Period: period, PositionID: pos.ID, PositionName: pos.Name})
				continue
			}
			plan.Slots = append(plan.Slots, Slot{
				Period:       period,
				EmployeeID:   chosen.ID,
				EmployeeName: chosen.Name,
				PositionID:   pos.ID,
				PositionName: pos.Name,
				Violation:    violation,
			})
			used[chosen.ID] = true
			t.record(chosen.ID, pos.ID)
		}
	}

	for _, period := range Periods {
		for _, pos := range skipped {
			plan.Gaps = append(plan.Gaps, Gap{Period: period, PositionID: pos.ID, PositionName: pos.Name, Reason: GapBBSkipped})
		}
	}

	plan.Suggestions = Suggest(in, plan)
	return plan
}

// choose walks the pool cascade for one (period, position).
func choose(in Input, t *tally, used map[string]bool, pos Position) (Employee, Violation, bool) {
	var pool1, pool2, pool3, pool4 []Employee
	for _, e := range in.Employees {
		qualified := in.Qualified.Has(e.ID, pos.ID)
		switch {
		case qualified && !used[e.ID] && !t.assignedToday(e.ID, pos.ID):
			pool1 = append(pool1, e)
		case qualified && !used[e.ID]:
			pool2 = append(pool2, e)
		case qualified:
			pool3 = append(pool3, e)
		case in.LevelTwo.Has(e.ID, pos.ID) && !used[e.ID]:
			pool4 = append(pool4, e)
		}
	}

	pools := []struct {
		candidates []Employee
		violation  Violation
	}{
		{pool1, ViolationNone},
		{pool2, ViolationRepeat},
		{pool3, ViolationDouble},
		{pool4, ViolationUnderqualified},
	}
	for _, p := range pools {
		if len(p.candidates) > 0 {
			return tieBreak(p.candidates, t, pos.ID), p.violation, true
		}
	}
	return Employee{}, ViolationNone, false
}

// tieBreak prefers the fewest assignments today, then employees who did not
// work this position yesterday, then input order.
func tieBreak(pool []Employee, t *tally, positionID string) Employee {
	best := pool[0]
	for _, e := range pool[1:] {
		if less(e, best, t, positionID) {
			best = e
		}
	}
	return best
}

func less(a, b Employee, t *tally, positionID string) bool {
	ca, cb := t.today[a.ID], t.today[b.ID]
	if ca != cb {
		return ca < cb
	}
	ya, yb := t.yesterday.Has(a.ID, positionID), t.yesterday.Has(b.ID, positionID)
	return !ya && yb
}

func splitCritical(positions []Position) (critical, other []Position) {
	for _, p := range positions {
		if p.Critical {
			critical = append(critical, p)
		} else {
			other = append(other, p)
		}
	}
	return critical, other
}
