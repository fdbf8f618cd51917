package rotation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func employees(n int) []Employee {
	out := make([]Employee, n)
	for i := range out {
		out[i] = Employee{ID: fmt.Sprintf("EMP-%03d", i+1), Name: fmt.Sprintf("Worker %d", i+1)}
	}
	return out
}

func slotsFor(plan Plan, positionID string) map[Period]Slot {
	out := make(map[Period]Slot)
	for _, s := range plan.Slots {
		if s.PositionID == positionID {
			out[s.Period] = s
		}
	}
	return out
}

func TestGenerate_SingleQualifiedEmployee(t *testing.T) {
	emps := employees(5)
	positions := []Position{{ID: "P1", Name: "Press"}, {ID: "P2", Name: "Weld"}}
	in := Input{
		Employees: emps,
		Positions: positions,
		Qualified: NewPairSet(Pair{"EMP-001", "P1"}),
	}

	plan := Generate(in)

	p1 := slotsFor(plan, "P1")
	require.Contains(t, p1, PeriodA)
	assert.Equal(t, "EMP-001", p1[PeriodA].EmployeeID)
	assert.False(t, p1[PeriodA].HasViolation())

	// The only qualified employee is a repeat for the later periods.
	for _, period := range []Period{PeriodB, PeriodC} {
		assert.Equal(t, ViolationRepeat, p1[period].Violation, "period %s", period)
	}

	assert.Equal(t, 2, Urgency(plan)["P1"])
	assert.Equal(t, 3, Urgency(plan)["P2"], "P2 has no candidates in any period")
	assert.Len(t, plan.Gaps, 3)
}

func TestGenerate_GapsWhenOnlyCandidateIsDoubleBookedElsewhere(t *testing.T) {
	emps := employees(1)
	positions := []Position{{ID: "P1"}, {ID: "P2"}}
	in := Input{
		Employees: emps,
		Positions: positions,
		Qualified: NewPairSet(Pair{"EMP-001", "P1"}),
		LevelTwo:  NewPairSet(Pair{"EMP-001", "P2"}),
	}

	plan := Generate(in)

	// EMP-001 takes P1 each period; P2's level-2 fallback requires an unused employee.
	p2 := slotsFor(plan, "P2")
	assert.Empty(t, p2)
	assert.Len(t, plan.Gaps, 3)
	for _, g := range plan.Gaps {
		assert.Equal(t, "P2", g.PositionID)
		assert.Equal(t, GapNoCandidate, g.Reason)
	}
}

func TestGenerate_PoolCascade(t *testing.T) {
	emps := []Employee{{ID: "E1"}, {ID: "E2"}}
	positions := []Position{{ID: "P1"}, {ID: "P2"}, {ID: "P3"}}
	in := Input{
		Employees: emps,
		Positions: positions,
		Qualified: NewPairSet(Pair{"E1", "P1"}, Pair{"E1", "P2"}),
		LevelTwo:  NewPairSet(Pair{"E2", "P3"}),
	}

	plan := Generate(in)
	a := map[string]Slot{}
	for _, s := range plan.Slots {
		if s.Period == PeriodA {
			a[s.PositionID] = s
		}
	}

	assert.Equal(t, "E1", a["P1"].EmployeeID)
	assert.Equal(t, ViolationNone, a["P1"].Violation)
	assert.Equal(t, "E1", a["P2"].EmployeeID)
	assert.Equal(t, ViolationDouble, a["P2"].Violation)
	assert.Equal(t, "E2", a["P3"].EmployeeID)
	assert.Equal(t, ViolationUnderqualified, a["P3"].Violation)
}

func TestGenerate_TieBreakFewestAssignmentsThenYesterday(t *testing.T) {
	emps := []Employee{{ID: "E1"}, {ID: "E2"}, {ID: "E3"}}
	positions := []Position{{ID: "P1"}}
	qualified := NewPairSet(Pair{"E1", "P1"}, Pair{"E2", "P1"}, Pair{"E3", "P1"})
	yesterday := &Plan{Slots: []Slot{{EmployeeID: "E1", PositionID: "P1"}}}

	plan := Generate(Input{Employees: emps, Positions: positions, Qualified: qualified, Yesterday: yesterday})

	require.Len(t, plan.Slots, 3)
	// E1 worked P1 yesterday, so E2 leads; each later period picks the least used.
	assert.Equal(t, "E2", plan.Slots[0].EmployeeID)
	assert.Equal(t, "E3", plan.Slots[1].EmployeeID)
	assert.Equal(t, "E1", plan.Slots[2].EmployeeID)
	assert.Empty(t, plan.Violations())
}

func TestGenerate_InputOrderIsFinalTieBreak(t *testing.T) {
	emps := []Employee{{ID: "E9"}, {ID: "E1"}}
	plan := Generate(Input{
		Employees: emps,
		Positions: []Position{{ID: "P1"}},
		Qualified: NewPairSet(Pair{"E9", "P1"}, Pair{"E1", "P1"}),
	})
	require.NotEmpty(t, plan.Slots)
	assert.Equal(t, "E9", plan.Slots[0].EmployeeID)
}

func TestGenerate_CleanPlanNeverDoubleBooks(t *testing.T) {
	emps := employees(6)
	positions := []Position{{ID: "P1", Critical: true}, {ID: "P2"}, {ID: "P3"}}
	qualified := make(PairSet)
	for _, e := range emps {
		for _, p := range positions {
			qualified.Add(e.ID, p.ID)
		}
	}

	plan := Generate(Input{Employees: emps, Positions: positions, Qualified: qualified})
	require.Empty(t, plan.Violations())
	require.Empty(t, plan.Gaps)

	seen := map[Period]map[string]bool{}
	for _, s := range plan.Slots {
		if seen[s.Period] == nil {
			seen[s.Period] = map[string]bool{}
		}
		assert.False(t, seen[s.Period][s.EmployeeID], "%s double-booked in %s", s.EmployeeID, s.Period)
		seen[s.Period][s.EmployeeID] = true
	}
	assert.Empty(t, plan.Suggestions)
}

func TestGenerate_BottleneckMode(t *testing.T) {
	emps := employees(3)
	positions := []Position{{ID: "CRIT", Critical: true}, {ID: "SIDE"}}
	qualified := NewPairSet(Pair{"EMP-001", "CRIT"}, Pair{"EMP-002", "CRIT"}, Pair{"EMP-003", "CRIT"}, Pair{"EMP-001", "SIDE"})

	plan := Generate(Input{Employees: emps, Positions: positions, Qualified: qualified, Bottleneck: true})

	for _, s := range plan.Slots {
		assert.Equal(t, "CRIT", s.PositionID)
	}
	require.Len(t, plan.Gaps, 3)
	for i, g := range plan.Gaps {
		assert.Equal(t, "SIDE", g.PositionID)
		assert.Equal(t, GapBBSkipped, g.Reason)
		assert.Equal(t, Periods[i], g.Period)
	}
	assert.Zero(t, Urgency(plan)["SIDE"], "bb_skipped gaps are not urgent")
	assert.Empty(t, plan.Suggestions)
}

func TestSuggest_OrderingAndCandidates(t *testing.T) {
	emps := employees(7)
	in := Input{
		Employees: emps,
		Positions: []Position{{ID: "P1"}, {ID: "P2"}},
		Qualified: NewPairSet(Pair{"EMP-001", "P2"}),
		LevelTwo:  NewPairSet(Pair{"EMP-004", "P1"}),
		Levels:    map[Pair]int{{"EMP-006", "P1"}: 1},
	}
	plan := Plan{Gaps: []Gap{
		{Period: PeriodA, PositionID: "P1"},
		{Period: PeriodA, PositionID: "P2"},
		{Period: PeriodB, PositionID: "P2", Reason: GapBBSkipped},
	}}

	got := Suggest(in, plan)
	require.Len(t, got, 2)
	// Equal urgency: P1 has zero qualified employees so it ranks first.
	assert.Equal(t, "P1", got[0].PositionID)
	assert.Equal(t, 0, got[0].QualifiedCount)
	assert.Equal(t, 1, got[1].QualifiedCount)

	require.Len(t, got[0].Candidates, MaxCandidates)
	assert.Equal(t, "EMP-004", got[0].Candidates[0].EmployeeID)
	assert.Equal(t, 2, got[0].Candidates[0].CurrentLevel)
	assert.Equal(t, "EMP-006", got[0].Candidates[1].EmployeeID)

	for _, c := range got[1].Candidates {
		assert.NotEqual(t, "EMP-001", c.EmployeeID, "qualified employees are never candidates")
	}
}

func TestSortPositions(t *testing.T) {
	positions := []Position{{ID: "A"}, {ID: "B", Critical: true}, {ID: "C"}, {ID: "D", Critical: true}}
	counts := map[string]int{"A": 2, "B": 3, "C": 0, "D": 1}

	got := SortPositions(positions, counts)

	ids := make([]string, len(got))
	for i, p := range got {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"D", "B", "C", "A"}, ids)
	assert.Equal(t, "A", positions[0].ID, "input untouched")
}

func TestPlansToPrune(t *testing.T) {
	dates := []string{"2026-01-03", "2026-01-01", "2026-01-02"}
	assert.Equal(t, []string{"2026-01-01"}, PlansToPrune(dates, 2))
	assert.Nil(t, PlansToPrune(dates, 3))
	assert.Nil(t, PlansToPrune(dates, 0))
}

func TestPickYesterday(t *testing.T) {
	dates := []string{"2026-01-05", "2026-01-01", "2026-01-03", "2026-01-04"}
	assert.Equal(t, "2026-01-04", PickYesterday(dates, "2026-01-05"))
	assert.Equal(t, "", PickYesterday(dates, "2026-01-01"))
}
