package rotation

import "sort"

// MaxCandidates caps the candidates listed per suggestion.
const MaxCandidates = 5

// Candidate is an employee who could be trained for a position.
type Candidate struct {
	EmployeeID   string
	Name         string
	CurrentLevel int
}

// Suggestion flags a position that needed violations or gaps to staff.
type Suggestion struct {
	PositionID     string
	PositionName   string
	Urgency        int
	QualifiedCount int
	Candidates     []Candidate
}

// Urgency counts violations and real gaps per position. bb_skipped gaps are
// informational and never counted.
func Urgency(plan Plan) map[string]int {
	scores := make(map[string]int)
	for _, s := range plan.Slots {
		if s.HasViolation() {
			scores[s.PositionID]++
		}
	}
	for _, g := range plan.Gaps {
		if g.Reason == GapBBSkipped {
			continue
		}
		scores[g.PositionID]++
	}
	return scores
}

// Suggest ranks positions with positive urgency, most urgent first, ties broken
// by fewer qualified employees. Each suggestion lists up to MaxCandidates
// unqualified employees by descending current level.
func Suggest(in Input, plan Plan) []Suggestion {
	scores := Urgency(plan)

	var out []Suggestion
	for _, pos := range in.Positions {
		score := scores[pos.ID]
		if score == 0 {
			continue
		}
		out = append(out, Suggestion{
			PositionID:     pos.ID,
			PositionName:   pos.Name,
			Urgency:        score,
			QualifiedCount: qualifiedCount(in, pos.ID),
			Candidates:     candidates(in, pos.ID),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Urgency != out[j].Urgency {
			return out[i].Urgency > out[j].Urgency
		}
		return out[i].QualifiedCount < out[j].QualifiedCount
	})
	return out
}

func qualifiedCount(in Input, positionID string) int {
	n := 0
	for _, e := range in.Employees {
		if in.Qualified.Has(e.ID, positionID) {
			n++
		}
	}
	return n
}

func candidates(in Input, positionID string) []Candidate {
	var out []Candidate
	for _, e := range in.Employees {
		if in.Qualified.Has(e.ID, positionID) {
			continue
		}
		out = append(out, Candidate{EmployeeID: e.ID, Name: e.Name, CurrentLevel: levelOf(in, e.ID, positionID)})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CurrentLevel > out[j].CurrentLevel
	})
	if len(out) > MaxCandidates {
		out = out[:MaxCandidates]
	}
	return out
}

func levelOf(in Input, employeeID, positionID string) int {
	if lvl, ok := in.Levels[Pair{EmployeeID: employeeID, PositionID: positionID}]; ok {
		return lvl
	}
	if in.LevelTwo.Has(employeeID, positionID) {
		return 2
	}
	return 0
}
