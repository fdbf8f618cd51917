// Package crosstraining computes the 3x3 cross-training picture of a line:
// every position should have three qualified people and every person should
// be qualified on three positions.
// This is part of the Functional Core - no I/O, only pure functions.
package crosstraining

import (
	"sort"

	"github.com/example/skillmatrix/internal/core/skill"
)

// Target is the number of qualified pairs each position and employee should reach.
const Target = 3

// MaxCandidates caps the training candidates listed per recommendation.
const MaxCandidates = 5

// Status grades a count against Target.
type Status string

const (
	StatusMet      Status = "met"
	StatusPartial  Status = "partial"
	StatusCritical Status = "critical"
)

func statusFor(count int) Status {
	switch {
	case count >= Target:
		return StatusMet
	case count > 0:
		return StatusPartial
	default:
		return StatusCritical
	}
}

// Employee is a roster entry. Inactive employees are ignored.
type Employee struct {
	ID     string
	Name   string
	Active bool
}

// Position is a station on the line.
type Position struct {
	ID       string
	Name     string
	Critical bool
}

// PositionStatus is the coverage of one position.
type PositionStatus struct {
	ID           string
	Name         string
	Critical     bool
	Count        int
	Status       Status
	QualifiedIDs []string
}

// EmployeeStatus is the breadth of one employee.
type EmployeeStatus struct {
	ID          string
	Name        string
	Count       int
	Status      Status
	PositionIDs []string
}

// Candidate is an employee who could be trained on a position.
type Candidate struct {
	EmployeeID string
	Name       string
	Level      int
	// HasRecord is false when no skill record exists for the pair.
	HasRecord bool
}

// Recommendation lists who to train on an under-covered position.
type Recommendation struct {
	PositionID     string
	PositionName   string
	Critical       bool
	Need           int
	QualifiedCount int
	Candidates     []Candidate
}

// Summary aggregates the analysis.
type Summary struct {
	PositionsMet      int
	PositionsPartial  int
	PositionsCritical int
	EmployeesMet      int
	EmployeesPartial  int
	EmployeesCritical int
	TotalSlots        int
	FilledSlots       int
	FillRate          float64
}

// Analysis is the full cross-training report.
type Analysis struct {
	Positions       []PositionStatus
	Employees       []EmployeeStatus
	Recommendations []Recommendation
	Summary         Summary
}

// Analyze builds the report from the line's roster, positions, and skill records.
func Analyze(employees []Employee, positions []Position, records []skill.Record) Analysis {
	byPair := make(map[skill.Pair]*skill.Record, len(records))
	for i := range records {
		byPair[records[i].Key()] = &records[i]
	}
	qualified := func(empID, posID string) bool {
		return skill.IsQualified(byPair[skill.Pair{EmployeeID: empID, PositionID: posID}])
	}

	var active []Employee
	for _, e := range employees {
		if e.Active {
			active = append(active, e)
		}
	}

	var a Analysis

	for _, p := range positions {
		ps := PositionStatus{ID: p.ID, Name: p.Name, Critical: p.Critical}
		for _, e := range active {
			if qualified(e.ID, p.ID) {
				ps.QualifiedIDs = append(ps.QualifiedIDs, e.ID)
			}
		}
		ps.Count = len(ps.QualifiedIDs)
		ps.Status = statusFor(ps.Count)
		a.Positions = append(a.Positions, ps)
	}

	for _, e := range active {
		es := EmployeeStatus{ID: e.ID, Name: e.Name}
		for _, p := range positions {
			if qualified(e.ID, p.ID) {
				es.PositionIDs = append(es.PositionIDs, p.ID)
			}
		}
		es.Count = len(es.PositionIDs)
		es.Status = statusFor(es.Count)
		a.Employees = append(a.Employees, es)
	}

	for _, ps := range a.Positions {
		if ps.Count >= Target {
			continue
		}
		rec := Recommendation{
			PositionID:     ps.ID,
			PositionName:   ps.Name,
			Critical:       ps.Critical,
			Need:           Target - ps.Count,
			QualifiedCount: ps.Count,
		}
		for _, e := range active {
			if qualified(e.ID, ps.ID) {
				continue
			}
			c := Candidate{EmployeeID: e.ID, Name: e.Name}
			if r := byPair[skill.Pair{EmployeeID: e.ID, PositionID: ps.ID}]; r != nil {
				c.Level = r.CurrentLevel
				c.HasRecord = true
			}
			rec.Candidates = append(rec.Candidates, c)
		}
		sort.SliceStable(rec.Candidates, func(i, j int) bool {
			return rec.Candidates[i].Level > rec.Candidates[j].Level
		})
		if len(rec.Candidates) > MaxCandidates {
			rec.Candidates = rec.Candidates[:MaxCandidates]
		}
		a.Recommendations = append(a.Recommendations, rec)
	}
	sort.SliceStable(a.Recommendations, func(i, j int) bool {
		ri, rj := a.Recommendations[i], a.Recommendations[j]
		if ri.QualifiedCount != rj.QualifiedCount {
			return ri.QualifiedCount < rj.QualifiedCount
		}
		return ri.Critical && !rj.Critical
	})

	a.Summary = summarize(a, active, positions, byPair)
	return a
}

func summarize(a Analysis, active []Employee, positions []Position, byPair map[skill.Pair]*skill.Record) Summary {
	var s Summary
	for _, p := range a.Positions {
		switch p.Status {
		case StatusMet:
			s.PositionsMet++
		case StatusPartial:
			s.PositionsPartial++
		default:
			s.PositionsCritical++
		}
	}
	for _, e := range a.Employees {
		switch e.Status {
		case StatusMet:
			s.EmployeesMet++
		case StatusPartial:
			s.EmployeesPartial++
		default:
			s.EmployeesCritical++
		}
	}

	s.TotalSlots = len(active) * len(positions)
	for _, e := range active {
		for _, p := range positions {
			if r := byPair[skill.Pair{EmployeeID: e.ID, PositionID: p.ID}]; r != nil && r.CurrentLevel > 0 {
				s.FilledSlots++
			}
		}
	}
	if s.TotalSlots > 0 {
		s.FillRate = float64(s.FilledSlots) / float64(s.TotalSlots)
	}
	return s
}
