package delta

import (
	"fmt"
	"strings"
	"time"
)

// CodeInvalidSeed rejects a seed that is missing its line or roster.
const CodeInvalidSeed IntegrityCode = "invalid_seed"

// ErrInvalidSeed is the errors.Is sentinel for CodeInvalidSeed.
var ErrInvalidSeed = &IntegrityError{Code: CodeInvalidSeed}

// Seed carries an authority's master data for one line to a field device, so
// that ids minted on the field device refer to the authority's employees and
// positions.
type Seed struct {
	SchemaVersion     int            `json:"schemaVersion"`
	SeedID            string         `json:"seedId"`
	AuthorityDeviceID string         `json:"authorityDeviceId"`
	LineID            string         `json:"lineId"`
	LineName          string         `json:"lineName"`
	LineShift         string         `json:"lineShift,omitempty"`
	SeedVersion       int64          `json:"seedVersion"`
	UsersVersion      int64          `json:"usersVersion"`
	GeneratedAt       time.Time      `json:"generatedAt"`
	Employees         []SeedEmployee `json:"employees"`
	Positions         []SeedPosition `json:"positions"`
}

// SeedEmployee is an employee as shipped in a seed.
type SeedEmployee struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// SeedPosition is a position as shipped in a seed.
type SeedPosition struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Critical  bool   `json:"critical"`
	SortOrder int    `json:"sortOrder"`
	Active    bool   `json:"active"`
}

// SeedInput carries everything BuildSeed needs.
type SeedInput struct {
	SeedID      string
	DeviceID    string
	GeneratedAt time.Time
	LineID      string
	LineName    string
	LineShift   string
	Employees   []SeedEmployee
	Positions   []SeedPosition
}

// BuildSeed assembles a seed. Inactive employees stay behind; every position
// travels so historical records keep resolving. Both versions are the
// generation time in Unix milliseconds.
func BuildSeed(in SeedInput) *Seed {
	employees := []SeedEmployee{}
	for _, e := range in.Employees {
		if e.Active {
			employees = append(employees, e)
		}
	}
	positions := append([]SeedPosition{}, in.Positions...)

	version := in.GeneratedAt.UnixMilli()
	return &Seed{
		SchemaVersion:     SchemaVersion,
		SeedID:            in.SeedID,
		AuthorityDeviceID: in.DeviceID,
		LineID:            in.LineID,
		LineName:          in.LineName,
		LineShift:         in.LineShift,
		SeedVersion:       version,
		UsersVersion:      version,
		GeneratedAt:       in.GeneratedAt.UTC(),
		Employees:         employees,
		Positions:         positions,
	}
}

// VerifySeed checks a received seed before anything is written.
func VerifySeed(s *Seed) error {
	if s.SchemaVersion != SchemaVersion {
		return &IntegrityError{
			Code:   CodeUnsupportedSchema,
			Detail: fmt.Sprintf("got %d, want %d", s.SchemaVersion, SchemaVersion),
		}
	}
	if s.LineID == "" || s.Employees == nil {
		return &IntegrityError{Code: CodeInvalidSeed, Detail: "line and employees are required"}
	}
	for _, e := range s.Employees {
		if e.ID == "" || strings.TrimSpace(e.Name) == "" {
			return &IntegrityError{Code: CodeInvalidSeed, Detail: "employee without id or name"}
		}
	}
	for _, p := range s.Positions {
		if p.ID == "" || strings.TrimSpace(p.Name) == "" {
			return &IntegrityError{Code: CodeInvalidSeed, Detail: "position without id or name"}
		}
	}
	return nil
}

// SeedConflict is a seeded entity that could not be applied because a local
// entity on the line already uses its name under another id.
type SeedConflict struct {
	Kind    string // employee or position
	ID      string
	Name    string
	LocalID string
}

// SeedPlan lists what applying a seed changes on a field device.
type SeedPlan struct {
	CreateEmployees []SeedEmployee
	UpdateEmployees []SeedEmployee
	CreatePositions []SeedPosition
	UpdatePositions []SeedPosition
	Conflicts       []SeedConflict
}

// PlanSeed matches a seed against the line's local employees and positions.
// A seeded entity updates the local one with the same id, is created when
// neither its id nor its name is taken, and conflicts when its name belongs
// to a different local id. Unchanged entities are left out.
func PlanSeed(s *Seed, localEmployees []SeedEmployee, localPositions []SeedPosition) SeedPlan {
	var plan SeedPlan

	empByID, empByName := indexSeeded(localEmployees, func(e SeedEmployee) (string, string) { return e.ID, e.Name })
	for _, e := range s.Employees {
		if local, ok := empByID[e.ID]; ok {
			if local != e {
				plan.UpdateEmployees = append(plan.UpdateEmployees, e)
			}
			continue
		}
		if local, ok := empByName[foldName(e.Name)]; ok {
			plan.Conflicts = append(plan.Conflicts, SeedConflict{Kind: "employee", ID: e.ID, Name: e.Name, LocalID: local.ID})
			continue
		}
		plan.CreateEmployees = append(plan.CreateEmployees, e)
	}

	posByID, posByName := indexSeeded(localPositions, func(p SeedPosition) (string, string) { return p.ID, p.Name })
	for _, p := range s.Positions {
		if local, ok := posByID[p.ID]; ok {
			if local != p {
				plan.UpdatePositions = append(plan.UpdatePositions, p)
			}
			continue
		}
		if local, ok := posByName[foldName(p.Name)]; ok {
			plan.Conflicts = append(plan.Conflicts, SeedConflict{Kind: "position", ID: p.ID, Name: p.Name, LocalID: local.ID})
			continue
		}
		plan.CreatePositions = append(plan.CreatePositions, p)
	}
	return plan
}

func indexSeeded[T any](items []T, key func(T) (id, name string)) (map[string]T, map[string]T) {
	byID := make(map[string]T, len(items))
	byName := make(map[string]T, len(items))
	for _, it := range items {
		id, name := key(it)
		byID[id] = it
		byName[foldName(name)] = it
	}
	return byID, byName
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
