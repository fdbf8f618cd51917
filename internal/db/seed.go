package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with a small demo line: eight
// operators, a supervisor, a team lead, five positions and a spread of
// skill levels that leaves some positions under-covered.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()

	if _, err := database.Exec(
		"INSERT INTO lines (id, name, shift, created_at) VALUES (?, ?, ?, ?)",
		"LINE-001", "Assembly 1", "day", now,
	); err != nil {
		return fmt.Errorf("seed lines: %w", err)
	}

	employees := []struct{ id, name, role string }{
		{"EMP-001", "Ana Costa", "operator"},
		{"EMP-002", "Ben Okafor", "operator"},
		{"EMP-003", "Chen Wei", "operator"},
		{"EMP-004", "Dana Ruiz", "operator"},
		{"EMP-005", "Eli Novak", "operator"},
		{"EMP-006", "Fatima Haddad", "operator"},
		{"EMP-007", "Goran Petrov", "operator"},
		{"EMP-008", "Hana Sato", "operator"},
		{"EMP-009", "Ivo Marsh", "team_lead"},
		{"EMP-010", "Jo Brandt", "supervisor"},
	}
	for _, e := range employees {
		if _, err := database.Exec(
			"INSERT INTO employees (id, line_id, name, role, created_at, updated_at) VALUES (?, 'LINE-001', ?, ?, ?, ?)",
			e.id, e.name, e.role, now, now,
		); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}

	positions := []struct {
		id, name string
		critical bool
	}{
		{"POS-001", "Press", true},
		{"POS-002", "Weld", true},
		{"POS-003", "Paint", false},
		{"POS-004", "Inspect", false},
		{"POS-005", "Pack", false},
	}
	for i, p := range positions {
		if _, err := database.Exec(
			"INSERT INTO positions (id, line_id, name, critical, sort_order, created_at, updated_at) VALUES (?, 'LINE-001', ?, ?, ?, ?, ?)",
			p.id, p.name, p.critical, i, now, now,
		); err != nil {
			return fmt.Errorf("seed positions: %w", err)
		}
	}

	// levels[employee][position]
	levels := [][]int{
		{4, 3, 2, 0, 3},
		{3, 0, 3, 3, 1},
		{2, 3, 0, 4, 3},
		{3, 2, 1, 0, 3},
		{0, 1, 3, 2, 4},
		{1, 0, 2, 3, 3},
		{0, 0, 1, 1, 2},
		{2, 2, 0, 0, 0},
	}
	for ei, row := range levels {
		for pi, level := range row {
			history := "[]"
			if level > 0 {
				history = fmt.Sprintf(`[{"Type":"import","FromLevel":0,"ToLevel":%d,"By":"Excel Import","Role":"","Reason":"","At":%q}]`,
					level, now.Format(time.RFC3339Nano))
			}
			if _, err := database.Exec(
				"INSERT INTO skill_records (employee_id, position_id, line_id, current_level, status, history, updated_at) VALUES (?, ?, 'LINE-001', ?, 'approved', ?, ?)",
				employees[ei].id, positions[pi].id, level, history, now,
			); err != nil {
				return fmt.Errorf("seed skill records: %w", err)
			}
		}
	}

	return nil
}
