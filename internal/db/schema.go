package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL():
//
//  1. No hardcoded schemas: repository tests must use db.GetSchemaSQL() and
//     the seed helpers instead of their own CREATE TABLE statements.
//
//  2. Immediate failure on drift: If repository code references a column that
//     doesn't exist in this schema, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Production lines
CREATE TABLE IF NOT EXISTS lines (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	shift TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_lines_name ON lines(name COLLATE NOCASE);

-- Employees (deactivated, never deleted)
CREATE TABLE IF NOT EXISTS employees (
	id TEXT PRIMARY KEY,
	line_id TEXT NOT NULL,
	name TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT 'operator' CHECK (role IN ('operator', 'team_lead', 'supervisor')),
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (line_id) REFERENCES lines(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_line_name ON employees(line_id, name COLLATE NOCASE);

-- Positions (deactivated, never deleted)
CREATE TABLE IF NOT EXISTS positions (
	id TEXT PRIMARY KEY,
	line_id TEXT NOT NULL,
	name TEXT NOT NULL,
	critical INTEGER NOT NULL DEFAULT 0,
	sort_order INTEGER NOT NULL DEFAULT 0,
	active INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (line_id) REFERENCES lines(id)
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_positions_line_name ON positions(line_id, name COLLATE NOCASE);

-- Skill records, one per (employee, position). Approvals and history are JSON arrays.
CREATE TABLE IF NOT EXISTS skill_records (
	employee_id TEXT NOT NULL,
	position_id TEXT NOT NULL,
	line_id TEXT NOT NULL,
	current_level INTEGER NOT NULL DEFAULT 0 CHECK (current_level BETWEEN 0 AND 4),
	requested_level INTEGER CHECK (requested_level BETWEEN 1 AND 4),
	status TEXT NOT NULL DEFAULT 'approved' CHECK (status IN ('approved', 'pending_dual')),
	approvals TEXT NOT NULL DEFAULT '[]',
	history TEXT NOT NULL DEFAULT '[]',
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (employee_id, position_id),
	FOREIGN KEY (employee_id) REFERENCES employees(id),
	FOREIGN KEY (position_id) REFERENCES positions(id)
);

CREATE INDEX IF NOT EXISTS idx_skill_records_line ON skill_records(line_id);

-- Attendance, one per (employee, date)
CREATE TABLE IF NOT EXISTS attendance (
	employee_id TEXT NOT NULL,
	date TEXT NOT NULL,
	line_id TEXT NOT NULL,
	shift TEXT,
	status TEXT NOT NULL CHECK (status IN ('present', 'partial', 'absent')),
	PRIMARY KEY (employee_id, date),
	FOREIGN KEY (employee_id) REFERENCES employees(id)
);

CREATE INDEX IF NOT EXISTS idx_attendance_line_date ON attendance(line_id, date);

-- Rotation plans, one per (line, date). The plan body is JSON.
CREATE TABLE IF NOT EXISTS rotation_plans (
	line_id TEXT NOT NULL,
	date TEXT NOT NULL,
	bottleneck INTEGER NOT NULL DEFAULT 0,
	plan TEXT NOT NULL,
	generated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (line_id, date),
	FOREIGN KEY (line_id) REFERENCES lines(id)
);

-- Compliance audits
CREATE TABLE IF NOT EXISTS audit_logs (
	id TEXT PRIMARY KEY,
	line_id TEXT NOT NULL,
	supervisor_id TEXT NOT NULL,
	position_id TEXT NOT NULL,
	date TEXT NOT NULL,
	result TEXT CHECK (result IN ('pass', 'fail')),
	notes TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	completed_at DATETIME,
	FOREIGN KEY (line_id) REFERENCES lines(id)
);

CREATE INDEX IF NOT EXISTS idx_audit_logs_supervisor ON audit_logs(line_id, supervisor_id, date);

-- Training logs, keyed by device-scoped client id. References may be NULL
-- when they did not resolve at the authority.
CREATE TABLE IF NOT EXISTS training_logs (
	client_id TEXT PRIMARY KEY,
	device_id TEXT NOT NULL,
	line_id TEXT NOT NULL,
	employee_id TEXT,
	employee_name TEXT NOT NULL DEFAULT '',
	employee_resolved INTEGER NOT NULL DEFAULT 1,
	position_id TEXT,
	position_name TEXT NOT NULL DEFAULT '',
	position_resolved INTEGER NOT NULL DEFAULT 1,
	trainer_name TEXT,
	created_by_name TEXT NOT NULL DEFAULT '',
	created_by_role TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	notes TEXT,
	recommend_level_change INTEGER NOT NULL DEFAULT 0,
	shift TEXT,
	timestamp DATETIME NOT NULL,
	synced_to_authority INTEGER NOT NULL DEFAULT 0,
	imported_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_training_logs_line ON training_logs(line_id, synced_to_authority);

-- Pending recommendations, keyed by device-scoped client id
CREATE TABLE IF NOT EXISTS pending_recommendations (
	client_id TEXT PRIMARY KEY,
	device_id TEXT NOT NULL,
	line_id TEXT NOT NULL,
	training_log_id TEXT NOT NULL DEFAULT '',
	employee_id TEXT NOT NULL,
	employee_name TEXT NOT NULL DEFAULT '',
	position_id TEXT NOT NULL,
	position_name TEXT NOT NULL DEFAULT '',
	current_level INTEGER,
	suggested_level INTEGER,
	created_by_name TEXT NOT NULL DEFAULT '',
	created_by_role TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'actioned')),
	synced_to_authority INTEGER NOT NULL DEFAULT 0,
	actioned_at DATETIME,
	actioned_by TEXT,
	actioned_result TEXT,
	action_note TEXT
);

CREATE INDEX IF NOT EXISTS idx_recommendations_pair ON pending_recommendations(employee_id, position_id);
CREATE INDEX IF NOT EXISTS idx_recommendations_line ON pending_recommendations(line_id, status);

-- Device-local counters for client ids
CREATE TABLE IF NOT EXISTS sequences (
	name TEXT PRIMARY KEY,
	value INTEGER NOT NULL DEFAULT 0
);

-- Activity log (entity changes per line)
CREATE TABLE IF NOT EXISTS activity_logs (
	id TEXT PRIMARY KEY,
	line_id TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	entity_type TEXT NOT NULL,
	entity_id TEXT NOT NULL,
	action TEXT NOT NULL CHECK (action IN ('create', 'update', 'delete')),
	field_name TEXT,
	old_value TEXT,
	new_value TEXT
);

CREATE INDEX IF NOT EXISTS idx_activity_logs_line ON activity_logs(line_id, timestamp);
`

// InitSchema prepares a database: fresh databases get SchemaSQL with every
// migration marked applied; existing ones get pending migrations.
func InitSchema(database *sql.DB, log *zap.Logger) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(database, log)
	}

	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	log.Debug("created fresh schema", zap.Int("version", LatestVersion()))
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
