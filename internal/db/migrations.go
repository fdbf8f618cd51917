package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order. Version 1 is the
// baseline; later entries upgrade databases created before the change.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "baseline",
		Up:      func(*sql.Tx) error { return nil },
	},
	{
		Version: 2,
		Name:    "add_activity_logs",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "add_recommendation_action_columns",
		Up:      migrationV3,
	},
}

// LatestVersion returns the highest known migration version.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB, log *zap.Logger) error {
	if err := createVersionTable(database); err != nil {
		return err
	}

	var currentVersion int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		log.Info("running migration", zap.Int("version", migration.Version), zap.String("name", migration.Name))

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// migrationV2 adds the per-line activity log.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	if err != nil {
		return fmt.Errorf("failed to create activity_logs: %w", err)
	}
	return nil
}

// migrationV3 adds who actioned a recommendation and with what outcome.
func migrationV3(tx *sql.Tx) error {
	exists, err := columnExists(tx, "pending_recommendations", "actioned_result")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	for _, stmt := range []string{
		"ALTER TABLE pending_recommendations ADD COLUMN actioned_at DATETIME",
		"ALTER TABLE pending_recommendations ADD COLUMN actioned_by TEXT",
		"ALTER TABLE pending_recommendations ADD COLUMN actioned_result TEXT",
		"ALTER TABLE pending_recommendations ADD COLUMN action_note TEXT",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to alter pending_recommendations: %w", err)
		}
	}
	return nil
}

func columnExists(tx *sql.Tx, table, column string) (bool, error) {
	var count int
	err := tx.QueryRow(
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s: %w", table, err)
	}
	return count > 0, nil
}
