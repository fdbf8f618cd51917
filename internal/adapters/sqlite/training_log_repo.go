package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// TrainingLogRepository implements secondary.TrainingLogRepository with SQLite.
// Logs are append-only; only the synced flag ever changes.
type TrainingLogRepository struct {
	db *sql.DB
}

// NewTrainingLogRepository creates a new SQLite training log repository.
func NewTrainingLogRepository(db *sql.DB) *TrainingLogRepository {
	return &TrainingLogRepository{db: db}
}

const trainingLogColumns = `client_id, device_id, line_id, employee_id, employee_name, employee_resolved,
	position_id, position_name, position_resolved, trainer_name, created_by_name, created_by_role,
	duration_minutes, notes, recommend_level_change, shift, timestamp, synced_to_authority, imported_at`

// Insert adds a log keyed by client id. An existing client id is reported
// as AlreadyExists, never overwritten.
func (r *TrainingLogRepository) Insert(ctx context.Context, log *delta.TrainingLog) (secondary.InsertOutcome, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO training_logs ("+trainingLogColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		log.ClientID, log.DeviceID, log.LineID,
		nullStringPtr(log.EmployeeID), log.EmployeeName, log.EmployeeResolved,
		nullStringPtr(log.PositionID), log.PositionName, log.PositionResolved,
		nullString(log.TrainerName), log.CreatedByName, log.CreatedByRole,
		log.DurationMinutes, nullString(log.Notes), log.RecommendLevelChange, nullString(log.Shift),
		log.Timestamp.UTC(), log.SyncedToAuthority, nullTime(log.ImportedAt),
	)
	outcome, err := classifyInsert(err)
	if err != nil {
		return outcome, fmt.Errorf("failed to insert training log: %w", err)
	}
	return outcome, nil
}

// GetByClientID retrieves a log. Returns nil, nil when none exists.
func (r *TrainingLogRepository) GetByClientID(ctx context.Context, clientID string) (*delta.TrainingLog, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+trainingLogColumns+" FROM training_logs WHERE client_id = ?", clientID)
	log, err := scanTrainingLog(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get training log: %w", err)
	}
	return log, nil
}

// ListUnsynced retrieves logs of a line not yet acknowledged, oldest first.
func (r *TrainingLogRepository) ListUnsynced(ctx context.Context, lineID string) ([]delta.TrainingLog, error) {
	return r.list(ctx,
		"SELECT "+trainingLogColumns+" FROM training_logs WHERE line_id = ? AND synced_to_authority = 0 ORDER BY timestamp, client_id",
		lineID,
	)
}

// ListRecent retrieves the newest logs of a line.
func (r *TrainingLogRepository) ListRecent(ctx context.Context, lineID string, limit int) ([]delta.TrainingLog, error) {
	query := "SELECT " + trainingLogColumns + " FROM training_logs WHERE line_id = ? ORDER BY timestamp DESC, client_id DESC"
	args := []any{lineID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *TrainingLogRepository) list(ctx context.Context, query string, args ...any) ([]delta.TrainingLog, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list training logs: %w", err)
	}
	defer rows.Close()

	var logs []delta.TrainingLog
	for rows.Next() {
		log, err := scanTrainingLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan training log: %w", err)
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// MarkSynced sets the synced flag. Reports whether a row changed; already
// synced or unknown ids report false.
func (r *TrainingLogRepository) MarkSynced(ctx context.Context, clientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE training_logs SET synced_to_authority = 1 WHERE client_id = ? AND synced_to_authority = 0", clientID)
	if err != nil {
		return false, fmt.Errorf("failed to mark training log synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func scanTrainingLog(s rowScanner) (*delta.TrainingLog, error) {
	var (
		employeeID, positionID    sql.NullString
		trainerName, notes, shift sql.NullString
		importedAt                sql.NullTime
	)
	log := &delta.TrainingLog{}
	err := s.Scan(
		&log.ClientID, &log.DeviceID, &log.LineID,
		&employeeID, &log.EmployeeName, &log.EmployeeResolved,
		&positionID, &log.PositionName, &log.PositionResolved,
		&trainerName, &log.CreatedByName, &log.CreatedByRole,
		&log.DurationMinutes, &notes, &log.RecommendLevelChange, &shift,
		&log.Timestamp, &log.SyncedToAuthority, &importedAt,
	)
	if err != nil {
		return nil, err
	}
	log.EmployeeID = stringPtr(employeeID)
	log.PositionID = stringPtr(positionID)
	log.TrainerName = trainerName.String
	log.Notes = notes.String
	log.Shift = shift.String
	log.Timestamp = log.Timestamp.UTC()
	log.ImportedAt = timePtr(importedAt)
	return log, nil
}

// Ensure TrainingLogRepository implements the interface
var _ secondary.TrainingLogRepository = (*TrainingLogRepository)(nil)
