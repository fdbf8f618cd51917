package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// AuditRepository implements secondary.AuditRepository with SQLite.
type AuditRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewAuditRepository creates a new SQLite audit repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewAuditRepository(db *sql.DB, logWriter secondary.LogWriter) *AuditRepository {
	return &AuditRepository{db: db, logWriter: logWriter}
}

const auditColumns = "id, line_id, supervisor_id, position_id, date, result, notes"

// Create persists a new draft audit.
func (r *AuditRepository) Create(ctx context.Context, log *audit.Log) error {
	var result sql.NullString
	if log.Result != nil {
		result = nullString(string(*log.Result))
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_logs ("+auditColumns+", created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		log.ID, log.LineID, log.SupervisorID, log.PositionID, log.Date, result, nullString(log.Notes), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to create audit: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "audit", log.ID)
	}
	return nil
}

// GetByID retrieves an audit by its ID.
func (r *AuditRepository) GetByID(ctx context.Context, id string) (*audit.Log, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+auditColumns+" FROM audit_logs WHERE id = ?", id)
	log, err := scanAudit(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("audit %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get audit: %w", err)
	}
	return log, nil
}

// ListBySupervisor retrieves every audit of a supervisor on a line.
func (r *AuditRepository) ListBySupervisor(ctx context.Context, lineID, supervisorID string) ([]audit.Log, error) {
	return r.list(ctx,
		"SELECT "+auditColumns+" FROM audit_logs WHERE line_id = ? AND supervisor_id = ? ORDER BY date, id",
		lineID, supervisorID,
	)
}

// ListCompleted retrieves audits with a result, newest first.
func (r *AuditRepository) ListCompleted(ctx context.Context, lineID string, limit int) ([]audit.Log, error) {
	query := "SELECT " + auditColumns + " FROM audit_logs WHERE line_id = ? AND result IS NOT NULL ORDER BY date DESC, id DESC"
	args := []any{lineID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	return r.list(ctx, query, args...)
}

func (r *AuditRepository) list(ctx context.Context, query string, args ...any) ([]audit.Log, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}
	defer rows.Close()

	var logs []audit.Log
	for rows.Next() {
		log, err := scanAudit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit: %w", err)
		}
		logs = append(logs, *log)
	}
	return logs, rows.Err()
}

// SetResult records the result and notes of an audit.
func (r *AuditRepository) SetResult(ctx context.Context, id string, result audit.Result, notes string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE audit_logs SET result = ?, notes = ?, completed_at = ? WHERE id = ?",
		string(result), nullString(notes), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to update audit: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("audit %s not found", id)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogUpdate(ctx, "audit", id, "result", "", string(result))
	}
	return nil
}

// GetNextID returns the next available audit ID.
func (r *AuditRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, r.db, "audit_logs", "AUD-", "%04d")
}

func scanAudit(s rowScanner) (*audit.Log, error) {
	var result, notes sql.NullString
	log := &audit.Log{}
	if err := s.Scan(&log.ID, &log.LineID, &log.SupervisorID, &log.PositionID, &log.Date, &result, &notes); err != nil {
		return nil, err
	}
	if result.Valid {
		res := audit.Result(result.String)
		log.Result = &res
	}
	log.Notes = notes.String
	return log, nil
}

// Ensure AuditRepository implements the interface
var _ secondary.AuditRepository = (*AuditRepository)(nil)
