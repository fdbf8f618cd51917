package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// SkillRepository implements secondary.SkillRepository with SQLite.
// Approvals and history are stored as JSON arrays on the record row.
type SkillRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewSkillRepository creates a new SQLite skill repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewSkillRepository(db *sql.DB, logWriter secondary.LogWriter) *SkillRepository {
	return &SkillRepository{db: db, logWriter: logWriter}
}

const skillColumns = "employee_id, position_id, line_id, current_level, requested_level, status, approvals, history"

// Get retrieves the record for a pair. Returns nil, nil when none exists.
func (r *SkillRepository) Get(ctx context.Context, employeeID, positionID string) (*skill.Record, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+skillColumns+" FROM skill_records WHERE employee_id = ? AND position_id = ?",
		employeeID, positionID,
	)
	rec, err := scanSkill(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get skill record: %w", err)
	}
	return rec, nil
}

// ListByLine retrieves every record on a line.
func (r *SkillRepository) ListByLine(ctx context.Context, lineID string) ([]skill.Record, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+skillColumns+" FROM skill_records WHERE line_id = ? ORDER BY employee_id, position_id",
		lineID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill records: %w", err)
	}
	defer rows.Close()

	var records []skill.Record
	for rows.Next() {
		rec, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan skill record: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// Save inserts or replaces the record for its pair.
func (r *SkillRepository) Save(ctx context.Context, rec *skill.Record) error {
	approvals, err := json.Marshal(nonNil(rec.Approvals))
	if err != nil {
		return fmt.Errorf("failed to encode approvals: %w", err)
	}
	history, err := json.Marshal(nonNil(rec.History))
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	var oldLevel *int
	if r.logWriter != nil {
		if old, err := r.Get(ctx, rec.EmployeeID, rec.PositionID); err == nil && old != nil {
			oldLevel = &old.CurrentLevel
		}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO skill_records (`+skillColumns+`, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, position_id) DO UPDATE SET
			line_id = excluded.line_id,
			current_level = excluded.current_level,
			requested_level = excluded.requested_level,
			status = excluded.status,
			approvals = excluded.approvals,
			history = excluded.history,
			updated_at = excluded.updated_at`,
		rec.EmployeeID, rec.PositionID, rec.LineID, rec.CurrentLevel, nullInt(rec.RequestedLevel),
		string(rec.Status), string(approvals), string(history), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save skill record: %w", err)
	}

	if r.logWriter != nil {
		entityID := rec.EmployeeID + "/" + rec.PositionID
		switch {
		case oldLevel == nil:
			_ = r.logWriter.LogCreate(ctx, "skill_record", entityID)
		case *oldLevel != rec.CurrentLevel:
			_ = r.logWriter.LogUpdate(ctx, "skill_record", entityID, "current_level", fmt.Sprint(*oldLevel), fmt.Sprint(rec.CurrentLevel))
		default:
			_ = r.logWriter.LogUpdate(ctx, "skill_record", entityID, "status", "", string(rec.Status))
		}
	}
	return nil
}

func scanSkill(s rowScanner) (*skill.Record, error) {
	var (
		requested          sql.NullInt64
		status             string
		approvals, history string
	)
	rec := &skill.Record{}
	err := s.Scan(&rec.EmployeeID, &rec.PositionID, &rec.LineID, &rec.CurrentLevel, &requested, &status, &approvals, &history)
	if err != nil {
		return nil, err
	}
	rec.RequestedLevel = intPtr(requested)
	rec.Status = skill.Status(status)
	if err := json.Unmarshal([]byte(approvals), &rec.Approvals); err != nil {
		return nil, fmt.Errorf("failed to decode approvals: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &rec.History); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if len(rec.Approvals) == 0 {
		rec.Approvals = nil
	}
	if len(rec.History) == 0 {
		rec.History = nil
	}
	return rec, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Ensure SkillRepository implements the interface
var _ secondary.SkillRepository = (*SkillRepository)(nil)
