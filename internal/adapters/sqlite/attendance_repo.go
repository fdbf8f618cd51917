package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// AttendanceRepository implements secondary.AttendanceRepository with SQLite.
type AttendanceRepository struct {
	db *sql.DB
}

// NewAttendanceRepository creates a new SQLite attendance repository.
func NewAttendanceRepository(db *sql.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Upsert writes the status for (employee, date).
func (r *AttendanceRepository) Upsert(ctx context.Context, rec *secondary.AttendanceRecord) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance (employee_id, date, line_id, shift, status) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			line_id = excluded.line_id,
			shift = excluded.shift,
			status = excluded.status`,
		rec.EmployeeID, rec.Date, rec.LineID, nullString(rec.Shift), rec.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to save attendance: %w", err)
	}
	return nil
}

// ListByLineDate retrieves attendance for a line on a date.
func (r *AttendanceRepository) ListByLineDate(ctx context.Context, lineID, date string) ([]*secondary.AttendanceRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT employee_id, date, line_id, shift, status FROM attendance WHERE line_id = ? AND date = ? ORDER BY employee_id",
		lineID, date,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []*secondary.AttendanceRecord
	for rows.Next() {
		var shift sql.NullString
		rec := &secondary.AttendanceRecord{}
		if err := rows.Scan(&rec.EmployeeID, &rec.Date, &rec.LineID, &shift, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		rec.Shift = shift.String
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Ensure AttendanceRepository implements the interface
var _ secondary.AttendanceRepository = (*AttendanceRepository)(nil)
