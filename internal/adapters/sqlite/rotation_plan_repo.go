package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// RotationPlanRepository implements secondary.RotationPlanRepository with SQLite.
// The plan body is stored as JSON.
type RotationPlanRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewRotationPlanRepository creates a new SQLite rotation plan repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewRotationPlanRepository(db *sql.DB, logWriter secondary.LogWriter) *RotationPlanRepository {
	return &RotationPlanRepository{db: db, logWriter: logWriter}
}

// Save inserts or replaces the plan for (line, date).
func (r *RotationPlanRepository) Save(ctx context.Context, rec *secondary.RotationPlanRecord) error {
	body, err := json.Marshal(rec.Plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO rotation_plans (line_id, date, bottleneck, plan, generated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (line_id, date) DO UPDATE SET
			bottleneck = excluded.bottleneck,
			plan = excluded.plan,
			generated_at = excluded.generated_at`,
		rec.LineID, rec.Date, rec.Bottleneck, string(body), rec.GeneratedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save rotation plan: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "rotation_plan", rec.LineID+"/"+rec.Date)
	}
	return nil
}

// Get retrieves the plan for (line, date). Returns nil, nil when none exists.
func (r *RotationPlanRepository) Get(ctx context.Context, lineID, date string) (*secondary.RotationPlanRecord, error) {
	var (
		body        string
		generatedAt sql.NullTime
	)
	rec := &secondary.RotationPlanRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT line_id, date, bottleneck, plan, generated_at FROM rotation_plans WHERE line_id = ? AND date = ?",
		lineID, date,
	).Scan(&rec.LineID, &rec.Date, &rec.Bottleneck, &body, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rotation plan: %w", err)
	}

	var plan rotation.Plan
	if err := json.Unmarshal([]byte(body), &plan); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	rec.Plan = plan
	if generatedAt.Valid {
		rec.GeneratedAt = generatedAt.Time.UTC()
	}
	return rec, nil
}

// ListDates returns the dates with a stored plan, oldest first.
func (r *RotationPlanRepository) ListDates(ctx context.Context, lineID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT date FROM rotation_plans WHERE line_id = ? ORDER BY date", lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list rotation plan dates: %w", err)
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan rotation plan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Delete removes the plan for (line, date).
func (r *RotationPlanRepository) Delete(ctx context.Context, lineID, date string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM rotation_plans WHERE line_id = ? AND date = ?", lineID, date)
	if err != nil {
		return fmt.Errorf("failed to delete rotation plan: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "rotation_plan", lineID+"/"+date)
	}
	return nil
}

// Ensure RotationPlanRepository implements the interface
var _ secondary.RotationPlanRepository = (*RotationPlanRepository)(nil)
