package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// RecommendationRepository implements secondary.RecommendationRepository with SQLite.
type RecommendationRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewRecommendationRepository creates a new SQLite recommendation repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewRecommendationRepository(db *sql.DB, logWriter secondary.LogWriter) *RecommendationRepository {
	return &RecommendationRepository{db: db, logWriter: logWriter}
}

const recommendationColumns = `client_id, device_id, line_id, training_log_id, employee_id, employee_name,
	position_id, position_name, current_level, suggested_level, created_by_name, created_by_role,
	created_at, status, synced_to_authority, actioned_at, actioned_by, actioned_result, action_note`

// Insert adds a recommendation keyed by client id. An existing client id is
// reported as AlreadyExists, never overwritten.
func (r *RecommendationRepository) Insert(ctx context.Context, rec *delta.Recommendation) (secondary.InsertOutcome, error) {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pending_recommendations ("+recommendationColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		recommendationArgs(rec)...,
	)
	outcome, err := classifyInsert(err)
	if err != nil {
		return outcome, fmt.Errorf("failed to insert recommendation: %w", err)
	}
	if outcome == secondary.Inserted && r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "recommendation", rec.ClientID)
	}
	return outcome, nil
}

// GetByClientID retrieves a recommendation. Returns nil, nil when none exists.
func (r *RecommendationRepository) GetByClientID(ctx context.Context, clientID string) (*delta.Recommendation, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+recommendationColumns+" FROM pending_recommendations WHERE client_id = ?", clientID)
	rec, err := scanRecommendation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get recommendation: %w", err)
	}
	return rec, nil
}

// Update replaces a stored recommendation.
func (r *RecommendationRepository) Update(ctx context.Context, rec *delta.Recommendation) error {
	var oldStatus string
	if r.logWriter != nil {
		if old, err := r.GetByClientID(ctx, rec.ClientID); err == nil && old != nil {
			oldStatus = string(old.Status)
		}
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE pending_recommendations SET
			training_log_id = ?, employee_name = ?, position_name = ?,
			current_level = ?, suggested_level = ?, status = ?, synced_to_authority = ?,
			actioned_at = ?, actioned_by = ?, actioned_result = ?, action_note = ?
		WHERE client_id = ?`,
		rec.TrainingLogID, rec.EmployeeName, rec.PositionName,
		nullInt(rec.CurrentLevel), nullInt(rec.SuggestedLevel), string(rec.Status), rec.SyncedToAuthority,
		nullTime(rec.ActionedAt), nullString(rec.ActionedBy), nullString(rec.ActionedResult), nullString(rec.ActionNote),
		rec.ClientID,
	)
	if err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("recommendation %s not found", rec.ClientID)
	}

	if r.logWriter != nil && oldStatus != string(rec.Status) {
		_ = r.logWriter.LogUpdate(ctx, "recommendation", rec.ClientID, "status", oldStatus, string(rec.Status))
	}
	return nil
}

// Delete removes a recommendation.
func (r *RecommendationRepository) Delete(ctx context.Context, clientID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM pending_recommendations WHERE client_id = ?", clientID)
	if err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogDelete(ctx, "recommendation", clientID)
	}
	return nil
}

// ListByPair retrieves every recommendation for (employee, position), oldest first.
func (r *RecommendationRepository) ListByPair(ctx context.Context, employeeID, positionID string) ([]delta.Recommendation, error) {
	return r.list(ctx,
		"SELECT "+recommendationColumns+" FROM pending_recommendations WHERE employee_id = ? AND position_id = ? ORDER BY created_at, client_id",
		employeeID, positionID,
	)
}

// ListOpen retrieves the open recommendations of a line, oldest first.
func (r *RecommendationRepository) ListOpen(ctx context.Context, lineID string) ([]delta.Recommendation, error) {
	return r.list(ctx,
		"SELECT "+recommendationColumns+" FROM pending_recommendations WHERE line_id = ? AND status = 'open' ORDER BY created_at, client_id",
		lineID,
	)
}

// ListUnsynced retrieves recommendations of a line not yet acknowledged, oldest first.
func (r *RecommendationRepository) ListUnsynced(ctx context.Context, lineID string) ([]delta.Recommendation, error) {
	return r.list(ctx,
		"SELECT "+recommendationColumns+" FROM pending_recommendations WHERE line_id = ? AND synced_to_authority = 0 ORDER BY created_at, client_id",
		lineID,
	)
}

func (r *RecommendationRepository) list(ctx context.Context, query string, args ...any) ([]delta.Recommendation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []delta.Recommendation
	for rows.Next() {
		rec, err := scanRecommendation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// MarkSynced sets the synced flag. Reports whether a row changed; already
// synced or unknown ids report false.
func (r *RecommendationRepository) MarkSynced(ctx context.Context, clientID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, "UPDATE pending_recommendations SET synced_to_authority = 1 WHERE client_id = ? AND synced_to_authority = 0", clientID)
	if err != nil {
		return false, fmt.Errorf("failed to mark recommendation synced: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

func recommendationArgs(rec *delta.Recommendation) []any {
	return []any{
		rec.ClientID, rec.DeviceID, rec.LineID, rec.TrainingLogID, rec.EmployeeID, rec.EmployeeName,
		rec.PositionID, rec.PositionName, nullInt(rec.CurrentLevel), nullInt(rec.SuggestedLevel),
		rec.CreatedByName, rec.CreatedByRole, rec.CreatedAt.UTC(), string(rec.Status), rec.SyncedToAuthority,
		nullTime(rec.ActionedAt), nullString(rec.ActionedBy), nullString(rec.ActionedResult), nullString(rec.ActionNote),
	}
}

func scanRecommendation(s rowScanner) (*delta.Recommendation, error) {
	var (
		currentLevel, suggestedLevel sql.NullInt64
		status                       string
		actionedAt                   sql.NullTime
		actionedBy, result, note     sql.NullString
	)
	rec := &delta.Recommendation{}
	err := s.Scan(
		&rec.ClientID, &rec.DeviceID, &rec.LineID, &rec.TrainingLogID, &rec.EmployeeID, &rec.EmployeeName,
		&rec.PositionID, &rec.PositionName, &currentLevel, &suggestedLevel, &rec.CreatedByName, &rec.CreatedByRole,
		&rec.CreatedAt, &status, &rec.SyncedToAuthority, &actionedAt, &actionedBy, &result, &note,
	)
	if err != nil {
		return nil, err
	}
	rec.CurrentLevel = intPtr(currentLevel)
	rec.SuggestedLevel = intPtr(suggestedLevel)
	rec.CreatedAt = rec.CreatedAt.UTC()
	rec.Status = delta.RecStatus(status)
	rec.ActionedAt = timePtr(actionedAt)
	rec.ActionedBy = actionedBy.String
	rec.ActionedResult = result.String
	rec.ActionNote = note.String
	return rec, nil
}

// Ensure RecommendationRepository implements the interface
var _ secondary.RecommendationRepository = (*RecommendationRepository)(nil)
