package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// ActivityLogRepository implements secondary.ActivityLogRepository with SQLite.
type ActivityLogRepository struct {
	db *sql.DB
}

// NewActivityLogRepository creates a new SQLite activity log repository.
func NewActivityLogRepository(db *sql.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

const activityColumns = "id, line_id, timestamp, actor_id, entity_type, entity_id, action, field_name, old_value, new_value"

// Create persists a new activity log entry.
func (r *ActivityLogRepository) Create(ctx context.Context, log *secondary.ActivityLogRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO activity_logs ("+activityColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		log.ID,
		log.LineID,
		time.Now().UTC(),
		nullString(log.ActorID),
		log.EntityType,
		log.EntityID,
		log.Action,
		nullString(log.FieldName),
		nullString(log.OldValue),
		nullString(log.NewValue),
	)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	return nil
}

// GetByID retrieves a log entry by its ID.
func (r *ActivityLogRepository) GetByID(ctx context.Context, id string) (*secondary.ActivityLogRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+activityColumns+" FROM activity_logs WHERE id = ?", id)
	record, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("activity log %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity log: %w", err)
	}
	return record, nil
}

// List retrieves log entries matching the given filters, newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filters secondary.ActivityLogFilters) ([]*secondary.ActivityLogRecord, error) {
	query := "SELECT " + activityColumns + " FROM activity_logs WHERE 1=1"
	args := []any{}

	if filters.LineID != "" {
		query += " AND line_id = ?"
		args = append(args, filters.LineID)
	}
	if filters.EntityType != "" {
		query += " AND entity_type = ?"
		args = append(args, filters.EntityType)
	}
	if filters.EntityID != "" {
		query += " AND entity_id = ?"
		args = append(args, filters.EntityID)
	}
	if filters.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filters.ActorID)
	}
	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	query += " ORDER BY timestamp DESC, id DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity logs: %w", err)
	}
	defer rows.Close()

	var logs []*secondary.ActivityLogRecord
	for rows.Next() {
		record, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, record)
	}
	return logs, rows.Err()
}

// GetNextID returns the next available log ID.
func (r *ActivityLogRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, r.db, "activity_logs", "ACT-", "%04d")
}

// PruneOlderThan deletes log entries older than the given number of days.
func (r *ActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result, err := r.db.ExecContext(ctx, "DELETE FROM activity_logs WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune activity logs: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

func scanActivity(s rowScanner) (*secondary.ActivityLogRecord, error) {
	var (
		actorID, fieldName, oldValue, newValue sql.NullString
		timestamp                              time.Time
	)
	record := &secondary.ActivityLogRecord{}
	err := s.Scan(&record.ID, &record.LineID, &timestamp, &actorID,
		&record.EntityType, &record.EntityID, &record.Action,
		&fieldName, &oldValue, &newValue)
	if err != nil {
		return nil, err
	}
	record.Timestamp = formatTime(timestamp)
	record.ActorID = actorID.String
	record.FieldName = fieldName.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	return record, nil
}

// Ensure ActivityLogRepository implements the interface
var _ secondary.ActivityLogRepository = (*ActivityLogRepository)(nil)
