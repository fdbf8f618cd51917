package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// PositionRepository implements secondary.PositionRepository with SQLite.
type PositionRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewPositionRepository creates a new SQLite position repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewPositionRepository(db *sql.DB, logWriter secondary.LogWriter) *PositionRepository {
	return &PositionRepository{db: db, logWriter: logWriter}
}

const positionColumns = "id, line_id, name, critical, sort_order, active, created_at, updated_at"

// Create persists a new position.
func (r *PositionRepository) Create(ctx context.Context, pos *secondary.PositionRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO positions ("+positionColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		pos.ID, pos.LineID, strings.TrimSpace(pos.Name), pos.Critical, pos.SortOrder, pos.Active, now, now,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("position %q already exists on line %s", pos.Name, pos.LineID)
		}
		return fmt.Errorf("failed to create position: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "position", pos.ID)
	}
	return nil
}

// GetByID retrieves a position by its ID.
func (r *PositionRepository) GetByID(ctx context.Context, id string) (*secondary.PositionRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+positionColumns+" FROM positions WHERE id = ?", id)
	record, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("position %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position: %w", err)
	}
	return record, nil
}

// GetByName retrieves a position by line and case-insensitive name.
func (r *PositionRepository) GetByName(ctx context.Context, lineID, name string) (*secondary.PositionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+positionColumns+" FROM positions WHERE line_id = ? AND name = ? COLLATE NOCASE",
		lineID, strings.TrimSpace(name),
	)
	record, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get position by name: %w", err)
	}
	return record, nil
}

// Update updates name, critical flag, sort order and active flag.
func (r *PositionRepository) Update(ctx context.Context, pos *secondary.PositionRecord) error {
	var old *secondary.PositionRecord
	if r.logWriter != nil {
		old, _ = r.GetByID(ctx, pos.ID)
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE positions SET name = ?, critical = ?, sort_order = ?, active = ?, updated_at = ? WHERE id = ?",
		strings.TrimSpace(pos.Name), pos.Critical, pos.SortOrder, pos.Active, time.Now().UTC(), pos.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("position %s not found", pos.ID)
	}

	if r.logWriter != nil && old != nil {
		if old.Active != pos.Active {
			_ = r.logWriter.LogUpdate(ctx, "position", pos.ID, "active", fmt.Sprint(old.Active), fmt.Sprint(pos.Active))
		}
		if old.Critical != pos.Critical {
			_ = r.logWriter.LogUpdate(ctx, "position", pos.ID, "critical", fmt.Sprint(old.Critical), fmt.Sprint(pos.Critical))
		}
	}
	return nil
}

// List retrieves positions ordered by sort order.
func (r *PositionRepository) List(ctx context.Context, filters secondary.PositionFilters) ([]*secondary.PositionRecord, error) {
	query := "SELECT " + positionColumns + " FROM positions WHERE 1=1"
	args := []any{}

	if filters.LineID != "" {
		query += " AND line_id = ?"
		args = append(args, filters.LineID)
	}
	if !filters.IncludeInactive {
		query += " AND active = 1"
	}
	query += " ORDER BY sort_order, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	defer rows.Close()

	var positions []*secondary.PositionRecord
	for rows.Next() {
		record, err := scanPosition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, record)
	}
	return positions, rows.Err()
}

// GetNextID returns the next available position ID.
func (r *PositionRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, r.db, "positions", "POS-", "%03d")
}

func scanPosition(s rowScanner) (*secondary.PositionRecord, error) {
	var createdAt, updatedAt sql.NullTime
	record := &secondary.PositionRecord{}
	err := s.Scan(&record.ID, &record.LineID, &record.Name, &record.Critical, &record.SortOrder, &record.Active, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if createdAt.Valid {
		record.CreatedAt = formatTime(createdAt.Time)
	}
	if updatedAt.Valid {
		record.UpdatedAt = formatTime(updatedAt.Time)
	}
	return record, nil
}

// Ensure PositionRepository implements the interface
var _ secondary.PositionRepository = (*PositionRepository)(nil)
