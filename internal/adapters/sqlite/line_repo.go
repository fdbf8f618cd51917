// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// LineRepository implements secondary.LineRepository with SQLite.
type LineRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewLineRepository creates a new SQLite line repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewLineRepository(db *sql.DB, logWriter secondary.LogWriter) *LineRepository {
	return &LineRepository{db: db, logWriter: logWriter}
}

// Create persists a new line.
func (r *LineRepository) Create(ctx context.Context, line *secondary.LineRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO lines (id, name, shift, created_at) VALUES (?, ?, ?, ?)",
		line.ID, line.Name, nullString(line.Shift), time.Now().UTC(),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("line %q already exists", line.Name)
		}
		return fmt.Errorf("failed to create line: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "line", line.ID)
	}
	return nil
}

// GetByID retrieves a line by its ID.
func (r *LineRepository) GetByID(ctx context.Context, id string) (*secondary.LineRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT id, name, shift, created_at FROM lines WHERE id = ?", id)
	record, err := scanLine(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("line %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get line: %w", err)
	}
	return record, nil
}

// Exists reports whether a line with the ID exists.
func (r *LineRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM lines WHERE id = ?", id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check line existence: %w", err)
	}
	return count > 0, nil
}

// List retrieves all lines ordered by name.
func (r *LineRepository) List(ctx context.Context) ([]*secondary.LineRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, shift, created_at FROM lines ORDER BY name COLLATE NOCASE")
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	defer rows.Close()

	var lines []*secondary.LineRecord
	for rows.Next() {
		record, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan line: %w", err)
		}
		lines = append(lines, record)
	}
	return lines, rows.Err()
}

// GetNextID returns the next available line ID.
func (r *LineRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, r.db, "lines", "LINE-", "%03d")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(s rowScanner) (*secondary.LineRecord, error) {
	var (
		shift     sql.NullString
		createdAt sql.NullTime
	)
	record := &secondary.LineRecord{}
	if err := s.Scan(&record.ID, &record.Name, &shift, &createdAt); err != nil {
		return nil, err
	}
	record.Shift = shift.String
	if createdAt.Valid {
		record.CreatedAt = formatTime(createdAt.Time)
	}
	return record, nil
}

// nextID computes PREFIX-NNN from the highest numeric suffix in table.
func nextID(ctx context.Context, db *sql.DB, table, prefix, digits string) (string, error) {
	var maxID int
	prefixLen := len(prefix) + 1
	err := db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s", prefixLen, table),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", table, err)
	}
	return fmt.Sprintf(prefix+digits, maxID+1), nil
}

// Ensure LineRepository implements the interface
var _ secondary.LineRepository = (*LineRepository)(nil)
