package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// SequenceRepository implements secondary.SequenceRepository with SQLite.
type SequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new SQLite sequence repository.
func NewSequenceRepository(db *sql.DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// Next increments and returns the named sequence, starting at 1.
func (r *SequenceRepository) Next(ctx context.Context, name string) (int, error) {
	var value int
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO sequences (name, value) VALUES (?, 1)
		ON CONFLICT (name) DO UPDATE SET value = value + 1
		RETURNING value`,
		name,
	).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", name, err)
	}
	return value, nil
}

// Ensure SequenceRepository implements the interface
var _ secondary.SequenceRepository = (*SequenceRepository)(nil)
