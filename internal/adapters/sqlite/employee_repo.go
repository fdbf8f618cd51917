package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/skillmatrix/internal/ports/secondary"
)

// EmployeeRepository implements secondary.EmployeeRepository with SQLite.
type EmployeeRepository struct {
	db        *sql.DB
	logWriter secondary.LogWriter
}

// NewEmployeeRepository creates a new SQLite employee repository.
// logWriter is optional - if nil, no audit logging is performed.
func NewEmployeeRepository(db *sql.DB, logWriter secondary.LogWriter) *EmployeeRepository {
	return &EmployeeRepository{db: db, logWriter: logWriter}
}

const employeeColumns = "id, line_id, name, role, active, created_at, updated_at"

// Create persists a new employee.
func (r *EmployeeRepository) Create(ctx context.Context, emp *secondary.EmployeeRecord) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO employees ("+employeeColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		emp.ID, emp.LineID, strings.TrimSpace(emp.Name), emp.Role, emp.Active, now, now,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("employee %q already exists on line %s", emp.Name, emp.LineID)
		}
		return fmt.Errorf("failed to create employee: %w", err)
	}

	if r.logWriter != nil {
		_ = r.logWriter.LogCreate(ctx, "employee", emp.ID)
	}
	return nil
}

// GetByID retrieves an employee by its ID.
func (r *EmployeeRepository) GetByID(ctx context.Context, id string) (*secondary.EmployeeRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+employeeColumns+" FROM employees WHERE id = ?", id)
	record, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("employee %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return record, nil
}

// GetByName retrieves an employee by line and case-insensitive name.
func (r *EmployeeRepository) GetByName(ctx context.Context, lineID, name string) (*secondary.EmployeeRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+employeeColumns+" FROM employees WHERE line_id = ? AND name = ? COLLATE NOCASE",
		lineID, strings.TrimSpace(name),
	)
	record, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee by name: %w", err)
	}
	return record, nil
}

// Update updates name, role and active flag.
func (r *EmployeeRepository) Update(ctx context.Context, emp *secondary.EmployeeRecord) error {
	var oldActive bool
	if r.logWriter != nil {
		if old, err := r.GetByID(ctx, emp.ID); err == nil {
			oldActive = old.Active
		}
	}

	result, err := r.db.ExecContext(ctx,
		"UPDATE employees SET name = ?, role = ?, active = ?, updated_at = ? WHERE id = ?",
		strings.TrimSpace(emp.Name), emp.Role, emp.Active, time.Now().UTC(), emp.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("employee %s not found", emp.ID)
	}

	if r.logWriter != nil && oldActive != emp.Active {
		_ = r.logWriter.LogUpdate(ctx, "employee", emp.ID, "active", fmt.Sprint(oldActive), fmt.Sprint(emp.Active))
	}
	return nil
}

// List retrieves employees matching the given filters, in creation order.
func (r *EmployeeRepository) List(ctx context.Context, filters secondary.EmployeeFilters) ([]*secondary.EmployeeRecord, error) {
	query := "SELECT " + employeeColumns + " FROM employees WHERE 1=1"
	args := []any{}

	if filters.LineID != "" {
		query += " AND line_id = ?"
		args = append(args, filters.LineID)
	}
	if filters.Role != "" {
		query += " AND role = ?"
		args = append(args, filters.Role)
	}
	if !filters.IncludeInactive {
		query += " AND active = 1"
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []*secondary.EmployeeRecord
	for rows.Next() {
		record, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, record)
	}
	return employees, rows.Err()
}

// GetNextID returns the next available employee ID.
func (r *EmployeeRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, r.db, "employees", "EMP-", "%03d")
}

func scanEmployee(s rowScanner) (*secondary.EmployeeRecord, error) {
	var createdAt, updatedAt sql.NullTime
	record := &secondary.EmployeeRecord{}
	err := s.Scan(&record.ID, &record.LineID, &record.Name, &record.Role, &record.Active, &createdAt, &updatedAt)
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

// Ensure EmployeeRepository implements the interface
var _ secondary.EmployeeRepository = (*EmployeeRepository)(nil)
