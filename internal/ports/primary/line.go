package primary

import "context"

// LineService defines the primary port for line setup: lines, employees and positions.
type LineService interface {
	// CreateLine creates a new production line.
	CreateLine(ctx context.Context, req CreateLineRequest) (*Line, error)

	// GetLine retrieves a line by ID.
	GetLine(ctx context.Context, lineID string) (*Line, error)

	// ListLines lists all lines.
	ListLines(ctx context.Context) ([]*Line, error)

	// AddEmployee adds an employee, or reactivates and updates the existing
	// one with the same name on the line.
	AddEmployee(ctx context.Context, req AddEmployeeRequest) (*Employee, error)

	// DeactivateEmployee marks an employee inactive.
	DeactivateEmployee(ctx context.Context, employeeID string) error

	// ListEmployees lists the employees of a line.
	ListEmployees(ctx context.Context, lineID string, includeInactive bool) ([]*Employee, error)

	// AddPosition adds a position, or reactivates and updates the existing
	// one with the same name on the line.
	AddPosition(ctx context.Context, req AddPositionRequest) (*Position, error)

	// DeactivatePosition marks a position inactive.
	DeactivatePosition(ctx context.Context, positionID string) error

	// ListPositions lists the positions of a line in sort order.
	ListPositions(ctx context.Context, lineID string, includeInactive bool) ([]*Position, error)
}

// CreateLineRequest contains parameters for creating a line.
type CreateLineRequest struct {
	Name  string `validate:"required,max=100"`
	Shift string `validate:"omitempty,oneof=day afternoon night"`
}

// AddEmployeeRequest contains parameters for adding an employee.
type AddEmployeeRequest struct {
	LineID string `validate:"required"`
	Name   string `validate:"required,max=100"`
	Role   string `validate:"required,oneof=operator team_lead supervisor"`
}

// AddPositionRequest contains parameters for adding a position.
type AddPositionRequest struct {
	LineID    string `validate:"required"`
	Name      string `validate:"required,max=100"`
	Critical  bool
	SortOrder *int `validate:"omitempty,min=0"`
}

// Line represents a line at the port boundary.
type Line struct {
	ID        string
	Name      string
	Shift     string
	CreatedAt string
}

// Employee represents an employee at the port boundary.
type Employee struct {
	ID     string
	LineID string
	Name   string
	Role   string
	Active bool
}

// Position represents a position at the port boundary.
type Position struct {
	ID        string
	LineID    string
	Name      string
	Critical  bool
	SortOrder int
	Active    bool
}
