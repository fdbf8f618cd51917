package app

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// LineServiceImpl implements the LineService interface.
type LineServiceImpl struct {
	lineRepo     secondary.LineRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	log          *zap.Logger
}

// NewLineService creates a new LineService with injected dependencies.
func NewLineService(
	lineRepo secondary.LineRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	log *zap.Logger,
) *LineServiceImpl {
	return &LineServiceImpl{
		lineRepo:     lineRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		log:          log,
	}
}

// CreateLine creates a new production line.
func (s *LineServiceImpl) CreateLine(ctx context.Context, req primary.CreateLineRequest) (*primary.Line, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	id, err := s.lineRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate line ID: %w", err)
	}
	record := &secondary.LineRecord{ID: id, Name: strings.TrimSpace(req.Name), Shift: req.Shift}
	if err := s.lineRepo.Create(ctxutil.WithLineID(ctx, id), record); err != nil {
		return nil, err
	}

	s.log.Info("line created", zap.String("line", id), zap.String("name", record.Name))
	return s.GetLine(ctx, id)
}

// GetLine retrieves a line by ID.
func (s *LineServiceImpl) GetLine(ctx context.Context, lineID string) (*primary.Line, error) {
	record, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	return recordToLine(record), nil
}

// ListLines lists all lines.
func (s *LineServiceImpl) ListLines(ctx context.Context) ([]*primary.Line, error) {
	records, err := s.lineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	lines := make([]*primary.Line, len(records))
	for i, r := range records {
		lines[i] = recordToLine(r)
	}
	return lines, nil
}

// AddEmployee adds an employee, or reactivates and updates the existing one
// with the same name on the line.
func (s *LineServiceImpl) AddEmployee(ctx context.Context, req primary.AddEmployeeRequest) (*primary.Employee, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requireLine(ctx, req.LineID); err != nil {
		return nil, err
	}
	ctx = ctxutil.WithLineID(ctx, req.LineID)

	existing, err := s.employeeRepo.GetByName(ctx, req.LineID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Role = req.Role
		existing.Active = true
		if err := s.employeeRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return recordToEmployee(existing), nil
	}

	id, err := s.employeeRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate employee ID: %w", err)
	}
	record := &secondary.EmployeeRecord{
		ID:     id,
		LineID: req.LineID,
		Name:   strings.TrimSpace(req.Name),
		Role:   req.Role,
		Active: true,
	}
	if err := s.employeeRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return recordToEmployee(record), nil
}

// DeactivateEmployee marks an employee inactive. Employees are never deleted.
func (s *LineServiceImpl) DeactivateEmployee(ctx context.Context, employeeID string) error {
	record, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	if !record.Active {
		return nil
	}
	record.Active = false
	return s.employeeRepo.Update(ctxutil.WithLineID(ctx, record.LineID), record)
}

// ListEmployees lists the employees of a line.
func (s *LineServiceImpl) ListEmployees(ctx context.Context, lineID string, includeInactive bool) ([]*primary.Employee, error) {
	records, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID, IncludeInactive: includeInactive})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	out := make([]*primary.Employee, len(records))
	for i, r := range records {
		out[i] = recordToEmployee(r)
	}
	return out, nil
}

// AddPosition adds a position, or reactivates and updates the existing one
// with the same name on the line. Without an explicit sort order new
// positions are appended after the last one.
func (s *LineServiceImpl) AddPosition(ctx context.Context, req primary.AddPositionRequest) (*primary.Position, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if err := s.requireLine(ctx, req.LineID); err != nil {
		return nil, err
	}
	ctx = ctxutil.WithLineID(ctx, req.LineID)

	existing, err := s.positionRepo.GetByName(ctx, req.LineID, req.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		existing.Critical = req.Critical
		existing.Active = true
		if req.SortOrder != nil {
			existing.SortOrder = *req.SortOrder
		}
		if err := s.positionRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return recordToPosition(existing), nil
	}

	sortOrder := 0
	if req.SortOrder != nil {
		sortOrder = *req.SortOrder
	} else {
		all, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: req.LineID, IncludeInactive: true})
		if err != nil {
			return nil, fmt.Errorf("failed to list positions: %w", err)
		}
		for _, p := range all {
			sortOrder = max(sortOrder, p.SortOrder+1)
		}
	}

	id, err := s.positionRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate position ID: %w", err)
	}
	record := &secondary.PositionRecord{
		ID:        id,
		LineID:    req.LineID,
		Name:      strings.TrimSpace(req.Name),
		Critical:  req.Critical,
		SortOrder: sortOrder,
		Active:    true,
	}
	if err := s.positionRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return recordToPosition(record), nil
}

// DeactivatePosition marks a position inactive. Positions are never deleted.
func (s *LineServiceImpl) DeactivatePosition(ctx context.Context, positionID string) error {
	record, err := s.positionRepo.GetByID(ctx, positionID)
	if err != nil {
		return err
	}
	if !record.Active {
		return nil
	}
	record.Active = false
	return s.positionRepo.Update(ctxutil.WithLineID(ctx, record.LineID), record)
}

// ListPositions lists the positions of a line in sort order.
func (s *LineServiceImpl) ListPositions(ctx context.Context, lineID string, includeInactive bool) ([]*primary.Position, error) {
	records, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID, IncludeInactive: includeInactive})
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	out := make([]*primary.Position, len(records))
	for i, r := range records {
		out[i] = recordToPosition(r)
	}
	return out, nil
}

func (s *LineServiceImpl) requireLine(ctx context.Context, lineID string) error {
	ok, err := s.lineRepo.Exists(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to check line: %w", err)
	}
	if !ok {
		return fmt.Errorf("line %s not found", lineID)
	}
	return nil
}

// Helper methods

func recordToLine(r *secondary.LineRecord) *primary.Line {
	return &primary.Line{ID: r.ID, Name: r.Name, Shift: r.Shift, CreatedAt: r.CreatedAt}
}

func recordToEmployee(r *secondary.EmployeeRecord) *primary.Employee {
	return &primary.Employee{ID: r.ID, LineID: r.LineID, Name: r.Name, Role: r.Role, Active: r.Active}
}

func recordToPosition(r *secondary.PositionRecord) *primary.Position {
	return &primary.Position{
		ID:        r.ID,
		LineID:    r.LineID,
		Name:      r.Name,
		Critical:  r.Critical,
		SortOrder: r.SortOrder,
		Active:    r.Active,
	}
}

// Ensure LineServiceImpl implements the interface
var _ primary.LineService = (*LineServiceImpl)(nil)
