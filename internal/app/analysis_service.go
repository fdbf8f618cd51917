package app

import (
	"context"
	"fmt"

	"github.com/example/skillmatrix/internal/core/crosstraining"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// AnalysisServiceImpl implements the AnalysisService interface.
type AnalysisServiceImpl struct {
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	skillRepo    secondary.SkillRepository
}

// NewAnalysisService creates a new AnalysisService with injected dependencies.
func NewAnalysisService(
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	skillRepo secondary.SkillRepository,
) *AnalysisServiceImpl {
	return &AnalysisServiceImpl{
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		skillRepo:    skillRepo,
	}
}

// CrossTraining analyses 3x3 coverage of a line's active positions.
func (s *AnalysisServiceImpl) CrossTraining(ctx context.Context, lineID string) (*crosstraining.Analysis, error) {
	employees, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID, IncludeInactive: true})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	positions, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID})
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	records, err := s.skillRepo.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill records: %w", err)
	}

	emps := make([]crosstraining.Employee, len(employees))
	for i, e := range employees {
		emps[i] = crosstraining.Employee{ID: e.ID, Name: e.Name, Active: e.Active}
	}
	pos := make([]crosstraining.Position, len(positions))
	for i, p := range positions {
		pos[i] = crosstraining.Position{ID: p.ID, Name: p.Name, Critical: p.Critical}
	}

	analysis := crosstraining.Analyze(emps, pos, records)
	return &analysis, nil
}

// Ensure AnalysisServiceImpl implements the interface
var _ primary.AnalysisService = (*AnalysisServiceImpl)(nil)
