package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// ExportSeed packages a line's master data on the authority.
func (s *SyncServiceImpl) ExportSeed(ctx context.Context, lineID string) (*delta.Seed, error) {
	if s.device.ID == "" {
		return nil, ErrNoDeviceID
	}
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	employees, positions, err := s.localMasterData(ctx, lineID)
	if err != nil {
		return nil, err
	}

	seed := delta.BuildSeed(delta.SeedInput{
		SeedID:      s.ids.NewID(),
		DeviceID:    s.device.ID,
		GeneratedAt: s.clock.Now(),
		LineID:      line.ID,
		LineName:    line.Name,
		LineShift:   line.Shift,
		Employees:   employees,
		Positions:   positions,
	})

	s.log.Info("seed exported",
		zap.String("seed", seed.SeedID),
		zap.String("line", lineID),
		zap.Int("employees", len(seed.Employees)),
		zap.Int("positions", len(seed.Positions)),
	)
	return seed, nil
}

// ImportSeed provisions this device's copy of a line from a seed.
func (s *SyncServiceImpl) ImportSeed(ctx context.Context, seed *delta.Seed) (*primary.SeedImportResponse, error) {
	if seed == nil {
		return nil, fmt.Errorf("%w: seed is required", ErrInvalidRequest)
	}
	if err := delta.VerifySeed(seed); err != nil {
		return nil, err
	}

	resp := &primary.SeedImportResponse{
		LineID:       seed.LineID,
		SeedVersion:  seed.SeedVersion,
		UsersVersion: seed.UsersVersion,
	}
	lineCtx := ctxutil.WithLineID(ctx, seed.LineID)

	exists, err := s.lineRepo.Exists(ctx, seed.LineID)
	if err != nil {
		return nil, err
	}
	if !exists {
		line := &secondary.LineRecord{ID: seed.LineID, Name: seed.LineName, Shift: seed.LineShift}
		if err := s.lineRepo.Create(lineCtx, line); err != nil {
			return nil, fmt.Errorf("failed to create line %s: %w", seed.LineID, err)
		}
		resp.LineCreated = true
	}

	employees, positions, err := s.localMasterData(ctx, seed.LineID)
	if err != nil {
		return nil, err
	}
	plan := delta.PlanSeed(seed, employees, positions)
	resp.Conflicts = plan.Conflicts

	// A write that still fails (an id taken on another line, a rename onto a
	// taken name) is reported with the planned conflicts.
	for _, e := range plan.CreateEmployees {
		if err := s.employeeRepo.Create(lineCtx, seededEmployee(seed.LineID, e)); err != nil {
			resp.Conflicts = append(resp.Conflicts, s.seedFailure("employee", e.ID, e.Name, err))
			continue
		}
		resp.EmployeesAdded++
	}
	for _, e := range plan.UpdateEmployees {
		if err := s.employeeRepo.Update(lineCtx, seededEmployee(seed.LineID, e)); err != nil {
			resp.Conflicts = append(resp.Conflicts, s.seedFailure("employee", e.ID, e.Name, err))
			continue
		}
		resp.EmployeesUpdated++
	}
	for _, p := range plan.CreatePositions {
		if err := s.positionRepo.Create(lineCtx, seededPosition(seed.LineID, p)); err != nil {
			resp.Conflicts = append(resp.Conflicts, s.seedFailure("position", p.ID, p.Name, err))
			continue
		}
		resp.PositionsAdded++
	}
	for _, p := range plan.UpdatePositions {
		if err := s.positionRepo.Update(lineCtx, seededPosition(seed.LineID, p)); err != nil {
			resp.Conflicts = append(resp.Conflicts, s.seedFailure("position", p.ID, p.Name, err))
			continue
		}
		resp.PositionsUpdated++
	}

	s.log.Info("seed imported",
		zap.String("seed", seed.SeedID),
		zap.String("line", seed.LineID),
		zap.Int("employees_added", resp.EmployeesAdded),
		zap.Int("positions_added", resp.PositionsAdded),
		zap.Int("conflicts", len(resp.Conflicts)),
	)
	return resp, nil
}

func (s *SyncServiceImpl) localMasterData(ctx context.Context, lineID string) ([]delta.SeedEmployee, []delta.SeedPosition, error) {
	empRecords, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID, IncludeInactive: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list employees: %w", err)
	}
	posRecords, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID, IncludeInactive: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list positions: %w", err)
	}

	employees := make([]delta.SeedEmployee, 0, len(empRecords))
	for _, e := range empRecords {
		employees = append(employees, delta.SeedEmployee{ID: e.ID, Name: e.Name, Role: e.Role, Active: e.Active})
	}
	positions := make([]delta.SeedPosition, 0, len(posRecords))
	for _, p := range posRecords {
		positions = append(positions, delta.SeedPosition{ID: p.ID, Name: p.Name, Critical: p.Critical, SortOrder: p.SortOrder, Active: p.Active})
	}
	return employees, positions, nil
}

func (s *SyncServiceImpl) seedFailure(kind, id, name string, err error) delta.SeedConflict {
	s.log.Warn("seeded entity not applied", zap.String("kind", kind), zap.String("id", id), zap.Error(err))
	return delta.SeedConflict{Kind: kind, ID: id, Name: name}
}

func seededEmployee(lineID string, e delta.SeedEmployee) *secondary.EmployeeRecord {
	return &secondary.EmployeeRecord{ID: e.ID, LineID: lineID, Name: e.Name, Role: e.Role, Active: e.Active}
}

func seededPosition(lineID string, p delta.SeedPosition) *secondary.PositionRecord {
	return &secondary.PositionRecord{ID: p.ID, LineID: lineID, Name: p.Name, Critical: p.Critical, SortOrder: p.SortOrder, Active: p.Active}
}
