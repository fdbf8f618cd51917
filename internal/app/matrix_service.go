package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// MatrixServiceImpl implements the MatrixService interface.
type MatrixServiceImpl struct {
	lineRepo     secondary.LineRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	skillRepo    secondary.SkillRepository
	planRepo     secondary.RotationPlanRepository
	spreadsheet  secondary.SpreadsheetAdapter
	clock        secondary.Clock
	log          *zap.Logger
}

// NewMatrixService creates a new MatrixService with injected dependencies.
func NewMatrixService(
	lineRepo secondary.LineRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	skillRepo secondary.SkillRepository,
	planRepo secondary.RotationPlanRepository,
	spreadsheet secondary.SpreadsheetAdapter,
	clock secondary.Clock,
	log *zap.Logger,
) *MatrixServiceImpl {
	return &MatrixServiceImpl{
		lineRepo:     lineRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		skillRepo:    skillRepo,
		planRepo:     planRepo,
		spreadsheet:  spreadsheet,
		clock:        clock,
		log:          log,
	}
}

// ImportMatrix seeds skill records from a workbook. Unknown employees and
// positions are created; blank and zero cells are ignored.
func (s *MatrixServiceImpl) ImportMatrix(ctx context.Context, req primary.ImportMatrixRequest) (*primary.ImportMatrixResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.lineRepo.GetByID(ctx, req.LineID); err != nil {
		return nil, err
	}

	sheet, err := s.spreadsheet.ReadMatrix(req.Reader, secondary.MatrixLayout{
		Sheet:            req.Sheet,
		HeaderRow:        req.HeaderRow,
		NameColumn:       req.NameColumn,
		FirstLevelColumn: req.FirstLevelColumn,
		FirstDataRow:     req.FirstDataRow,
	})
	if err != nil {
		return nil, err
	}

	ctx = ctxutil.WithLineID(ctx, req.LineID)
	resp := &primary.ImportMatrixResponse{}

	// 1. Positions, in column order
	positionIDs := make([]string, len(sheet.Positions))
	for i, name := range sheet.Positions {
		id, created, err := s.ensurePosition(ctx, req.LineID, name, i)
		if err != nil {
			return nil, err
		}
		positionIDs[i] = id
		if created {
			resp.NewPositions++
		}
	}

	// 2. Employees and their levels
	now := s.clock.Now()
	for _, row := range sheet.Rows {
		employeeID, created, err := s.ensureEmployee(ctx, req.LineID, row.EmployeeName)
		if err != nil {
			return nil, err
		}
		if created {
			resp.NewEmployees++
		}

		for j, level := range row.Levels {
			if level == nil || *level == 0 || j >= len(positionIDs) {
				continue
			}
			existing, err := s.skillRepo.Get(ctx, employeeID, positionIDs[j])
			if err != nil {
				return nil, fmt.Errorf("failed to get skill record: %w", err)
			}
			var rec skill.Record
			if existing == nil {
				rec = skill.FromImport(employeeID, positionIDs[j], req.LineID, *level, now)
			} else {
				rec = skill.Reimport(*existing, *level, now)
			}
			if err := s.skillRepo.Save(ctx, &rec); err != nil {
				return nil, fmt.Errorf("failed to save skill record: %w", err)
			}
			resp.SkillRecords++
		}
	}

	s.log.Info("skill matrix imported",
		zap.String("line", req.LineID),
		zap.Int("new_employees", resp.NewEmployees),
		zap.Int("new_positions", resp.NewPositions),
		zap.Int("skill_records", resp.SkillRecords),
	)
	return resp, nil
}

func (s *MatrixServiceImpl) ensurePosition(ctx context.Context, lineID, name string, sortOrder int) (string, bool, error) {
	existing, err := s.positionRepo.GetByName(ctx, lineID, name)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up position: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	id, err := s.positionRepo.GetNextID(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to allocate position ID: %w", err)
	}
	record := &secondary.PositionRecord{ID: id, LineID: lineID, Name: strings.TrimSpace(name), SortOrder: sortOrder, Active: true}
	if err := s.positionRepo.Create(ctx, record); err != nil {
		return "", false, err
	}
	return id, true, nil
}

func (s *MatrixServiceImpl) ensureEmployee(ctx context.Context, lineID, name string) (string, bool, error) {
	existing, err := s.employeeRepo.GetByName(ctx, lineID, name)
	if err != nil {
		return "", false, fmt.Errorf("failed to look up employee: %w", err)
	}
	if existing != nil {
		return existing.ID, false, nil
	}
	id, err := s.employeeRepo.GetNextID(ctx)
	if err != nil {
		return "", false, fmt.Errorf("failed to allocate employee ID: %w", err)
	}
	record := &secondary.EmployeeRecord{ID: id, LineID: lineID, Name: strings.TrimSpace(name), Role: string(skill.RoleOperator), Active: true}
	if err := s.employeeRepo.Create(ctx, record); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// ExportMatrix writes the skill matrix of a line's active employees.
func (s *MatrixServiceImpl) ExportMatrix(ctx context.Context, lineID string, w io.Writer) error {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return err
	}
	employees, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID})
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	positions, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID})
	if err != nil {
		return fmt.Errorf("failed to list positions: %w", err)
	}
	records, err := s.skillRepo.ListByLine(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to list skill records: %w", err)
	}

	levels := make(map[skill.Pair]int, len(records))
	for _, r := range records {
		levels[r.Key()] = r.CurrentLevel
	}

	sheet := secondary.MatrixSheet{LineName: line.Name}
	for _, p := range positions {
		sheet.Positions = append(sheet.Positions, p.Name)
	}
	for _, e := range employees {
		row := secondary.MatrixRow{EmployeeName: e.Name, Levels: make([]*int, len(positions))}
		for j, p := range positions {
			if level, ok := levels[skill.Pair{EmployeeID: e.ID, PositionID: p.ID}]; ok {
				row.Levels[j] = &level
			}
		}
		sheet.Rows = append(sheet.Rows, row)
	}

	return s.spreadsheet.WriteMatrix(w, sheet)
}

// ExportRotation writes the stored plan for (line, date).
func (s *MatrixServiceImpl) ExportRotation(ctx context.Context, lineID, date string, w io.Writer) error {
	line, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return err
	}
	plan, err := s.planRepo.Get(ctx, lineID, date)
	if err != nil {
		return fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return fmt.Errorf("rotation plan %s/%s not found", lineID, date)
	}
	return s.spreadsheet.WriteRotation(w, secondary.RotationSheet{
		LineName: line.Name,
		Date:     date,
		Plan:     plan.Plan,
	})
}

// Ensure MatrixServiceImpl implements the interface
var _ primary.MatrixService = (*MatrixServiceImpl)(nil)
