package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/metrics"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// SkillServiceImpl implements the SkillService interface.
type SkillServiceImpl struct {
	skillRepo    secondary.SkillRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	clock        secondary.Clock
	log          *zap.Logger
}

// NewSkillService creates a new SkillService with injected dependencies.
func NewSkillService(
	skillRepo secondary.SkillRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	clock secondary.Clock,
	log *zap.Logger,
) *SkillServiceImpl {
	return &SkillServiceImpl{
		skillRepo:    skillRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		clock:        clock,
		log:          log,
	}
}

// Promote signs a promotion for (employee, position).
func (s *SkillServiceImpl) Promote(ctx context.Context, req primary.PromoteRequest) (*primary.PromoteResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	// 1. Load the pair (a missing record starts at level 0)
	rec, err := s.load(ctx, req.EmployeeID, req.PositionID)
	if err != nil {
		return nil, err
	}

	// 2. Apply the transition; rejections leave storage untouched
	result, err := skill.Promote(*rec, skill.Signature{
		Name:    req.SignerName,
		Role:    skill.Role(req.SignerRole),
		Comment: req.Comment,
	}, s.clock.Now())
	if err != nil {
		metrics.SkillTransition("promote", rejectionCode(err))
		return nil, err
	}

	// 3. Persist
	if err := s.skillRepo.Save(ctxutil.WithLineID(ctx, rec.LineID), &result.Record); err != nil {
		return nil, fmt.Errorf("failed to save skill record: %w", err)
	}

	outcome := "promoted"
	if result.PendingDual {
		outcome = "pending_dual"
	}
	metrics.SkillTransition("promote", outcome)
	s.log.Info("promotion signed",
		zap.String("employee", req.EmployeeID),
		zap.String("position", req.PositionID),
		zap.String("outcome", outcome),
		zap.Int("level", result.Record.CurrentLevel),
	)

	return &primary.PromoteResponse{
		Record:      result.Record,
		Promoted:    result.Promoted,
		PendingDual: result.PendingDual,
	}, nil
}

// Demote lowers the level of (employee, position).
func (s *SkillServiceImpl) Demote(ctx context.Context, req primary.DemoteRequest) (*skill.Record, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	rec, err := s.load(ctx, req.EmployeeID, req.PositionID)
	if err != nil {
		return nil, err
	}

	next, err := skill.Demote(*rec, req.SupervisorName, req.TargetLevel, req.Reason, s.clock.Now())
	if err != nil {
		metrics.SkillTransition("demote", rejectionCode(err))
		return nil, err
	}

	if err := s.skillRepo.Save(ctxutil.WithLineID(ctx, rec.LineID), &next); err != nil {
		return nil, fmt.Errorf("failed to save skill record: %w", err)
	}

	metrics.SkillTransition("demote", "demoted")
	s.log.Info("demotion recorded",
		zap.String("employee", req.EmployeeID),
		zap.String("position", req.PositionID),
		zap.Int("from", rec.CurrentLevel),
		zap.Int("to", next.CurrentLevel),
	)
	return &next, nil
}

// GetRecord retrieves the record for (employee, position), or a blank
// level-0 record when none exists.
func (s *SkillServiceImpl) GetRecord(ctx context.Context, employeeID, positionID string) (*skill.Record, error) {
	return s.load(ctx, employeeID, positionID)
}

// ListPendingDual lists the records of a line awaiting a second signature.
func (s *SkillServiceImpl) ListPendingDual(ctx context.Context, lineID string) ([]skill.Record, error) {
	records, err := s.skillRepo.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill records: %w", err)
	}
	var pending []skill.Record
	for _, r := range records {
		if r.Status == skill.StatusPendingDual {
			pending = append(pending, r)
		}
	}
	return pending, nil
}

// Matrix returns every record of a line.
func (s *SkillServiceImpl) Matrix(ctx context.Context, lineID string) ([]skill.Record, error) {
	records, err := s.skillRepo.ListByLine(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill records: %w", err)
	}
	return records, nil
}

// load fetches the pair's record after checking both ends exist on the same line.
func (s *SkillServiceImpl) load(ctx context.Context, employeeID, positionID string) (*skill.Record, error) {
	emp, err := s.employeeRepo.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionRepo.GetByID(ctx, positionID)
	if err != nil {
		return nil, err
	}
	if emp.LineID != pos.LineID {
		return nil, fmt.Errorf("employee %s and position %s are on different lines", employeeID, positionID)
	}

	rec, err := s.skillRepo.Get(ctx, employeeID, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill record: %w", err)
	}
	if rec == nil {
		blank := skill.Blank(employeeID, positionID, emp.LineID)
		return &blank, nil
	}
	return rec, nil
}

func rejectionCode(err error) string {
	var rej *skill.RejectionError
	if errors.As(err, &rej) {
		return string(rej.Code)
	}
	return "error"
}

// Ensure SkillServiceImpl implements the interface
var _ primary.SkillService = (*SkillServiceImpl)(nil)
