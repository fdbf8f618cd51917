package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/metrics"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// DefaultAuditHistoryLimit is the number of completed audits History returns
// when no limit is given.
const DefaultAuditHistoryLimit = 50

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	auditRepo    secondary.AuditRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	clock        secondary.Clock
	rng          secondary.Random
	log          *zap.Logger
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(
	auditRepo secondary.AuditRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	clock secondary.Clock,
	rng secondary.Random,
	log *zap.Logger,
) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo:    auditRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		clock:        clock,
		rng:          rng,
		log:          log,
	}
}

// TodaysAudit returns the supervisor's audit for today, creating a draft when
// none exists yet.
func (s *AuditServiceImpl) TodaysAudit(ctx context.Context, req primary.TodaysAuditRequest) (*primary.TodaysAuditResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	supervisor, err := s.employeeRepo.GetByID(ctx, req.SupervisorID)
	if err != nil {
		return nil, err
	}
	if supervisor.LineID != req.LineID {
		return nil, fmt.Errorf("employee %s is not on line %s", req.SupervisorID, req.LineID)
	}

	today := s.clock.Now().Format(dateLayout)
	history, err := s.auditRepo.ListBySupervisor(ctx, req.LineID, req.SupervisorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audits: %w", err)
	}

	records, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: req.LineID})
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	names := make(map[string]string, len(records))
	positions := make([]audit.Position, len(records))
	for i, p := range records {
		positions[i] = audit.Position{ID: p.ID, Name: p.Name}
		names[p.ID] = p.Name
	}

	// Idempotent: at most one draft per supervisor per day
	if existing := audit.FindToday(history, req.SupervisorID, today); existing != nil {
		name := names[existing.PositionID]
		if name == "" {
			name = s.positionName(ctx, existing.PositionID)
		}
		return &primary.TodaysAuditResponse{Audit: *existing, PositionName: name}, nil
	}

	selection := audit.Select(positions, history, s.rng)
	if selection == nil {
		return nil, nil
	}

	id, err := s.auditRepo.GetNextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate audit ID: %w", err)
	}
	draft := audit.Log{
		ID:           id,
		LineID:       req.LineID,
		SupervisorID: req.SupervisorID,
		PositionID:   selection.PositionID,
		Date:         today,
	}
	if err := s.auditRepo.Create(ctxutil.WithLineID(ctx, req.LineID), &draft); err != nil {
		return nil, fmt.Errorf("failed to create audit: %w", err)
	}

	metrics.AuditCreated(selection.CycleReset)
	s.log.Info("audit drafted",
		zap.String("audit", id),
		zap.String("supervisor", req.SupervisorID),
		zap.String("position", selection.PositionID),
		zap.Bool("cycle_reset", selection.CycleReset),
	)

	return &primary.TodaysAuditResponse{
		Audit:        draft,
		PositionName: selection.PositionName,
		Created:      true,
		CycleReset:   selection.CycleReset,
	}, nil
}

// LogResult records pass/fail and notes on an audit.
func (s *AuditServiceImpl) LogResult(ctx context.Context, req primary.LogAuditResultRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	existing, err := s.auditRepo.GetByID(ctx, req.AuditID)
	if err != nil {
		return err
	}
	result := audit.Result(req.Result)
	if err := s.auditRepo.SetResult(ctxutil.WithLineID(ctx, existing.LineID), req.AuditID, result, req.Notes); err != nil {
		return err
	}
	s.log.Info("audit result logged", zap.String("audit", req.AuditID), zap.String("result", req.Result))
	return nil
}

// History lists completed audits of a line, newest first.
func (s *AuditServiceImpl) History(ctx context.Context, lineID string, limit int) ([]audit.Log, error) {
	if limit <= 0 {
		limit = DefaultAuditHistoryLimit
	}
	logs, err := s.auditRepo.ListCompleted(ctx, lineID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit history: %w", err)
	}
	return logs, nil
}

// positionName looks up the name of a position that is no longer active.
func (s *AuditServiceImpl) positionName(ctx context.Context, positionID string) string {
	pos, err := s.positionRepo.GetByID(ctx, positionID)
	if err != nil {
		return positionID
	}
	return pos.Name
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
