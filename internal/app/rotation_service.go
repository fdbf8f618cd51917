package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/metrics"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// dateLayout is the storage format of calendar dates.
const dateLayout = "2006-01-02"

// RotationServiceImpl implements the RotationService interface.
type RotationServiceImpl struct {
	planRepo       secondary.RotationPlanRepository
	employeeRepo   secondary.EmployeeRepository
	positionRepo   secondary.PositionRepository
	skillRepo      secondary.SkillRepository
	attendanceRepo secondary.AttendanceRepository
	clock          secondary.Clock
	maxPlans       int
	log            *zap.Logger
}

// NewRotationService creates a new RotationService with injected dependencies.
// maxPlans bounds the plans retained per line; non-positive disables pruning.
func NewRotationService(
	planRepo secondary.RotationPlanRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	skillRepo secondary.SkillRepository,
	attendanceRepo secondary.AttendanceRepository,
	clock secondary.Clock,
	maxPlans int,
	log *zap.Logger,
) *RotationServiceImpl {
	return &RotationServiceImpl{
		planRepo:       planRepo,
		employeeRepo:   employeeRepo,
		positionRepo:   positionRepo,
		skillRepo:      skillRepo,
		attendanceRepo: attendanceRepo,
		clock:          clock,
		maxPlans:       maxPlans,
		log:            log,
	}
}

// Generate builds and stores the plan for a line and date.
func (s *RotationServiceImpl) Generate(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	now := s.clock.Now()
	date := req.Date
	if date == "" {
		date = now.Format(dateLayout)
	}

	// 1. Gather inputs
	in, err := s.buildInput(ctx, req.LineID, date)
	if err != nil {
		return nil, err
	}
	in.Bottleneck = req.Bottleneck

	dates, err := s.planRepo.ListDates(ctx, req.LineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan dates: %w", err)
	}
	yesterdayDate := rotation.PickYesterday(dates, date)
	if yesterdayDate != "" {
		prev, err := s.planRepo.Get(ctx, req.LineID, yesterdayDate)
		if err != nil {
			return nil, fmt.Errorf("failed to load plan for %s: %w", yesterdayDate, err)
		}
		if prev != nil {
			in.Yesterday = &prev.Plan
		}
	}

	// 2. Generate (pure)
	plan := rotation.Generate(in)

	// 3. Persist, replacing any plan already stored for the date
	lineCtx := ctxutil.WithLineID(ctx, req.LineID)
	record := &secondary.RotationPlanRecord{
		LineID:      req.LineID,
		Date:        date,
		Bottleneck:  req.Bottleneck,
		Plan:        plan,
		GeneratedAt: now,
	}
	if err := s.planRepo.Save(lineCtx, record); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	// 4. Retention
	pruned, err := s.prune(lineCtx, req.LineID)
	if err != nil {
		return nil, err
	}

	recordPlanMetrics(plan, req.Bottleneck)
	s.log.Info("rotation generated",
		zap.String("line", req.LineID),
		zap.String("date", date),
		zap.Bool("bottleneck", req.Bottleneck),
		zap.Int("slots", len(plan.Slots)),
		zap.Int("violations", len(plan.Violations())),
		zap.Int("gaps", len(plan.Gaps)),
		zap.String("yesterday", yesterdayDate),
	)

	resp := recordToPlan(record)
	resp.YesterdayDate = yesterdayDate
	resp.Pruned = pruned
	return resp, nil
}

// GetPlan retrieves the stored plan for (line, date).
func (s *RotationServiceImpl) GetPlan(ctx context.Context, lineID, date string) (*primary.RotationPlan, error) {
	record, err := s.planRepo.Get(ctx, lineID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("rotation plan %s/%s not found", lineID, date)
	}
	return recordToPlan(record), nil
}

// ListPlanDates lists the dates with a stored plan, oldest first.
func (s *RotationServiceImpl) ListPlanDates(ctx context.Context, lineID string) ([]string, error) {
	return s.planRepo.ListDates(ctx, lineID)
}

// buildInput collects present operators, active positions and the qualified
// and level-two pair sets for a line.
func (s *RotationServiceImpl) buildInput(ctx context.Context, lineID, date string) (rotation.Input, error) {
	employees, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID, Role: string(skill.RoleOperator)})
	if err != nil {
		return rotation.Input{}, fmt.Errorf("failed to list employees: %w", err)
	}
	positions, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID})
	if err != nil {
		return rotation.Input{}, fmt.Errorf("failed to list positions: %w", err)
	}
	records, err := s.skillRepo.ListByLine(ctx, lineID)
	if err != nil {
		return rotation.Input{}, fmt.Errorf("failed to list skill records: %w", err)
	}
	attendance, err := s.attendanceRepo.ListByLineDate(ctx, lineID, date)
	if err != nil {
		return rotation.Input{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	status := make(map[string]string, len(attendance))
	for _, a := range attendance {
		status[a.EmployeeID] = a.Status
	}
	var present []rotation.Employee
	activeIDs := make(map[string]bool, len(employees))
	for _, e := range employees {
		st, recorded := status[e.ID]
		if !isPresent(st, recorded) {
			continue
		}
		present = append(present, rotation.Employee{ID: e.ID, Name: e.Name})
		activeIDs[e.ID] = true
	}

	qualified := rotation.NewPairSet()
	levelTwo := rotation.NewPairSet()
	levels := make(map[rotation.Pair]int)
	qualifiedCount := make(map[string]int)
	for i := range records {
		r := &records[i]
		if skill.IsQualified(r) {
			qualifiedCount[r.PositionID]++
		}
		if !activeIDs[r.EmployeeID] {
			continue
		}
		levels[rotation.Pair{EmployeeID: r.EmployeeID, PositionID: r.PositionID}] = r.CurrentLevel
		switch {
		case skill.IsQualified(r):
			qualified.Add(r.EmployeeID, r.PositionID)
		case r.CurrentLevel == 2:
			levelTwo.Add(r.EmployeeID, r.PositionID)
		}
	}

	active := make([]rotation.Position, len(positions))
	for i, p := range positions {
		active[i] = rotation.Position{ID: p.ID, Name: p.Name, Critical: p.Critical}
	}

	return rotation.Input{
		Employees: present,
		Positions: rotation.SortPositions(active, qualifiedCount),
		Qualified: qualified,
		LevelTwo:  levelTwo,
		Levels:    levels,
	}, nil
}

func (s *RotationServiceImpl) prune(ctx context.Context, lineID string) ([]string, error) {
	dates, err := s.planRepo.ListDates(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plan dates: %w", err)
	}
	stale := rotation.PlansToPrune(dates, s.maxPlans)
	for _, d := range stale {
		if err := s.planRepo.Delete(ctx, lineID, d); err != nil {
			return nil, fmt.Errorf("failed to prune plan %s: %w", d, err)
		}
	}
	return stale, nil
}

func recordPlanMetrics(plan rotation.Plan, bottleneck bool) {
	metrics.RotationPlan(bottleneck)
	for _, slot := range plan.Slots {
		outcome := "clean"
		if slot.HasViolation() {
			outcome = string(slot.Violation)
		}
		metrics.RotationSlot(outcome)
	}
	for _, gap := range plan.Gaps {
		if gap.Reason == rotation.GapBBSkipped {
			metrics.RotationSlot(string(rotation.GapBBSkipped))
			continue
		}
		metrics.RotationSlot("gap")
	}
}

func recordToPlan(r *secondary.RotationPlanRecord) *primary.RotationPlan {
	return &primary.RotationPlan{
		LineID:      r.LineID,
		Date:        r.Date,
		Bottleneck:  r.Bottleneck,
		Plan:        r.Plan,
		GeneratedAt: r.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

// Ensure RotationServiceImpl implements the interface
var _ primary.RotationService = (*RotationServiceImpl)(nil)
