package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/core/recommendation"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// Sequence names for client ids.
const (
	seqTrainingLog    = "training_log"
	seqRecommendation = "recommendation"
)

// ErrNoDeviceID is returned when a client id would have to be minted or a
// bundle stamped without a device id.
var ErrNoDeviceID = errors.New("device id is not configured")

// DefaultRecentLogs is the number of logs ListRecent returns when no limit is given.
const DefaultRecentLogs = 20

// TrainingServiceImpl implements the TrainingService interface.
type TrainingServiceImpl struct {
	logRepo      secondary.TrainingLogRepository
	recRepo      secondary.RecommendationRepository
	seqRepo      secondary.SequenceRepository
	skillRepo    secondary.SkillRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	clock        secondary.Clock
	deviceID     string
	log          *zap.Logger
}

// NewTrainingService creates a new TrainingService with injected dependencies.
// deviceID prefixes every client id minted on this device.
func NewTrainingService(
	logRepo secondary.TrainingLogRepository,
	recRepo secondary.RecommendationRepository,
	seqRepo secondary.SequenceRepository,
	skillRepo secondary.SkillRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	clock secondary.Clock,
	deviceID string,
	log *zap.Logger,
) *TrainingServiceImpl {
	return &TrainingServiceImpl{
		logRepo:      logRepo,
		recRepo:      recRepo,
		seqRepo:      seqRepo,
		skillRepo:    skillRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		clock:        clock,
		deviceID:     deviceID,
		log:          log,
	}
}

// LogTraining records a training session and, when asked, raises or
// re-points the open recommendation for the pair.
func (s *TrainingServiceImpl) LogTraining(ctx context.Context, req primary.LogTrainingRequest) (*primary.LogTrainingResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if s.deviceID == "" {
		return nil, ErrNoDeviceID
	}

	// 1. Resolve references on this device
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	pos, err := s.positionRepo.GetByID(ctx, req.PositionID)
	if err != nil {
		return nil, err
	}
	if emp.LineID != req.LineID || pos.LineID != req.LineID {
		return nil, fmt.Errorf("employee %s and position %s must both be on line %s", emp.ID, pos.ID, req.LineID)
	}

	// 2. Mint the client id and store the log
	seq, err := s.seqRepo.Next(ctx, seqTrainingLog)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	shift := req.Shift
	if shift == "" {
		shift = deriveShift(now)
	}
	entry := delta.TrainingLog{
		ClientID:             fmt.Sprintf("%s_log_%d", s.deviceID, seq),
		DeviceID:             s.deviceID,
		LineID:               req.LineID,
		EmployeeID:           &emp.ID,
		EmployeeName:         emp.Name,
		EmployeeResolved:     true,
		PositionID:           &pos.ID,
		PositionName:         pos.Name,
		PositionResolved:     true,
		TrainerName:          strings.TrimSpace(req.TrainerName),
		CreatedByName:        strings.TrimSpace(req.LoggedByName),
		CreatedByRole:        req.LoggedByRole,
		DurationMinutes:      req.DurationMinutes,
		Notes:                strings.TrimSpace(req.Notes),
		RecommendLevelChange: req.RecommendLevelChange,
		Shift:                shift,
		Timestamp:            now,
	}

	lineCtx := ctxutil.WithLineID(ctx, req.LineID)
	outcome, err := s.logRepo.Insert(lineCtx, &entry)
	if err != nil {
		return nil, err
	}
	if outcome == secondary.AlreadyExists {
		return nil, fmt.Errorf("training log %s already exists", entry.ClientID)
	}

	resp := &primary.LogTrainingResponse{Log: entry}
	if !req.RecommendLevelChange {
		s.log.Info("training logged", zap.String("log", entry.ClientID))
		return resp, nil
	}

	// 3. Raise or re-point the open recommendation
	rec, merged, err := s.recommend(lineCtx, entry, now)
	if err != nil {
		return nil, err
	}
	resp.Recommendation = rec
	resp.Merged = merged

	s.log.Info("training logged",
		zap.String("log", entry.ClientID),
		zap.String("recommendation", rec.ClientID),
		zap.Bool("merged", merged),
	)
	return resp, nil
}

func (s *TrainingServiceImpl) recommend(ctx context.Context, entry delta.TrainingLog, now time.Time) (*delta.Recommendation, bool, error) {
	existing, err := s.recRepo.ListByPair(ctx, *entry.EmployeeID, *entry.PositionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list recommendations: %w", err)
	}

	var current *int
	record, err := s.skillRepo.Get(ctx, *entry.EmployeeID, *entry.PositionID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get skill record: %w", err)
	}
	if record != nil {
		level := record.CurrentLevel
		current = &level
	}

	decision := recommendation.MergeOnCreate(existing, entry, recommendation.NewInput{
		DeviceID:     s.deviceID,
		CurrentLevel: current,
		Now:          now,
	})

	if decision.Update != nil {
		if err := s.recRepo.Update(ctx, decision.Update); err != nil {
			return nil, false, err
		}
		return decision.Update, true, nil
	}

	// The sequence only advances when a recommendation is actually created
	seq, err := s.seqRepo.Next(ctx, seqRecommendation)
	if err != nil {
		return nil, false, err
	}
	rec := decision.Create
	rec.ClientID = fmt.Sprintf("%s_rec_%d", s.deviceID, seq)
	outcome, err := s.recRepo.Insert(ctx, rec)
	if err != nil {
		return nil, false, err
	}
	if outcome == secondary.AlreadyExists {
		return nil, false, fmt.Errorf("recommendation %s already exists", rec.ClientID)
	}
	return rec, false, nil
}

// ListRecent lists the newest training logs of a line.
func (s *TrainingServiceImpl) ListRecent(ctx context.Context, lineID string, limit int) ([]delta.TrainingLog, error) {
	if limit <= 0 {
		limit = DefaultRecentLogs
	}
	return s.logRepo.ListRecent(ctx, lineID, limit)
}

// ListOpenRecommendations lists the open recommendations of a line.
func (s *TrainingServiceImpl) ListOpenRecommendations(ctx context.Context, lineID string) ([]delta.Recommendation, error) {
	return s.recRepo.ListOpen(ctx, lineID)
}

// ActionRecommendation closes an open recommendation.
func (s *TrainingServiceImpl) ActionRecommendation(ctx context.Context, req primary.ActionRecommendationRequest) (*delta.Recommendation, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	rec, err := s.recRepo.GetByClientID(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("recommendation %s not found", req.ClientID)
	}

	actioned, err := recommendation.Action(*rec, recommendation.Outcome(req.Outcome), req.ActionedBy, req.Note, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := s.recRepo.Update(ctxutil.WithLineID(ctx, rec.LineID), &actioned); err != nil {
		return nil, err
	}

	s.log.Info("recommendation actioned", zap.String("recommendation", req.ClientID), zap.String("outcome", req.Outcome))
	return &actioned, nil
}

// deriveShift maps the local hour to the shift running at that time.
func deriveShift(t time.Time) string {
	h := t.Local().Hour()
	switch {
	case h >= 6 && h < 14:
		return "day"
	case h >= 14 && h < 22:
		return "afternoon"
	default:
		return "night"
	}
}

// Ensure TrainingServiceImpl implements the interface
var _ primary.TrainingService = (*TrainingServiceImpl)(nil)
