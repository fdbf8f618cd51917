package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/metrics"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// DeviceInfo identifies this device in exported bundles.
type DeviceInfo struct {
	ID           string
	SeedVersion  int64
	UsersVersion int64
}

// SyncServiceImpl implements the SyncService interface.
type SyncServiceImpl struct {
	lineRepo     secondary.LineRepository
	employeeRepo secondary.EmployeeRepository
	positionRepo secondary.PositionRepository
	logRepo      secondary.TrainingLogRepository
	recRepo      secondary.RecommendationRepository
	clock        secondary.Clock
	ids          secondary.IDGenerator
	device       DeviceInfo
	log          *zap.Logger
}

// NewSyncService creates a new SyncService with injected dependencies.
func NewSyncService(
	lineRepo secondary.LineRepository,
	employeeRepo secondary.EmployeeRepository,
	positionRepo secondary.PositionRepository,
	logRepo secondary.TrainingLogRepository,
	recRepo secondary.RecommendationRepository,
	clock secondary.Clock,
	ids secondary.IDGenerator,
	device DeviceInfo,
	log *zap.Logger,
) *SyncServiceImpl {
	return &SyncServiceImpl{
		lineRepo:     lineRepo,
		employeeRepo: employeeRepo,
		positionRepo: positionRepo,
		logRepo:      logRepo,
		recRepo:      recRepo,
		clock:        clock,
		ids:          ids,
		device:       device,
		log:          log,
	}
}

// Export builds a bundle of a line's unsynced records.
func (s *SyncServiceImpl) Export(ctx context.Context, lineID string) (*delta.Bundle, error) {
	if s.device.ID == "" {
		return nil, ErrNoDeviceID
	}
	logs, err := s.logRepo.ListUnsynced(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced training logs: %w", err)
	}
	recs, err := s.recRepo.ListUnsynced(ctx, lineID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unsynced recommendations: %w", err)
	}

	bundle, err := delta.BuildBundle(delta.ExportInput{
		BundleID:     s.ids.NewID(),
		ExportedAt:   s.clock.Now(),
		DeviceID:     s.device.ID,
		LineID:       lineID,
		SeedVersion:  s.device.SeedVersion,
		UsersVersion: s.device.UsersVersion,
		Logs:         logs,
		Recs:         recs,
	})
	if err != nil {
		return nil, err
	}
	if bundle == nil {
		s.log.Info("nothing to export", zap.String("line", lineID))
		return nil, nil
	}

	metrics.BundleExported()
	s.log.Info("bundle exported",
		zap.String("bundle", bundle.BundleID),
		zap.String("line", lineID),
		zap.Int("training_logs", bundle.RecordCount.TrainingLogs),
		zap.Int("recommendations", bundle.RecordCount.PendingRecommendations),
	)
	return bundle, nil
}

// Import applies a bundle on the authority. Integrity failures reject the
// whole bundle before any record is written; after that, one bad record never
// stops the rest.
func (s *SyncServiceImpl) Import(ctx context.Context, bundle *delta.Bundle) (*primary.ImportResponse, error) {
	if bundle == nil {
		return nil, fmt.Errorf("%w: bundle is required", ErrInvalidRequest)
	}

	// 1. Integrity
	known, err := s.lineRepo.Exists(ctx, bundle.TargetLineID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up line: %w", err)
	}
	if err := delta.Verify(bundle, known); err != nil {
		var integrity *delta.IntegrityError
		if errors.As(err, &integrity) {
			metrics.SyncRejected(string(integrity.Code))
		}
		s.log.Warn("bundle rejected", zap.String("bundle", bundle.BundleID), zap.Error(err))
		return nil, err
	}

	refs, err := s.loadRefs(ctx, bundle.TargetLineID)
	if err != nil {
		return nil, err
	}
	lineCtx := ctxutil.WithLineID(ctx, bundle.TargetLineID)
	var result delta.Result

	// 2. Training logs
	for _, l := range bundle.Records.TrainingLogs {
		s.importLog(lineCtx, refs, l, &result)
	}

	// 3. Recommendations, then dedup each touched pair
	touched := make(map[[2]string]bool)
	var pairs [][2]string
	for i := range bundle.Records.PendingRecommendations {
		rec := bundle.Records.PendingRecommendations[i]
		rec.SyncedToAuthority = true
		outcome, err := s.recRepo.Insert(lineCtx, &rec)
		s.tally(&result, delta.KindRecommendation, rec.ClientID, outcome, err)
		if err != nil || outcome != secondary.Inserted {
			continue
		}
		key := [2]string{rec.EmployeeID, rec.PositionID}
		if !touched[key] {
			touched[key] = true
			pairs = append(pairs, key)
		}
	}
	for _, pair := range pairs {
		if err := s.dedup(lineCtx, pair[0], pair[1]); err != nil {
			s.log.Error("dedup failed",
				zap.String("employee", pair[0]),
				zap.String("position", pair[1]),
				zap.Error(err),
			)
		}
	}

	// 4. Receipt
	receipt := delta.NewReceipt(bundle, result, s.clock.Now())
	s.log.Info("bundle imported",
		zap.String("bundle", bundle.BundleID),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("errors", result.Errors),
		zap.Int("unresolved", result.Unresolved),
	)
	return &primary.ImportResponse{Result: result, Receipt: receipt}, nil
}

func (s *SyncServiceImpl) importLog(ctx context.Context, refs lineRefs, l delta.TrainingLog, result *delta.Result) {
	resolved := delta.ResolveTrainingLog(l, delta.ResolveContext{
		EmployeeKnown: refs.hasEmployee(l.EmployeeID),
		PositionKnown: refs.hasPosition(l.PositionID),
		Now:           s.clock.Now(),
	})
	outcome, err := s.logRepo.Insert(ctx, &resolved)
	s.tally(result, delta.KindTrainingLog, l.ClientID, outcome, err)
	if err == nil && outcome == secondary.Inserted && resolved.Unresolved() {
		result.AddUnresolved()
	}
}

func (s *SyncServiceImpl) tally(result *delta.Result, kind delta.Kind, clientID string, outcome secondary.InsertOutcome, err error) {
	switch {
	case err == nil && outcome == secondary.Inserted:
		result.AddImported(kind, clientID)
	case err == nil && outcome == secondary.AlreadyExists:
		result.AddSkipped(kind, clientID)
	default:
		if err == nil {
			err = fmt.Errorf("insert %s", outcome)
		}
		result.AddError(kind, clientID, err)
		outcome = secondary.InsertFailed
	}
	metrics.SyncRecord(string(kind), outcome.String())
}

// dedup keeps the oldest open recommendation for a pair and deletes the rest.
func (s *SyncServiceImpl) dedup(ctx context.Context, employeeID, positionID string) error {
	recs, err := s.recRepo.ListByPair(ctx, employeeID, positionID)
	if err != nil {
		return err
	}
	for _, clientID := range delta.DedupOpen(recs) {
		if err := s.recRepo.Delete(ctx, clientID); err != nil {
			return err
		}
		s.log.Info("duplicate open recommendation removed", zap.String("recommendation", clientID))
	}
	return nil
}

// lineRefs holds the employee and position ids known on the bundle's line.
// Inactive entries still resolve.
type lineRefs struct {
	employees map[string]bool
	positions map[string]bool
}

func (r lineRefs) hasEmployee(id *string) bool { return id != nil && r.employees[*id] }
func (r lineRefs) hasPosition(id *string) bool { return id != nil && r.positions[*id] }

func (s *SyncServiceImpl) loadRefs(ctx context.Context, lineID string) (lineRefs, error) {
	emps, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID, IncludeInactive: true})
	if err != nil {
		return lineRefs{}, fmt.Errorf("failed to list employees: %w", err)
	}
	positions, err := s.positionRepo.List(ctx, secondary.PositionFilters{LineID: lineID, IncludeInactive: true})
	if err != nil {
		return lineRefs{}, fmt.Errorf("failed to list positions: %w", err)
	}
	refs := lineRefs{
		employees: make(map[string]bool, len(emps)),
		positions: make(map[string]bool, len(positions)),
	}
	for _, e := range emps {
		refs.employees[e.ID] = true
	}
	for _, p := range positions {
		refs.positions[p.ID] = true
	}
	return refs, nil
}

// MarkSynced flips the synced flag of every record the receipt reports as
// imported. Applying the same receipt twice is a no-op.
func (s *SyncServiceImpl) MarkSynced(ctx context.Context, receipt *delta.Receipt) (int, error) {
	if receipt == nil {
		return 0, fmt.Errorf("%w: receipt is required", ErrInvalidRequest)
	}
	marked := 0
	for _, id := range receipt.ImportedClientIDs() {
		ok, err := s.logRepo.MarkSynced(ctx, id)
		if err != nil {
			return marked, fmt.Errorf("failed to mark training log %s: %w", id, err)
		}
		if ok {
			marked++
			continue
		}
		ok, err = s.recRepo.MarkSynced(ctx, id)
		if err != nil {
			return marked, fmt.Errorf("failed to mark recommendation %s: %w", id, err)
		}
		if ok {
			marked++
		}
	}

	metrics.MarkedSynced(marked)
	s.log.Info("receipt applied", zap.String("bundle", receipt.BundleID), zap.Int("marked", marked))
	return marked, nil
}

// Ensure SyncServiceImpl implements the interface
var _ primary.SyncService = (*SyncServiceImpl)(nil)
