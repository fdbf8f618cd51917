package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/delta"
)

// syncDevice is one side of a sync exchange with its own storage.
type syncDevice struct {
	service *SyncServiceImpl
	lines   *mockLineRepository
	logs    *mockTrainingLogRepository
	recs    *mockRecommendationRepository
	clock   *fixedClock
}

func newSyncDevice(deviceID string) syncDevice {
	lines := newMockLineRepository()
	lines.lines["LINE-001"] = nil
	emps := newMockEmployeeRepository()
	emps.add("EMP-001", "LINE-001", "Dana Ruiz", "operator")
	emps.add("EMP-002", "LINE-001", "Lee Park", "operator")
	positions := newMockPositionRepository()
	positions.add("POS-001", "LINE-001", "Press", true, 0)

	d := syncDevice{
		lines: lines,
		logs:  newMockTrainingLogRepository(),
		recs:  newMockRecommendationRepository(),
		clock: newFixedClock("2026-03-02T15:00:00Z"),
	}
	d.service = NewSyncService(lines, emps, positions, d.logs, d.recs, d.clock, &sequentialIDs{},
		DeviceInfo{ID: deviceID, SeedVersion: 7, UsersVersion: 3}, zap.NewNop())
	return d
}

func fieldLog(clientID, employeeID string, at time.Time) delta.TrainingLog {
	emp, pos := employeeID, "POS-001"
	return delta.TrainingLog{
		ClientID:         clientID,
		DeviceID:         "tablet-1",
		LineID:           "LINE-001",
		EmployeeID:       &emp,
		EmployeeName:     "Dana Ruiz",
		EmployeeResolved: true,
		PositionID:       &pos,
		PositionName:     "Press",
		PositionResolved: true,
		CreatedByName:    "Alex",
		CreatedByRole:    "team_lead",
		DurationMinutes:  30,
		Shift:            "day",
		Timestamp:        at,
	}
}

func openRec(clientID, employeeID string, at time.Time) delta.Recommendation {
	return delta.Recommendation{
		ClientID:      clientID,
		DeviceID:      "tablet-1",
		LineID:        "LINE-001",
		TrainingLogID: "tablet-1_log_1",
		EmployeeID:    employeeID,
		PositionID:    "POS-001",
		CreatedByName: "Alex",
		CreatedByRole: "team_lead",
		CreatedAt:     at,
		Status:        delta.RecOpen,
	}
}

func TestSyncService_ExportImportMarkSynced(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	for i, id := range []string{"tablet-1_log_1", "tablet-1_log_2", "tablet-1_log_3"} {
		_, err := field.logs.Insert(ctx, ptr(fieldLog(id, "EMP-001", base.Add(time.Duration(i)*time.Minute))))
		require.NoError(t, err)
	}
	// The authority already holds one of them from an earlier partial sync
	_, err := authority.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_2", "EMP-001", base)))
	require.NoError(t, err)

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.Equal(t, "bundle-1", bundle.BundleID)
	assert.Equal(t, "tablet-1", bundle.SourceDeviceID)
	assert.Equal(t, int64(7), bundle.SeedVersion)
	assert.Equal(t, 3, bundle.RecordCount.TrainingLogs)

	resp, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Result.Imported)
	assert.Equal(t, 1, resp.Result.Skipped)
	assert.Equal(t, 0, resp.Result.Errors)
	assert.Equal(t, 0, resp.Result.Unresolved)
	assert.Equal(t, bundle.BundleID, resp.Receipt.BundleID)

	imported := authority.logs.logs["tablet-1_log_1"]
	assert.True(t, imported.SyncedToAuthority)
	require.NotNil(t, imported.ImportedAt)

	marked, err := field.service.MarkSynced(ctx, &resp.Receipt)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	again, err := field.service.MarkSynced(ctx, &resp.Receipt)
	require.NoError(t, err)
	assert.Zero(t, again, "re-applying a receipt is a no-op")

	// Only the skipped record is still pending on the field device
	next, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)
	require.NotNil(t, next)
	require.Len(t, next.Records.TrainingLogs, 1)
	assert.Equal(t, "tablet-1_log_2", next.Records.TrainingLogs[0].ClientID)
}

func TestSyncService_ExportNothingToSend(t *testing.T) {
	field := newSyncDevice("tablet-1")

	bundle, err := field.service.Export(context.Background(), "LINE-001")
	require.NoError(t, err)
	assert.Nil(t, bundle)
}

func TestSyncService_ReimportIsIdempotent(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_1", "EMP-001", base)))
	_, _ = field.recs.Insert(ctx, ptr(openRec("tablet-1_rec_1", "EMP-001", base)))
	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)

	first, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Result.Imported)

	second, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Zero(t, second.Result.Imported)
	assert.Equal(t, 2, second.Result.Skipped)
	assert.Empty(t, second.Receipt.ImportedClientIDs())

	open, _ := authority.recs.ListOpen(ctx, "LINE-001")
	assert.Len(t, open, 1)
}

func TestSyncService_ImportRejectsTamperedBundle(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_1", "EMP-001", time.Now())))

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)
	bundle.Records.TrainingLogs[0].DurationMinutes = 600

	_, err = authority.service.Import(ctx, bundle)
	assert.True(t, errors.Is(err, delta.ErrChecksumMismatch), "got %v", err)
	assert.Empty(t, authority.logs.logs, "nothing from a corrupted bundle is applied")
}

func TestSyncService_ImportRejectsUnknownLine(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	delete(authority.lines.lines, "LINE-001")
	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_1", "EMP-001", time.Now())))

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)

	_, err = authority.service.Import(ctx, bundle)
	assert.ErrorIs(t, err, delta.ErrUnknownLine)
	assert.Empty(t, authority.logs.logs)
}

func TestSyncService_ImportKeepsUnresolvedLogs(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_1", "EMP-777", time.Now())))

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)

	resp, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Imported)
	assert.Equal(t, 1, resp.Result.Unresolved)
	assert.Equal(t, 1, resp.Receipt.UnresolvedCount)

	stored := authority.logs.logs["tablet-1_log_1"]
	assert.Nil(t, stored.EmployeeID)
	assert.False(t, stored.EmployeeResolved)
	require.NotNil(t, stored.PositionID)
	assert.Equal(t, "Dana Ruiz", stored.EmployeeName, "the snapshot survives")
}

func TestSyncService_ImportPerRecordErrorDoesNotStopOthers(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_1", "EMP-001", base)))
	_, _ = field.logs.Insert(ctx, ptr(fieldLog("tablet-1_log_2", "EMP-001", base.Add(time.Minute))))
	authority.logs.insertErr["tablet-1_log_1"] = errors.New("disk I/O error")

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)

	resp, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Result.Errors)
	assert.Equal(t, 1, resp.Result.Imported)
	assert.Equal(t, []string{"tablet-1_log_2"}, resp.Receipt.ImportedClientIDs())

	var failed delta.Detail
	for _, d := range resp.Result.Details {
		if d.Status == delta.StatusError {
			failed = d
		}
	}
	assert.Equal(t, "tablet-1_log_1", failed.ClientID)
	assert.Contains(t, failed.Detail, "disk I/O error")
}

func TestSyncService_ImportDedupsOpenRecommendations(t *testing.T) {
	ctx := context.Background()
	field := newSyncDevice("tablet-1")
	authority := newSyncDevice("office-1")
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	// Another device raised an open recommendation for the same pair earlier
	_, _ = authority.recs.Insert(ctx, ptr(openRec("tablet-2_rec_1", "EMP-001", base)))
	_, _ = field.recs.Insert(ctx, ptr(openRec("tablet-1_rec_1", "EMP-001", base.Add(time.Hour))))
	_, _ = field.recs.Insert(ctx, ptr(openRec("tablet-1_rec_2", "EMP-002", base.Add(time.Hour))))

	bundle, err := field.service.Export(ctx, "LINE-001")
	require.NoError(t, err)

	resp, err := authority.service.Import(ctx, bundle)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Result.Imported)

	pair, _ := authority.recs.ListByPair(ctx, "EMP-001", "POS-001")
	require.Len(t, pair, 1)
	assert.Equal(t, "tablet-2_rec_1", pair[0].ClientID, "the oldest open recommendation wins")

	other, _ := authority.recs.ListByPair(ctx, "EMP-002", "POS-001")
	assert.Len(t, other, 1)
}

func TestSyncService_NilArguments(t *testing.T) {
	d := newSyncDevice("tablet-1")

	_, err := d.service.Import(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	_, err = d.service.MarkSynced(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func ptr[T any](v T) *T { return &v }
