package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

type seedDevice struct {
	service   *SyncServiceImpl
	lines     *mockLineRepository
	employees *mockEmployeeRepository
	positions *mockPositionRepository
}

func newSeedDevice(deviceID string) seedDevice {
	d := seedDevice{
		lines:     newMockLineRepository(),
		employees: newMockEmployeeRepository(),
		positions: newMockPositionRepository(),
	}
	d.service = NewSyncService(d.lines, d.employees, d.positions, newMockTrainingLogRepository(), newMockRecommendationRepository(),
		newFixedClock("2026-03-01T06:00:00Z"), &sequentialIDs{}, DeviceInfo{ID: deviceID}, zap.NewNop())
	return d
}

func newAuthorityWithLine() seedDevice {
	d := newSeedDevice("office-1")
	d.lines.lines["LINE-001"] = &secondary.LineRecord{ID: "LINE-001", Name: "Assembly", Shift: "day"}
	d.employees.add("EMP-001", "LINE-001", "Dana Ruiz", "operator")
	d.employees.add("EMP-002", "LINE-001", "Lee Park", "supervisor")
	d.employees.add("EMP-003", "LINE-001", "Left Company", "operator")
	d.employees.employees["EMP-003"].Active = false
	d.employees.add("EMP-004", "LINE-002", "Other Line", "operator")
	d.positions.add("POS-001", "LINE-001", "Press", true, 1)
	d.positions.add("POS-002", "LINE-001", "Weld", false, 2)
	return d
}

func TestSyncService_SeedProvisionsFieldDeviceWithAuthorityIDs(t *testing.T) {
	ctx := context.Background()
	authority := newAuthorityWithLine()
	field := newSeedDevice("tablet-1")

	seed, err := authority.service.ExportSeed(ctx, "LINE-001")
	require.NoError(t, err)
	assert.Equal(t, "office-1", seed.AuthorityDeviceID)
	assert.Len(t, seed.Employees, 2)
	assert.Len(t, seed.Positions, 2)

	resp, err := field.service.ImportSeed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, primary.SeedImportResponse{
		LineID:         "LINE-001",
		LineCreated:    true,
		SeedVersion:    seed.SeedVersion,
		UsersVersion:   seed.UsersVersion,
		EmployeesAdded: 2,
		PositionsAdded: 2,
	}, *resp)

	line, err := field.lines.GetByID(ctx, "LINE-001")
	require.NoError(t, err)
	assert.Equal(t, "Assembly", line.Name)

	lee, err := field.employees.GetByName(ctx, "LINE-001", "lee park")
	require.NoError(t, err)
	require.NotNil(t, lee)
	assert.Equal(t, "EMP-002", lee.ID, "the authority's id must be kept")
	assert.Equal(t, "supervisor", lee.Role)

	weld, err := field.positions.GetByID(ctx, "POS-002")
	require.NoError(t, err)
	assert.Equal(t, 2, weld.SortOrder)
}

func TestSyncService_SeedReimportUpdatesAndIsStable(t *testing.T) {
	ctx := context.Background()
	authority := newAuthorityWithLine()
	field := newSeedDevice("tablet-1")

	seed, err := authority.service.ExportSeed(ctx, "LINE-001")
	require.NoError(t, err)
	_, err = field.service.ImportSeed(ctx, seed)
	require.NoError(t, err)

	again, err := field.service.ImportSeed(ctx, seed)
	require.NoError(t, err)
	assert.False(t, again.LineCreated)
	assert.Zero(t, again.EmployeesAdded+again.EmployeesUpdated+again.PositionsAdded+again.PositionsUpdated)

	authority.positions.positions["POS-001"].Critical = false
	seed, err = authority.service.ExportSeed(ctx, "LINE-001")
	require.NoError(t, err)
	resp, err := field.service.ImportSeed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.PositionsUpdated)
	press, err := field.positions.GetByID(ctx, "POS-001")
	require.NoError(t, err)
	assert.False(t, press.Critical)
}

func TestSyncService_SeedReportsNameTakenUnderAnotherID(t *testing.T) {
	ctx := context.Background()
	authority := newAuthorityWithLine()
	field := newSeedDevice("tablet-1")
	field.lines.lines["LINE-001"] = &secondary.LineRecord{ID: "LINE-001", Name: "Assembly"}
	field.employees.add("EMP-007", "LINE-001", "Lee Park", "operator")

	seed, err := authority.service.ExportSeed(ctx, "LINE-001")
	require.NoError(t, err)
	resp, err := field.service.ImportSeed(ctx, seed)
	require.NoError(t, err)

	assert.Equal(t, 1, resp.EmployeesAdded)
	require.Len(t, resp.Conflicts, 1)
	assert.Equal(t, delta.SeedConflict{Kind: "employee", ID: "EMP-002", Name: "Lee Park", LocalID: "EMP-007"}, resp.Conflicts[0])
	_, err = field.employees.GetByID(ctx, "EMP-002")
	assert.Error(t, err, "a conflicting employee must not be written")
}

func TestSyncService_SeedRejections(t *testing.T) {
	ctx := context.Background()
	field := newSeedDevice("tablet-1")

	_, err := field.service.ImportSeed(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = field.service.ImportSeed(ctx, &delta.Seed{SchemaVersion: 1, LineID: "LINE-001", Employees: []delta.SeedEmployee{}})
	assert.True(t, errors.Is(err, delta.ErrUnsupportedSchema), "got %v", err)
	assert.Empty(t, field.lines.lines, "nothing may be written for a rejected seed")

	unidentified := newSeedDevice("")
	unidentified.lines.lines["LINE-001"] = &secondary.LineRecord{ID: "LINE-001", Name: "Assembly"}
	_, err = unidentified.service.ExportSeed(ctx, "LINE-001")
	assert.ErrorIs(t, err, ErrNoDeviceID)
}
