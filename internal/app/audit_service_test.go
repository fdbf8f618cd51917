package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/ports/primary"
)

type auditFixture struct {
	service   *AuditServiceImpl
	audits    *mockAuditRepository
	positions *mockPositionRepository
	clock     *fixedClock
	rng       *scriptedRandom
}

func newAuditFixture() auditFixture {
	emps := newMockEmployeeRepository()
	emps.add("EMP-004", "LINE-001", "Sam", "supervisor")
	emps.add("EMP-009", "LINE-002", "Ola", "supervisor")

	positions := newMockPositionRepository()
	positions.add("POS-001", "LINE-001", "Press", true, 0)
	positions.add("POS-002", "LINE-001", "Weld", false, 1)

	f := auditFixture{
		audits:    newMockAuditRepository(),
		positions: positions,
		clock:     newFixedClock("2026-03-02T07:00:00Z"),
		rng:       &scriptedRandom{},
	}
	f.service = NewAuditService(f.audits, emps, positions, f.clock, f.rng, zap.NewNop())
	return f
}

func TestAuditService_TodaysAuditIsIdempotent(t *testing.T) {
	f := newAuditFixture()
	ctx := context.Background()
	f.rng.values = []int{1}
	req := primary.TodaysAuditRequest{LineID: "LINE-001", SupervisorID: "EMP-004"}

	first, err := f.service.TodaysAudit(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, first.Created)
	assert.Equal(t, "POS-002", first.Audit.PositionID)
	assert.Equal(t, "Weld", first.PositionName)
	assert.Equal(t, "2026-03-02", first.Audit.Date)
	assert.Nil(t, first.Audit.Result)

	again, err := f.service.TodaysAudit(ctx, req)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.Audit.ID, again.Audit.ID)
	assert.Equal(t, "Weld", again.PositionName)
	assert.Len(t, f.audits.audits, 1)
	assert.Equal(t, []int{2}, f.rng.calls, "selection runs once per day")
}

func TestAuditService_CyclesThroughPositions(t *testing.T) {
	f := newAuditFixture()
	ctx := context.Background()
	req := primary.TodaysAuditRequest{LineID: "LINE-001", SupervisorID: "EMP-004"}

	day1, err := f.service.TodaysAudit(ctx, req)
	require.NoError(t, err)
	require.NoError(t, f.service.LogResult(ctx, primary.LogAuditResultRequest{AuditID: day1.Audit.ID, Result: "pass"}))

	f.clock.now = f.clock.now.AddDate(0, 0, 1)
	day2, err := f.service.TodaysAudit(ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, day1.Audit.PositionID, day2.Audit.PositionID, "completed positions leave the pool")
	assert.False(t, day2.CycleReset)
	require.NoError(t, f.service.LogResult(ctx, primary.LogAuditResultRequest{AuditID: day2.Audit.ID, Result: "fail", Notes: "guard missing"}))

	f.clock.now = f.clock.now.AddDate(0, 0, 1)
	day3, err := f.service.TodaysAudit(ctx, req)
	require.NoError(t, err)
	assert.True(t, day3.CycleReset)

	history, err := f.service.History(ctx, "LINE-001", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, day2.Audit.ID, history[0].ID, "newest first")
	assert.Equal(t, audit.ResultFail, *history[0].Result)
	assert.Equal(t, "guard missing", history[0].Notes)
}

func TestAuditService_NoPositions(t *testing.T) {
	f := newAuditFixture()
	for _, p := range f.positions.positions {
		p.Active = false
	}

	resp, err := f.service.TodaysAudit(context.Background(), primary.TodaysAuditRequest{LineID: "LINE-001", SupervisorID: "EMP-004"})
	require.NoError(t, err)
	assert.Nil(t, resp)
	assert.Empty(t, f.audits.audits)
}

func TestAuditService_SupervisorOnOtherLine(t *testing.T) {
	f := newAuditFixture()

	_, err := f.service.TodaysAudit(context.Background(), primary.TodaysAuditRequest{LineID: "LINE-001", SupervisorID: "EMP-009"})
	assert.ErrorContains(t, err, "not on line")
}

func TestAuditService_LogResultValidation(t *testing.T) {
	f := newAuditFixture()
	ctx := context.Background()

	err := f.service.LogResult(ctx, primary.LogAuditResultRequest{AuditID: "AUD-0001", Result: "maybe"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = f.service.LogResult(ctx, primary.LogAuditResultRequest{AuditID: "AUD-0404", Result: "pass"})
	assert.ErrorContains(t, err, "not found")
}
