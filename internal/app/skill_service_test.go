package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ports/primary"
)

type skillFixture struct {
	service *SkillServiceImpl
	skills  *mockSkillRepository
	emps    *mockEmployeeRepository
	pos     *mockPositionRepository
}

func newSkillFixture() skillFixture {
	f := skillFixture{
		skills: newMockSkillRepository(),
		emps:   newMockEmployeeRepository(),
		pos:    newMockPositionRepository(),
	}
	f.emps.add("EMP-001", "LINE-001", "Dana Ruiz", "operator")
	f.emps.add("EMP-002", "LINE-002", "Lee Park", "operator")
	f.pos.add("POS-001", "LINE-001", "Press", true, 0)
	f.service = NewSkillService(f.skills, f.emps, f.pos, newFixedClock("2026-03-02T07:00:00Z"), zap.NewNop())
	return f
}

func TestSkillService_PromoteFromBlank(t *testing.T) {
	f := newSkillFixture()
	ctx := context.Background()

	resp, err := f.service.Promote(ctx, primary.PromoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SignerName: "Alex", SignerRole: "team_lead",
	})
	require.NoError(t, err)
	assert.True(t, resp.Promoted)
	assert.False(t, resp.PendingDual)
	assert.Equal(t, 1, resp.Record.CurrentLevel)

	stored, err := f.service.GetRecord(ctx, "EMP-001", "POS-001")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.CurrentLevel)
	assert.Equal(t, "LINE-001", stored.LineID)
}

func TestSkillService_DualSignatureToLevelThree(t *testing.T) {
	f := newSkillFixture()
	ctx := context.Background()
	f.skills.set("EMP-001", "POS-001", "LINE-001", 2)

	first, err := f.service.Promote(ctx, primary.PromoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SignerName: "A", SignerRole: "supervisor",
	})
	require.NoError(t, err)
	assert.True(t, first.PendingDual)
	assert.Equal(t, skill.StatusPendingDual, first.Record.Status)

	pending, err := f.service.ListPendingDual(ctx, "LINE-001")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	// Same person cannot give the second signature
	_, err = f.service.Promote(ctx, primary.PromoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SignerName: " A ", SignerRole: "team_lead",
	})
	assert.ErrorIs(t, err, &skill.RejectionError{Code: skill.CodeSamePerson})
	assert.Equal(t, 1, f.skills.saves, "a rejected signature must not be stored")

	second, err := f.service.Promote(ctx, primary.PromoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SignerName: "B", SignerRole: "team_lead",
	})
	require.NoError(t, err)
	assert.True(t, second.Promoted)
	assert.Equal(t, 3, second.Record.CurrentLevel)
	assert.Equal(t, skill.StatusApproved, second.Record.Status)
	require.Len(t, second.Record.History, 1)
	assert.Equal(t, 2, second.Record.History[0].FromLevel)

	pending, _ = f.service.ListPendingDual(ctx, "LINE-001")
	assert.Empty(t, pending)
}

func TestSkillService_Demote(t *testing.T) {
	f := newSkillFixture()
	ctx := context.Background()
	f.skills.set("EMP-001", "POS-001", "LINE-001", 3)

	_, err := f.service.Demote(ctx, primary.DemoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SupervisorName: "Sam", TargetLevel: 1,
	})
	assert.ErrorIs(t, err, &skill.RejectionError{Code: skill.CodeReasonRequired})

	rec, err := f.service.Demote(ctx, primary.DemoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SupervisorName: "Sam", TargetLevel: 1, Reason: "quality escape",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rec.CurrentLevel)
	require.Len(t, rec.History, 1)
	assert.Equal(t, skill.HistoryDemotion, rec.History[0].Type)
	assert.Equal(t, "quality escape", rec.History[0].Reason)
}

func TestSkillService_RejectsCrossLinePair(t *testing.T) {
	f := newSkillFixture()

	_, err := f.service.Promote(context.Background(), primary.PromoteRequest{
		EmployeeID: "EMP-002", PositionID: "POS-001", SignerName: "A", SignerRole: "supervisor",
	})
	assert.ErrorContains(t, err, "different lines")
	assert.Zero(t, f.skills.saves)
}

func TestSkillService_PromoteValidation(t *testing.T) {
	f := newSkillFixture()

	_, err := f.service.Promote(context.Background(), primary.PromoteRequest{
		EmployeeID: "EMP-001", PositionID: "POS-001", SignerName: "A", SignerRole: "owner",
	})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
