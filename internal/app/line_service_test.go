package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/ports/primary"
)

func newTestLineService() (*LineServiceImpl, *mockLineRepository, *mockEmployeeRepository, *mockPositionRepository) {
	lines := newMockLineRepository()
	emps := newMockEmployeeRepository()
	positions := newMockPositionRepository()
	return NewLineService(lines, emps, positions, zap.NewNop()), lines, emps, positions
}

func TestLineService_CreateLine(t *testing.T) {
	service, lines, _, _ := newTestLineService()
	ctx := context.Background()

	line, err := service.CreateLine(ctx, primary.CreateLineRequest{Name: "  Final Assembly ", Shift: "day"})
	require.NoError(t, err)
	assert.Equal(t, "LINE-001", line.ID)
	assert.Equal(t, "Final Assembly", line.Name)
	assert.Len(t, lines.lines, 1)

	_, err = service.CreateLine(ctx, primary.CreateLineRequest{Name: ""})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = service.CreateLine(ctx, primary.CreateLineRequest{Name: "Paint", Shift: "graveyard"})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestLineService_AddEmployee_UpsertsByName(t *testing.T) {
	service, lines, emps, _ := newTestLineService()
	ctx := context.Background()
	lines.lines["LINE-001"] = nil

	first, err := service.AddEmployee(ctx, primary.AddEmployeeRequest{LineID: "LINE-001", Name: "Dana Ruiz", Role: "operator"})
	require.NoError(t, err)
	require.NoError(t, service.DeactivateEmployee(ctx, first.ID))
	assert.False(t, emps.employees[first.ID].Active)

	again, err := service.AddEmployee(ctx, primary.AddEmployeeRequest{LineID: "LINE-001", Name: "dana ruiz", Role: "team_lead"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same name on the same line must reuse the employee")
	assert.True(t, again.Active)
	assert.Equal(t, "team_lead", again.Role)
	assert.Len(t, emps.employees, 1)
}

func TestLineService_AddEmployee_Validation(t *testing.T) {
	service, lines, _, _ := newTestLineService()
	ctx := context.Background()
	lines.lines["LINE-001"] = nil

	tests := []struct {
		name string
		req  primary.AddEmployeeRequest
	}{
		{"missing name", primary.AddEmployeeRequest{LineID: "LINE-001", Role: "operator"}},
		{"unknown role", primary.AddEmployeeRequest{LineID: "LINE-001", Name: "Kim", Role: "manager"}},
		{"missing line", primary.AddEmployeeRequest{Name: "Kim", Role: "operator"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.AddEmployee(ctx, tt.req)
			assert.True(t, errors.Is(err, ErrInvalidRequest), "got %v", err)
		})
	}

	_, err := service.AddEmployee(ctx, primary.AddEmployeeRequest{LineID: "LINE-404", Name: "Kim", Role: "operator"})
	assert.ErrorContains(t, err, "line LINE-404 not found")
}

func TestLineService_AddPosition_AppendsSortOrder(t *testing.T) {
	service, lines, _, _ := newTestLineService()
	ctx := context.Background()
	lines.lines["LINE-001"] = nil

	p1, err := service.AddPosition(ctx, primary.AddPositionRequest{LineID: "LINE-001", Name: "Press"})
	require.NoError(t, err)
	assert.Equal(t, 0, p1.SortOrder)

	p2, err := service.AddPosition(ctx, primary.AddPositionRequest{LineID: "LINE-001", Name: "Weld", Critical: true})
	require.NoError(t, err)
	assert.Equal(t, 1, p2.SortOrder)
	assert.True(t, p2.Critical)

	p3, err := service.AddPosition(ctx, primary.AddPositionRequest{LineID: "LINE-001", Name: "Pack", SortOrder: intPtr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, p3.SortOrder)

	require.NoError(t, service.DeactivatePosition(ctx, p1.ID))
	active, err := service.ListPositions(ctx, "LINE-001", false)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Weld", active[0].Name)

	all, err := service.ListPositions(ctx, "LINE-001", true)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
