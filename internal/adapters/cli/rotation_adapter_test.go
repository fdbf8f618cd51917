package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/ports/primary"
)

// mockRotationService implements primary.RotationService for testing
type mockRotationService struct {
	generateFn  func(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error)
	getPlanFn   func(ctx context.Context, lineID, date string) (*primary.RotationPlan, error)
	listDatesFn func(ctx context.Context, lineID string) ([]string, error)

	lastGenerateReq primary.GenerateRotationRequest
}

func (m *mockRotationService) Generate(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error) {
	m.lastGenerateReq = req
	if m.generateFn != nil {
		return m.generateFn(ctx, req)
	}
	return samplePlan(req.LineID, "2026-05-04"), nil
}

func (m *mockRotationService) GetPlan(ctx context.Context, lineID, date string) (*primary.RotationPlan, error) {
	if m.getPlanFn != nil {
		return m.getPlanFn(ctx, lineID, date)
	}
	return samplePlan(lineID, date), nil
}

func (m *mockRotationService) ListPlanDates(ctx context.Context, lineID string) ([]string, error) {
	if m.listDatesFn != nil {
		return m.listDatesFn(ctx, lineID)
	}
	return nil, nil
}

func samplePlan(lineID, date string) *primary.RotationPlan {
	return &primary.RotationPlan{
		LineID:      lineID,
		Date:        date,
		GeneratedAt: date + "T06:00:00Z",
		Plan: rotation.Plan{
			Slots: []rotation.Slot{
				{Period: rotation.PeriodA, EmployeeID: "EMP-001", EmployeeName: "Ana", PositionID: "POS-001", PositionName: "Press"},
				{Period: rotation.PeriodB, EmployeeID: "EMP-001", EmployeeName: "Ana", PositionID: "POS-001", PositionName: "Press", Violation: rotation.ViolationDouble},
			},
			Gaps: []rotation.Gap{
				{Period: rotation.PeriodC, PositionID: "POS-001", PositionName: "Press"},
			},
			Suggestions: []rotation.Suggestion{{
				PositionID:     "POS-001",
				PositionName:   "Press",
				Urgency:        2,
				QualifiedCount: 1,
				Candidates:     []rotation.Candidate{{EmployeeID: "EMP-002", Name: "Ben", CurrentLevel: 2}},
			}},
		},
	}
}

func TestRotationAdapter_Generate(t *testing.T) {
	mock := &mockRotationService{
		generateFn: func(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error) {
			plan := samplePlan(req.LineID, "2026-05-04")
			plan.YesterdayDate = "2026-05-03"
			plan.Pruned = []string{"2026-04-01"}
			return plan, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewRotationAdapter(mock, &buf)

	plan, err := adapter.Generate(context.Background(), primary.GenerateRotationRequest{LineID: "LINE-001", Bottleneck: true})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !mock.lastGenerateReq.Bottleneck {
		t.Error("expected bottleneck flag to be passed through")
	}
	if plan.Date != "2026-05-04" {
		t.Errorf("expected plan date 2026-05-04, got %s", plan.Date)
	}
	output := buf.String()
	for _, want := range []string{
		"Generated rotation for LINE-001 on 2026-05-04",
		"avoiding repeats from 2026-05-03",
		"pruned 1 old plan(s): 2026-04-01",
		"second time today",
		"GAP",
		"Press  urgency 2, 1 qualified: Ben (L2)",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain '%s', got '%s'", want, output)
		}
	}
}

func TestRotationAdapter_Generate_ServiceError(t *testing.T) {
	mock := &mockRotationService{
		generateFn: func(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error) {
			return nil, errors.New("line LINE-404 not found")
		},
	}
	var buf bytes.Buffer
	adapter := NewRotationAdapter(mock, &buf)

	_, err := adapter.Generate(context.Background(), primary.GenerateRotationRequest{LineID: "LINE-404"})

	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to generate rotation") {
		t.Errorf("expected wrapped error, got '%s'", err.Error())
	}
}

func TestRotationAdapter_Show_BottleneckSkips(t *testing.T) {
	mock := &mockRotationService{
		getPlanFn: func(ctx context.Context, lineID, date string) (*primary.RotationPlan, error) {
			return &primary.RotationPlan{
				LineID:     lineID,
				Date:       date,
				Bottleneck: true,
				Plan: rotation.Plan{
					Gaps: []rotation.Gap{
						{Period: rotation.PeriodA, PositionID: "POS-002", PositionName: "Pack", Reason: rotation.GapBBSkipped},
						{Period: rotation.PeriodB, PositionID: "POS-002", PositionName: "Pack", Reason: rotation.GapBBSkipped},
					},
				},
			}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewRotationAdapter(mock, &buf)

	if _, err := adapter.Show(context.Background(), "LINE-001", "2026-05-04"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	output := buf.String()
	if !strings.Contains(output, "Skipped (bottleneck): Pack\n") {
		t.Errorf("expected skipped position listed once, got '%s'", output)
	}
	if strings.Contains(output, "GAP") {
		t.Errorf("bottleneck skips must not be shown as gaps, got '%s'", output)
	}
}

func TestRotationAdapter_Dates_Empty(t *testing.T) {
	mock := &mockRotationService{}
	var buf bytes.Buffer
	adapter := NewRotationAdapter(mock, &buf)

	if err := adapter.Dates(context.Background(), "LINE-001"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(buf.String(), "rotation generate --line LINE-001") {
		t.Errorf("expected hint to generate, got '%s'", buf.String())
	}
}

func TestRotationAdapter_Dates(t *testing.T) {
	mock := &mockRotationService{
		listDatesFn: func(ctx context.Context, lineID string) ([]string, error) {
			return []string{"2026-05-03", "2026-05-04"}, nil
		},
	}
	var buf bytes.Buffer
	adapter := NewRotationAdapter(mock, &buf)

	if err := adapter.Dates(context.Background(), "LINE-001"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if buf.String() != "2026-05-03\n2026-05-04\n" {
		t.Errorf("unexpected dates output: %q", buf.String())
	}
}
