package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/skillmatrix/internal/adapters/sqlite"
	"github.com/example/skillmatrix/internal/core/audit"
)

func TestAuditRepository_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewAuditRepository(db, nil)
	ctx := context.Background()
	seedLine(t, db, "", "")

	id, err := repo.GetNextID(ctx)
	if err != nil {
		t.Fatalf("GetNextID failed: %v", err)
	}
	if id != "AUD-0001" {
		t.Errorf("GetNextID = %q, want %q", id, "AUD-0001")
	}

	draft := &audit.Log{ID: id, LineID: "LINE-001", SupervisorID: "EMP-010", PositionID: "POS-001", Date: "2026-03-02"}
	if err := repo.Create(ctx, draft); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Completed() {
		t.Error("draft should not be completed")
	}

	completed, _ := repo.ListCompleted(ctx, "LINE-001", 0)
	if len(completed) != 0 {
		t.Errorf("completed = %d, want 0", len(completed))
	}

	if err := repo.SetResult(ctx, id, audit.ResultFail, "guard missing"); err != nil {
		t.Fatalf("SetResult failed: %v", err)
	}
	got, _ = repo.GetByID(ctx, id)
	if got.Result == nil || *got.Result != audit.ResultFail || got.Notes != "guard missing" {
		t.Errorf("got %+v", got)
	}

	completed, _ = repo.ListCompleted(ctx, "LINE-001", 10)
	if len(completed) != 1 {
		t.Errorf("completed = %d, want 1", len(completed))
	}

	mine, _ := repo.ListBySupervisor(ctx, "LINE-001", "EMP-010")
	if len(mine) != 1 {
		t.Errorf("supervisor audits = %d, want 1", len(mine))
	}

	if err := repo.SetResult(ctx, "AUD-9999", audit.ResultPass, ""); err == nil {
		t.Error("expected not found error")
	}
}
