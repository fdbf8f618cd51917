package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/example/skillmatrix/internal/adapters/sqlite"
	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

func TestSkillRepository_SaveAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewSkillRepository(db, nil)
	ctx := context.Background()
	seedLine(t, db, "", "")
	seedEmployee(t, db, "EMP-001", "LINE-001", "Ana")
	seedPosition(t, db, "POS-001", "LINE-001", "Press", 1)

	t.Run("missing record returns nil", func(t *testing.T) {
		got, err := repo.Get(ctx, "EMP-001", "POS-001")
		if err != nil || got != nil {
			t.Errorf("Get = %+v, %v; want nil, nil", got, err)
		}
	})

	at := time.Date(2026, 3, 2, 8, 30, 0, 0, time.UTC)
	requested := 3
	rec := &skill.Record{
		EmployeeID:     "EMP-001",
		PositionID:     "POS-001",
		LineID:         "LINE-001",
		CurrentLevel:   2,
		RequestedLevel: &requested,
		Status:         skill.StatusPendingDual,
		Approvals: []skill.Approval{
			{ApproverName: "Tom", Role: skill.RoleTeamLead, ForLevel: 3, At: at},
		},
		History: []skill.HistoryEntry{
			{Type: skill.HistoryPromotion, FromLevel: 1, ToLevel: 2, By: "Tom", Role: skill.RoleTeamLead, At: at},
		},
	}

	t.Run("round trips approvals and history", func(t *testing.T) {
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := repo.Get(ctx, "EMP-001", "POS-001")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Status != skill.StatusPendingDual {
			t.Errorf("Status = %q", got.Status)
		}
		if got.RequestedLevel == nil || *got.RequestedLevel != 3 {
			t.Errorf("RequestedLevel = %v, want 3", got.RequestedLevel)
		}
		if len(got.Approvals) != 1 || got.Approvals[0].ApproverName != "Tom" || !got.Approvals[0].At.Equal(at) {
			t.Errorf("Approvals = %+v", got.Approvals)
		}
		if len(got.History) != 1 || got.History[0].ToLevel != 2 {
			t.Errorf("History = %+v", got.History)
		}
	})

	t.Run("second save replaces the pair", func(t *testing.T) {
		rec.CurrentLevel = 3
		rec.RequestedLevel = nil
		rec.Status = skill.StatusApproved
		rec.Approvals = nil
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if n := countRows(t, db, "skill_records"); n != 1 {
			t.Errorf("rows = %d, want 1", n)
		}
		got, _ := repo.Get(ctx, "EMP-001", "POS-001")
		if got.CurrentLevel != 3 || got.RequestedLevel != nil || got.Approvals != nil {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("lists by line", func(t *testing.T) {
		list, err := repo.ListByLine(ctx, "LINE-001")
		if err != nil {
			t.Fatalf("ListByLine failed: %v", err)
		}
		if len(list) != 1 {
			t.Errorf("len = %d, want 1", len(list))
		}
	})
}

func TestSkillRepository_LogsLevelChange(t *testing.T) {
	db := setupTestDB(t)
	logRepo := sqlite.NewActivityLogRepository(db)
	repo := sqlite.NewSkillRepository(db, sqlite.NewLogWriterAdapter(logRepo))
	ctx := lineCtx("LINE-001")
	seedLine(t, db, "", "")
	seedEmployee(t, db, "EMP-001", "LINE-001", "Ana")
	seedPosition(t, db, "POS-001", "LINE-001", "Press", 1)

	rec := skill.Blank("EMP-001", "POS-001", "LINE-001")
	_ = repo.Save(ctx, &rec)
	rec.CurrentLevel = 1
	_ = repo.Save(ctx, &rec)

	logs, _ := logRepo.List(ctx, secondary.ActivityLogFilters{EntityType: "skill_record"})
	if len(logs) != 2 {
		t.Fatalf("logs = %d, want 2", len(logs))
	}
	var update *secondary.ActivityLogRecord
	for _, l := range logs {
		if l.Action == "update" {
			update = l
		}
	}
	if update == nil || update.OldValue != "0" || update.NewValue != "1" {
		t.Errorf("update log = %+v", update)
	}
}
