package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// mockActivityLogRepository implements secondary.ActivityLogRepository for testing.
type mockActivityLogRepository struct {
	logs   map[string]*secondary.ActivityLogRecord
	nextID int
}

func newMockActivityLogRepository() *mockActivityLogRepository {
	return &mockActivityLogRepository{
		logs:   make(map[string]*secondary.ActivityLogRecord),
		nextID: 1,
	}
}

func (m *mockActivityLogRepository) Create(ctx context.Context, log *secondary.ActivityLogRecord) error {
	m.logs[log.ID] = log
	return nil
}

func (m *mockActivityLogRepository) GetByID(ctx context.Context, id string) (*secondary.ActivityLogRecord, error) {
	if l, ok := m.logs[id]; ok {
		return l, nil
	}
	return nil, errors.New("not found")
}

func (m *mockActivityLogRepository) List(ctx context.Context, filters secondary.ActivityLogFilters) ([]*secondary.ActivityLogRecord, error) {
	var result []*secondary.ActivityLogRecord
	for _, l := range m.logs {
		if filters.LineID != "" && l.LineID != filters.LineID {
			continue
		}
		if filters.EntityType != "" && l.EntityType != filters.EntityType {
			continue
		}
		if filters.EntityID != "" && l.EntityID != filters.EntityID {
			continue
		}
		if filters.ActorID != "" && l.ActorID != filters.ActorID {
			continue
		}
		if filters.Action != "" && l.Action != filters.Action {
			continue
		}
		result = append(result, l)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Timestamp > result[j].Timestamp })

	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

func (m *mockActivityLogRepository) GetNextID(ctx context.Context) (string, error) {
	id := m.nextID
	m.nextID++
	return fmt.Sprintf("ACT-%04d", id), nil
}

func (m *mockActivityLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	count := 0
	cutoff := time.Now().AddDate(0, 0, -days)
	for id, log := range m.logs {
		ts, err := time.Parse(time.RFC3339, log.Timestamp)
		if err != nil {
			continue
		}
		if ts.Before(cutoff) {
			delete(m.logs, id)
			count++
		}
	}
	return count, nil
}

func newTestLogService() (*LogServiceImpl, *mockActivityLogRepository) {
	repo := newMockActivityLogRepository()
	return NewLogService(repo), repo
}

func TestLogService_GetLog(t *testing.T) {
	service, repo := newTestLogService()
	ctx := context.Background()

	repo.logs["ACT-0001"] = &secondary.ActivityLogRecord{
		ID:         "ACT-0001",
		LineID:     "LINE-001",
		Timestamp:  "2026-03-02T07:00:00Z",
		ActorID:    "EMP-004",
		EntityType: "skill_record",
		EntityID:   "EMP-001/POS-002",
		Action:     "update",
		FieldName:  "current_level",
		OldValue:   "2",
		NewValue:   "3",
	}

	log, err := service.GetLog(ctx, "ACT-0001")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if log.EntityID != "EMP-001/POS-002" || log.NewValue != "3" {
		t.Errorf("unexpected entry %+v", log)
	}
	if log.LineID != "LINE-001" {
		t.Errorf("expected line LINE-001, got %q", log.LineID)
	}
}

func TestLogService_GetLog_NotFound(t *testing.T) {
	service, _ := newTestLogService()

	if _, err := service.GetLog(context.Background(), "ACT-9999"); err == nil {
		t.Error("expected error for non-existent log")
	}
}

func TestLogService_ListLogs_WithFilters(t *testing.T) {
	service, repo := newTestLogService()
	ctx := context.Background()

	repo.logs["ACT-0001"] = &secondary.ActivityLogRecord{ID: "ACT-0001", LineID: "LINE-001", EntityType: "employee", Action: "create", ActorID: "EMP-004", Timestamp: "2026-03-02T07:00:00Z"}
	repo.logs["ACT-0002"] = &secondary.ActivityLogRecord{ID: "ACT-0002", LineID: "LINE-001", EntityType: "position", Action: "create", ActorID: "EMP-005", Timestamp: "2026-03-02T07:01:00Z"}
	repo.logs["ACT-0003"] = &secondary.ActivityLogRecord{ID: "ACT-0003", LineID: "LINE-002", EntityType: "employee", Action: "create", ActorID: "EMP-004", Timestamp: "2026-03-02T07:02:00Z"}

	logs, err := service.ListLogs(ctx, primary.LogFilters{LineID: "LINE-001"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(logs) != 2 || logs[0].ID != "ACT-0002" {
		t.Errorf("expected 2 logs newest first, got %+v", logs)
	}

	logs, _ = service.ListLogs(ctx, primary.LogFilters{LineID: "LINE-001", ActorID: "EMP-004"})
	if len(logs) != 1 || logs[0].ID != "ACT-0001" {
		t.Errorf("actor filter returned %+v", logs)
	}
}

func TestLogService_PruneLogs(t *testing.T) {
	service, repo := newTestLogService()
	ctx := context.Background()

	oldTime := time.Now().AddDate(0, 0, -60).Format(time.RFC3339)
	newTime := time.Now().Format(time.RFC3339)
	repo.logs["ACT-0001"] = &secondary.ActivityLogRecord{ID: "ACT-0001", LineID: "LINE-001", Timestamp: oldTime}
	repo.logs["ACT-0002"] = &secondary.ActivityLogRecord{ID: "ACT-0002", LineID: "LINE-001", Timestamp: newTime}

	count, err := service.PruneLogs(ctx, 30)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 1 || len(repo.logs) != 1 {
		t.Errorf("expected 1 pruned and 1 remaining, got %d pruned, %d remaining", count, len(repo.logs))
	}

	for _, days := range []int{0, MinLogRetentionDays - 1} {
		if _, err := service.PruneLogs(ctx, days); !errors.Is(err, ErrInvalidRequest) {
			t.Errorf("expected ErrInvalidRequest for %d days, got %v", days, err)
		}
	}
	if len(repo.logs) != 1 {
		t.Errorf("rejected prune must not delete, %d remaining", len(repo.logs))
	}
}

func TestLogService_ListLogs_DefaultLimit(t *testing.T) {
	service, repo := newTestLogService()
	base := time.Date(2026, 3, 2, 7, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultLogLimit+5; i++ {
		id := fmt.Sprintf("ACT-%04d", i+1)
		repo.logs[id] = &secondary.ActivityLogRecord{
			ID:        id,
			LineID:    "LINE-001",
			Timestamp: base.Add(time.Duration(i) * time.Minute).Format(time.RFC3339),
		}
	}

	logs, err := service.ListLogs(context.Background(), primary.LogFilters{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(logs) != DefaultLogLimit {
		t.Errorf("expected %d entries, got %d", DefaultLogLimit, len(logs))
	}
}

func TestLogService_ListLogs_RejectsUnknownFilters(t *testing.T) {
	service, _ := newTestLogService()
	ctx := context.Background()

	if _, err := service.ListLogs(ctx, primary.LogFilters{EntityType: "pallet"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown entity type, got %v", err)
	}
	if _, err := service.ListLogs(ctx, primary.LogFilters{Action: "archive"}); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for unknown action, got %v", err)
	}
}
