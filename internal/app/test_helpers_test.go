package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// ============================================================================
// Lines, employees, positions
// ============================================================================

type mockLineRepository struct {
	lines  map[string]*secondary.LineRecord
	nextID int
}

func newMockLineRepository() *mockLineRepository {
	return &mockLineRepository{lines: make(map[string]*secondary.LineRecord), nextID: 1}
}

func (m *mockLineRepository) Create(ctx context.Context, line *secondary.LineRecord) error {
	m.lines[line.ID] = line
	return nil
}

func (m *mockLineRepository) GetByID(ctx context.Context, id string) (*secondary.LineRecord, error) {
	if l, ok := m.lines[id]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("line %s not found", id)
}

func (m *mockLineRepository) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := m.lines[id]
	return ok, nil
}

func (m *mockLineRepository) List(ctx context.Context) ([]*secondary.LineRecord, error) {
	var out []*secondary.LineRecord
	for _, l := range m.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *mockLineRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("LINE-%03d", m.nextID)
	m.nextID++
	return id, nil
}

type mockEmployeeRepository struct {
	employees map[string]*secondary.EmployeeRecord
	order     []string
	nextID    int
}

func newMockEmployeeRepository() *mockEmployeeRepository {
	return &mockEmployeeRepository{employees: make(map[string]*secondary.EmployeeRecord), nextID: 1}
}

func (m *mockEmployeeRepository) Create(ctx context.Context, emp *secondary.EmployeeRecord) error {
	m.employees[emp.ID] = emp
	m.order = append(m.order, emp.ID)
	return nil
}

func (m *mockEmployeeRepository) GetByID(ctx context.Context, id string) (*secondary.EmployeeRecord, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("employee %s not found", id)
}

func (m *mockEmployeeRepository) GetByName(ctx context.Context, lineID, name string) (*secondary.EmployeeRecord, error) {
	for _, id := range m.order {
		e := m.employees[id]
		if e.LineID == lineID && strings.EqualFold(e.Name, strings.TrimSpace(name)) {
			return e, nil
		}
	}
	return nil, nil
}

func (m *mockEmployeeRepository) Update(ctx context.Context, emp *secondary.EmployeeRecord) error {
	if _, ok := m.employees[emp.ID]; !ok {
		return fmt.Errorf("employee %s not found", emp.ID)
	}
	m.employees[emp.ID] = emp
	return nil
}

func (m *mockEmployeeRepository) List(ctx context.Context, filters secondary.EmployeeFilters) ([]*secondary.EmployeeRecord, error) {
	var out []*secondary.EmployeeRecord
	for _, id := range m.order {
		e := m.employees[id]
		if filters.LineID != "" && e.LineID != filters.LineID {
			continue
		}
		if filters.Role != "" && e.Role != filters.Role {
			continue
		}
		if !filters.IncludeInactive && !e.Active {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *mockEmployeeRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("EMP-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// add stores an active employee directly.
func (m *mockEmployeeRepository) add(id, lineID, name, role string) {
	_ = m.Create(context.Background(), &secondary.EmployeeRecord{ID: id, LineID: lineID, Name: name, Role: role, Active: true})
	m.nextID++
}

type mockPositionRepository struct {
	positions map[string]*secondary.PositionRecord
	nextID    int
}

func newMockPositionRepository() *mockPositionRepository {
	return &mockPositionRepository{positions: make(map[string]*secondary.PositionRecord), nextID: 1}
}

func (m *mockPositionRepository) Create(ctx context.Context, pos *secondary.PositionRecord) error {
	m.positions[pos.ID] = pos
	return nil
}

func (m *mockPositionRepository) GetByID(ctx context.Context, id string) (*secondary.PositionRecord, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("position %s not found", id)
}

func (m *mockPositionRepository) GetByName(ctx context.Context, lineID, name string) (*secondary.PositionRecord, error) {
	for _, p := range m.positions {
		if p.LineID == lineID && strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, nil
		}
	}
	return nil, nil
}

func (m *mockPositionRepository) Update(ctx context.Context, pos *secondary.PositionRecord) error {
	if _, ok := m.positions[pos.ID]; !ok {
		return fmt.Errorf("position %s not found", pos.ID)
	}
	m.positions[pos.ID] = pos
	return nil
}

func (m *mockPositionRepository) List(ctx context.Context, filters secondary.PositionFilters) ([]*secondary.PositionRecord, error) {
	var out []*secondary.PositionRecord
	for _, p := range m.positions {
		if filters.LineID != "" && p.LineID != filters.LineID {
			continue
		}
		if !filters.IncludeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *mockPositionRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("POS-%03d", m.nextID)
	m.nextID++
	return id, nil
}

// add stores an active position directly.
func (m *mockPositionRepository) add(id, lineID, name string, critical bool, sortOrder int) {
	_ = m.Create(context.Background(), &secondary.PositionRecord{ID: id, LineID: lineID, Name: name, Critical: critical, SortOrder: sortOrder, Active: true})
	m.nextID++
}

// ============================================================================
// Skill records and attendance
// ============================================================================

type mockSkillRepository struct {
	records map[skill.Pair]skill.Record
	saves   int
}

func newMockSkillRepository() *mockSkillRepository {
	return &mockSkillRepository{records: make(map[skill.Pair]skill.Record)}
}

func (m *mockSkillRepository) Get(ctx context.Context, employeeID, positionID string) (*skill.Record, error) {
	r, ok := m.records[skill.Pair{EmployeeID: employeeID, PositionID: positionID}]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockSkillRepository) ListByLine(ctx context.Context, lineID string) ([]skill.Record, error) {
	var out []skill.Record
	for _, r := range m.records {
		if r.LineID == lineID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeID != out[j].EmployeeID {
			return out[i].EmployeeID < out[j].EmployeeID
		}
		return out[i].PositionID < out[j].PositionID
	})
	return out, nil
}

func (m *mockSkillRepository) Save(ctx context.Context, rec *skill.Record) error {
	m.records[rec.Key()] = *rec
	m.saves++
	return nil
}

// set stores an approved record at level.
func (m *mockSkillRepository) set(employeeID, positionID, lineID string, level int) {
	r := skill.Blank(employeeID, positionID, lineID)
	r.CurrentLevel = level
	m.records[r.Key()] = r
}

type mockAttendanceRepository struct {
	records map[string]*secondary.AttendanceRecord
}

func newMockAttendanceRepository() *mockAttendanceRepository {
	return &mockAttendanceRepository{records: make(map[string]*secondary.AttendanceRecord)}
}

func (m *mockAttendanceRepository) Upsert(ctx context.Context, rec *secondary.AttendanceRecord) error {
	m.records[rec.EmployeeID+"/"+rec.Date] = rec
	return nil
}

func (m *mockAttendanceRepository) ListByLineDate(ctx context.Context, lineID, date string) ([]*secondary.AttendanceRecord, error) {
	var out []*secondary.AttendanceRecord
	for _, r := range m.records {
		if r.LineID == lineID && r.Date == date {
			out = append(out, r)
		}
	}
	return out, nil
}

// ============================================================================
// Rotation plans and audits
// ============================================================================

type mockRotationPlanRepository struct {
	plans map[string]*secondary.RotationPlanRecord
}

func newMockRotationPlanRepository() *mockRotationPlanRepository {
	return &mockRotationPlanRepository{plans: make(map[string]*secondary.RotationPlanRecord)}
}

func (m *mockRotationPlanRepository) Save(ctx context.Context, rec *secondary.RotationPlanRecord) error {
	m.plans[rec.LineID+"/"+rec.Date] = rec
	return nil
}

func (m *mockRotationPlanRepository) Get(ctx context.Context, lineID, date string) (*secondary.RotationPlanRecord, error) {
	return m.plans[lineID+"/"+date], nil
}

func (m *mockRotationPlanRepository) ListDates(ctx context.Context, lineID string) ([]string, error) {
	var dates []string
	for _, p := range m.plans {
		if p.LineID == lineID {
			dates = append(dates, p.Date)
		}
	}
	sort.Strings(dates)
	return dates, nil
}

func (m *mockRotationPlanRepository) Delete(ctx context.Context, lineID, date string) error {
	delete(m.plans, lineID+"/"+date)
	return nil
}

type mockAuditRepository struct {
	audits map[string]*audit.Log
	order  []string
	nextID int
}

func newMockAuditRepository() *mockAuditRepository {
	return &mockAuditRepository{audits: make(map[string]*audit.Log), nextID: 1}
}

func (m *mockAuditRepository) Create(ctx context.Context, log *audit.Log) error {
	l := *log
	m.audits[l.ID] = &l
	m.order = append(m.order, l.ID)
	return nil
}

func (m *mockAuditRepository) GetByID(ctx context.Context, id string) (*audit.Log, error) {
	if l, ok := m.audits[id]; ok {
		c := *l
		return &c, nil
	}
	return nil, fmt.Errorf("audit %s not found", id)
}

func (m *mockAuditRepository) ListBySupervisor(ctx context.Context, lineID, supervisorID string) ([]audit.Log, error) {
	var out []audit.Log
	for _, id := range m.order {
		l := m.audits[id]
		if l.LineID == lineID && l.SupervisorID == supervisorID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *mockAuditRepository) ListCompleted(ctx context.Context, lineID string, limit int) ([]audit.Log, error) {
	var out []audit.Log
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.audits[m.order[i]]
		if l.LineID == lineID && l.Completed() {
			out = append(out, *l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockAuditRepository) SetResult(ctx context.Context, id string, result audit.Result, notes string) error {
	l, ok := m.audits[id]
	if !ok {
		return fmt.Errorf("audit %s not found", id)
	}
	l.Result = &result
	l.Notes = notes
	return nil
}

func (m *mockAuditRepository) GetNextID(ctx context.Context) (string, error) {
	id := fmt.Sprintf("AUD-%04d", m.nextID)
	m.nextID++
	return id, nil
}

// ============================================================================
// Training logs, recommendations, sequences
// ============================================================================

type mockTrainingLogRepository struct {
	logs      map[string]delta.TrainingLog
	order     []string
	insertErr map[string]error
}

func newMockTrainingLogRepository() *mockTrainingLogRepository {
	return &mockTrainingLogRepository{logs: make(map[string]delta.TrainingLog), insertErr: make(map[string]error)}
}

func (m *mockTrainingLogRepository) Insert(ctx context.Context, log *delta.TrainingLog) (secondary.InsertOutcome, error) {
	if err := m.insertErr[log.ClientID]; err != nil {
		return secondary.InsertFailed, err
	}
	if _, ok := m.logs[log.ClientID]; ok {
		return secondary.AlreadyExists, nil
	}
	m.logs[log.ClientID] = *log
	m.order = append(m.order, log.ClientID)
	return secondary.Inserted, nil
}

func (m *mockTrainingLogRepository) GetByClientID(ctx context.Context, clientID string) (*delta.TrainingLog, error) {
	l, ok := m.logs[clientID]
	if !ok {
		return nil, nil
	}
	return &l, nil
}

func (m *mockTrainingLogRepository) ListUnsynced(ctx context.Context, lineID string) ([]delta.TrainingLog, error) {
	var out []delta.TrainingLog
	for _, id := range m.order {
		l := m.logs[id]
		if l.LineID == lineID && !l.SyncedToAuthority {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *mockTrainingLogRepository) ListRecent(ctx context.Context, lineID string, limit int) ([]delta.TrainingLog, error) {
	var out []delta.TrainingLog
	for i := len(m.order) - 1; i >= 0; i-- {
		l := m.logs[m.order[i]]
		if l.LineID == lineID {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockTrainingLogRepository) MarkSynced(ctx context.Context, clientID string) (bool, error) {
	l, ok := m.logs[clientID]
	if !ok || l.SyncedToAuthority {
		return false, nil
	}
	l.SyncedToAuthority = true
	m.logs[clientID] = l
	return true, nil
}

type mockRecommendationRepository struct {
	recs  map[string]delta.Recommendation
	order []string
}

func newMockRecommendationRepository() *mockRecommendationRepository {
	return &mockRecommendationRepository{recs: make(map[string]delta.Recommendation)}
}

func (m *mockRecommendationRepository) Insert(ctx context.Context, rec *delta.Recommendation) (secondary.InsertOutcome, error) {
	if _, ok := m.recs[rec.ClientID]; ok {
		return secondary.AlreadyExists, nil
	}
	m.recs[rec.ClientID] = *rec
	m.order = append(m.order, rec.ClientID)
	return secondary.Inserted, nil
}

func (m *mockRecommendationRepository) GetByClientID(ctx context.Context, clientID string) (*delta.Recommendation, error) {
	r, ok := m.recs[clientID]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (m *mockRecommendationRepository) Update(ctx context.Context, rec *delta.Recommendation) error {
	if _, ok := m.recs[rec.ClientID]; !ok {
		return fmt.Errorf("recommendation %s not found", rec.ClientID)
	}
	m.recs[rec.ClientID] = *rec
	return nil
}

func (m *mockRecommendationRepository) Delete(ctx context.Context, clientID string) error {
	delete(m.recs, clientID)
	return nil
}

func (m *mockRecommendationRepository) list(keep func(delta.Recommendation) bool) []delta.Recommendation {
	var out []delta.Recommendation
	for _, id := range m.order {
		r, ok := m.recs[id]
		if ok && keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func (m *mockRecommendationRepository) ListByPair(ctx context.Context, employeeID, positionID string) ([]delta.Recommendation, error) {
	return m.list(func(r delta.Recommendation) bool {
		return r.EmployeeID == employeeID && r.PositionID == positionID
	}), nil
}

func (m *mockRecommendationRepository) ListOpen(ctx context.Context, lineID string) ([]delta.Recommendation, error) {
	return m.list(func(r delta.Recommendation) bool { return r.LineID == lineID && r.IsOpen() }), nil
}

func (m *mockRecommendationRepository) ListUnsynced(ctx context.Context, lineID string) ([]delta.Recommendation, error) {
	return m.list(func(r delta.Recommendation) bool { return r.LineID == lineID && !r.SyncedToAuthority }), nil
}

func (m *mockRecommendationRepository) MarkSynced(ctx context.Context, clientID string) (bool, error) {
	r, ok := m.recs[clientID]
	if !ok || r.SyncedToAuthority {
		return false, nil
	}
	r.SyncedToAuthority = true
	m.recs[clientID] = r
	return true, nil
}

type mockSequenceRepository struct {
	values map[string]int
}

func newMockSequenceRepository() *mockSequenceRepository {
	return &mockSequenceRepository{values: make(map[string]int)}
}

func (m *mockSequenceRepository) Next(ctx context.Context, name string) (int, error) {
	m.values[name]++
	return m.values[name], nil
}

// ============================================================================
// Clock, randomness, ids, spreadsheets
// ============================================================================

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newFixedClock(value string) *fixedClock {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic(err)
	}
	return &fixedClock{now: t}
}

// scriptedRandom returns its values in turn, each reduced modulo n.
type scriptedRandom struct {
	values []int
	calls  []int
}

func (r *scriptedRandom) Intn(n int) int {
	r.calls = append(r.calls, n)
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[0]
	r.values = r.values[1:]
	return v % n
}

type sequentialIDs struct{ n int }

func (g *sequentialIDs) NewID() string {
	g.n++
	return fmt.Sprintf("bundle-%d", g.n)
}

// fakeSpreadsheet returns a canned matrix and captures what is written.
type fakeSpreadsheet struct {
	matrix   *secondary.MatrixSheet
	layout   secondary.MatrixLayout
	written  *secondary.MatrixSheet
	rotation *secondary.RotationSheet
}

func (f *fakeSpreadsheet) ReadMatrix(r io.Reader, layout secondary.MatrixLayout) (*secondary.MatrixSheet, error) {
	f.layout = layout
	if f.matrix == nil {
		return nil, fmt.Errorf("no workbook")
	}
	return f.matrix, nil
}

func (f *fakeSpreadsheet) WriteMatrix(w io.Writer, sheet secondary.MatrixSheet) error {
	f.written = &sheet
	_, err := io.WriteString(w, "xlsx")
	return err
}

func (f *fakeSpreadsheet) WriteRotation(w io.Writer, sheet secondary.RotationSheet) error {
	f.rotation = &sheet
	_, err := io.WriteString(w, "xlsx")
	return err
}

func intPtr(v int) *int { return &v }
