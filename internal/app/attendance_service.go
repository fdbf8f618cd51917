package app

import (
	"context"
	"fmt"

	"github.com/example/skillmatrix/internal/ctxutil"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// Attendance statuses.
const (
	AttendancePresent = "present"
	AttendancePartial = "partial"
	AttendanceAbsent  = "absent"
)

// AttendanceServiceImpl implements the AttendanceService interface.
type AttendanceServiceImpl struct {
	attendanceRepo secondary.AttendanceRepository
	employeeRepo   secondary.EmployeeRepository
}

// NewAttendanceService creates a new AttendanceService with injected dependencies.
func NewAttendanceService(attendanceRepo secondary.AttendanceRepository, employeeRepo secondary.EmployeeRepository) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
	}
}

// Mark records attendance for one employee on a date.
func (s *AttendanceServiceImpl) Mark(ctx context.Context, req primary.MarkAttendanceRequest) error {
	if err := validateRequest(req); err != nil {
		return err
	}
	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return err
	}
	return s.attendanceRepo.Upsert(ctxutil.WithLineID(ctx, emp.LineID), &secondary.AttendanceRecord{
		LineID:     emp.LineID,
		EmployeeID: emp.ID,
		Date:       req.Date,
		Shift:      req.Shift,
		Status:     req.Status,
	})
}

// ListForDate returns each active employee's status on a date.
func (s *AttendanceServiceImpl) ListForDate(ctx context.Context, lineID, date string) ([]*primary.AttendanceEntry, error) {
	employees, err := s.employeeRepo.List(ctx, secondary.EmployeeFilters{LineID: lineID})
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	records, err := s.attendanceRepo.ListByLineDate(ctx, lineID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	byEmployee := make(map[string]string, len(records))
	for _, r := range records {
		byEmployee[r.EmployeeID] = r.Status
	}

	entries := make([]*primary.AttendanceEntry, len(employees))
	for i, e := range employees {
		status, recorded := byEmployee[e.ID]
		if !recorded {
			status = AttendancePresent
		}
		entries[i] = &primary.AttendanceEntry{
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Status:       status,
			Recorded:     recorded,
		}
	}
	return entries, nil
}

// isPresent reports whether a status makes the employee available for rotation.
// Missing records count as present and partial attendance counts as present.
func isPresent(status string, recorded bool) bool {
	return !recorded || status == AttendancePresent || status == AttendancePartial
}

// Ensure AttendanceServiceImpl implements the interface
var _ primary.AttendanceService = (*AttendanceServiceImpl)(nil)
