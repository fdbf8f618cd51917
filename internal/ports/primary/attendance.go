package primary

import "context"

// AttendanceService defines the primary port for daily attendance.
type AttendanceService interface {
	// Mark records attendance for one employee on a date.
	Mark(ctx context.Context, req MarkAttendanceRequest) error

	// ListForDate returns each active employee's status on a date. Employees
	// without a record are reported present.
	ListForDate(ctx context.Context, lineID, date string) ([]*AttendanceEntry, error)
}

// MarkAttendanceRequest contains parameters for marking attendance.
type MarkAttendanceRequest struct {
	EmployeeID string `validate:"required"`
	Date       string `validate:"required,datetime=2006-01-02"`
	Shift      string `validate:"omitempty,oneof=day afternoon night"`
	Status     string `validate:"required,oneof=present partial absent"`
}

// AttendanceEntry is one employee's attendance at the port boundary.
type AttendanceEntry struct {
	EmployeeID   string
	EmployeeName string
	Status       string
	Recorded     bool
}
