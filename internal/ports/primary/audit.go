package primary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/audit"
)

// AuditService defines the primary port for compliance audits.
type AuditService interface {
	// TodaysAudit returns the supervisor's audit for today, creating a draft
	// on a fairly selected position when none exists. Returns nil when the
	// line has no active positions.
	TodaysAudit(ctx context.Context, req TodaysAuditRequest) (*TodaysAuditResponse, error)

	// LogResult records pass/fail and notes on an audit.
	LogResult(ctx context.Context, req LogAuditResultRequest) error

	// History lists completed audits of a line, newest first.
	History(ctx context.Context, lineID string, limit int) ([]audit.Log, error)
}

// TodaysAuditRequest contains parameters for fetching today's audit.
type TodaysAuditRequest struct {
	LineID       string `validate:"required"`
	SupervisorID string `validate:"required"`
}

// TodaysAuditResponse contains today's audit.
type TodaysAuditResponse struct {
	Audit        audit.Log
	PositionName string
	Created      bool
	CycleReset   bool
}

// LogAuditResultRequest contains parameters for logging an audit result.
type LogAuditResultRequest struct {
	AuditID string `validate:"required"`
	Result  string `validate:"required,oneof=pass fail"`
	Notes   string `validate:"max=1000"`
}
