package primary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/skill"
)

// SkillService defines the primary port for the promotion/demotion workflow.
type SkillService interface {
	// Promote signs a promotion for (employee, position). The returned
	// response says whether the level changed or a second signature is pending.
	Promote(ctx context.Context, req PromoteRequest) (*PromoteResponse, error)

	// Demote lowers the level of (employee, position).
	Demote(ctx context.Context, req DemoteRequest) (*skill.Record, error)

	// GetRecord retrieves the record for (employee, position). A missing
	// record is returned as a blank level-0 record.
	GetRecord(ctx context.Context, employeeID, positionID string) (*skill.Record, error)

	// ListPendingDual lists the records of a line awaiting a second signature.
	ListPendingDual(ctx context.Context, lineID string) ([]skill.Record, error)

	// Matrix returns every record of a line.
	Matrix(ctx context.Context, lineID string) ([]skill.Record, error)
}

// PromoteRequest contains parameters for signing a promotion.
type PromoteRequest struct {
	EmployeeID string `validate:"required"`
	PositionID string `validate:"required"`
	SignerName string
	SignerRole string `validate:"required,oneof=operator team_lead supervisor"`
	Comment    string `validate:"max=500"`
}

// PromoteResponse contains the result of a promotion signature.
type PromoteResponse struct {
	Record      skill.Record
	Promoted    bool
	PendingDual bool
}

// DemoteRequest contains parameters for a demotion.
type DemoteRequest struct {
	EmployeeID     string `validate:"required"`
	PositionID     string `validate:"required"`
	SupervisorName string
	TargetLevel    int `validate:"min=0,max=4"`
	Reason         string `validate:"max=500"`
}
