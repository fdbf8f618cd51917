package primary

import (
	"context"

	"github.com/example/skillmatrix/internal/core/rotation"
)

// RotationService defines the primary port for daily rotation plans.
type RotationService interface {
	// Generate builds and stores today's plan for a line, replacing any plan
	// already stored for that date.
	Generate(ctx context.Context, req GenerateRotationRequest) (*RotationPlan, error)

	// GetPlan retrieves the stored plan for (line, date).
	GetPlan(ctx context.Context, lineID, date string) (*RotationPlan, error)

	// ListPlanDates lists the dates with a stored plan, oldest first.
	ListPlanDates(ctx context.Context, lineID string) ([]string, error)
}

// GenerateRotationRequest contains parameters for generating a plan.
type GenerateRotationRequest struct {
	LineID     string `validate:"required"`
	Date       string `validate:"omitempty,datetime=2006-01-02"` // defaults to today
	Bottleneck bool
}

// RotationPlan represents a stored plan at the port boundary.
type RotationPlan struct {
	LineID        string
	Date          string
	Bottleneck    bool
	YesterdayDate string // empty when no earlier plan was used
	Plan          rotation.Plan
	GeneratedAt   string
	Pruned        []string
}
