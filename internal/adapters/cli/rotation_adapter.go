package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/ports/primary"
)

// RotationAdapter is a thin adapter that translates CLI operations to RotationService calls.
// It depends only on the RotationService interface, enabling easy testing with mocks.
type RotationAdapter struct {
	service primary.RotationService
	out     io.Writer
}

// NewRotationAdapter creates a new RotationAdapter with the given service.
func NewRotationAdapter(service primary.RotationService, out io.Writer) *RotationAdapter {
	return &RotationAdapter{
		service: service,
		out:     out,
	}
}

// Generate builds, stores and prints the plan for a line.
func (a *RotationAdapter) Generate(ctx context.Context, req primary.GenerateRotationRequest) (*primary.RotationPlan, error) {
	plan, err := a.service.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to generate rotation: %w", err)
	}

	fmt.Fprintf(a.out, "✓ Generated rotation for %s on %s\n", plan.LineID, plan.Date)
	if plan.YesterdayDate != "" {
		fmt.Fprintf(a.out, "  avoiding repeats from %s\n", plan.YesterdayDate)
	}
	if len(plan.Pruned) > 0 {
		fmt.Fprintf(a.out, "  pruned %d old plan(s): %s\n", len(plan.Pruned), strings.Join(plan.Pruned, ", "))
	}
	a.print(plan)
	return plan, nil
}

// Show prints a stored plan.
func (a *RotationAdapter) Show(ctx context.Context, lineID, date string) (*primary.RotationPlan, error) {
	plan, err := a.service.GetPlan(ctx, lineID, date)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "Rotation for %s on %s (generated %s)\n", plan.LineID, plan.Date, plan.GeneratedAt)
	a.print(plan)
	return plan, nil
}

// Dates lists the dates with a stored plan.
func (a *RotationAdapter) Dates(ctx context.Context, lineID string) error {
	dates, err := a.service.ListPlanDates(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to list plans: %w", err)
	}

	if len(dates) == 0 {
		fmt.Fprintln(a.out, "No rotation plans stored.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Generate today's plan:")
		fmt.Fprintf(a.out, "  skillmatrix rotation generate --line %s\n", lineID)
		return nil
	}

	for _, d := range dates {
		fmt.Fprintln(a.out, d)
	}
	return nil
}

func (a *RotationAdapter) print(plan *primary.RotationPlan) {
	if plan.Bottleneck {
		fmt.Fprintf(a.out, "Mode: %s\n", color.New(color.FgMagenta).Sprint("bottleneck (critical positions only)"))
	}
	fmt.Fprintln(a.out)

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tPOSITION\tEMPLOYEE\tNOTE")
	fmt.Fprintln(w, "------\t--------\t--------\t----")
	for _, period := range rotation.Periods {
		for _, s := range plan.Plan.Slots {
			if s.Period != period {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Period, s.PositionName, s.EmployeeName, violationLabel(s.Violation))
		}
		for _, g := range plan.Plan.Gaps {
			if g.Period != period || g.Reason == rotation.GapBBSkipped {
				continue
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Period, g.PositionName, "-", color.New(color.FgRed).Sprint("GAP"))
		}
	}
	w.Flush()

	if skipped := skippedPositions(plan.Plan); len(skipped) > 0 {
		fmt.Fprintf(a.out, "\nSkipped (bottleneck): %s\n", strings.Join(skipped, ", "))
	}

	if len(plan.Plan.Suggestions) > 0 {
		fmt.Fprintln(a.out, "\nTraining suggestions:")
		for _, s := range plan.Plan.Suggestions {
			names := make([]string, 0, len(s.Candidates))
			for _, c := range s.Candidates {
				names = append(names, fmt.Sprintf("%s (L%d)", c.Name, c.CurrentLevel))
			}
			fmt.Fprintf(a.out, "  %s  urgency %d, %d qualified", s.PositionName, s.Urgency, s.QualifiedCount)
			if len(names) > 0 {
				fmt.Fprintf(a.out, ": %s", strings.Join(names, ", "))
			}
			fmt.Fprintln(a.out)
		}
	}
	fmt.Fprintln(a.out)
}

func violationLabel(v rotation.Violation) string {
	switch v {
	case rotation.ViolationRepeat:
		return color.New(color.FgYellow).Sprint("repeat from yesterday")
	case rotation.ViolationDouble:
		return color.New(color.FgYellow).Sprint("second time today")
	case rotation.ViolationUnderqualified:
		return color.New(color.FgRed).Sprint("underqualified (L2)")
	default:
		return ""
	}
}

func skippedPositions(plan rotation.Plan) []string {
	var names []string
	seen := map[string]bool{}
	for _, g := range plan.Gaps {
		if g.Reason != rotation.GapBBSkipped || seen[g.PositionID] {
			continue
		}
		seen[g.PositionID] = true
		names = append(names, g.PositionName)
	}
	return names
}
