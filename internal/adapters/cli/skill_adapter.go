// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle argument parsing, output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/skillmatrix/internal/core/skill"
	"github.com/example/skillmatrix/internal/ports/primary"
)

// SkillAdapter is a thin adapter that translates CLI operations to SkillService calls.
// It depends only on the SkillService interface, enabling easy testing with mocks.
type SkillAdapter struct {
	service primary.SkillService
	out     io.Writer
}

// NewSkillAdapter creates a new SkillAdapter with the given service.
func NewSkillAdapter(service primary.SkillService, out io.Writer) *SkillAdapter {
	return &SkillAdapter{
		service: service,
		out:     out,
	}
}

// Promote signs a promotion and reports whether the level moved.
func (a *SkillAdapter) Promote(ctx context.Context, req primary.PromoteRequest) error {
	resp, err := a.service.Promote(ctx, req)
	if err != nil {
		return err
	}

	rec := resp.Record
	switch {
	case resp.PendingDual:
		fmt.Fprintf(a.out, "✓ First signature recorded for %s on %s (L%d -> L%d)\n",
			rec.EmployeeID, rec.PositionID, rec.CurrentLevel, *rec.RequestedLevel)
		fmt.Fprintf(a.out, "  %s\n", color.New(color.FgYellow).Sprint("awaiting second signature"))
	case resp.Promoted:
		fmt.Fprintf(a.out, "✓ %s promoted to L%d on %s\n", rec.EmployeeID, rec.CurrentLevel, rec.PositionID)
	}
	return nil
}

// Demote lowers a level.
func (a *SkillAdapter) Demote(ctx context.Context, req primary.DemoteRequest) error {
	rec, err := a.service.Demote(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ %s demoted to L%d on %s\n", rec.EmployeeID, rec.CurrentLevel, rec.PositionID)
	return nil
}

// Show displays a record with its approvals and history.
func (a *SkillAdapter) Show(ctx context.Context, employeeID, positionID string) (*skill.Record, error) {
	rec, err := a.service.GetRecord(ctx, employeeID, positionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill record: %w", err)
	}

	fmt.Fprintf(a.out, "\nEmployee: %s\n", rec.EmployeeID)
	fmt.Fprintf(a.out, "Position: %s\n", rec.PositionID)
	fmt.Fprintf(a.out, "Level:    L%d\n", rec.CurrentLevel)
	fmt.Fprintf(a.out, "Status:   %s\n", rec.Status)
	if rec.RequestedLevel != nil {
		fmt.Fprintf(a.out, "Requested: L%d\n", *rec.RequestedLevel)
	}

	if len(rec.Approvals) > 0 {
		fmt.Fprintln(a.out, "\nApprovals:")
		for _, ap := range rec.Approvals {
			fmt.Fprintf(a.out, "  %s  %-12s %-10s for L%d\n",
				ap.At.Format("2006-01-02 15:04"), ap.ApproverName, ap.Role, ap.ForLevel)
		}
	}

	if len(rec.History) > 0 {
		fmt.Fprintln(a.out, "\nHistory:")
		for _, h := range rec.History {
			line := fmt.Sprintf("  %s  %-9s L%d -> L%d by %s",
				h.At.Format("2006-01-02 15:04"), h.Type, h.FromLevel, h.ToLevel, h.By)
			if h.Reason != "" {
				line += " (" + h.Reason + ")"
			}
			fmt.Fprintln(a.out, line)
		}
	}
	fmt.Fprintln(a.out)

	return rec, nil
}

// Pending lists the records of a line awaiting a second signature.
func (a *SkillAdapter) Pending(ctx context.Context, lineID string) error {
	records, err := a.service.ListPendingDual(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to list pending signatures: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No promotions awaiting a second signature.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "EMPLOYEE\tPOSITION\tLEVEL\tREQUESTED\tFIRST SIGNER")
	fmt.Fprintln(w, "--------\t--------\t-----\t---------\t------------")
	for _, rec := range records {
		signer := "-"
		if len(rec.Approvals) > 0 {
			first := rec.Approvals[0]
			signer = fmt.Sprintf("%s (%s)", first.ApproverName, first.Role)
		}
		requested := "-"
		if rec.RequestedLevel != nil {
			requested = fmt.Sprintf("L%d", *rec.RequestedLevel)
		}
		fmt.Fprintf(w, "%s\t%s\tL%d\t%s\t%s\n", rec.EmployeeID, rec.PositionID, rec.CurrentLevel, requested, signer)
	}
	w.Flush()
	return nil
}

// Matrix prints the level grid of a line, one row per employee.
func (a *SkillAdapter) Matrix(ctx context.Context, lineID string) error {
	records, err := a.service.Matrix(ctx, lineID)
	if err != nil {
		return fmt.Errorf("failed to load matrix: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintln(a.out, "No skill records found.")
		return nil
	}

	var employees, positions []string
	seenEmp := map[string]bool{}
	seenPos := map[string]bool{}
	cells := map[skill.Pair]skill.Record{}
	for _, rec := range records {
		if !seenEmp[rec.EmployeeID] {
			seenEmp[rec.EmployeeID] = true
			employees = append(employees, rec.EmployeeID)
		}
		if !seenPos[rec.PositionID] {
			seenPos[rec.PositionID] = true
			positions = append(positions, rec.PositionID)
		}
		cells[rec.Key()] = rec
	}
	sort.Strings(employees)
	sort.Strings(positions)

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprint(w, "EMPLOYEE")
	for _, p := range positions {
		fmt.Fprintf(w, "\t%s", p)
	}
	fmt.Fprintln(w)
	for _, e := range employees {
		fmt.Fprint(w, e)
		for _, p := range positions {
			fmt.Fprintf(w, "\t%s", matrixCell(cells, e, p))
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return nil
}

func matrixCell(cells map[skill.Pair]skill.Record, employeeID, positionID string) string {
	rec, ok := cells[skill.Pair{EmployeeID: employeeID, PositionID: positionID}]
	if !ok || rec.CurrentLevel == 0 && rec.Status == skill.StatusApproved {
		return "."
	}
	cell := fmt.Sprintf("%d", rec.CurrentLevel)
	if rec.Status == skill.StatusPendingDual {
		cell += "*"
	}
	return cell
}
