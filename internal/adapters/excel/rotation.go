package excel

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/example/skillmatrix/internal/core/rotation"
	"github.com/example/skillmatrix/internal/ports/secondary"
)

// RotationSheetName is the sheet written by WriteRotation.
const RotationSheetName = "Rotation"

// WriteRotation writes a rotation plan workbook: one row per slot and gap,
// violations and gaps highlighted, followed by the training suggestions.
func (a *Adapter) WriteRotation(w io.Writer, sheet secondary.RotationSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	s := RotationSheetName
	if err := f.SetSheetName(f.GetSheetName(0), s); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	warn, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}
	gap, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#9C0006"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	sw := &sheetWriter{f: f, sheet: s}
	sw.value("A1", fmt.Sprintf("%s rotation %s", sheet.LineName, sheet.Date))
	sw.style("A1", "A1", bold)
	sw.row("A3", []any{"Period", "Position", "Employee", "Note"})
	sw.style("A3", "D3", bold)
	sw.width("B", "C", 22)
	sw.width("D", "D", 30)

	row := 4
	for _, p := range rotation.Periods {
		for _, slot := range sheet.Plan.Slots {
			if slot.Period != p {
				continue
			}
			sw.row(cell(1, row), []any{string(slot.Period), slot.PositionName, slot.EmployeeName, violationNote(slot.Violation)})
			if slot.HasViolation() {
				sw.style(cell(1, row), cell(4, row), warn)
			}
			row++
		}
		for _, g := range sheet.Plan.Gaps {
			if g.Period != p {
				continue
			}
			sw.row(cell(1, row), []any{string(g.Period), g.PositionName, "GAP", gapNote(g.Reason)})
			sw.style(cell(1, row), cell(4, row), gap)
			row++
		}
	}

	if len(sheet.Plan.Suggestions) > 0 {
		row++
		sw.value(cell(1, row), "Training suggestions")
		sw.style(cell(1, row), cell(1, row), bold)
		row++
		for _, sg := range sheet.Plan.Suggestions {
			names := make([]string, 0, len(sg.Candidates))
			for _, c := range sg.Candidates {
				names = append(names, fmt.Sprintf("%s (L%d)", c.Name, c.CurrentLevel))
			}
			sw.row(cell(1, row), []any{sg.Urgency, sg.PositionName, fmt.Sprintf("%d qualified", sg.QualifiedCount), strings.Join(names, ", ")})
			row++
		}
	}
	if sw.err != nil {
		return fmt.Errorf("failed to fill rotation sheet: %w", sw.err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func violationNote(v rotation.Violation) string {
	switch v {
	case rotation.ViolationRepeat:
		return "repeat from yesterday"
	case rotation.ViolationDouble:
		return "second period on position"
	case rotation.ViolationUnderqualified:
		return "level 2, needs supervision"
	}
	return ""
}

func gapNote(r rotation.GapReason) string {
	if r == rotation.GapBBSkipped {
		return "bottleneck B skipped"
	}
	return "no available employee"
}
