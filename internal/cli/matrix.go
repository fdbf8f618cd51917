package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/adapters/excel"
	"github.com/example/skillmatrix/internal/core/crosstraining"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// MatrixCmd returns the matrix command
func MatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Import and export skill matrix workbooks",
	}

	cmd.AddCommand(matrixImportCmd())
	cmd.AddCommand(matrixExportCmd())
	return cmd
}

func matrixImportCmd() *cobra.Command {
	defaults := excel.DefaultLayout()
	var sheet string
	var headerRow, nameCol, firstLevelCol, firstDataRow int

	cmd := &cobra.Command{
		Use:   "import [file.xlsx]",
		Short: "Seed skill records from a workbook",
		Long: `Seed skill records from an Excel skill matrix. Employees and positions
missing from the line are created. Levels bypass the signature workflow and
are recorded as imports in each record's history. Blank and zero cells are
skipped.

The default layout matches 'matrix export': position names on row 2 from
column 2, employee names in column 1 from row 3.

Examples:
  skillmatrix matrix import matrix.xlsx --line LINE-001
  skillmatrix matrix import legacy.xlsx --sheet Skills --header-row 4 --first-row 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			resp, err := wire.MatrixService().ImportMatrix(NewContext(), primary.ImportMatrixRequest{
				LineID:           lineID,
				Reader:           f,
				Sheet:            sheet,
				HeaderRow:        headerRow,
				NameColumn:       nameCol,
				FirstLevelColumn: firstLevelCol,
				FirstDataRow:     firstDataRow,
			})
			if err != nil {
				return fmt.Errorf("failed to import matrix: %w", err)
			}

			fmt.Printf("✓ Imported %s into %s\n", args[0], lineID)
			fmt.Printf("  %d new employee(s), %d new position(s), %d skill record(s)\n",
				resp.NewEmployees, resp.NewPositions, resp.SkillRecords)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: first sheet)")
	cmd.Flags().IntVar(&headerRow, "header-row", defaults.HeaderRow, "Row holding position names")
	cmd.Flags().IntVar(&nameCol, "name-col", defaults.NameColumn, "Column holding employee names")
	cmd.Flags().IntVar(&firstLevelCol, "first-level-col", defaults.FirstLevelColumn, "First column holding levels")
	cmd.Flags().IntVar(&firstDataRow, "first-row", defaults.FirstDataRow, "First employee row")
	return cmd
}

func matrixExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the skill matrix of a line to a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			if output == "" {
				output = fmt.Sprintf("skill_matrix_%s.xlsx", lineID)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			if err := wire.MatrixService().ExportMatrix(NewContext(), lineID, f); err != nil {
				os.Remove(output)
				return fmt.Errorf("failed to export matrix: %w", err)
			}

			fmt.Printf("✓ Wrote %s\n", output)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default skill_matrix_<line>.xlsx)")
	return cmd
}

// AnalysisCmd returns the analysis command
func AnalysisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analysis",
		Short: "Show 3x3 cross-training coverage",
		Long: `Show cross-training coverage against the 3x3 target: every position
with at least three qualified (L3+) operators and every operator qualified
on at least three positions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			a, err := wire.AnalysisService().CrossTraining(NewContext(), lineID)
			if err != nil {
				return fmt.Errorf("failed to analyse line: %w", err)
			}

			printAnalysis(a)
			return nil
		},
	}

	addLineFlag(cmd)
	return cmd
}

func printAnalysis(a *crosstraining.Analysis) {
	s := a.Summary
	fmt.Printf("Positions: %d met, %d partial, %d critical\n", s.PositionsMet, s.PositionsPartial, s.PositionsCritical)
	fmt.Printf("Employees: %d met, %d partial, %d critical\n", s.EmployeesMet, s.EmployeesPartial, s.EmployeesCritical)
	fmt.Printf("Fill rate: %.0f%% (%d of %d slots)\n\n", s.FillRate*100, s.FilledSlots, s.TotalSlots)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "POSITION\tQUALIFIED\tSTATUS")
	fmt.Fprintln(w, "--------\t---------\t------")
	for _, p := range a.Positions {
		name := p.Name
		if p.Critical {
			name += " [critical]"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, p.Count, statusLabel(p.Status))
	}
	w.Flush()

	if len(a.Recommendations) == 0 {
		return
	}
	fmt.Println("\nTrain next:")
	for _, r := range a.Recommendations {
		names := make([]string, 0, len(r.Candidates))
		for _, c := range r.Candidates {
			names = append(names, fmt.Sprintf("%s (L%d)", c.Name, c.Level))
		}
		fmt.Printf("  %s needs %d more: %s\n", r.PositionName, r.Need, strings.Join(names, ", "))
	}
}

func statusLabel(s crosstraining.Status) string {
	switch s {
	case crosstraining.StatusMet:
		return color.New(color.FgGreen).Sprint(string(s))
	case crosstraining.StatusPartial:
		return color.New(color.FgYellow).Sprint(string(s))
	default:
		return color.New(color.FgRed).Sprint(string(s))
	}
}
