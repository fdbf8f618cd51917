package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// RotationCmd returns the rotation command
func RotationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotation",
		Short: "Generate and view daily rotation plans",
		Long: `Generate the day's rotation: three periods (A, B, C), each position
staffed by a present, qualified operator where possible. Critical positions
are filled first. Repeats of yesterday, double assignments and L2 fill-ins
are flagged, and positions that needed them get training suggestions.`,
	}

	cmd.AddCommand(rotationGenerateCmd())
	cmd.AddCommand(rotationShowCmd())
	cmd.AddCommand(rotationListCmd())
	cmd.AddCommand(rotationExportCmd())
	return cmd
}

func rotationGenerateCmd() *cobra.Command {
	var date string
	var bottleneck bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store the plan for a day",
		Long: `Generate and store the plan for a day, replacing any plan already
stored for that date.

Examples:
  skillmatrix rotation generate --line LINE-001
  skillmatrix rotation generate --bottleneck --date 2026-05-04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			_, err = wire.RotationAdapter().Generate(NewContext(), primary.GenerateRotationRequest{
				LineID:     lineID,
				Date:       date,
				Bottleneck: bottleneck,
			})
			return err
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().BoolVarP(&bottleneck, "bottleneck", "b", false, "Staff critical positions only")
	return cmd
}

func rotationShowCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a stored plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			if date == "" {
				date = today()
			}

			_, err = wire.RotationAdapter().Show(NewContext(), lineID, date)
			return err
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	return cmd
}

func rotationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the dates with a stored plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			return wire.RotationAdapter().Dates(NewContext(), lineID)
		},
	}

	addLineFlag(cmd)
	return cmd
}

func rotationExportCmd() *cobra.Command {
	var date, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a stored plan to an Excel workbook",
		Long: `Write a stored plan to an Excel workbook.

Examples:
  skillmatrix rotation export --date 2026-05-04 -o rotation.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			if date == "" {
				date = today()
			}
			if output == "" {
				output = fmt.Sprintf("rotation_%s_%s.xlsx", lineID, date)
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", output, err)
			}
			defer f.Close()

			if err := wire.MatrixService().ExportRotation(NewContext(), lineID, date, f); err != nil {
				os.Remove(output)
				return fmt.Errorf("failed to export rotation: %w", err)
			}

			fmt.Printf("✓ Wrote %s\n", output)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default rotation_<line>_<date>.xlsx)")
	return cmd
}
