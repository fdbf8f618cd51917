package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// LineCmd returns the line command
func LineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line",
		Short: "Manage production lines",
	}

	cmd.AddCommand(lineCreateCmd())
	cmd.AddCommand(lineListCmd())
	return cmd
}

func lineCreateCmd() *cobra.Command {
	var shift string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new line",
		Long: `Create a new production line.

Examples:
  skillmatrix line create "Assembly 1" --shift day`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := wire.LineService().CreateLine(NewContext(), primary.CreateLineRequest{
				Name:  args[0],
				Shift: shift,
			})
			if err != nil {
				return fmt.Errorf("failed to create line: %w", err)
			}

			fmt.Printf("✓ Created line %s: %s\n", line.ID, line.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&shift, "shift", "", "Shift: day, afternoon or night")
	return cmd
}

func lineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all lines",
		RunE: func(cmd *cobra.Command, args []string) error {
			lines, err := wire.LineService().ListLines(NewContext())
			if err != nil {
				return fmt.Errorf("failed to list lines: %w", err)
			}

			if len(lines) == 0 {
				fmt.Println("No lines found.")
				fmt.Println()
				fmt.Println("Create your first line:")
				fmt.Println("  skillmatrix line create \"Assembly 1\"")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSHIFT\tCREATED")
			fmt.Fprintln(w, "--\t----\t-----\t-------")
			for _, l := range lines {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.ID, l.Name, valueOrDash(l.Shift), l.CreatedAt)
			}
			w.Flush()
			return nil
		},
	}
}

// EmployeeCmd returns the employee command
func EmployeeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Manage the employees of a line",
	}

	cmd.AddCommand(employeeAddCmd())
	cmd.AddCommand(employeeListCmd())
	cmd.AddCommand(employeeDeactivateCmd())
	return cmd
}

func employeeAddCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add an employee",
		Long: `Add an employee to a line. Adding a name that already exists on the
line reactivates and updates that employee.

Examples:
  skillmatrix employee add "Ana Costa" --line LINE-001
  skillmatrix employee add "Jo Brandt" --role supervisor`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			emp, err := wire.LineService().AddEmployee(NewContext(), primary.AddEmployeeRequest{
				LineID: lineID,
				Name:   args[0],
				Role:   role,
			})
			if err != nil {
				return fmt.Errorf("failed to add employee: %w", err)
			}

			fmt.Printf("✓ %s: %s (%s)\n", emp.ID, emp.Name, emp.Role)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&role, "role", "operator", "Role: operator, team_lead or supervisor")
	return cmd
}

func employeeListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the employees of a line",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			employees, err := wire.LineService().ListEmployees(NewContext(), lineID, all)
			if err != nil {
				return fmt.Errorf("failed to list employees: %w", err)
			}

			if len(employees) == 0 {
				fmt.Println("No employees found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tACTIVE")
			fmt.Fprintln(w, "--\t----\t----\t------")
			for _, e := range employees {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", e.ID, e.Name, e.Role, e.Active)
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include inactive employees")
	return cmd
}

func employeeDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate [employee-id]",
		Short: "Mark an employee inactive",
		Long:  "Mark an employee inactive. Their skill records are kept.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.LineService().DeactivateEmployee(NewContext(), args[0]); err != nil {
				return fmt.Errorf("failed to deactivate employee: %w", err)
			}
			fmt.Printf("✓ Employee %s deactivated\n", args[0])
			return nil
		},
	}
}

// PositionCmd returns the position command
func PositionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "position",
		Short: "Manage the positions of a line",
	}

	cmd.AddCommand(positionAddCmd())
	cmd.AddCommand(positionListCmd())
	cmd.AddCommand(positionDeactivateCmd())
	return cmd
}

func positionAddCmd() *cobra.Command {
	var critical bool
	var sortOrder int

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a position",
		Long: `Add a position to a line. Critical positions are staffed first and are
the only ones scheduled in bottleneck mode.

Examples:
  skillmatrix position add "Press" --critical
  skillmatrix position add "Pack out" --sort 5`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			req := primary.AddPositionRequest{
				LineID:   lineID,
				Name:     args[0],
				Critical: critical,
			}
			if cmd.Flags().Changed("sort") {
				req.SortOrder = &sortOrder
			}

			pos, err := wire.LineService().AddPosition(NewContext(), req)
			if err != nil {
				return fmt.Errorf("failed to add position: %w", err)
			}

			marker := ""
			if pos.Critical {
				marker = " [critical]"
			}
			fmt.Printf("✓ %s: %s%s\n", pos.ID, pos.Name, marker)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().BoolVar(&critical, "critical", false, "Mark the position critical")
	cmd.Flags().IntVar(&sortOrder, "sort", 0, "Sort order (default: after existing positions)")
	return cmd
}

func positionListCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the positions of a line",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			positions, err := wire.LineService().ListPositions(NewContext(), lineID, all)
			if err != nil {
				return fmt.Errorf("failed to list positions: %w", err)
			}

			if len(positions) == 0 {
				fmt.Println("No positions found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCRITICAL\tSORT\tACTIVE")
			fmt.Fprintln(w, "--\t----\t--------\t----\t------")
			for _, p := range positions {
				fmt.Fprintf(w, "%s\t%s\t%t\t%d\t%t\n", p.ID, p.Name, p.Critical, p.SortOrder, p.Active)
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include inactive positions")
	return cmd
}

func positionDeactivateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deactivate [position-id]",
		Short: "Mark a position inactive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.LineService().DeactivatePosition(NewContext(), args[0]); err != nil {
				return fmt.Errorf("failed to deactivate position: %w", err)
			}
			fmt.Printf("✓ Position %s deactivated\n", args[0])
			return nil
		},
	}
}
