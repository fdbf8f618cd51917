package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// AttendanceCmd returns the attendance command
func AttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Record who is on shift",
		Long: `Record daily attendance. Employees without a record count as present,
so only absences and partial days need marking.`,
	}

	cmd.AddCommand(attendanceMarkCmd())
	cmd.AddCommand(attendanceListCmd())
	return cmd
}

func attendanceMarkCmd() *cobra.Command {
	var date, shift string

	cmd := &cobra.Command{
		Use:   "mark [employee-id] [present|partial|absent]",
		Short: "Mark an employee's attendance",
		Long: `Mark an employee's attendance for a date (default today).

Examples:
  skillmatrix attendance mark EMP-004 absent
  skillmatrix attendance mark EMP-004 partial --date 2026-05-04 --shift day`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = today()
			}

			err := wire.AttendanceService().Mark(NewContext(), primary.MarkAttendanceRequest{
				EmployeeID: args[0],
				Date:       date,
				Shift:      shift,
				Status:     args[1],
			})
			if err != nil {
				return fmt.Errorf("failed to mark attendance: %w", err)
			}

			fmt.Printf("✓ %s marked %s on %s\n", args[0], args[1], date)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&shift, "shift", "", "Shift: day, afternoon or night")
	return cmd
}

func attendanceListCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show attendance for a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			if date == "" {
				date = today()
			}

			entries, err := wire.AttendanceService().ListForDate(NewContext(), lineID, date)
			if err != nil {
				return fmt.Errorf("failed to list attendance: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No active employees on this line.")
				return nil
			}

			fmt.Printf("Attendance for %s on %s\n\n", lineID, date)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSTATUS")
			fmt.Fprintln(w, "--\t----\t------")
			for _, e := range entries {
				status := e.Status
				switch {
				case e.Status == "absent":
					status = color.New(color.FgRed).Sprint(status)
				case e.Status == "partial":
					status = color.New(color.FgYellow).Sprint(status)
				case !e.Recorded:
					status += " (default)"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", e.EmployeeID, e.EmployeeName, status)
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD (default today)")
	return cmd
}

// today returns the UTC calendar date, matching the date the services default to.
func today() string {
	return time.Now().UTC().Format("2006-01-02")
}
