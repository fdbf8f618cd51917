package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/app"
	"github.com/example/skillmatrix/internal/core/audit"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// AuditCmd returns the audit command
func AuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Daily compliance audits",
		Long: `Each supervisor audits one position a day. Positions are drawn at random
from those not yet audited in the current cycle; once every position has
been audited the cycle starts over.`,
	}

	cmd.AddCommand(auditTodayCmd())
	cmd.AddCommand(auditLogCmd())
	cmd.AddCommand(auditHistoryCmd())
	return cmd
}

func auditTodayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "today [supervisor-id]",
		Short: "Show or assign today's audit for a supervisor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			resp, err := wire.AuditService().TodaysAudit(NewContext(), primary.TodaysAuditRequest{
				LineID:       lineID,
				SupervisorID: args[0],
			})
			if err != nil {
				return fmt.Errorf("failed to get today's audit: %w", err)
			}
			if resp == nil {
				fmt.Println("No active positions to audit on this line.")
				return nil
			}

			if resp.Created {
				fmt.Printf("✓ Assigned %s: audit %s (%s)\n", resp.Audit.ID, resp.PositionName, resp.Audit.PositionID)
				if resp.CycleReset {
					fmt.Println("  every position has been audited, starting a new cycle")
				}
				return nil
			}

			fmt.Printf("Audit %s: %s (%s) on %s\n", resp.Audit.ID, resp.PositionName, resp.Audit.PositionID, resp.Audit.Date)
			fmt.Printf("Result: %s\n", resultLabel(resp.Audit.Result))
			if resp.Audit.Notes != "" {
				fmt.Printf("Notes: %s\n", resp.Audit.Notes)
			}
			return nil
		},
	}

	addLineFlag(cmd)
	return cmd
}

func auditLogCmd() *cobra.Command {
	var notes string

	cmd := &cobra.Command{
		Use:   "log [audit-id] [pass|fail]",
		Short: "Record an audit result",
		Long: `Record the result of an audit.

Examples:
  skillmatrix audit log AUD-0007 pass
  skillmatrix audit log AUD-0008 fail --notes "guard left open"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := wire.AuditService().LogResult(NewContext(), primary.LogAuditResultRequest{
				AuditID: args[0],
				Result:  args[1],
				Notes:   notes,
			})
			if err != nil {
				return fmt.Errorf("failed to log audit: %w", err)
			}

			fmt.Printf("✓ Audit %s logged: %s\n", args[0], args[1])
			return nil
		},
	}

	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Audit notes")
	return cmd
}

func auditHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed audits, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			logs, err := wire.AuditService().History(NewContext(), lineID, limit)
			if err != nil {
				return fmt.Errorf("failed to list audits: %w", err)
			}

			if len(logs) == 0 {
				fmt.Println("No completed audits.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tSUPERVISOR\tPOSITION\tRESULT\tNOTES")
			fmt.Fprintln(w, "--\t----\t----------\t--------\t------\t-----")
			for _, l := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					l.ID, l.Date, l.SupervisorID, l.PositionID, resultLabel(l.Result), l.Notes)
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", app.DefaultAuditHistoryLimit, "Maximum audits to show")
	return cmd
}

func resultLabel(r *audit.Result) string {
	if r == nil {
		return color.New(color.FgYellow).Sprint("pending")
	}
	if *r == audit.ResultFail {
		return color.New(color.FgRed).Sprint(string(*r))
	}
	return color.New(color.FgGreen).Sprint(string(*r))
}
