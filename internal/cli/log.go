package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/app"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "View the activity trail",
		Long: `View and prune the activity trail: every create, update and delete of
lines, employees, positions, skill records, rotation plans, audits and
recommendations, with who made it.`,
	}

	cmd.AddCommand(logListCmd())
	cmd.AddCommand(logShowCmd())
	cmd.AddCommand(logPruneCmd())
	return cmd
}

func logListCmd() *cobra.Command {
	var filters primary.LogFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent changes, oldest at the bottom",
		Long: `List recent changes.

Examples:
  skillmatrix log list --line LINE-001
  skillmatrix log list --type skill_record --entity EMP-004/POS-002
  skillmatrix log list --actor "Jo Brandt" -n 200`,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := wire.LogService().ListLogs(NewContext(), filters)
			if err != nil {
				return fmt.Errorf("failed to fetch activity: %w", err)
			}

			if len(entries) == 0 {
				fmt.Println("No activity found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tLINE\tACTOR\tCHANGE")
			// newest last reads naturally in a terminal
			for i := len(entries) - 1; i >= 0; i-- {
				e := entries[i]
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					e.ID, localTime(e.Timestamp), valueOrDash(e.LineID), valueOrDash(e.ActorID), describeChange(e))
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&filters.LineID, "line", "l", "", "Filter by line ID")
	cmd.Flags().StringVar(&filters.EntityType, "type", "", "Filter by entity type (e.g. skill_record, audit)")
	cmd.Flags().StringVar(&filters.EntityID, "entity", "", "Filter by entity ID")
	cmd.Flags().StringVar(&filters.ActorID, "actor", "", "Filter by actor")
	cmd.Flags().StringVar(&filters.Action, "action", "", "Filter by action: create, update or delete")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", app.DefaultLogLimit, "Maximum entries to show")
	return cmd
}

func logShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [log-id]",
		Short: "Show one change in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := wire.LogService().GetLog(NewContext(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Entry:  %s\n", e.ID)
			fmt.Printf("When:   %s\n", localTime(e.Timestamp))
			fmt.Printf("Line:   %s\n", valueOrDash(e.LineID))
			fmt.Printf("Actor:  %s\n", valueOrDash(e.ActorID))
			fmt.Printf("Entity: %s %s\n", e.EntityType, e.EntityID)
			fmt.Printf("Action: %s\n", e.Action)
			if e.FieldName != "" {
				fmt.Printf("Field:  %s\n", e.FieldName)
				fmt.Printf("Before: %s\n", valueOrDash(e.OldValue))
				fmt.Printf("After:  %s\n", valueOrDash(e.NewValue))
			}
			return nil
		},
	}
}

func logPruneCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old activity",
		Long: fmt.Sprintf(`Delete activity older than the given number of days.
The last %d days are always kept.`, app.MinLogRetentionDays),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := wire.LogService().PruneLogs(NewContext(), days)
			if err != nil {
				return fmt.Errorf("failed to prune activity: %w", err)
			}

			if count == 0 {
				fmt.Printf("No activity older than %d days found.\n", days)
			} else {
				fmt.Printf("✓ Pruned %d entries older than %d days.\n", count, days)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "Delete entries older than N days")
	return cmd
}

func describeChange(e *primary.LogEntry) string {
	target := e.EntityType + " " + e.EntityID
	switch e.Action {
	case "create":
		return color.New(color.FgGreen).Sprint("+ ") + target
	case "delete":
		return color.New(color.FgRed).Sprint("- ") + target
	case "update":
		change := color.New(color.FgYellow).Sprint("~ ") + target
		if e.FieldName != "" {
			change += fmt.Sprintf(" %s: %s -> %s", e.FieldName, valueOrDash(e.OldValue), valueOrDash(e.NewValue))
		}
		return change
	default:
		return "? " + target
	}
}

func localTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
