package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/app"
	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// TrainingCmd returns the training command
func TrainingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training",
		Short: "Log training sessions and manage recommendations",
		Long: `Record training sessions on this device. A session can recommend a
level change, which raises an open recommendation for a supervisor to action.
Logs and recommendations travel to the authority with 'skillmatrix sync export'.`,
	}

	cmd.AddCommand(trainingLogCmd())
	cmd.AddCommand(trainingRecentCmd())
	cmd.AddCommand(trainingRecsCmd())
	cmd.AddCommand(trainingActionCmd())
	return cmd
}

func trainingLogCmd() *cobra.Command {
	var trainer, loggedBy, role, notes, shift string
	var minutes int
	var recommend bool

	cmd := &cobra.Command{
		Use:   "log [employee-id] [position-id]",
		Short: "Record a training session",
		Long: `Record a training session.

Examples:
  skillmatrix training log EMP-004 POS-002 --by "Ivo Marsh" --role team_lead --minutes 45
  skillmatrix training log EMP-004 POS-002 --by "Ivo Marsh" --role team_lead --recommend`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			resp, err := wire.TrainingService().LogTraining(NewContext(), primary.LogTrainingRequest{
				LineID:               lineID,
				EmployeeID:           args[0],
				PositionID:           args[1],
				TrainerName:          trainer,
				LoggedByName:         loggedBy,
				LoggedByRole:         role,
				DurationMinutes:      minutes,
				Notes:                notes,
				Shift:                shift,
				RecommendLevelChange: recommend,
			})
			if err != nil {
				return fmt.Errorf("failed to log training: %w", err)
			}

			fmt.Printf("✓ Logged %s: %s on %s (%d min, %s shift)\n",
				resp.Log.ClientID, resp.Log.EmployeeName, resp.Log.PositionName, resp.Log.DurationMinutes, resp.Log.Shift)
			if rec := resp.Recommendation; rec != nil {
				verb := "Raised"
				if resp.Merged {
					verb = "Updated"
				}
				fmt.Printf("  %s recommendation %s: L%s -> L%s\n", verb, rec.ClientID, levelOrDash(rec.CurrentLevel), levelOrDash(rec.SuggestedLevel))
			}
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVar(&trainer, "trainer", "", "Trainer name")
	cmd.Flags().StringVar(&loggedBy, "by", "", "Name of the person logging (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role of the person logging (required)")
	cmd.Flags().IntVarP(&minutes, "minutes", "m", 0, "Session length in minutes")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Session notes")
	cmd.Flags().StringVar(&shift, "shift", "", "Shift (default derived from the time of day)")
	cmd.Flags().BoolVar(&recommend, "recommend", false, "Recommend a level change")
	cmd.MarkFlagRequired("by")
	cmd.MarkFlagRequired("role")
	return cmd
}

func trainingRecentCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recent training sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			logs, err := wire.TrainingService().ListRecent(NewContext(), lineID, limit)
			if err != nil {
				return fmt.Errorf("failed to list training logs: %w", err)
			}

			if len(logs) == 0 {
				fmt.Println("No training logged yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tWHEN\tEMPLOYEE\tPOSITION\tMIN\tBY\tSYNCED")
			fmt.Fprintln(w, "--\t----\t--------\t--------\t---\t--\t------")
			for _, l := range logs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
					l.ClientID,
					l.Timestamp.Format("2006-01-02 15:04"),
					snapshotName(l.EmployeeName, l.EmployeeResolved),
					snapshotName(l.PositionName, l.PositionResolved),
					l.DurationMinutes,
					l.CreatedByName,
					syncedLabel(l.SyncedToAuthority),
				)
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", app.DefaultRecentLogs, "Number of sessions to show")
	return cmd
}

func trainingRecsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recs",
		Short: "List open recommendations",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}

			recs, err := wire.TrainingService().ListOpenRecommendations(NewContext(), lineID)
			if err != nil {
				return fmt.Errorf("failed to list recommendations: %w", err)
			}

			if len(recs) == 0 {
				fmt.Println("No open recommendations.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tEMPLOYEE\tPOSITION\tLEVEL\tSUGGESTED\tBY\tCREATED")
			fmt.Fprintln(w, "--\t--------\t--------\t-----\t---------\t--\t-------")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%s\t%s\tL%s\tL%s\t%s\t%s\n",
					r.ClientID, r.EmployeeName, r.PositionName,
					levelOrDash(r.CurrentLevel), levelOrDash(r.SuggestedLevel),
					r.CreatedByName, r.CreatedAt.Format("2006-01-02"))
			}
			w.Flush()
			return nil
		},
	}

	addLineFlag(cmd)
	return cmd
}

func trainingActionCmd() *cobra.Command {
	var by, note string

	cmd := &cobra.Command{
		Use:   "action [recommendation-id] [promoted|deferred|declined]",
		Short: "Close an open recommendation",
		Long: `Close an open recommendation. Actioning does not change the skill level;
promote through 'skillmatrix skill promote'.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := wire.TrainingService().ActionRecommendation(NewContext(), primary.ActionRecommendationRequest{
				ClientID:   args[0],
				Outcome:    args[1],
				ActionedBy: by,
				Note:       note,
			})
			if err != nil {
				return fmt.Errorf("failed to action recommendation: %w", err)
			}

			fmt.Printf("✓ Recommendation %s %s by %s\n", rec.ClientID, rec.ActionedResult, rec.ActionedBy)
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "", "Name of the person actioning (required)")
	cmd.Flags().StringVarP(&note, "note", "n", "", "Note")
	cmd.MarkFlagRequired("by")
	return cmd
}

func levelOrDash(level *int) string {
	if level == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *level)
}

func snapshotName(name string, resolved bool) string {
	if resolved {
		return name
	}
	return color.New(color.FgYellow).Sprintf("%s (unresolved)", name)
}

func syncedLabel(synced bool) string {
	if synced {
		return color.New(color.FgGreen).Sprint("yes")
	}
	return "no"
}
