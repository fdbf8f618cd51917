package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/example/skillmatrix/internal/cli"
	"github.com/example/skillmatrix/internal/metrics"
	"github.com/example/skillmatrix/internal/version"
	"github.com/example/skillmatrix/internal/wire"
)

func main() {
	var actor, configDir string

	rootCmd := &cobra.Command{
		Use:     "skillmatrix",
		Short:   "Skill matrix, rotation and audit tool for production lines",
		Version: version.String(),
		Long: `skillmatrix tracks operator qualification levels per position, plans the
daily rotation, assigns compliance audits, and syncs training records from
offline field devices to the authority.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.StoreActor(actor)
			if configDir != "" {
				wire.SetConfigDir(configDir)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "", "Name recorded in the activity log (default $SKILLMATRIX_ACTOR or $USER)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory holding .skillmatrix/config.yaml (default $HOME)")

	// Setup
	rootCmd.AddCommand(cli.ConfigCmd())
	rootCmd.AddCommand(cli.LineCmd())
	rootCmd.AddCommand(cli.EmployeeCmd())
	rootCmd.AddCommand(cli.PositionCmd())

	// Daily operation
	rootCmd.AddCommand(cli.SkillCmd())
	rootCmd.AddCommand(cli.AttendanceCmd())
	rootCmd.AddCommand(cli.RotationCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.TrainingCmd())
	rootCmd.AddCommand(cli.AnalysisCmd())

	// Data movement
	rootCmd.AddCommand(cli.SyncCmd())
	rootCmd.AddCommand(cli.MatrixCmd())
	rootCmd.AddCommand(cli.LogCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	err := rootCmd.Execute()

	if wire.Started() {
		if path := wire.Config().Metrics.Textfile; path != "" {
			if werr := metrics.WriteTextfile(path); werr != nil {
				wire.Logger().Warn("metrics textfile not written", zap.Error(werr))
			}
		}
		wire.Shutdown()
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
