package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/config"
	"github.com/example/skillmatrix/internal/db"
	"github.com/example/skillmatrix/internal/logging"
	"github.com/example/skillmatrix/internal/wire"
)

// devDBEnv names the variable that points commands at a throwaway database.
// It is also read by the config layer as db.path.
const devDBEnv = "SKILLMATRIX_DB_PATH"

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long: `Development utilities for working with a scratch database.

These commands require SKILLMATRIX_DB_PATH to be set, which prevents
accidental modification of the real database.`,
	}

	cmd.AddCommand(devResetCmd())
	cmd.AddCommand(devDoctorCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing dev database file
2. Creates a fresh database with the current schema
3. Seeds a demo line with operators, positions and skill levels`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := os.Getenv(devDBEnv)
			if dbPath == "" {
				return fmt.Errorf("%s not set\n\nThis safety check prevents accidental reset of your real database", devDBEnv)
			}

			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			db.Close()

			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}
			fmt.Printf("✓ Deleted %s\n", dbPath)

			logger, err := logging.New(config.LogConfig{Level: "warn", Format: "console"})
			if err != nil {
				return err
			}
			db.SetPath(dbPath)
			database, err := db.GetDB(logger)
			if err != nil {
				return fmt.Errorf("failed to create database: %w", err)
			}
			fmt.Println("✓ Created fresh database with schema")

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}
			fmt.Println("✓ Seeded fixture data")

			fmt.Println("\nDev database reset complete!")
			fmt.Println("\nSeeded entities:")
			fmt.Println("  - 1 line (LINE-001)")
			fmt.Println("  - 8 operators, 1 team lead, 1 supervisor")
			fmt.Println("  - 5 positions")
			fmt.Println("  - skill records leaving some positions under-covered")

			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}

func devDoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check dev environment health",
		Long: `Check the health of your development environment.

Verifies:
- SKILLMATRIX_DB_PATH environment variable is set
- Dev database exists
- The config file loads and validates`,
		RunE: func(cmd *cobra.Command, args []string) error {
			issues := 0
			say := func(format string, a ...any) {
				if !quiet {
					fmt.Printf(format, a...)
				}
			}

			say("=== Dev Environment Health Check ===\n\n")

			say("1. Environment Configuration\n")
			dbPath := os.Getenv(devDBEnv)
			if dbPath == "" {
				issues++
				say("   ✗ %s not set\n", devDBEnv)
			} else {
				say("   ✓ %s=%s\n", devDBEnv, dbPath)
			}

			say("\n2. Development Database\n")
			if dbPath == "" {
				say("   ⚠️  Skipped (no database path)\n")
			} else if info, err := os.Stat(dbPath); err != nil {
				issues++
				say("   ✗ Database not found: %s\n\n", dbPath)
				say("   FIX: Run 'skillmatrix dev reset' to create dev database\n")
			} else {
				say("   ✓ Database exists (%d KB)\n", info.Size()/1024)
			}

			say("\n3. Configuration\n")
			path := config.Path(wire.ConfigDir())
			if _, err := config.LoadConfig(wire.ConfigDir()); err != nil {
				issues++
				say("   ✗ %s: %v\n", path, err)
			} else {
				say("   ✓ %s loads\n", path)
			}

			say("\n")
			if issues == 0 {
				say("=== All checks passed! ===\n")
			} else {
				say("=== %d issue(s) found ===\n", issues)
			}

			if issues > 0 {
				os.Exit(1)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only output exit code (0=healthy, 1=issues)")
	return cmd
}
