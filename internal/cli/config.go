package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/config"
	"github.com/example/skillmatrix/internal/wire"
)

// ConfigCmd returns the config command group.
func ConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage device configuration",
	}

	cmd.AddCommand(configInitCmd())
	cmd.AddCommand(configShowCmd())
	return cmd
}

func configInitCmd() *cobra.Command {
	var role, lineID, dbPath string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file for this device",
		Long: `Write ~/.skillmatrix/config.yaml with a fresh device ID.

The authority device holds the master data and imports bundles. Field
devices record training offline and export bundles for one line. Without
this command a device starts as a field device with a random ID.

Examples:
  skillmatrix config init --role authority
  skillmatrix config init --role field --line LINE-001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := wire.ConfigDir()
			path := config.Path(dir)
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := &config.Config{
				Device: config.DeviceConfig{
					ID:           uuid.NewString(),
					Role:         role,
					LineID:       lineID,
					SeedVersion:  1,
					UsersVersion: 1,
				},
				DB:       config.DBConfig{Path: dbPath},
				Log:      config.LogConfig{Level: "info", Format: "console"},
				Rotation: config.RotationConfig{MaxPlans: config.DefaultMaxPlans},
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if err := config.SaveConfig(dir, cfg); err != nil {
				return err
			}

			fmt.Printf("✓ Wrote %s\n", path)
			fmt.Printf("  device: %s (%s)\n", cfg.Device.ID, cfg.Device.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", config.RoleField, "Device role: authority or field")
	cmd.Flags().StringVarP(&lineID, "line", "l", "", "Default line for this device")
	cmd.Flags().StringVar(&dbPath, "db", "", "Database path (default ~/.skillmatrix/skillmatrix.db)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	return cmd
}

func configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			fmt.Printf("Device ID:     %s\n", cfg.Device.ID)
			fmt.Printf("Role:          %s\n", cfg.Device.Role)
			fmt.Printf("Line:          %s\n", valueOrDash(cfg.Device.LineID))
			fmt.Printf("Seed version:  %d\n", cfg.Device.SeedVersion)
			fmt.Printf("Users version: %d\n", cfg.Device.UsersVersion)
			fmt.Printf("Database:      %s\n", valueOrDash(cfg.DB.Path))
			fmt.Printf("Log:           %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
			fmt.Printf("Max plans:     %d\n", cfg.Rotation.MaxPlans)
			fmt.Printf("Metrics file:  %s\n", valueOrDash(cfg.Metrics.Textfile))
			return nil
		},
	}
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
