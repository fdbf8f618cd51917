package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/config"
	"github.com/example/skillmatrix/internal/core/delta"
	"github.com/example/skillmatrix/internal/wire"
)

// SyncCmd returns the sync command
func SyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Move training data between devices",
		Long: `Offline delta sync between field devices and the authority.

A field device is provisioned once from the authority's master data:

  skillmatrix sync seed export --line LINE-001   (authority)
  skillmatrix sync seed import <seed.json>       (field device)

Then, for each exchange:

  1. On the field device:  skillmatrix sync export
  2. Carry the bundle file to the authority
  3. On the authority:     skillmatrix sync import <bundle.json>
  4. Carry the receipt back
  5. On the field device:  skillmatrix sync mark-synced <receipt.json>

Re-importing a bundle or re-applying a receipt is safe.`,
	}

	cmd.AddCommand(syncExportCmd())
	cmd.AddCommand(syncImportCmd())
	cmd.AddCommand(syncMarkSyncedCmd())
	cmd.AddCommand(syncSeedCmd())
	return cmd
}

func syncExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a bundle of unsynced training data",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			ctx := NewContext()

			bundle, err := wire.SyncService().Export(ctx, lineID)
			if err != nil {
				return fmt.Errorf("failed to export: %w", err)
			}
			if bundle == nil {
				fmt.Println("Nothing to sync.")
				return nil
			}

			store, err := wire.TransferStore(dir)
			if err != nil {
				return err
			}
			path, err := store.WriteBundle(ctx, bundle)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Wrote %s\n", path)
			fmt.Printf("  %d training log(s), %d recommendation(s)\n",
				bundle.RecordCount.TrainingLogs, bundle.RecordCount.PendingRecommendations)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default ~/.skillmatrix/transfer)")
	return cmd
}

func syncImportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "import [bundle.json]",
		Short: "Apply a bundle on the authority and write a receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !wire.Config().IsAuthority() {
				return fmt.Errorf("bundles can only be imported on the authority device (device.role is %q)", wire.Config().Device.Role)
			}
			ctx := NewContext()

			store, err := wire.TransferStore(dir)
			if err != nil {
				return err
			}
			bundle, err := store.ReadBundle(ctx, args[0])
			if err != nil {
				return err
			}

			resp, err := wire.SyncService().Import(ctx, bundle)
			if err != nil {
				return fmt.Errorf("bundle rejected: %w", err)
			}

			path, err := store.WriteReceipt(ctx, &resp.Receipt)
			if err != nil {
				return err
			}

			printResult(resp.Result)
			fmt.Printf("\n✓ Receipt written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Receipt directory (default ~/.skillmatrix/transfer)")
	return cmd
}

func syncMarkSyncedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark-synced [receipt.json]",
		Short: "Apply a receipt on the field device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			store, err := wire.TransferStore("")
			if err != nil {
				return err
			}
			receipt, err := store.ReadReceipt(ctx, args[0])
			if err != nil {
				return err
			}

			n, err := wire.SyncService().MarkSynced(ctx, receipt)
			if err != nil {
				return fmt.Errorf("failed to apply receipt: %w", err)
			}

			fmt.Printf("✓ Marked %d record(s) synced from bundle %s\n", n, receipt.BundleID)
			return nil
		},
	}
}

func syncSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Provision field devices with a line's employees and positions",
	}
	cmd.AddCommand(syncSeedExportCmd())
	cmd.AddCommand(syncSeedImportCmd())
	return cmd
}

func syncSeedExportCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a seed of a line's master data (authority only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !wire.Config().IsAuthority() {
				return fmt.Errorf("seeds are generated on the authority device (device.role is %q)", wire.Config().Device.Role)
			}
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			ctx := NewContext()

			seed, err := wire.SyncService().ExportSeed(ctx, lineID)
			if err != nil {
				return fmt.Errorf("failed to export seed: %w", err)
			}
			store, err := wire.TransferStore(dir)
			if err != nil {
				return err
			}
			path, err := store.WriteSeed(ctx, seed)
			if err != nil {
				return err
			}

			fmt.Printf("✓ Wrote %s\n", path)
			fmt.Printf("  %s: %d employee(s), %d position(s), version %d\n",
				seed.LineName, len(seed.Employees), len(seed.Positions), seed.SeedVersion)
			return nil
		},
	}

	addLineFlag(cmd)
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "Output directory (default ~/.skillmatrix/transfer)")
	return cmd
}

func syncSeedImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [seed.json]",
		Short: "Provision this field device from a seed",
		Long: `Apply a seed on a field device. Employees and positions keep the
authority's IDs so training logged here resolves on import. The device's
line and seed versions are written to its config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if wire.Config().IsAuthority() {
				return fmt.Errorf("the authority owns the master data; seeds are imported on field devices")
			}
			ctx := NewContext()

			store, err := wire.TransferStore("")
			if err != nil {
				return err
			}
			seed, err := store.ReadSeed(ctx, args[0])
			if err != nil {
				return err
			}

			resp, err := wire.SyncService().ImportSeed(ctx, seed)
			if err != nil {
				return fmt.Errorf("seed rejected: %w", err)
			}
			if err := config.ApplySeed(wire.ConfigDir(), resp.LineID, resp.SeedVersion, resp.UsersVersion); err != nil {
				return err
			}

			if resp.LineCreated {
				fmt.Printf("✓ Created line %s (%s)\n", resp.LineID, seed.LineName)
			}
			fmt.Printf("Employees:  %d added, %d updated\n", resp.EmployeesAdded, resp.EmployeesUpdated)
			fmt.Printf("Positions:  %d added, %d updated\n", resp.PositionsAdded, resp.PositionsUpdated)
			if len(resp.Conflicts) > 0 {
				fmt.Printf("Conflicts:  %s\n", color.New(color.FgYellow).Sprint(len(resp.Conflicts)))
				for _, c := range resp.Conflicts {
					if c.LocalID != "" {
						fmt.Printf("  %s %s %q: name already used by %s\n", c.Kind, c.ID, c.Name, c.LocalID)
					} else {
						fmt.Printf("  %s %s %q: could not be written (see log)\n", c.Kind, c.ID, c.Name)
					}
				}
			}
			fmt.Printf("\n✓ Device provisioned for %s (seed version %d)\n", resp.LineID, resp.SeedVersion)
			return nil
		},
	}
}

func printResult(res delta.Result) {
	fmt.Printf("Imported:   %d\n", res.Imported)
	fmt.Printf("Skipped:    %d\n", res.Skipped)
	if res.Errors > 0 {
		fmt.Printf("Errors:     %s\n", color.New(color.FgRed).Sprint(res.Errors))
		for _, d := range res.Details {
			if d.Status == delta.StatusError {
				fmt.Printf("  %s %s: %s\n", d.Kind, d.ClientID, d.Detail)
			}
		}
	} else {
		fmt.Printf("Errors:     %d\n", res.Errors)
	}
	if res.Unresolved > 0 {
		fmt.Printf("Unresolved: %s (training logs kept with name snapshots)\n",
			color.New(color.FgYellow).Sprint(res.Unresolved))
	}
}
