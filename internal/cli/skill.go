package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/skillmatrix/internal/ports/primary"
	"github.com/example/skillmatrix/internal/wire"
)

// SkillCmd returns the skill command
func SkillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "skill",
		Short: "Promote, demote and inspect skill levels",
		Long: `Manage employee qualification levels (L0-L4) per position.

Promotions to L3 and L4 need two signatures from different people, one of
them a supervisor. Demotions are supervisor-only and need a reason.`,
	}

	cmd.AddCommand(skillPromoteCmd())
	cmd.AddCommand(skillDemoteCmd())
	cmd.AddCommand(skillShowCmd())
	cmd.AddCommand(skillPendingCmd())
	cmd.AddCommand(skillMatrixCmd())
	return cmd
}

func skillPromoteCmd() *cobra.Command {
	var signer, role, comment string

	cmd := &cobra.Command{
		Use:   "promote [employee-id] [position-id]",
		Short: "Sign a promotion to the next level",
		Long: `Sign a promotion of one level.

Examples:
  skillmatrix skill promote EMP-001 POS-002 --signer "Ivo Marsh" --role team_lead
  skillmatrix skill promote EMP-001 POS-002 --signer "Jo Brandt" --role supervisor`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SkillAdapter().Promote(NewContext(), primary.PromoteRequest{
				EmployeeID: args[0],
				PositionID: args[1],
				SignerName: signer,
				SignerRole: role,
				Comment:    comment,
			})
		},
	}

	cmd.Flags().StringVar(&signer, "signer", "", "Name of the person signing (required)")
	cmd.Flags().StringVar(&role, "role", "", "Signer role: operator, team_lead or supervisor (required)")
	cmd.Flags().StringVarP(&comment, "comment", "c", "", "Optional comment")
	cmd.MarkFlagRequired("signer")
	cmd.MarkFlagRequired("role")
	return cmd
}

func skillDemoteCmd() *cobra.Command {
	var supervisor, reason string
	var level int

	cmd := &cobra.Command{
		Use:   "demote [employee-id] [position-id]",
		Short: "Lower a skill level",
		Long: `Lower an employee's level on a position. Any pending second signature
is discarded.

Examples:
  skillmatrix skill demote EMP-003 POS-001 --to 1 --supervisor "Jo Brandt" --reason "quality escape"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return wire.SkillAdapter().Demote(NewContext(), primary.DemoteRequest{
				EmployeeID:     args[0],
				PositionID:     args[1],
				SupervisorName: supervisor,
				TargetLevel:    level,
				Reason:         reason,
			})
		},
	}

	cmd.Flags().IntVar(&level, "to", 0, "Target level (required)")
	cmd.Flags().StringVar(&supervisor, "supervisor", "", "Supervisor name (required)")
	cmd.Flags().StringVarP(&reason, "reason", "r", "", "Reason for the demotion (required)")
	cmd.MarkFlagRequired("to")
	cmd.MarkFlagRequired("supervisor")
	cmd.MarkFlagRequired("reason")
	return cmd
}

func skillShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [employee-id] [position-id]",
		Short: "Show a skill record with its history",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.SkillAdapter().Show(NewContext(), args[0], args[1])
			return err
		},
	}
}

func skillPendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "List promotions awaiting a second signature",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			return wire.SkillAdapter().Pending(NewContext(), lineID)
		},
	}

	addLineFlag(cmd)
	return cmd
}

func skillMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the level grid of a line",
		Long:  "Print the level grid of a line. '.' is L0 and '*' marks a pending second signature.",
		RunE: func(cmd *cobra.Command, args []string) error {
			lineID, err := resolveLine(cmd)
			if err != nil {
				return err
			}
			return wire.SkillAdapter().Matrix(NewContext(), lineID)
		},
	}

	addLineFlag(cmd)
	return cmd
}
