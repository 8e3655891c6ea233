package cli

import (
	"fmt"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSeedGroupsCommand(services func() *Services) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-groups",
		Short: "Create the predefined account groups that are missing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := services().Groups.SeedPredefined(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]int{"created": n})
		},
	}
}

func newReconcileCommand(services func() *Services) *cobra.Command {
	var failOnCorrection bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute every outstanding balance from its transactions",
		Long: "Replays the transactions of every ledger, customer and vendor and " +
			"rewrites outstanding balances that drifted beyond the configured tolerance.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := services().Balances.ReconcileAll(cmd.Context())
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if res.Failed > 0 {
				return fmt.Errorf("%d accounts could not be reconciled", res.Failed)
			}
			if failOnCorrection && res.Corrected > 0 {
				return fmt.Errorf("%d balances were corrected", res.Corrected)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&failOnCorrection, "fail-on-correction", false, "exit non-zero when any balance had drifted")

	return cmd
}

func newSummaryCommand(services func() *Services) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary <group-id>",
		Short: "Trial balance of a group's direct children",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("group id: %w", err)
			}
			w, err := accountingapp.ParseWindow(from, to)
			if err != nil {
				return err
			}
			summary, err := services().Reports.GroupSummary(cmd.Context(), id, w)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		},
	}
	addWindowFlags(cmd, &from, &to)

	return cmd
}

func newStatementCommand(services func() *Services) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "statement <ledger|customer|vendor> <id>",
		Short: "Running-balance statement of one account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := accounting.ParseAccountKind(args[0])
			if err != nil {
				return err
			}
			id, err := uuid.Parse(args[1])
			if err != nil {
				return fmt.Errorf("account id: %w", err)
			}
			w, err := accountingapp.ParseWindow(from, to)
			if err != nil {
				return err
			}
			st, err := services().Reports.Statement(cmd.Context(), kind, id, w)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), st)
		},
	}
	addWindowFlags(cmd, &from, &to)

	return cmd
}

func newProfitLossCommand(services func() *Services) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "profit-loss",
		Short: "Profit and loss for a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := accountingapp.ParseWindow(from, to)
			if err != nil {
				return err
			}
			pl, err := services().Reports.ProfitAndLoss(cmd.Context(), w)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), pl)
		},
	}
	addWindowFlags(cmd, &from, &to)

	return cmd
}
