// Package cli is the ledgerctl command tree. Every command prints JSON to
// stdout so the output can be piped into jq or stored.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	accountingapp "github.com/flockbooks/backend/internal/application/accounting"
	"github.com/flockbooks/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// GroupSeeder creates the predefined chart of accounts.
type GroupSeeder interface {
	SeedPredefined(ctx context.Context) (int, error)
}

// Reconciler repairs every stored outstanding balance.
type Reconciler interface {
	ReconcileAll(ctx context.Context) (*accountingapp.ReconcileResult, error)
}

// Reporter builds the read-side reports.
type Reporter interface {
	GroupSummary(ctx context.Context, groupID uuid.UUID, w accounting.Window) (*accounting.GroupSummary, error)
	Statement(ctx context.Context, kind accounting.AccountKind, id uuid.UUID, w accounting.Window) (*accounting.LedgerStatement, error)
	ProfitAndLoss(ctx context.Context, w accounting.Window) (*accounting.ProfitAndLoss, error)
}

// Services is what the commands run against.
type Services struct {
	Groups   GroupSeeder
	Balances Reconciler
	Reports  Reporter
}

// Opener connects to the book. The caller of Execute owns releasing
// whatever it opened.
type Opener func(ctx context.Context) (*Services, error)

// NewRootCommand creates the root command with all subcommands registered.
// open runs once, before the first subcommand that needs the database.
func NewRootCommand(version string, open Opener) *cobra.Command {
	var (
		svc     *Services
		timeout time.Duration
	)

	rootCmd := &cobra.Command{
		Use:     "ledgerctl",
		Short:   "Maintenance and reporting for the flockbooks ledger",
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				cobra.OnFinalize(cancel)
			}
			cmd.SetContext(ctx)

			s, err := open(ctx)
			if err != nil {
				return fmt.Errorf("opening ledger: %w", err)
			}
			svc = s
			return nil
		},
	}
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Minute, "abort after this long")

	services := func() *Services { return svc }
	rootCmd.AddCommand(
		newSeedGroupsCommand(services),
		newReconcileCommand(services),
		newSummaryCommand(services),
		newStatementCommand(services),
		newProfitLossCommand(services),
	)

	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func addWindowFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "first day, YYYY-MM-DD (default: start of the book)")
	cmd.Flags().StringVar(to, "to", "", "last day, YYYY-MM-DD (default: today)")
}
