package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shelter-sync/core/reconcile"
	"shelter-sync/feature/animals"
	"shelter-sync/feature/events"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRunFlag bool

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync cycle and print the result",
	Long:  `Runs a single reconciliation cycle for a source and prints the result as JSON. A failed cycle exits non-zero.`,
}

var syncAnimalsCmd = &cobra.Command{
	Use:   "animals",
	Short: "Sync the abandoned-animal registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), animals.SourceName, func(ctx context.Context, rt *application) *reconcile.Result {
			if dryRunFlag {
				return rt.animals.DryRun(ctx)
			}
			return rt.animals.RunSync(ctx)
		})
	},
}

var syncEventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Sync pet events from the latest crawl snapshot",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSync(cmd.Context(), events.SourceName, func(ctx context.Context, rt *application) *reconcile.Result {
			if dryRunFlag {
				return rt.events.DryRun(ctx)
			}
			return rt.events.RunSync(ctx)
		})
	},
}

func init() {
	RootCmd.AddCommand(syncCmd)
	syncCmd.AddCommand(syncAnimalsCmd, syncEventsCmd)
	syncCmd.PersistentFlags().BoolVar(&dryRunFlag, "dry-run", false, "Compute the change set without writing")
}

func runSync(ctx context.Context, source string, run func(context.Context, *application) *reconcile.Result) error {
	if ctx == nil {
		ctx = context.Background()
	}
	// Interrupting cancels the cycle; committed writes stay and the delete pass is skipped.
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.Close()

	res := run(ctx, rt)

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(os.Stdout, string(out))

	if !res.OK() {
		return fmt.Errorf("%s sync failed: %s", source, res.Detail)
	}
	rt.logger.Info("Sync completed",
		zap.String("source", source),
		zap.Bool("dry_run", res.DryRun),
		zap.Duration("duration", res.Duration()),
	)
	return nil
}
