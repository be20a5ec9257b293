package main

import (
	"context"
	"os/signal"
	"sort"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/amanah-labs/halal-screener/internal/facts"
	"github.com/amanah-labs/halal-screener/internal/screening"
)

var batchCmd = &cobra.Command{
	Use:   "batch [coin-id...]",
	Short: "Screen multiple cryptocurrencies concurrently",
	Long: `Screen a list of coins, or the entire facts catalog when no coin ids
are given. Individual failures are logged and do not abort the batch.

Examples:
  # Refresh the whole catalog
  batch

  # Screen specific coins with higher concurrency
  batch bitcoin ethereum cardano --concurrency 8`,
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.Int("concurrency", 4, "number of coins screened in parallel")
	f.Bool("force", false, "recompute even if fresh records exist")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	force, _ := cmd.Flags().GetBool("force")
	if concurrency < 1 {
		return eris.Errorf("batch: --concurrency must be at least 1 (got %d)", concurrency)
	}

	e, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	ids := args
	if len(ids) == 0 {
		ids = e.Provider.IDs()
		sort.Strings(ids)
	}
	if len(ids) == 0 {
		zap.L().Info("no coins to screen")
		return nil
	}

	zap.L().Info("screening batch",
		zap.Int("coins", len(ids)),
		zap.Int("concurrency", concurrency),
	)

	// System screenings are not entitlement-gated.
	eng := screening.NewEngine(e.Store, nil, cfg.Methodology)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var succeeded, failed atomic.Int64

	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := screenOne(gctx, eng, e.Provider, id, force); err != nil {
				failed.Add(1)
				zap.L().Error("screening failed",
					zap.String("coin", id),
					zap.Error(err),
				)
				return nil // don't abort batch on individual failure
			}
			succeeded.Add(1)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "batch screening")
	}

	zap.L().Info("batch complete",
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)
	return nil
}

// screenOne resolves facts and runs one system screening.
func screenOne(ctx context.Context, eng *screening.Engine, provider *facts.MarketSource, id string, force bool) error {
	f, err := screening.LookupFacts(ctx, provider, id)
	if err != nil {
		return err
	}

	rec, err := eng.Screen(ctx, screening.ScreenRequest{
		Facts:   f,
		Sources: provider.Sources(),
		Force:   force,
	})
	if err != nil {
		return err
	}

	zap.L().Info("screened",
		zap.String("coin", id),
		zap.String("rating", string(rec.Outcome.OverallRating)),
		zap.Int("score", rec.Outcome.OverallScore),
	)
	return nil
}
