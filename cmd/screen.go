package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/amanah-labs/halal-screener/internal/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen <coin-id>",
	Short: "Screen a cryptocurrency for Shariah compliance",
	Long: `Screen a cryptocurrency against the four-pillar compliance methodology.

The coin is resolved against the facts catalog by id or ticker symbol.
A stored screening newer than seven days is returned as-is; otherwise
the outcome is recomputed and persisted.

Examples:
  # Screen by CoinGecko id
  screen bitcoin

  # Screen by symbol, attributed to a user
  screen ETH --subject user-42

  # Machine-readable output
  screen bitcoin --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runScreen,
}

func init() {
	f := screenCmd.Flags()
	f.String("subject", "", "user id to attribute the screening to (empty = anonymous)")
	f.String("format", "table", "output format: table or json")
	f.Bool("force", false, "recompute even if a fresh record exists")

	rootCmd.AddCommand(screenCmd)
}

func runScreen(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	subject, _ := cmd.Flags().GetString("subject")
	format, _ := cmd.Flags().GetString("format")
	force, _ := cmd.Flags().GetBool("force")

	if format != "table" && format != "json" {
		return eris.Errorf("screen: --format must be table or json (got %q)", format)
	}

	e, err := initEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	f, err := screening.LookupFacts(ctx, e.Provider, args[0])
	if err != nil {
		return err
	}

	rec, err := e.Engine.Screen(ctx, screening.ScreenRequest{
		Facts:   f,
		Subject: subject,
		Sources: e.Provider.Sources(),
		Force:   force,
	})
	if err != nil {
		return err
	}
	return printRecord(rec, format)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode output")
	}
	return nil
}
