package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show rating distribution over stored screenings",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		userOnly, _ := cmd.Flags().GetBool("user-only")
		format, _ := cmd.Flags().GetString("format")

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		stats, err := e.Store.CountByRating(ctx, userOnly)
		if err != nil {
			return eris.Wrap(err, "stats: count by rating")
		}

		if format == "json" {
			return printJSON(stats)
		}

		fmt.Printf("Total screenings: %d\n", stats.Total)
		fmt.Printf("  ✅ halal:        %d\n", stats.Halal)
		fmt.Printf("  ⚠️ questionable: %d\n", stats.Questionable)
		fmt.Printf("  ❌ non-halal:    %d\n", stats.NonHalal)
		return nil
	},
}

func init() {
	f := statsCmd.Flags()
	f.Bool("user-only", false, "count only user-attributed screenings")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(statsCmd)
}
