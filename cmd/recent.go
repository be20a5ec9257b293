package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recent screenings, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		limit, _ := cmd.Flags().GetInt("limit")
		userOnly, _ := cmd.Flags().GetBool("user-only")
		format, _ := cmd.Flags().GetString("format")

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		recs, err := e.Store.ListRecent(ctx, limit, userOnly)
		if err != nil {
			return eris.Wrap(err, "recent: list records")
		}

		if format == "json" {
			return printJSON(recs)
		}

		if len(recs) == 0 {
			fmt.Println("No screenings stored.")
			return nil
		}

		for _, rec := range recs {
			o := rec.Outcome
			review := ""
			if rec.ManualReviewRequired {
				review = "  [review]"
			}
			fmt.Printf("%s  %s %-8s %3d  %-12s %s%s\n",
				rec.CreatedAt.Format("2006-01-02 15:04"),
				ratingEmoji(o.OverallRating),
				strings.ToUpper(rec.Facts.Coin.Symbol),
				o.OverallScore,
				o.OverallRating,
				o.Confidence,
				review,
			)
		}
		return nil
	},
}

func init() {
	f := recentCmd.Flags()
	f.Int("limit", 10, "maximum number of records")
	f.Bool("user-only", false, "list only user-attributed screenings")
	f.String("format", "table", "output format: table or json")

	rootCmd.AddCommand(recentCmd)
}
