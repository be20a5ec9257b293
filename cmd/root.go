package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amanah-labs/halal-screener/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "halal-screener",
	Short: "Shariah compliance screening for cryptocurrencies",
	Long:  "Screens cryptocurrencies against a four-pillar Shariah compliance methodology (nature and purpose, token structure, financial ratios, governance) and persists rated screening records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
