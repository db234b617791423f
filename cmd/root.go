package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/hiring-radar/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "hiring-radar",
	Short: "Predicts which companies will make IT hires in the next quarter",
	Long:  "Turns funding rounds, job-posting streams and personnel movements into a calibrated per-company hiring probability with human-readable reasons and per-feature attribution.",
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
