package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"home_maintenance/internal/config"
	"home_maintenance/pkg/contextx"
	"home_maintenance/pkg/logx"
)

//nolint:gochecknoglobals
var cfg config.Config

//nolint:gochecknoglobals
var rootCmd = &cobra.Command{
	Use:           "home_maintenance",
	Short:         "Pool water tests, test schedule and rainfall log",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error

		if cfg, err = config.Load(); err != nil {
			return fmt.Errorf("config.Load: %w", err)
		}

		log := logx.NewLogger(os.Stderr, cfg.Log.Format, logx.ParseLevel(cfg.Log.Level))
		slog.SetDefault(log)

		cmd.SetContext(contextx.WithLogger(cmd.Context(), log))

		return nil
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd.AddCommand(
		serveCmd,
		migrateCmd,
		classifyCmd,
		nextDateCmd,
		seedRangesCmd,
		exportRangesCmd,
		importRainfallCmd,
		importSettingsCmd,
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("command failed", logx.Error(err))
		os.Exit(1) //nolint:gocritic
	}
}
