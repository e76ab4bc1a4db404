package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/shortgame/shortgame/cmd/manage/cmd"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/logger"

	"github.com/spf13/cobra"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	rootCmd := &cobra.Command{
		Use:          "manage",
		Short:        "Operator tools for the shortgame putting tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.SeedCmd(cfg))
	rootCmd.AddCommand(cmd.StatsCmd(cfg))
	rootCmd.AddCommand(cmd.RoundsCmd(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		logger.Flush()
		os.Exit(1)
	}
}
