package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/service"
	"github.com/shortgame/shortgame/internal/storage"

	"github.com/spf13/cobra"
)

func StatsCmd(cfg *config.Config) *cobra.Command {
	var publish bool

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the stats snapshot as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), cfg, func(a *app.App) error {
				if publish {
					return publishOnce(cmd, cfg, a)
				}

				stats, err := a.StatsService.Compute(cmd.Context())
				if err != nil {
					return err
				}

				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stats)
			})
		},
	}

	statsCmd.Flags().BoolVar(&publish, "publish", false, "upload the snapshot to S3_BUCKET instead of printing it")
	return statsCmd
}

func publishOnce(cmd *cobra.Command, cfg *config.Config, a *app.App) error {
	if cfg.S3Bucket == "" {
		return errors.New("--publish needs S3_BUCKET")
	}

	snapshotStorage, err := storage.New(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	publisher := service.NewSnapshotPublisher(a.StatsService, snapshotStorage, cfg.StatsSnapshotKey, cfg.StatsPublishInterval)
	err = publisher.Publish(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "published %s\n", snapshotStorage.URL(cfg.StatsSnapshotKey))
	return nil
}
