package cmd

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/db"

	"github.com/spf13/cobra"
)

func MigrateCmd(cfg *config.Config) *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
					return err
				}
				return printVersion(cmd, cfg, database)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				if err := db.MigrateDown(database.DB, cfg.DBDriver); err != nil {
					return err
				}
				return printVersion(cmd, cfg, database)
			})
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cfg, func(database *sqlx.DB) error {
				return printVersion(cmd, cfg, database)
			})
		},
	})

	return migrateCmd
}

func printVersion(cmd *cobra.Command, cfg *config.Config, database *sqlx.DB) error {
	version, err := db.Version(database.DB, cfg.DBDriver)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version: %d\n", version)
	return nil
}
