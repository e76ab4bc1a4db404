package cmd

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/db"
)

// withDB opens the database without migrating it.
func withDB(cfg *config.Config, fn func(database *sqlx.DB) error) error {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	return fn(database)
}

// withApp builds the app without the chat bot or the snapshot publisher.
func withApp(ctx context.Context, cfg *config.Config, fn func(a *app.App) error) error {
	a, err := app.New(ctx, cfg, app.WithoutTransports())
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
