package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/logger"
	"github.com/shortgame/shortgame/internal/routes"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)
	defer logger.Flush()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, cfg)
	if err != nil {
		slog.Error("server failed", "error", err)
		logger.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	app, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	switch {
	case app.Bot == nil:
		slog.Warn("no TELEGRAM_BOT_TOKEN set, bot disabled")
	case cfg.BotMode == config.BotModeWebhook:
		err = app.Bot.SetWebhook(cfg.WebhookURL, cfg.WebhookSecret)
		if err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRoutes(ctx, app),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("server shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if app.Bot != nil && cfg.BotMode != config.BotModeWebhook {
		g.Go(func() error {
			return app.Bot.Poll(ctx)
		})
	}

	if app.Publisher != nil {
		g.Go(func() error {
			return app.Publisher.Run(ctx)
		})
	}

	return g.Wait()
}
