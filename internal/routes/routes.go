package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/shortgame/shortgame/internal/app"
	"github.com/shortgame/shortgame/internal/handler"
	"github.com/shortgame/shortgame/internal/middleware"
	"github.com/shortgame/shortgame/internal/telegram"
	"github.com/shortgame/shortgame/internal/ui"
)

func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	stats := handler.NewStatsHandler(app.StatsService)
	dashboard := handler.NewDashboardHandler(app.StatsService)
	health := handler.NewHealthHandler(app.DB)

	var webhook *handler.WebhookHandler
	if app.Bot != nil {
		webhook = handler.NewWebhookHandler(app.Bot, app.Cfg.WebhookSecret)
	} else {
		webhook = handler.NewWebhookHandler(nil, "")
	}

	// Stats API and dashboard are public, so they share a per client IP limit
	limiter := middleware.NewRateLimiter(app.Cfg.APIRateLimit, time.Minute)
	go limiter.Cleanup(ctx, 5*time.Minute)
	rateLimited := middleware.RateLimit(limiter)

	mux := http.NewServeMux()

	// Static files
	mux.Handle("GET /static/", http.FileServerFS(ui.StaticFS))

	mux.Handle("GET /{$}", rateLimited(http.HandlerFunc(dashboard.DashboardPage)))
	mux.Handle("GET /api/stats", rateLimited(http.HandlerFunc(stats.Stats)))
	mux.HandleFunc("POST "+telegram.WebhookPath, webhook.Update)
	mux.HandleFunc("GET /healthz", health.Health)

	return middleware.Chain(mux,
		middleware.RequestLogging,
		middleware.Recover,
	)
}
