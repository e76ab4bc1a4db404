package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shortgame/shortgame/internal/config"
	"github.com/shortgame/shortgame/internal/db"
	"github.com/shortgame/shortgame/internal/repository"
	"github.com/shortgame/shortgame/internal/service"
	"github.com/shortgame/shortgame/internal/storage"
	"github.com/shortgame/shortgame/internal/telegram"
)

// App holds the store handle and everything built on it. Both engines get
// their repositories from here.
type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	ConversationService *service.ConversationService
	StatsService        *service.StatsService
	RoundService        *service.RoundService
	SeedService         *service.SeedService
	Publisher           *service.SnapshotPublisher // nil unless publishing is configured
	Bot                 *telegram.Bot              // nil unless a bot token is set
}

type Option func(*options)

type options struct {
	withBot       bool
	withPublisher bool
}

// WithoutTransports skips the Telegram bot and the snapshot publisher, for
// the operator CLI.
func WithoutTransports() Option {
	return func(o *options) {
		o.withBot = false
		o.withPublisher = false
	}
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	o := options{
		withBot:       cfg.BotEnabled(),
		withPublisher: cfg.PublisherEnabled(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	roundRepository := repository.NewRoundRepository(database)
	holeRepository := repository.NewHoleRepository(database)
	puttRepository := repository.NewPuttRepository(database)

	// Services
	conversationService := service.NewConversationService(roundRepository, holeRepository, puttRepository)
	statsService := service.NewStatsService(roundRepository, holeRepository, puttRepository, StatsPolicy(cfg))
	roundService := service.NewRoundService(roundRepository, holeRepository, puttRepository)
	seedService := service.NewSeedService(roundRepository)

	a := &App{
		Cfg:                 cfg,
		DB:                  database,
		ConversationService: conversationService,
		StatsService:        statsService,
		RoundService:        roundService,
		SeedService:         seedService,
	}

	if o.withPublisher {
		snapshotStorage, err := storage.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		a.Publisher = service.NewSnapshotPublisher(statsService, snapshotStorage, cfg.StatsSnapshotKey, cfg.StatsPublishInterval)
	}

	if o.withBot {
		bot, err := telegram.New(cfg.TelegramBotToken, conversationService)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize telegram bot: %w", err)
		}
		a.Bot = bot
	}

	return a, nil
}

// StatsPolicy maps the STATS_* settings onto the aggregation policy.
func StatsPolicy(cfg *config.Config) service.StatsPolicy {
	policy := service.DefaultStatsPolicy()
	if len(cfg.StatsAcceptedHoleCounts) > 0 {
		policy.AcceptedHoleCounts = cfg.StatsAcceptedHoleCounts
	}
	policy.NormalizeNineHole = cfg.StatsNormalizeNineHole
	policy.ApproachMetrics = cfg.StatsApproachMetrics
	return policy
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
