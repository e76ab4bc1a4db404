package config

import (
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BotModePolling = "polling"
	BotModeWebhook = "webhook"
)

type Config struct {
	// Application
	AppName string
	AppEnv  string
	Port    string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Telegram (empty token disables the bot)
	TelegramBotToken string
	BotMode          string // "polling" or "webhook"
	WebhookURL       string
	WebhookSecret    string // sent back by Telegram in X-Telegram-Bot-Api-Secret-Token

	// Stats
	StatsAcceptedHoleCounts []int
	StatsNormalizeNineHole  bool
	StatsApproachMetrics    bool
	APIRateLimit            int // requests per minute per IP on /api/stats

	// Observability (optional)
	SentryDSN string

	// Snapshot export (S3-compatible: MinIO, AWS S3, Cloudflare R2, etc.)
	S3Region             string
	S3Bucket             string
	S3AccessKey          string
	S3SecretKey          string
	S3Endpoint           string
	StatsSnapshotKey     string
	StatsPublishInterval time.Duration // 0 disables publishing
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName: envString("APP_NAME", "Shortgame"),
		AppEnv:  envString("APP_ENV", "development"),
		Port:    envString("PORT", "8090"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./data/shortgame.db?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)"),

		// Telegram
		TelegramBotToken: envString("TELEGRAM_BOT_TOKEN", ""),
		BotMode:          envString("BOT_MODE", BotModePolling),
		WebhookURL:       envString("WEBHOOK_URL", ""),
		WebhookSecret:    envString("WEBHOOK_SECRET", ""),

		// Stats
		StatsAcceptedHoleCounts: envHoleCounts("STATS_ACCEPTED_HOLE_COUNTS", []int{9, 18}),
		StatsNormalizeNineHole:  envBool("STATS_NORMALIZE_NINE_HOLE", true),
		StatsApproachMetrics:    envBool("STATS_APPROACH_METRICS", true),
		APIRateLimit:            envInt("API_RATE_LIMIT", 60),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Snapshot export (all optional, publisher stays off without a bucket)
		S3Region:             envString("S3_REGION", "us-east-1"),
		S3Bucket:             envString("S3_BUCKET", ""),
		S3AccessKey:          envString("S3_ACCESS_KEY", ""),
		S3SecretKey:          envString("S3_SECRET_KEY", ""),
		S3Endpoint:           envString("S3_ENDPOINT", ""),
		StatsSnapshotKey:     envString("STATS_SNAPSHOT_KEY", "stats.json"),
		StatsPublishInterval: envDuration("STATS_PUBLISH_INTERVAL", 0),
	}

	if cfg.IsProduction() {
		validateProduction(cfg)
	}

	return cfg
}

// validateProduction ensures the chat transport can actually receive updates
// in production. Development falls back to polling for easier local testing.
func validateProduction(cfg *Config) {
	if cfg.TelegramBotToken != "" && cfg.BotMode == BotModeWebhook && cfg.WebhookURL == "" {
		slog.Error("production webhook mode requires WEBHOOK_URL",
			"hint", "set BOT_MODE=polling to receive updates without a public URL")
		os.Exit(1)
	}
	if cfg.TelegramBotToken != "" && cfg.BotMode == BotModeWebhook && cfg.WebhookSecret == "" {
		slog.Warn("webhook mode without WEBHOOK_SECRET accepts unsigned updates")
	}
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("config invalid int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

// envIntList parses a comma separated list such as "9,18".
func envIntList(key string, def []int) []int {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return def
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			slog.Warn("config invalid int list, using default", "key", key, "value", v, "default", def)
			return def
		}
		out = append(out, n)
	}
	return out
}

// envHoleCounts reads the accepted round sizes. Only "18" and "9,18" (in any
// order) describe a complete round.
func envHoleCounts(key string, def []int) []int {
	counts := slices.Clone(envIntList(key, def))
	slices.Sort(counts)
	counts = slices.Compact(counts)

	if !slices.Equal(counts, []int{18}) && !slices.Equal(counts, []int{9, 18}) {
		slog.Warn("config invalid hole counts, using default", "key", key, "value", os.Getenv(key), "default", def)
		return def
	}
	return counts
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// BotEnabled reports whether the Telegram transport should start.
func (c *Config) BotEnabled() bool {
	return c.TelegramBotToken != ""
}

// PublisherEnabled reports whether stats snapshots are exported to object storage.
func (c *Config) PublisherEnabled() bool {
	return c.S3Bucket != "" && c.StatsPublishInterval > 0
}
