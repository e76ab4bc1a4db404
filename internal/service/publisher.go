package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shortgame/shortgame/internal/model"
	"github.com/shortgame/shortgame/internal/storage"
)

type statsComputer interface {
	Compute(ctx context.Context) (*model.Stats, error)
}

// SnapshotPublisher periodically uploads the stats snapshot as JSON so a
// static dashboard can read it without reaching the API.
type SnapshotPublisher struct {
	stats    statsComputer
	storage  storage.Storage
	key      string
	interval time.Duration
}

func NewSnapshotPublisher(stats *StatsService, storage storage.Storage, key string, interval time.Duration) *SnapshotPublisher {
	return &SnapshotPublisher{
		stats:    stats,
		storage:  storage,
		key:      key,
		interval: interval,
	}
}

// Publish computes one snapshot and uploads it.
func (p *SnapshotPublisher) Publish(ctx context.Context) error {
	stats, err := p.stats.Compute(ctx)
	if err != nil {
		return fmt.Errorf("failed to compute stats: %w", err)
	}

	body, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats: %w", err)
	}

	err = p.storage.Save(ctx, p.key, bytes.NewReader(body), "application/json")
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	slog.Debug("stats snapshot published", "key", p.key, "rounds", stats.TotalRounds)
	return nil
}

// Run publishes right away and then on every tick until ctx is done.
// A failed publish is logged and retried on the next tick.
func (p *SnapshotPublisher) Run(ctx context.Context) error {
	slog.Info("stats publisher started", "key", p.key, "interval", p.interval.String(), "url", p.storage.URL(p.key))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Publish(ctx); err != nil && ctx.Err() == nil {
			slog.Error("failed to publish stats snapshot", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("stats publisher stopped")
			return nil
		case <-ticker.C:
		}
	}
}
