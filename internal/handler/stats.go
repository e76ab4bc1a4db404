package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/shortgame/shortgame/internal/service"
)

type StatsHandler struct {
	statsService *service.StatsService
}

func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
	}
}

// Stats serves the dashboard snapshot. No qualifying rounds is not an error,
// the snapshot is all zeros.
func (h *StatsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Compute(r.Context())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	err = json.NewEncoder(w).Encode(stats)
	if err != nil {
		slog.Error("failed to encode stats", "error", err)
	}
}
