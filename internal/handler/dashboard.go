package handler

import (
	"log/slog"
	"net/http"

	"github.com/shortgame/shortgame/internal/service"
	"github.com/shortgame/shortgame/internal/ui"
	"github.com/shortgame/shortgame/internal/ui/pages"
)

type DashboardHandler struct {
	statsService *service.StatsService
}

func NewDashboardHandler(statsService *service.StatsService) *DashboardHandler {
	return &DashboardHandler{
		statsService: statsService,
	}
}

func (h *DashboardHandler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Compute(r.Context())
	if err != nil {
		slog.Error("failed to compute stats", "error", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	ui.Render(w, r, pages.Dashboard(stats))
}
