package handler

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shortgame/shortgame/internal/telegram"
)

type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

type WebhookHandler struct {
	bot    UpdateHandler
	secret string
}

// NewWebhookHandler takes a nil bot when the bot is disabled. A non-empty
// secret must match the token Telegram sends with every update.
func NewWebhookHandler(bot UpdateHandler, secret string) *WebhookHandler {
	return &WebhookHandler{
		bot:    bot,
		secret: secret,
	}
}

// Update processes one Telegram update before acknowledging it.
func (h *WebhookHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h.bot == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": "Bot not configured"})
		return
	}

	if !h.authorized(r) {
		slog.Warn("webhook secret mismatch", "remote_addr", r.RemoteAddr)
		writeJSON(w, http.StatusUnauthorized, map[string]any{"error": "Unauthorized"})
		return
	}

	update, err := telegram.DecodeUpdate(r.Body)
	if err != nil {
		slog.Warn("invalid webhook payload", "error", err)
		http.Error(w, "Invalid update", http.StatusBadRequest)
		return
	}

	h.bot.HandleUpdate(r.Context(), update)

	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *WebhookHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return true
	}
	got := r.Header.Get(telegram.SecretTokenHeader)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.secret)) == 1
}
