package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shortgame/shortgame/internal/service"
)

const (
	WebhookPath = "/webhook"
	// SecretTokenHeader carries the secret_token given to setWebhook.
	SecretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

	pollTimeout = 60

	helpText = "Shortgame putting tracker.\n\n" +
		"/round - log a new round\n" +
		"/cancel - stop the round in progress"
	busyText      = "A round is already in progress. Send /cancel to end it first."
	noSessionText = "No round in progress. Send /round to start again."
	failureText   = "Something went wrong saving that. Please tap again."
)

// Sender is the part of the Bot API the transport talks to.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	MakeRequest(endpoint string, params tgbotapi.Params) (*tgbotapi.APIResponse, error)
}

// Bot adapts Telegram updates to conversation events and renders the
// resulting prompts back as messages with inline keyboards.
type Bot struct {
	api          *tgbotapi.BotAPI
	sender       Sender
	conversation *service.ConversationService
}

// New connects to the Bot API with token.
func New(token string, conversation *service.ConversationService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to telegram: %w", err)
	}

	slog.Info("telegram bot authorized", "username", api.Self.UserName)

	b := NewWithSender(api, conversation)
	b.api = api
	return b, nil
}

func NewWithSender(sender Sender, conversation *service.ConversationService) *Bot {
	return &Bot{
		sender:       sender,
		conversation: conversation,
	}
}

// Poll receives updates by long polling until ctx is done.
func (b *Bot) Poll(ctx context.Context) error {
	if b.api == nil {
		return errors.New("polling needs a bot created with New")
	}

	// getUpdates is refused while a webhook is registered
	_, err := b.sender.Request(tgbotapi.DeleteWebhookConfig{})
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	slog.Info("telegram bot polling")

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			slog.Info("telegram bot stopped")
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, update)
		}
	}
}

// SetWebhook registers baseURL + /webhook as the update endpoint. A
// non-empty secret is echoed by Telegram in SecretTokenHeader.
func (b *Bot) SetWebhook(baseURL, secret string) error {
	endpoint := strings.TrimSuffix(baseURL, "/") + WebhookPath

	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid webhook url %q", endpoint)
	}

	// WebhookConfig has no secret_token field, so the call is built by hand.
	params := tgbotapi.Params{"url": u.String()}
	params.AddNonEmpty("secret_token", secret)

	_, err = b.sender.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	slog.Info("telegram webhook registered", "url", u.String(), "secret", secret != "")
	return nil
}

// DecodeUpdate reads one webhook update body.
func DecodeUpdate(r io.Reader) (tgbotapi.Update, error) {
	var update tgbotapi.Update
	err := json.NewDecoder(r).Decode(&update)
	if err != nil {
		return tgbotapi.Update{}, fmt.Errorf("failed to decode update: %w", err)
	}
	return update, nil
}

// HandleUpdate dispatches one update. Failures are logged and reported to
// the user; they never stop the receive loop.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(ctx, update.Message)
	}
}

func userID(u *tgbotapi.User) string {
	return strconv.FormatInt(u.ID, 10)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	uid := userID(msg.From)

	var prompt *service.Prompt
	var err error

	switch msg.Command() {
	case "round":
		prompt, err = b.conversation.Start(ctx, uid)
		if err == nil && prompt == nil {
			prompt = &service.Prompt{Text: busyText}
		}
	case "cancel":
		prompt, err = b.conversation.Handle(ctx, uid, service.Cancel())
	case "start", "help":
		prompt = &service.Prompt{Text: helpText}
	default:
		return
	}

	if err != nil {
		slog.Error("failed to handle command", "error", err, "user_id", uid, "command", msg.Command())
		b.send(msg.Chat.ID, &service.Prompt{Text: failureText})
		return
	}

	b.send(msg.Chat.ID, prompt)
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) {
	// stops the loading spinner on the button
	_, err := b.sender.Request(tgbotapi.NewCallback(q.ID, ""))
	if err != nil {
		slog.Warn("failed to answer callback", "error", err)
	}

	if q.From == nil || q.Message == nil || q.Message.Chat == nil {
		return
	}
	uid := userID(q.From)
	chatID := q.Message.Chat.ID

	ev, err := ParseCallback(q.Data)
	if err != nil {
		slog.Warn("ignoring callback", "error", err, "user_id", uid)
		return
	}

	prompt, err := b.conversation.Handle(ctx, uid, ev)
	switch {
	case errors.Is(err, service.ErrNoSession):
		b.edit(chatID, q.Message.MessageID, &service.Prompt{Text: noSessionText})
		return
	case err != nil:
		// The original message keeps its keyboard so the tap can be retried.
		slog.Error("failed to handle callback", "error", err, "user_id", uid, "event", ev.Kind.String())
		b.send(chatID, &service.Prompt{Text: failureText})
		return
	case prompt == nil:
		return
	}

	b.edit(chatID, q.Message.MessageID, prompt)
}

func (b *Bot) send(chatID int64, prompt *service.Prompt) {
	msg := tgbotapi.NewMessage(chatID, prompt.Text)
	if kb, ok := markup(prompt.Keyboard); ok {
		msg.ReplyMarkup = kb
	}

	_, err := b.sender.Send(msg)
	if err != nil {
		slog.Error("failed to send message", "error", err, "chat_id", chatID)
	}
}

func (b *Bot) edit(chatID int64, messageID int, prompt *service.Prompt) {
	var edit tgbotapi.EditMessageTextConfig
	if kb, ok := markup(prompt.Keyboard); ok {
		edit = tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, prompt.Text, kb)
	} else {
		edit = tgbotapi.NewEditMessageText(chatID, messageID, prompt.Text)
	}

	_, err := b.sender.Send(edit)
	if err != nil {
		slog.Error("failed to edit message", "error", err, "chat_id", chatID)
	}
}
