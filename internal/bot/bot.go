// Package bot delivers notifications to a Telegram chat.
package bot

import (
	"log/slog"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"homework_bot/internal/failure"
	"homework_bot/internal/metrics"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot sends plain-text messages to a single configured chat.
type Bot struct {
	api     telegramAPI
	chatID  int64
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New creates a Bot with the given Telegram token and destination chat.
// No request is made until the first Notify, so an unreachable Bot API
// only surfaces as a delivery failure.
func New(token string, chatID int64, client *http.Client, m *metrics.Metrics, log *slog.Logger) *Bot {
	if client == nil {
		client = http.DefaultClient
	}
	api := &tgbotapi.BotAPI{
		Token:  token,
		Client: client,
		Buffer: 100,
	}
	api.SetAPIEndpoint(tgbotapi.APIEndpoint)

	return &Bot{
		api:     api,
		chatID:  chatID,
		metrics: m,
		log:     log,
	}
}

// Notify sends text to the configured chat.
// Delivery errors are logged and swallowed; there is no retry.
func (b *Bot) Notify(text string) {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.DisableWebPagePreview = true

	_, err := b.api.Send(msg)
	if err != nil {
		err = failure.New(failure.KindDeliveryFailure, "send message", err)
		b.log.Error("message not delivered", "chat_id", b.chatID, "kind", failure.KindOf(err), "error", err)
	} else {
		b.log.Info("message delivered", "chat_id", b.chatID)
	}
	b.metrics.ObserveDelivery(err)
}
