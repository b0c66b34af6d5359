// Package notify delivers operator-facing alerts for failures that need a
// human, such as unclassified provider errors.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notifier sends an alert to whoever operates the instance.
type Notifier interface {
	Alert(ctx context.Context, text string) error
}

// Telegram delivers alerts to a chat via a bot.
type Telegram struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// NewTelegram authenticates the bot token and returns a notifier targeting
// the given chat.
func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram bot: %w", err)
	}

	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) Alert(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("error sending telegram alert: %w", err)
	}

	return nil
}

// Noop is used when no alert channel is configured.
type Noop struct{}

func (Noop) Alert(context.Context, string) error { return nil }
