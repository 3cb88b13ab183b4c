package telegram

import (
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/exp/slog"
)

// Notifier is a one-way message-send capability. Callers treat delivery as
// best-effort: a returned error is logged and discarded, never propagated to
// the user-facing request.
type Notifier interface {
	Send(chatID string, text string) error
}

// BotNotifier sends Markdown messages through the Telegram Bot API
type BotNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewBotNotifier creates a BotNotifier from a bot token
func NewBotNotifier(token string) (*BotNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &BotNotifier{bot: bot}, nil
}

// Send delivers a Markdown-formatted message to the given chat
func (n *BotNotifier) Send(chatID string, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(id, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err = n.bot.Send(msg)
	return err
}

// MockNotifier logs messages instead of sending them. Used when no bot token
// is configured and in local development.
type MockNotifier struct{}

// Send logs the message and reports success
func (n *MockNotifier) Send(chatID string, text string) error {
	slog.Info("mock notifier: message suppressed", "chatId", chatID, "length", len(text))
	return nil
}
