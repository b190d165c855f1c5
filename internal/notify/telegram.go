package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"
)

const sendTimeout = 5 * time.Second

// Telegram пишет уведомления в чат персонала
type Telegram struct {
	bot    *bot.Bot
	chatID int64
	logger *zap.Logger
}

// NewTelegram создаёт клиента бота без запроса getMe при старте
func NewTelegram(token string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	b, err := bot.New(token, bot.WithSkipGetMe())
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Telegram{
		bot:    b,
		chatID: chatID,
		logger: logger,
	}, nil
}

// Notify отправляет сообщение в чат персонала
func (t *Telegram) Notify(ctx context.Context, event Event) error {
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := t.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: t.chatID,
		Text:   Text(event),
	})
	if err != nil {
		t.logger.Error("Failed to send staff notification",
			zap.Int64("chat_id", t.chatID),
			zap.String("event", string(event.Kind)),
			zap.Error(err),
		)
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}
