package notify

import (
	"context"
	"log/slog"

	"earning-bot/apperrors"
	"earning-bot/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// sender is the part of *tgbotapi.BotAPI the sink uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// TelegramSink sends alerts through the separate admin bot.
type TelegramSink struct {
	bot sender
}

// NewTelegramSink logs in with the admin bot token.
func NewTelegramSink(token string) (*TelegramSink, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, apperrors.Upstream("admin bot login", err)
	}
	logger.Info("✅ Admin bot authorized", "username", bot.Self.UserName)
	return &TelegramSink{bot: bot}, nil
}

func (s *TelegramSink) Notify(ctx context.Context, recipientID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(recipientID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := s.bot.Send(msg); err != nil {
		return apperrors.Upstream("admin notify", err)
	}
	return nil
}

// LogSink writes alerts to the log. It stands in when no admin bot token
// is configured.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink() *LogSink {
	return &LogSink{log: logger.Component("notify")}
}

func (s *LogSink) Notify(_ context.Context, recipientID int64, text string) error {
	s.log.Info("🔔 admin alert", "recipient_id", recipientID, "text", text)
	return nil
}
