package telegram

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/safepick/internal/config"
)

// Module exposes the notification sender to fx graph.
var Module = fx.Provide(newSender)

type senderParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newSender(p senderParams) (Sender, error) {
	if p.Config.TelegramBotToken == "" {
		p.Logger.Warn("telegram bot token not configured, guardian messages are disabled")
		return NopSender{Logger: p.Logger}, nil
	}
	return NewHTTPClient(p.Config.TelegramAPIURL, p.Config.TelegramBotToken, p.Logger)
}
