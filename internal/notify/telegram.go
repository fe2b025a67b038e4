package notify

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"fresh2mealie/internal/config"
)

// Notifier posts run summaries to a Telegram chat. The zero value of the
// feature is a nil *Notifier, which is safe to call.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	log    *zap.Logger
}

// NewTelegram creates a notifier when a bot token and chat id are configured,
// and returns nil otherwise. A failed API handshake disables the feature
// rather than failing the run.
func NewTelegram(cfg *config.Config, log *zap.Logger) *Notifier {
	if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == 0 {
		return nil
	}

	api, err := tgbotapi.NewBotAPI(cfg.Telegram.BotToken)
	if err != nil {
		log.Warn("failed to init telegram api, notifications disabled", zap.Error(err))
		return nil
	}

	return &Notifier{api: api, chatID: cfg.Telegram.ChatID, log: log}
}

// Send posts the message to the configured chat. Failures are logged and
// never fatal.
func (n *Notifier) Send(text string) {
	if n == nil {
		return
	}
	if _, err := n.api.Send(tgbotapi.NewMessage(n.chatID, text)); err != nil {
		n.log.Warn("failed to send telegram notification", zap.Error(err))
	}
}
