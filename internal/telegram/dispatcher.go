package telegram

import (
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"telegram_chess/internal/logger"
)

// Sender is the outbound half of the Telegram API. *tgbotapi.BotAPI
// satisfies it; tests substitute a recorder.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher delivers notifications fire-and-forget. A failed delivery
// is logged and never retried; it does not affect session state, which
// has already been committed by the time a notification goes out.
type Dispatcher struct {
	sender Sender
	log    *slog.Logger
}

func NewDispatcher(sender Sender) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		log:    logger.With("component", "dispatcher"),
	}
}

// Text sends a plain message to chatID.
func (d *Dispatcher) Text(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := d.sender.Send(msg); err != nil {
		d.log.Error("send failed", "chat_id", chatID, "error", err)
	}
}

// Reply sends a message to chatID quoting replyTo.
func (d *Dispatcher) Reply(chatID int64, replyTo int, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyToMessageID = replyTo
	if _, err := d.sender.Send(msg); err != nil {
		d.log.Error("send failed", "chat_id", chatID, "error", err)
	}
}
