package telegram

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// chatLookup is the slice of the Telegram API the directory needs.
// *tgbotapi.BotAPI satisfies it.
type chatLookup interface {
	GetChat(config tgbotapi.ChatInfoConfig) (tgbotapi.Chat, error)
}

// ChatDirectory resolves @username handles to Telegram user IDs via
// GetChat. Resolution only succeeds for users who have started the
// bot; anyone else is unknown.
type ChatDirectory struct {
	api chatLookup
}

func NewChatDirectory(api chatLookup) *ChatDirectory {
	return &ChatDirectory{api: api}
}

func (d *ChatDirectory) Resolve(ctx context.Context, handle string) (int64, error) {
	if !strings.HasPrefix(handle, "@") {
		return 0, fmt.Errorf("handle %q is not a @username", handle)
	}
	chat, err := d.api.GetChat(tgbotapi.ChatInfoConfig{
		ChatConfig: tgbotapi.ChatConfig{SuperGroupUsername: handle},
	})
	if err != nil {
		return 0, fmt.Errorf("lookup %s: %w", handle, err)
	}
	return chat.ID, nil
}
