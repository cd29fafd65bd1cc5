package telegram

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/NisargParmar1709/ML-dataset-bot/internal/dispatch"
)

// chat is the dispatch.Conversation of one Telegram chat.
type chat struct {
	bot *Bot
	id  int64
}

var _ dispatch.Conversation = (*chat)(nil)

func (c *chat) SendText(_ context.Context, text string) (int, error) {
	msg, err := c.bot.api.Send(tgbotapi.NewMessage(c.id, text))
	if err != nil {
		return 0, c.bot.wrap("send message", err)
	}
	return msg.MessageID, nil
}

func (c *chat) SendMarkdown(_ context.Context, text string) error {
	cfg := tgbotapi.NewMessage(c.id, text)
	cfg.ParseMode = tgbotapi.ModeMarkdown
	cfg.DisableWebPagePreview = true

	if _, err := c.bot.api.Send(cfg); err != nil {
		return c.bot.wrap("send markdown message", err)
	}
	return nil
}

func (c *chat) EditText(_ context.Context, messageID int, text string) error {
	if _, err := c.bot.api.Request(tgbotapi.NewEditMessageText(c.id, messageID, text)); err != nil {
		return c.bot.wrap("edit message", err)
	}
	return nil
}

func (c *chat) SendDocument(_ context.Context, doc dispatch.Document) error {
	f, err := os.Open(doc.Path)
	if err != nil {
		return fmt.Errorf("failed to open document: %w", err)
	}
	defer f.Close()

	cfg := tgbotapi.NewDocument(c.id, tgbotapi.FileReader{Name: doc.Name, Reader: f})
	cfg.Caption = doc.Caption

	if _, err := c.bot.api.Send(cfg); err != nil {
		return c.bot.wrap("send document", err)
	}
	return nil
}
