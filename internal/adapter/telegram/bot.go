package telegram

import (
	"context"
	"errors"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"companion-telegram-bot/internal/config"
	"companion-telegram-bot/internal/usecase/chat"
)

const (
	deniedReply   = "sorry, this bot is private"
	emptyReply    = "i need some text to work with"
	fallbackReply = "something went wrong, try again later"
)

type Bot struct {
	api  *tgbotapi.BotAPI
	cfg  config.Config
	chat *chat.Service
}

func NewBot(cfg config.Config, chatSvc *chat.Service) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}

	return &Bot{
		api:  api,
		cfg:  cfg,
		chat: chatSvc,
	}, nil
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			if update.Message == nil {
				continue
			}
			msg := update.Message
			if msg.From == nil {
				continue
			}
			go b.handleMessage(ctx, msg)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := msg.From.ID

	var reply string
	var err error

	switch {
	case msg.IsCommand():
		switch msg.Command() {
		case "start":
			reply, err = b.chat.Greet(userID)
		case "reset", "reset_memory":
			reply, err = b.chat.Reset(ctx, userID)
		default:
			// unknown commands are ignored, as the original handlers did
			return
		}
	default:
		b.sendChatAction(msg.Chat.ID)
		reply, err = b.chat.HandleMessage(ctx, userID, msg.Text)
	}

	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNotAllowed):
			b.sendText(msg.Chat.ID, msg.MessageID, deniedReply)
		case errors.Is(err, chat.ErrEmptyMessage):
			b.sendText(msg.Chat.ID, msg.MessageID, emptyReply)
		default:
			log.Printf("message cycle failed for user %d: %v", userID, err)
			b.sendText(msg.Chat.ID, msg.MessageID, fallbackReply)
		}
		return
	}

	b.sendText(msg.Chat.ID, msg.MessageID, reply)
}

func (b *Bot) sendText(chatID int64, replyTo int, text string) {
	const chunkSize = 2048

	chunks := splitText(text, chunkSize)
	for idx, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		if idx == 0 {
			msg.ReplyToMessageID = replyTo
		}
		if _, err := b.api.Send(msg); err != nil {
			log.Printf("failed to send reply: %v", err)
		}
	}
}

func (b *Bot) sendChatAction(chatID int64) {
	if _, err := b.api.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		log.Printf("failed to send chat action: %v", err)
	}
}

func splitText(text string, chunkSize int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}

	runes := []rune(text)
	if len(runes) <= chunkSize {
		return []string{text}
	}

	chunks := make([]string, 0, len(runes)/chunkSize+1)
	for start := 0; start < len(runes); start += chunkSize {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}

	return chunks
}
