package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/store"
	"github.com/smith3v/impostor/pkg/ui"
)

// Handlers hosts pass-the-phone matches in Telegram chats. Each chat holds
// at most one match at a time.
type Handlers struct {
	store *store.Store
	games *game.Manager
}

func New(s *store.Store, games *game.Manager) *Handlers {
	return &Handlers{store: s, games: games}
}

// Register wires every command and callback handler into b.
func (h *Handlers) Register(b *bot.Bot) {
	b.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, h.HandleStart)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/categories", bot.MatchTypeExact, h.HandleCategories)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/play", bot.MatchTypePrefix, h.HandlePlay)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypeExact, h.HandleStop)
	b.RegisterHandler(bot.HandlerTypeMessageText, "/export", bot.MatchTypePrefix, h.HandleExport)
	b.RegisterHandler(bot.HandlerTypeCallbackQueryData, ui.CallbackPrefix, bot.MatchTypePrefix, h.HandleMatchCallback)
}

func sendText(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	}); err != nil {
		logger.Error("failed to send message", "chat_id", chatID, "error", err)
	}
}

func validMessage(update *models.Update) bool {
	return update != nil && update.Message != nil && update.Message.Chat.ID != 0
}
