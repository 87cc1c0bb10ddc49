package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/ui"
)

const helpText = "Impostor: everyone but the impostors gets the secret word.\n\n" +
	"Commands:\n" +
	"/categories - list categories and their ids\n" +
	"/play <players> <impostors> <category ids> [names] - deal a match, e.g. /play 4 1 1,2 Ana,Ben,Caro,Dan\n" +
	"/stop - end the current match\n" +
	"/export <category ids> - download a JSON word pack\n\n" +
	"Send a .json word pack as a file to import it."

func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStart")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, helpText)
}

func (h *Handlers) HandleCategories(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleCategories")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, ui.RenderCategories(h.store.ListCategories(ctx)))
}
