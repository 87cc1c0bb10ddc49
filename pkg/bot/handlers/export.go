package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/importexport"
	"github.com/smith3v/impostor/pkg/logger"
)

const exportUsage = "Usage: /export <category ids>, e.g. /export 1,2. See /categories for ids."

func (h *Handlers) HandleExport(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleExport")
		return
	}
	chatID := update.Message.Chat.ID

	args := strings.Join(strings.Fields(strings.TrimPrefix(update.Message.Text, "/export")), ",")
	ids, err := parseIDList(args)
	if err != nil {
		sendText(ctx, b, chatID, exportUsage)
		return
	}

	data, count, err := importexport.ExportWords(ctx, h.store, ids)
	switch {
	case errors.Is(err, importexport.ErrNoCategories):
		sendText(ctx, b, chatID, exportUsage)
		return
	case errors.Is(err, importexport.ErrEmptySelection):
		sendText(ctx, b, chatID, "The selected categories have no words to export.")
		return
	case err != nil:
		logger.Error("failed to export word pack", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to export the word pack. Please try again later.")
		return
	}

	filename := importexport.ExportFilename(time.Now())
	_, err = b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: filename,
			Data:     bytes.NewReader(data),
		},
		Caption: fmt.Sprintf("Word pack export (%d words).", count),
	})
	if err != nil {
		logger.Error("failed to send export document", "chat_id", chatID, "error", err)
	}
}
