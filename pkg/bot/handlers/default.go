package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/importexport"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/store"
)

// Uploaded packs larger than this are refused before they are parsed.
const maxPackBytes = 1 << 20

// DefaultHandler answers free text with the help screen and imports JSON
// word packs sent as documents.
func (h *Handlers) DefaultHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		logger.Error("received invalid update in DefaultHandler")
		return
	}
	if update.Message.Chat.ID == 0 {
		logger.Error("chat ID is zero in DefaultHandler")
		return
	}
	chatID := update.Message.Chat.ID

	doc := update.Message.Document
	if doc == nil {
		sendText(ctx, b, chatID, helpText)
		return
	}

	logger.Info("uploading word pack", "file_name", doc.FileName, "chat_id", chatID)

	if !strings.HasSuffix(strings.ToLower(doc.FileName), ".json") {
		sendText(ctx, b, chatID, "The uploaded file is not a JSON word pack. Please send a .json file.")
		return
	}
	if doc.FileSize > maxPackBytes {
		sendText(ctx, b, chatID, "The word pack is too large.")
		return
	}

	data, err := downloadDocument(ctx, b, doc.FileID)
	if err != nil {
		logger.Error("failed to download word pack", "chat_id", chatID, "error", err)
		sendText(ctx, b, chatID, "Failed to download the file. Please try again.")
		return
	}

	result, err := importexport.ImportWords(ctx, h.store, data)
	if errors.Is(err, store.ErrStorage) {
		sendText(ctx, b, chatID, "Failed to import the word pack. Please try again later.")
		return
	}
	if err != nil {
		sendText(ctx, b, chatID, "Import failed, nothing was changed: "+err.Error())
		return
	}

	sendText(ctx, b, chatID, fmt.Sprintf("Imported %d new words, updated %d words.", result.Inserted, result.Updated))
}

func downloadDocument(ctx context.Context, b *bot.Bot, fileID string) ([]byte, error) {
	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", config.AppConfig.Telegram.Token, file.FilePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch file: status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxPackBytes+1))
}
