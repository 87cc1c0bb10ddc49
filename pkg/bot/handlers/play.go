package handlers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/ui"
)

const playUsage = "Usage: /play <players> <impostors> <category ids> [names]\nExample: /play 4 1 1,2 Ana,Ben,Caro,Dan"

var errPlayUsage = errors.New("invalid /play arguments")

// parsePlayCommand reads "/play 4 1 1,2 Ana,Ben". Names are comma
// separated; missing names are filled with seat defaults.
func parsePlayCommand(text string) (game.GameConfig, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return game.GameConfig{}, errPlayUsage
	}
	players, err := strconv.Atoi(fields[1])
	if err != nil {
		return game.GameConfig{}, errPlayUsage
	}
	imposters, err := strconv.Atoi(fields[2])
	if err != nil {
		return game.GameConfig{}, errPlayUsage
	}
	categoryIDs, err := parseIDList(fields[3])
	if err != nil || len(categoryIDs) == 0 {
		return game.GameConfig{}, errPlayUsage
	}
	if players < game.MinPlayers || players > game.MaxPlayers {
		return game.GameConfig{}, fmt.Errorf("%w: players must be between %d and %d, got %d", game.ErrInvalidConfig, game.MinPlayers, game.MaxPlayers, players)
	}

	names := make([]string, players)
	if len(fields) > 4 {
		given := strings.Split(strings.Join(fields[4:], " "), ",")
		if len(given) > players {
			return game.GameConfig{}, fmt.Errorf("%w: %d names for %d players", game.ErrInvalidConfig, len(given), players)
		}
		copy(names, given)
	}
	return game.NewGameConfig(names, imposters, categoryIDs), nil
}

// parseIDList accepts ids separated by commas.
func parseIDList(value string) ([]uint, error) {
	var ids []uint
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

func (h *Handlers) HandlePlay(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandlePlay")
		return
	}
	chatID := update.Message.Chat.ID

	cfg, err := parsePlayCommand(update.Message.Text)
	if errors.Is(err, errPlayUsage) {
		sendText(ctx, b, chatID, playUsage)
		return
	}
	if err != nil {
		sendText(ctx, b, chatID, ui.RenderMatchFailure(err))
		return
	}

	match, err := h.games.Start(ctx, chatID, cfg)
	if err != nil {
		sendText(ctx, b, chatID, ui.RenderMatchFailure(err))
		return
	}
	h.sendMatchView(ctx, b, chatID, match)
}

func (h *Handlers) HandleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if !validMessage(update) {
		logger.Error("invalid update in HandleStop")
		return
	}
	if h.games.End(update.Message.Chat.ID) {
		sendText(ctx, b, update.Message.Chat.ID, "Match ended.")
		return
	}
	sendText(ctx, b, update.Message.Chat.ID, "There is no match running.")
}

// sendMatchView posts the screen for the match's current step. A freshly
// dealt match is moved to its first seat first.
func (h *Handlers) sendMatchView(ctx context.Context, b *bot.Bot, chatID int64, match *game.Match) {
	if match.State() == game.StateReady {
		advanced, err := h.games.Advance(chatID, match.Token())
		if err != nil {
			logger.Error("failed to open first seat", "chat_id", chatID, "error", err)
			sendText(ctx, b, chatID, ui.RenderMatchFailure(err))
			return
		}
		match = advanced
	}

	text, keyboard, err := renderMatch(match)
	if err != nil {
		logger.Error("failed to render match", "chat_id", chatID, "match_id", match.ID, "error", err)
		return
	}
	if _, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to send match view", "chat_id", chatID, "error", err)
	}
}

func renderMatch(match *game.Match) (string, *models.InlineKeyboardMarkup, error) {
	switch match.State() {
	case game.StateViewing:
		return ui.RenderSeat(match)
	case game.StateAllRevealed:
		return ui.RenderAllRevealed(match)
	default:
		return "", nil, fmt.Errorf("nothing to render for state %s", match.State())
	}
}

func (h *Handlers) HandleMatchCallback(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update == nil || update.CallbackQuery == nil {
		logger.Error("invalid update in HandleMatchCallback")
		return
	}

	callbackID := update.CallbackQuery.ID
	answerCallback := func(text string, alert bool) {
		if callbackID == "" {
			return
		}
		if _, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: callbackID,
			Text:            text,
			ShowAlert:       alert,
		}); err != nil {
			logger.Error("failed to answer match callback query", "error", err)
		}
	}

	action, err := ui.ParseCallbackData(update.CallbackQuery.Data)
	if err != nil {
		answerCallback("Not active", false)
		return
	}

	message := update.CallbackQuery.Message
	if message.Type != models.MaybeInaccessibleMessageTypeMessage || message.Message == nil || message.Message.Chat.ID == 0 {
		answerCallback("Message missing", false)
		return
	}
	chatID := message.Message.Chat.ID
	messageID := message.Message.ID

	switch action.Op {
	case ui.OpShowCard:
		role, err := h.games.Card(chatID, action.Token)
		if err != nil {
			answerCallback("Not active", false)
			return
		}
		answerCallback(ui.RenderCard(role), true)

	case ui.OpNext:
		match, err := h.games.Advance(chatID, action.Token)
		if err != nil {
			answerCallback("Not active", false)
			return
		}
		text, keyboard, err := renderMatch(match)
		if err != nil {
			logger.Error("failed to render match", "chat_id", chatID, "error", err)
			answerCallback("Not active", false)
			return
		}
		h.editMessage(ctx, b, chatID, messageID, text, keyboard)
		answerCallback("", false)

	case ui.OpReveal:
		answer, err := h.games.Answer(chatID, action.Token)
		if err != nil {
			answerCallback("Not active", false)
			return
		}
		text, keyboard, err := ui.RenderAnswer(answer, action.Token)
		if err != nil {
			logger.Error("failed to render answer", "chat_id", chatID, "error", err)
			answerCallback("Not active", false)
			return
		}
		h.editMessage(ctx, b, chatID, messageID, text, keyboard)
		answerCallback("", false)

	case ui.OpRematch:
		match, err := h.games.Rematch(ctx, chatID, action.Token)
		if errors.Is(err, game.ErrNoMatch) || errors.Is(err, game.ErrStaleToken) {
			answerCallback("Not active", false)
			return
		}
		answerCallback("", false)
		if err != nil {
			sendText(ctx, b, chatID, ui.RenderMatchFailure(err))
			return
		}
		h.sendMatchView(ctx, b, chatID, match)
	}
}

func (h *Handlers) editMessage(ctx context.Context, b *bot.Bot, chatID int64, messageID int, text string, keyboard *models.InlineKeyboardMarkup) {
	if _, err := b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      chatID,
		MessageID:   messageID,
		Text:        text,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger.Error("failed to edit match message", "chat_id", chatID, "message_id", messageID, "error", err)
	}
}
