package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/store"
)

// Telegram truncates callback alerts past this length.
const maxAlertLen = 200

// RenderSeat is the prompt shown while seat Index holds the phone.
func RenderSeat(m *game.Match) (string, *models.InlineKeyboardMarkup, error) {
	role, ok := m.Current()
	if !ok {
		return "", nil, fmt.Errorf("match is %s, no seat to show", m.State())
	}
	showData, err := BuildShowCardCallback(m.Token())
	if err != nil {
		return "", nil, err
	}
	nextData, err := BuildNextCallback(m.Token())
	if err != nil {
		return "", nil, err
	}

	seat := m.Index() + 1
	text := fmt.Sprintf(
		"Player %d of %d\nPass the phone to %s.\nOnly %s should tap \"Show my card\".",
		seat, m.Config.PlayerCount, role.Name, role.Name,
	)
	nextLabel := "Next player"
	if seat == m.Config.PlayerCount {
		nextLabel = "Everyone has seen"
	}

	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "Show my card", CallbackData: showData}},
			{{Text: nextLabel, CallbackData: nextData}},
		},
	}
	return text, keyboard, nil
}

// RenderCard is the private alert a seat sees when it taps its card.
func RenderCard(role game.PlayerRole) string {
	var text string
	if role.IsImposter {
		text = role.Word
		if role.Hint != nil {
			text += "\nHint: " + *role.Hint
		}
	} else {
		text = "Secret word: " + role.Word
	}
	if len(text) > maxAlertLen {
		text = text[:maxAlertLen]
	}
	return text
}

// RenderAllRevealed closes the card round and opens the verbal round.
func RenderAllRevealed(m *game.Match) (string, *models.InlineKeyboardMarkup, error) {
	revealData, err := BuildRevealCallback(m.Token())
	if err != nil {
		return "", nil, err
	}
	rematchData, err := BuildRematchCallback(m.Token())
	if err != nil {
		return "", nil, err
	}

	text := "Everyone has seen their card."
	if starter := m.Starter(); starter != "" {
		text += fmt.Sprintf("\n%s starts the round.", starter)
	}
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{
				{Text: "Reveal answer", CallbackData: revealData},
				{Text: "Play again", CallbackData: rematchData},
			},
		},
	}
	return text, keyboard, nil
}

func RenderAnswer(answer game.Answer, token string) (string, *models.InlineKeyboardMarkup, error) {
	rematchData, err := BuildRematchCallback(token)
	if err != nil {
		return "", nil, err
	}
	label := "Impostor"
	if len(answer.Imposters) > 1 {
		label = "Impostors"
	}
	text := fmt.Sprintf("Secret word: %s\n%s: %s", answer.SecretWord, label, strings.Join(answer.Imposters, ", "))
	keyboard := &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{
			{{Text: "Play again", CallbackData: rematchData}},
		},
	}
	return text, keyboard, nil
}

// RenderMatchFailure explains why a match could not be dealt.
func RenderMatchFailure(err error) string {
	switch {
	case errors.Is(err, game.ErrNoWordsInSelection):
		return "The selected categories have no words yet. Add some words or pick other categories."
	case errors.Is(err, game.ErrInvalidConfig):
		return fmt.Sprintf("Can't start the match: %s.", strings.TrimPrefix(err.Error(), game.ErrInvalidConfig.Error()+": "))
	default:
		return "Failed to start the match. Please try again later."
	}
}

func RenderCategories(categories []store.CategorySummary) string {
	if len(categories) == 0 {
		return "No categories yet. Upload a JSON word pack to get started."
	}
	var sb strings.Builder
	sb.WriteString("Categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "%d. %s (%s) - %d words\n", c.ID, c.Name, c.Icon, c.WordCount)
	}
	sb.WriteString("\nStart with /play <players> <impostors> <category ids> [names]")
	return sb.String()
}
