package ui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/go-telegram/bot/models"
	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/game"
	"github.com/smith3v/impostor/pkg/store"
)

type poolSource []db.Word

func (p poolSource) WordPool(context.Context) ([]db.Word, error) {
	return p, nil
}

func dealtMatch(t *testing.T) *game.Match {
	t.Helper()
	m := game.NewMatch(game.NewGameConfig([]string{"Ana", "Ben", "Caro"}, 1, []uint{1}))
	pool := poolSource{{ID: 1, Text: "Lion", Hint: "Big cat", CategoryID: 1}}
	if err := m.Load(context.Background(), pool, rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func TestRenderSeatButtons(t *testing.T) {
	m := dealtMatch(t)
	if _, _, err := RenderSeat(m); err == nil {
		t.Fatalf("expected error before the first seat")
	}
	if _, err := m.Advance(); err != nil {
		t.Fatalf("Advance failed: %v", err)
	}

	text, keyboard, err := RenderSeat(m)
	if err != nil {
		t.Fatalf("RenderSeat failed: %v", err)
	}
	if !strings.Contains(text, "Player 1 of 3") || !strings.Contains(text, "Ana") {
		t.Fatalf("unexpected seat text: %q", text)
	}
	assertButton(t, keyboard, "Show my card", "m:s:"+m.Token())
	assertButton(t, keyboard, "Next player", "m:n:"+m.Token())

	m.Advance()
	m.Advance()
	_, keyboard, err = RenderSeat(m)
	if err != nil {
		t.Fatalf("RenderSeat failed: %v", err)
	}
	assertButton(t, keyboard, "Everyone has seen", "m:n:"+m.Token())
}

func TestRenderCard(t *testing.T) {
	hint := "Big cat"
	got := RenderCard(game.PlayerRole{Name: "Ben", IsImposter: true, Word: "You are the IMPOSTOR", Hint: &hint})
	if got != "You are the IMPOSTOR\nHint: Big cat" {
		t.Fatalf("unexpected impostor card: %q", got)
	}
	got = RenderCard(game.PlayerRole{Name: "Ana", Word: "Lion"})
	if got != "Secret word: Lion" {
		t.Fatalf("unexpected civilian card: %q", got)
	}
	long := RenderCard(game.PlayerRole{Word: strings.Repeat("x", 300)})
	if len(long) != maxAlertLen {
		t.Fatalf("expected card to be truncated to %d, got %d", maxAlertLen, len(long))
	}
}

func TestRenderAllRevealedAndAnswer(t *testing.T) {
	m := dealtMatch(t)
	for m.State() != game.StateAllRevealed {
		if _, err := m.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	text, keyboard, err := RenderAllRevealed(m)
	if err != nil {
		t.Fatalf("RenderAllRevealed failed: %v", err)
	}
	if !strings.Contains(text, m.Starter()+" starts the round.") {
		t.Fatalf("expected starter in text, got %q", text)
	}
	assertButton(t, keyboard, "Reveal answer", "m:r:"+m.Token())
	assertButton(t, keyboard, "Play again", "m:p:"+m.Token())

	answer, err := m.Answer()
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	text, keyboard, err = RenderAnswer(answer, m.Token())
	if err != nil {
		t.Fatalf("RenderAnswer failed: %v", err)
	}
	if !strings.HasPrefix(text, "Secret word: Lion\nImpostor: ") {
		t.Fatalf("unexpected answer text: %q", text)
	}
	assertButton(t, keyboard, "Play again", "m:p:"+m.Token())
}

func TestRenderMatchFailure(t *testing.T) {
	if got := RenderMatchFailure(game.ErrNoWordsInSelection); !strings.Contains(got, "no words") {
		t.Fatalf("unexpected no-words text: %q", got)
	}
	err := fmt.Errorf("%w: need at least 3 players, got 2", game.ErrInvalidConfig)
	if got := RenderMatchFailure(err); got != "Can't start the match: need at least 3 players, got 2." {
		t.Fatalf("unexpected config text: %q", got)
	}
	if got := RenderMatchFailure(fmt.Errorf("boom")); !strings.Contains(got, "try again") {
		t.Fatalf("unexpected generic text: %q", got)
	}
}

func TestRenderCategories(t *testing.T) {
	if got := RenderCategories(nil); !strings.Contains(got, "No categories") {
		t.Fatalf("unexpected empty listing: %q", got)
	}
	got := RenderCategories([]store.CategorySummary{
		{Category: db.Category{ID: 2, Name: "Places", Icon: "map"}, WordCount: 4},
		{Category: db.Category{ID: 1, Name: "Animals", Icon: "list"}, WordCount: 0},
	})
	if !strings.Contains(got, "2. Places (map) - 4 words") || !strings.Contains(got, "1. Animals (list) - 0 words") {
		t.Fatalf("unexpected listing: %q", got)
	}
}

func assertButton(t *testing.T, keyboard *models.InlineKeyboardMarkup, text, callbackData string) {
	t.Helper()

	if keyboard == nil {
		t.Fatalf("expected keyboard, got nil")
	}

	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			if button.Text == text {
				if button.CallbackData != callbackData {
					t.Fatalf("button %q callback mismatch: got %q want %q", text, button.CallbackData, callbackData)
				}
				return
			}
		}
	}
	t.Fatalf("button %q not found", text)
}
