package handlers

import (
	"context"
	"strconv"
	"strings"
	"testing"
)

func uintString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func TestHandleStartSendsHelp(t *testing.T) {
	h, _ := newTestHandlers(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleStart(context.Background(), b, newTestUpdate("/start", 200))

	got := client.lastMessageText(t)
	if !strings.Contains(got, "/play <players> <impostors>") || !strings.Contains(got, ".json") {
		t.Fatalf("expected help text, got %q", got)
	}
}

func TestHandleCategoriesListsCounts(t *testing.T) {
	h, s := newTestHandlers(t)
	client := newMockClient()
	b := newTestTelegramBot(t, client)

	h.HandleCategories(context.Background(), b, newTestUpdate("/categories", 201))
	if got := client.lastMessageText(t); !strings.Contains(got, "No categories yet") {
		t.Fatalf("expected empty listing, got %q", got)
	}

	category := seedAnimals(t, s)
	h.HandleCategories(context.Background(), b, newTestUpdate("/categories", 201))
	want := uintString(category.ID) + ". Animals (paw) - 1 words"
	if got := client.lastMessageText(t); !strings.Contains(got, want) {
		t.Fatalf("expected %q in listing, got %q", want, got)
	}
}
