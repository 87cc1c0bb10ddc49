package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/internal/testutil"
	"github.com/smith3v/impostor/pkg/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger.SetLogLevel(logger.ERROR)
	return New(testutil.SetupTestDB(t))
}

func mustCategory(t *testing.T, s *Store, name string) db.Category {
	t.Helper()
	category, err := s.CreateCategory(context.Background(), name, "paw")
	if err != nil {
		t.Fatalf("failed to create category %q: %v", name, err)
	}
	return category
}

func mustWord(t *testing.T, s *Store, text string, categoryID uint, hint string) db.Word {
	t.Helper()
	word, err := s.AddWord(context.Background(), text, categoryID, db.Easy, hint)
	if err != nil {
		t.Fatalf("failed to add word %q: %v", text, err)
	}
	return word
}

func TestCreateCategoryMarksCustomAndDefaultsIcon(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	category, err := s.CreateCategory(ctx, "  Animals  ", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if category.ID == 0 || category.Name != "Animals" || !category.IsCustom {
		t.Fatalf("unexpected category: %+v", category)
	}
	if category.Icon != s.DefaultIcon() {
		t.Fatalf("expected default icon %q, got %q", s.DefaultIcon(), category.Icon)
	}

	if _, err := s.CreateCategory(ctx, "   ", "paw"); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestListCategoriesCountsWordsNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	animals := mustCategory(t, s, "Animals")
	food := mustCategory(t, s, "Food")
	mustWord(t, s, "Lion", animals.ID, "")
	mustWord(t, s, "Tiger", animals.ID, "")

	categories := s.ListCategories(ctx)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].ID != food.ID || categories[1].ID != animals.ID {
		t.Fatalf("expected newest first, got %+v", categories)
	}
	if categories[0].WordCount != 0 || categories[1].WordCount != 2 {
		t.Fatalf("unexpected word counts: %d and %d", categories[0].WordCount, categories[1].WordCount)
	}
	if categories[1].Name != "Animals" || categories[1].Icon != "paw" {
		t.Fatalf("expected category fields to be populated, got %+v", categories[1])
	}
}

func TestListCategoriesFailsSoft(t *testing.T) {
	gdb := testutil.SetupTestDB(t)
	logger.SetLogLevel(logger.ERROR)
	s := New(gdb)
	if err := gdb.Migrator().DropTable(&db.Category{}); err != nil {
		t.Fatalf("failed to drop table: %v", err)
	}

	categories := s.ListCategories(context.Background())
	if categories == nil || len(categories) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", categories)
	}
}

func TestUpdateCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	category := mustCategory(t, s, "Animals")

	if err := s.UpdateCategory(ctx, category.ID, "Beasts", "bug"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := s.GetCategory(ctx, category.ID)
	if err != nil {
		t.Fatalf("failed to reload category: %v", err)
	}
	if got.Name != "Beasts" || got.Icon != "bug" {
		t.Fatalf("unexpected category after update: %+v", got)
	}

	if err := s.UpdateCategory(ctx, 9999, "Ghost", ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.UpdateCategory(ctx, category.ID, " ", ""); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
}

func TestDeleteCategoryRemovesWords(t *testing.T) {
	for _, wordCount := range []int{0, 1, 5} {
		t.Run(fmt.Sprintf("%d words", wordCount), func(t *testing.T) {
			s := newTestStore(t)
			ctx := context.Background()
			animals := mustCategory(t, s, "Animals")
			food := mustCategory(t, s, "Food")
			for i := 0; i < wordCount; i++ {
				mustWord(t, s, string(rune('A'+i))+"nimal", animals.ID, "")
			}
			mustWord(t, s, "Pizza", food.ID, "")

			if err := s.DeleteCategory(ctx, animals.ID); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			var remaining int64
			if err := s.db.Model(&db.Word{}).Where("category_id = ?", animals.ID).Count(&remaining).Error; err != nil {
				t.Fatalf("failed to count words: %v", err)
			}
			if remaining != 0 {
				t.Fatalf("expected no words for deleted category, got %d", remaining)
			}
			if _, err := s.GetCategory(ctx, animals.ID); !errors.Is(err, ErrNotFound) {
				t.Fatalf("expected category to be gone, got %v", err)
			}
			words := s.ListWords(ctx)
			if len(words) != 1 || words[0].Text != "Pizza" {
				t.Fatalf("expected other categories untouched, got %+v", words)
			}
		})
	}
}

func TestTransactionRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx *Store) error {
		if _, err := tx.CreateCategory(ctx, "Temporary", ""); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected transaction error, got %v", err)
	}
	if categories := s.ListCategories(ctx); len(categories) != 0 {
		t.Fatalf("expected rollback to remove category, got %+v", categories)
	}
}

func TestFindCategoryByNameIsCaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	animals := mustCategory(t, s, "Animals")

	found, ok, err := s.FindCategoryByName(ctx, " animals ")
	if err != nil || !ok {
		t.Fatalf("expected category to be found, ok=%v err=%v", ok, err)
	}
	if found.ID != animals.ID {
		t.Fatalf("expected id %d, got %d", animals.ID, found.ID)
	}

	if _, ok, err := s.FindCategoryByName(ctx, "Plants"); err != nil || ok {
		t.Fatalf("expected no match, ok=%v err=%v", ok, err)
	}
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrEmptyText, ReasonEmptyText},
		{ErrDuplicate, ReasonDuplicate},
		{ErrEmptyName, ReasonEmptyName},
		{ErrNotFound, ReasonNotFound},
		{ErrUnknownCategory, ReasonUnknownCategory},
		{ErrInvalidDifficulty, ReasonInvalidDifficulty},
		{storageFault("op", errors.New("disk")), ReasonStorage},
	}
	for _, tt := range tests {
		if got := Reason(tt.err); got != tt.want {
			t.Fatalf("Reason(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
