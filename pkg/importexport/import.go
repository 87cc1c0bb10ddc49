package importexport

import (
	"context"
	"fmt"

	"github.com/smith3v/impostor/pkg/logger"
	"github.com/smith3v/impostor/pkg/store"
)

type ImportResult struct {
	Inserted int
	Updated  int
}

// ImportWords validates the pack and applies it in one transaction.
// Categories are matched by name ignoring case and created when missing;
// words are matched by text within their category and have their
// difficulty and hint refreshed when they already exist.
func ImportWords(ctx context.Context, s *store.Store, data []byte) (ImportResult, error) {
	items, err := ParsePack(data)
	if err != nil {
		return ImportResult{}, err
	}

	var result ImportResult
	err = s.Transaction(ctx, func(tx *store.Store) error {
		result = ImportResult{}
		for i, item := range items {
			if err := importItem(ctx, tx, item, &result); err != nil {
				return &ItemError{Position: i + 1, Text: item.Text, Reason: err.Error(), err: err}
			}
		}
		return nil
	})
	if err != nil {
		logger.Error("failed to import word pack", "error", err)
		return ImportResult{}, err
	}

	logger.Info("imported word pack", "inserted", result.Inserted, "updated", result.Updated)
	return result, nil
}

func importItem(ctx context.Context, tx *store.Store, item PackItem, result *ImportResult) error {
	category, found, err := tx.FindCategoryByName(ctx, item.CategoryName)
	if err != nil {
		return err
	}
	if !found {
		category, err = tx.CreateCategory(ctx, item.CategoryName, item.CategoryIcon)
		if err != nil {
			return fmt.Errorf("create category %q: %w", item.CategoryName, err)
		}
	}

	word, found, err := tx.FindWord(ctx, item.Text, category.ID)
	if err != nil {
		return err
	}
	if found {
		if err := tx.UpdateWordDetails(ctx, word.ID, item.Difficulty, item.Hint); err != nil {
			return err
		}
		result.Updated++
		return nil
	}

	if _, err := tx.AddWord(ctx, item.Text, category.ID, item.Difficulty, item.Hint); err != nil {
		return err
	}
	result.Inserted++
	return nil
}
