package importexport

import (
	"context"

	"github.com/smith3v/impostor/pkg/store"
)

// ExportWords renders every word of the selected categories as a pack and
// reports how many words it contains.
func ExportWords(ctx context.Context, s *store.Store, categoryIDs []uint) ([]byte, int, error) {
	if len(categoryIDs) == 0 {
		return nil, 0, ErrNoCategories
	}
	rows, err := s.WordsInCategories(ctx, categoryIDs)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) == 0 {
		return nil, 0, ErrEmptySelection
	}
	data, err := BuildExportJSON(rows)
	if err != nil {
		return nil, 0, err
	}
	return data, len(rows), nil
}
