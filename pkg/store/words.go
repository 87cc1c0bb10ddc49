package store

import (
	"context"
	"errors"
	"strings"

	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/logger"
	"gorm.io/gorm"
)

const wordWithCategorySelect = "words.*, COALESCE(categories.name, '') AS category_name, COALESCE(categories.icon, '') AS category_icon"

// ListWords returns every word with its category name and icon, newest
// first. Storage faults are logged and reported as an empty list.
func (s *Store) ListWords(ctx context.Context) []WordWithCategory {
	var rows []WordWithCategory
	err := s.db.WithContext(ctx).
		Model(&db.Word{}).
		Select(wordWithCategorySelect).
		Joins("LEFT JOIN categories ON categories.id = words.category_id").
		Order("words.id DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("failed to list words", "error", err)
		return []WordWithCategory{}
	}
	return rows
}

// WordsInCategories returns the words of the given categories joined with
// their category, ordered by category name and then text.
func (s *Store) WordsInCategories(ctx context.Context, categoryIDs []uint) ([]WordWithCategory, error) {
	var rows []WordWithCategory
	if len(categoryIDs) == 0 {
		return rows, nil
	}
	err := s.db.WithContext(ctx).
		Model(&db.Word{}).
		Select(wordWithCategorySelect).
		Joins("JOIN categories ON categories.id = words.category_id").
		Where("categories.id IN ?", categoryIDs).
		Order("categories.name ASC, words.text ASC, words.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, storageFault("list words in categories", err)
	}
	return rows, nil
}

// WordPool loads every word; the match generator filters it by category.
func (s *Store) WordPool(ctx context.Context) ([]db.Word, error) {
	var words []db.Word
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&words).Error; err != nil {
		return nil, storageFault("load word pool", err)
	}
	return words, nil
}

func (s *Store) GetWord(ctx context.Context, id uint) (db.Word, error) {
	var word db.Word
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&word).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Word{}, ErrNotFound
	}
	if err != nil {
		return db.Word{}, storageFault("get word", err)
	}
	return word, nil
}

// AddWord inserts a word after rejecting blank text and case-insensitive
// duplicates within the category. The duplicate check and the insert are
// not wrapped in a transaction; the store has a single writer.
func (s *Store) AddWord(ctx context.Context, text string, categoryID uint, difficulty db.Difficulty, hint string) (db.Word, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return db.Word{}, ErrEmptyText
	}
	difficulty, err := normalizeDifficulty(difficulty)
	if err != nil {
		return db.Word{}, err
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return db.Word{}, err
	}
	if err := s.checkDuplicate(ctx, text, categoryID, 0); err != nil {
		return db.Word{}, err
	}

	word := db.Word{
		Text:       text,
		Hint:       strings.TrimSpace(hint),
		CategoryID: categoryID,
		Difficulty: difficulty,
	}
	if err := s.db.WithContext(ctx).Create(&word).Error; err != nil {
		return db.Word{}, storageFault("add word", err)
	}
	return word, nil
}

// UpdateWord overwrites every editable field of an existing word. The
// duplicate check ignores the row being edited.
func (s *Store) UpdateWord(ctx context.Context, id uint, text string, categoryID uint, difficulty db.Difficulty, hint string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	difficulty, err := normalizeDifficulty(difficulty)
	if err != nil {
		return err
	}
	if _, err := s.GetWord(ctx, id); err != nil {
		return err
	}
	if err := s.requireCategory(ctx, categoryID); err != nil {
		return err
	}
	if err := s.checkDuplicate(ctx, text, categoryID, id); err != nil {
		return err
	}

	err = s.db.WithContext(ctx).
		Model(&db.Word{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"text":        text,
			"category_id": categoryID,
			"difficulty":  difficulty,
			"hint":        strings.TrimSpace(hint),
		}).Error
	if err != nil {
		return storageFault("update word", err)
	}
	return nil
}

// UpdateWordDetails changes only difficulty and hint, as pack imports do for
// words that already exist.
func (s *Store) UpdateWordDetails(ctx context.Context, id uint, difficulty db.Difficulty, hint string) error {
	difficulty, err := normalizeDifficulty(difficulty)
	if err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&db.Word{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"difficulty": difficulty,
			"hint":       strings.TrimSpace(hint),
		})
	if result.Error != nil {
		return storageFault("update word details", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWord is idempotent: removing an unknown id is not an error.
func (s *Store) DeleteWord(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&db.Word{}).Error; err != nil {
		return storageFault("delete word", err)
	}
	return nil
}

// FindWord looks a word up by case-insensitive text within a category.
func (s *Store) FindWord(ctx context.Context, text string, categoryID uint) (db.Word, bool, error) {
	var words []db.Word
	err := s.db.WithContext(ctx).
		Where("LOWER(text) = LOWER(?) AND category_id = ?", strings.TrimSpace(text), categoryID).
		Order("id ASC").
		Limit(1).
		Find(&words).Error
	if err != nil {
		return db.Word{}, false, storageFault("find word", err)
	}
	if len(words) == 0 {
		return db.Word{}, false, nil
	}
	return words[0], true, nil
}

func (s *Store) checkDuplicate(ctx context.Context, text string, categoryID, excludeID uint) error {
	query := s.db.WithContext(ctx).
		Model(&db.Word{}).
		Where("LOWER(text) = LOWER(?) AND category_id = ?", text, categoryID)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return storageFault("check duplicate word", err)
	}
	if count > 0 {
		return ErrDuplicate
	}
	return nil
}

func (s *Store) requireCategory(ctx context.Context, categoryID uint) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&db.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return storageFault("check category", err)
	}
	if count == 0 {
		return ErrUnknownCategory
	}
	return nil
}

func normalizeDifficulty(d db.Difficulty) (db.Difficulty, error) {
	if d == 0 {
		return db.Easy, nil
	}
	if !d.Valid() {
		return 0, ErrInvalidDifficulty
	}
	return d, nil
}
