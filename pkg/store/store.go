// Package store owns the persisted game content: categories and the words
// that belong to them.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrEmptyName         = errors.New("category name is empty")
	ErrEmptyText         = errors.New("word text is empty")
	ErrDuplicate         = errors.New("word already exists in this category")
	ErrNotFound          = errors.New("record not found")
	ErrUnknownCategory   = errors.New("category does not exist")
	ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 3")
	ErrStorage           = errors.New("storage fault")
)

// Reason codes reported to presentation layers alongside a failed outcome.
const (
	ReasonEmptyName         = "EMPTY_NAME"
	ReasonEmptyText         = "EMPTY_TEXT"
	ReasonDuplicate         = "DUPLICATE"
	ReasonNotFound          = "NOT_FOUND"
	ReasonUnknownCategory   = "UNKNOWN_CATEGORY"
	ReasonInvalidDifficulty = "INVALID_DIFFICULTY"
	ReasonStorage           = "STORAGE"
)

// Reason maps an error returned by the store to its reason code. A nil
// error yields the empty string.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyName):
		return ReasonEmptyName
	case errors.Is(err, ErrEmptyText):
		return ReasonEmptyText
	case errors.Is(err, ErrDuplicate):
		return ReasonDuplicate
	case errors.Is(err, ErrNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrUnknownCategory):
		return ReasonUnknownCategory
	case errors.Is(err, ErrInvalidDifficulty):
		return ReasonInvalidDifficulty
	default:
		return ReasonStorage
	}
}

type CategorySummary struct {
	db.Category
	WordCount int64
}

type WordWithCategory struct {
	db.Word
	CategoryName string
	CategoryIcon string
}

// Store is the single owner of the database handle. Callers receive it
// explicitly; nothing in the core reaches for a global connection.
type Store struct {
	db          *gorm.DB
	defaultIcon string
}

func New(gdb *gorm.DB) *Store {
	icon := strings.TrimSpace(config.AppConfig.Game.DefaultIcon)
	if icon == "" {
		icon = "list"
	}
	return &Store{db: gdb, defaultIcon: icon}
}

// DefaultIcon is the icon given to categories created without one.
func (s *Store) DefaultIcon() string {
	return s.defaultIcon
}

// Transaction runs fn against a store bound to a single transaction. Any
// error returned by fn rolls back every write made through tx.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Store{db: gtx, defaultIcon: s.defaultIcon})
	})
}

// ListCategories returns every category with its word count, newest first.
// Storage faults are logged and reported as an empty list.
func (s *Store) ListCategories(ctx context.Context) []CategorySummary {
	var rows []CategorySummary
	err := s.db.WithContext(ctx).
		Model(&db.Category{}).
		Select("categories.*, COUNT(words.id) AS word_count").
		Joins("LEFT JOIN words ON words.category_id = categories.id").
		Group("categories.id").
		Order("categories.id DESC").
		Scan(&rows).Error
	if err != nil {
		logger.Error("failed to list categories", "error", err)
		return []CategorySummary{}
	}
	return rows
}

func (s *Store) GetCategory(ctx context.Context, id uint) (db.Category, error) {
	var category db.Category
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Category{}, ErrNotFound
	}
	if err != nil {
		return db.Category{}, storageFault("get category", err)
	}
	return category, nil
}

func (s *Store) CreateCategory(ctx context.Context, name, icon string) (db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return db.Category{}, ErrEmptyName
	}
	category := db.Category{
		Name:     name,
		Icon:     s.iconOrDefault(icon),
		IsCustom: true,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return db.Category{}, storageFault("create category", err)
	}
	return category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id uint, name, icon string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	result := s.db.WithContext(ctx).
		Model(&db.Category{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name": name,
			"icon": s.iconOrDefault(icon),
		})
	if result.Error != nil {
		return storageFault("update category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes the category and every word that references it in
// one transaction.
func (s *Store) DeleteCategory(ctx context.Context, id uint) error {
	err := s.Transaction(ctx, func(tx *Store) error {
		if err := tx.db.Where("category_id = ?", id).Delete(&db.Word{}).Error; err != nil {
			return err
		}
		return tx.db.Where("id = ?", id).Delete(&db.Category{}).Error
	})
	if err != nil {
		return storageFault("delete category", err)
	}
	return nil
}

// FindCategoryByName matches names case-insensitively. The oldest match wins
// when several categories share a name.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (db.Category, bool, error) {
	var categories []db.Category
	err := s.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?)", strings.TrimSpace(name)).
		Order("id ASC").
		Limit(1).
		Find(&categories).Error
	if err != nil {
		return db.Category{}, false, storageFault("find category", err)
	}
	if len(categories) == 0 {
		return db.Category{}, false, nil
	}
	return categories[0], true, nil
}

func (s *Store) iconOrDefault(icon string) string {
	icon = strings.TrimSpace(icon)
	if icon == "" {
		return s.defaultIcon
	}
	return icon
}

func storageFault(op string, err error) error {
	logger.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStorage, err)
}
