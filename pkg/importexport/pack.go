// Package importexport converts word packs between their JSON file form and
// the store.
package importexport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/smith3v/impostor/pkg/db"
	"github.com/smith3v/impostor/pkg/store"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	ErrNotArray       = errors.New("the pack is not a JSON list ([...])")
	ErrEmptyPack      = errors.New("the pack is empty")
	ErrNoCategories   = errors.New("select at least one category to export")
	ErrEmptySelection = errors.New("the selected categories have no words")
)

// PackItem is one element of an import or export file.
type PackItem struct {
	Text         string        `json:"text"`
	Difficulty   db.Difficulty `json:"difficulty"`
	Hint         string        `json:"hint"`
	CategoryName string        `json:"category_name"`
	CategoryIcon string        `json:"category_icon,omitempty"`
}

// rawItem keeps every field loosely typed so that a wrong type is reported
// against its item instead of failing the whole decode.
type rawItem struct {
	Text         any `json:"text"`
	Difficulty   any `json:"difficulty"`
	Hint         any `json:"hint"`
	CategoryName any `json:"category_name"`
	CategoryIcon any `json:"category_icon"`
	CategoryID   any `json:"category_id"`
}

// ItemError identifies the offending element of a rejected pack.
type ItemError struct {
	Position int
	Text     string
	Reason   string

	err error
}

func (e *ItemError) Error() string {
	if e.Text != "" {
		return fmt.Sprintf("item #%d (%q): %s", e.Position, e.Text, e.Reason)
	}
	return fmt.Sprintf("item #%d: %s", e.Position, e.Reason)
}

// Unwrap exposes the store error behind a rejected write, if any.
func (e *ItemError) Unwrap() error {
	return e.err
}

// ParsePack decodes and validates a whole pack. Nothing is returned unless
// every element is valid.
func ParsePack(data []byte) ([]PackItem, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))

	if !json.Valid(data) {
		return nil, errors.New("the pack is not valid JSON")
	}
	if data[0] != '[' {
		return nil, ErrNotArray
	}
	var elements []json.RawMessage
	if err := json.Unmarshal(data, &elements); err != nil {
		return nil, ErrNotArray
	}
	if len(elements) == 0 {
		return nil, ErrEmptyPack
	}

	items := make([]PackItem, 0, len(elements))
	for i, element := range elements {
		var raw rawItem
		if err := json.Unmarshal(element, &raw); err != nil {
			return nil, &ItemError{Position: i + 1, Reason: "must be an object"}
		}
		item, err := validateItem(i+1, raw)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func validateItem(position int, raw rawItem) (PackItem, error) {
	text, _ := raw.Text.(string)
	text = strings.TrimSpace(text)
	if text == "" {
		return PackItem{}, &ItemError{Position: position, Reason: `missing or empty "text"`}
	}

	categoryName, _ := raw.CategoryName.(string)
	categoryName = strings.TrimSpace(categoryName)
	if categoryName == "" {
		if raw.CategoryID != nil {
			return PackItem{}, &ItemError{
				Position: position,
				Text:     text,
				Reason:   `has "category_id" but no "category_name"; packs reference categories by name`,
			}
		}
		return PackItem{}, &ItemError{Position: position, Text: text, Reason: `missing "category_name"`}
	}

	difficulty := db.Easy
	if raw.Difficulty != nil {
		value, ok := raw.Difficulty.(float64)
		if !ok || value != float64(int(value)) {
			return PackItem{}, &ItemError{Position: position, Text: text, Reason: `"difficulty" must be an integer`}
		}
		if value != 0 {
			difficulty = db.Difficulty(value)
		}
		if !difficulty.Valid() {
			return PackItem{}, &ItemError{Position: position, Text: text, Reason: `"difficulty" must be 1, 2 or 3`}
		}
	}

	hint, ok := raw.Hint.(string)
	if raw.Hint != nil && !ok {
		return PackItem{}, &ItemError{Position: position, Text: text, Reason: `"hint" must be a string`}
	}
	icon, ok := raw.CategoryIcon.(string)
	if raw.CategoryIcon != nil && !ok {
		return PackItem{}, &ItemError{Position: position, Text: text, Reason: `"category_icon" must be a string`}
	}

	return PackItem{
		Text:         text,
		Difficulty:   difficulty,
		Hint:         strings.TrimSpace(hint),
		CategoryName: categoryName,
		CategoryIcon: strings.TrimSpace(icon),
	}, nil
}

// BuildExportJSON renders rows as an indented pack. Rows are sorted by
// category and text so repeated exports diff cleanly.
func BuildExportJSON(rows []store.WordWithCategory) ([]byte, error) {
	items := make([]PackItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, PackItem{
			Text:         row.Text,
			Difficulty:   row.Difficulty,
			Hint:         row.Hint,
			CategoryName: row.CategoryName,
			CategoryIcon: row.CategoryIcon,
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CategoryName == items[j].CategoryName {
			return items[i].Text < items[j].Text
		}
		return items[i].CategoryName < items[j].CategoryName
	})
	return json.MarshalIndent(items, "", "  ")
}

func ExportFilename(now time.Time) string {
	return fmt.Sprintf("impostor-pack-%s.json", now.Format("20060102"))
}
