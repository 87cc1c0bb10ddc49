// pkg/db/models.go
package db

import (
	"fmt"
	"time"
)

// Difficulty grades how hard a word is to describe without saying it.
type Difficulty int

const (
	Easy   Difficulty = 1
	Medium Difficulty = 2
	Hard   Difficulty = 3
)

func (d Difficulty) Valid() bool {
	return d >= Easy && d <= Hard
}

func (d Difficulty) String() string {
	switch d {
	case Easy:
		return "easy"
	case Medium:
		return "medium"
	case Hard:
		return "hard"
	default:
		return fmt.Sprintf("difficulty(%d)", int(d))
	}
}

type Category struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Icon      string
	IsCustom  bool `gorm:"not null;default:false"`
	CreatedAt time.Time
}

// Word belongs to a category. Hint may hold several comma separated
// alternatives that are handed out to impostors in turn.
type Word struct {
	ID         uint   `gorm:"primaryKey"`
	Text       string `gorm:"not null"`
	Hint       string
	CategoryID uint       `gorm:"index"`
	Difficulty Difficulty `gorm:"not null;default:1"`
	CreatedAt  time.Time
}
