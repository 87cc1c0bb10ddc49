package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	MinPlayers = 3
	MaxPlayers = 20
)

var ErrInvalidConfig = errors.New("invalid game configuration")

// GameConfig is the immutable description of one match. The JSON form is
// only used where a config has to cross a process or screen boundary.
type GameConfig struct {
	PlayerCount   int      `json:"players"`
	ImposterCount int      `json:"imposters"`
	Names         []string `json:"names"`
	CategoryIDs   []uint   `json:"categories"`
}

// NewGameConfig builds a config for the given seats. Blank names become
// "Player N" using the 1-based seat number.
func NewGameConfig(names []string, imposters int, categoryIDs []uint) GameConfig {
	seats := make([]string, len(names))
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = DefaultPlayerName(i)
		}
		seats[i] = name
	}
	return GameConfig{
		PlayerCount:   len(seats),
		ImposterCount: imposters,
		Names:         seats,
		CategoryIDs:   append([]uint(nil), categoryIDs...),
	}
}

func DefaultPlayerName(seat int) string {
	return fmt.Sprintf("Player %d", seat+1)
}

// MaxImposters is the largest impostor count allowed for players seats.
func MaxImposters(players int) int {
	return players / 2
}

func (c GameConfig) Validate() error {
	switch {
	case c.PlayerCount < MinPlayers:
		return fmt.Errorf("%w: need at least %d players, got %d", ErrInvalidConfig, MinPlayers, c.PlayerCount)
	case c.PlayerCount > MaxPlayers:
		return fmt.Errorf("%w: at most %d players, got %d", ErrInvalidConfig, MaxPlayers, c.PlayerCount)
	case c.ImposterCount < 1 || c.ImposterCount > MaxImposters(c.PlayerCount):
		return fmt.Errorf("%w: impostors must be between 1 and %d, got %d", ErrInvalidConfig, MaxImposters(c.PlayerCount), c.ImposterCount)
	case len(c.Names) != c.PlayerCount:
		return fmt.Errorf("%w: %d names for %d players", ErrInvalidConfig, len(c.Names), c.PlayerCount)
	case len(c.CategoryIDs) == 0:
		return fmt.Errorf("%w: select at least one category", ErrInvalidConfig)
	}
	return nil
}

// Key identifies a configuration for memoisation: two configs with the same
// key describe the same match setup.
func (c GameConfig) Key() string {
	data, err := MarshalConfig(c)
	if err != nil {
		return ""
	}
	return string(data)
}

func MarshalConfig(c GameConfig) ([]byte, error) {
	return json.Marshal(c)
}

// ParseConfig decodes a config handed over as JSON and validates it.
func ParseConfig(data []byte) (GameConfig, error) {
	var c GameConfig
	if err := json.Unmarshal(data, &c); err != nil {
		return GameConfig{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Validate(); err != nil {
		return GameConfig{}, err
	}
	return c, nil
}
