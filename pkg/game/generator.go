package game

import (
	"errors"
	"strings"

	"github.com/smith3v/impostor/pkg/config"
	"github.com/smith3v/impostor/pkg/db"
)

var ErrNoWordsInSelection = errors.New("no words in the selected categories")

// Rand is the subset of *math/rand.Rand the generator needs. Tests inject a
// seeded source to get a deterministic deal.
type Rand interface {
	Intn(n int) int
}

// PlayerRole is the card a single seat sees. Hint is nil for civilians.
type PlayerRole struct {
	Name       string  `json:"name"`
	IsImposter bool    `json:"isImposter"`
	Word       string  `json:"word"`
	Hint       *string `json:"hint,omitempty"`
}

// Answer is what the end-of-match reveal shows.
type Answer struct {
	SecretWord string
	Imposters  []string
}

// Generate deals one match: it picks the secret word from the words of the
// selected categories, chooses the impostor seats and hands each impostor
// the next hint in turn. Roles come back in seat order.
func Generate(cfg GameConfig, pool []db.Word, rng Rand) ([]PlayerRole, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	candidates := filterPool(pool, cfg.CategoryIDs)
	if len(candidates) == 0 {
		return nil, ErrNoWordsInSelection
	}

	secret := candidates[rng.Intn(len(candidates))]
	hints := ParseHints(secret.Hint)
	if len(hints) == 0 {
		hints = []string{config.AppConfig.Game.DefaultHint}
	}

	imposters := min(cfg.ImposterCount, cfg.PlayerCount)
	seats := pickImposterSeats(cfg.PlayerCount, imposters, rng)

	roles := make([]PlayerRole, cfg.PlayerCount)
	assigned := 0
	for i, name := range cfg.Names {
		if !seats[i] {
			roles[i] = PlayerRole{Name: name, Word: secret.Text}
			continue
		}
		hint := hints[assigned%len(hints)]
		roles[i] = PlayerRole{
			Name:       name,
			IsImposter: true,
			Word:       config.AppConfig.Game.ImposterMarker,
			Hint:       &hint,
		}
		assigned++
	}
	return roles, nil
}

// ParseHints splits a comma separated hint field into its trimmed,
// non-empty parts.
func ParseHints(field string) []string {
	var hints []string
	for _, part := range strings.Split(field, ",") {
		if part = strings.TrimSpace(part); part != "" {
			hints = append(hints, part)
		}
	}
	return hints
}

// Reveal derives the public answer from an already dealt match.
func Reveal(roles []PlayerRole) Answer {
	answer := Answer{Imposters: []string{}}
	for _, role := range roles {
		if role.IsImposter {
			answer.Imposters = append(answer.Imposters, role.Name)
			continue
		}
		if answer.SecretWord == "" {
			answer.SecretWord = role.Word
		}
	}
	return answer
}

// PickStarter chooses who speaks first in the verbal round.
func PickStarter(roles []PlayerRole, rng Rand) string {
	if len(roles) == 0 {
		return ""
	}
	return roles[rng.Intn(len(roles))].Name
}

func filterPool(pool []db.Word, categoryIDs []uint) []db.Word {
	selected := make(map[uint]struct{}, len(categoryIDs))
	for _, id := range categoryIDs {
		selected[id] = struct{}{}
	}
	var out []db.Word
	for _, word := range pool {
		if _, ok := selected[word.CategoryID]; ok {
			out = append(out, word)
		}
	}
	return out
}

// pickImposterSeats runs a partial Fisher-Yates shuffle over the seat
// indices; the first count positions become impostors.
func pickImposterSeats(players, count int, rng Rand) []bool {
	order := make([]int, players)
	for i := range order {
		order[i] = i
	}
	for i := 0; i < count; i++ {
		j := i + rng.Intn(players-i)
		order[i], order[j] = order[j], order[i]
	}
	seats := make([]bool, players)
	for _, seat := range order[:count] {
		seats[seat] = true
	}
	return seats
}
