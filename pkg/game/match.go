package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/smith3v/impostor/pkg/db"
)

// State is the phase of a match as seen by whoever presents it.
type State string

const (
	StateLoading     State = "loading"
	StateReady       State = "ready"
	StateViewing     State = "viewing"
	StateAllRevealed State = "all_revealed"
	StateFailed      State = "failed"
)

var (
	ErrInvalidTransition = errors.New("invalid match transition")
	ErrNotRevealed       = errors.New("not every player has seen their card yet")
)

// WordSource supplies the word pool a match is dealt from.
type WordSource interface {
	WordPool(ctx context.Context) ([]db.Word, error)
}

// Match is one play-through: it is dealt once, walked seat by seat and then
// revealed. It is not safe for concurrent use; Manager serialises access.
type Match struct {
	ID     string
	Config GameConfig

	state   State
	roles   []PlayerRole
	index   int
	step    int
	starter string
	err     error
}

func NewMatch(cfg GameConfig) *Match {
	return &Match{
		ID:     uuid.NewString(),
		Config: cfg,
		state:  StateLoading,
	}
}

// LoadMatch decodes a JSON config and deals the match. A malformed config
// yields a match that is already Failed.
func LoadMatch(ctx context.Context, configJSON []byte, source WordSource, rng Rand) *Match {
	cfg, err := ParseConfig(configJSON)
	m := NewMatch(cfg)
	if err != nil {
		m.fail(err)
		return m
	}
	_ = m.Load(ctx, source, rng)
	return m
}

// Load deals the roles. It only acts while the match is Loading, so calling
// it again never re-randomises an existing deal.
func (m *Match) Load(ctx context.Context, source WordSource, rng Rand) error {
	if m.state != StateLoading {
		return m.err
	}
	pool, err := source.WordPool(ctx)
	if err != nil {
		m.fail(err)
		return err
	}
	return m.deal(pool, rng)
}

func (m *Match) deal(pool []db.Word, rng Rand) error {
	roles, err := Generate(m.Config, pool, rng)
	if err != nil {
		m.fail(err)
		return err
	}
	m.roles = roles
	m.starter = PickStarter(roles, rng)
	m.state = StateReady
	return nil
}

func (m *Match) fail(err error) {
	m.err = err
	m.roles = nil
	m.state = StateFailed
}

// Advance moves Ready to the first seat, each seat to the next one, and the
// last seat to AllRevealed.
func (m *Match) Advance() (State, error) {
	switch m.state {
	case StateReady:
		m.state = StateViewing
		m.index = 0
	case StateViewing:
		if m.index+1 < len(m.roles) {
			m.index++
		} else {
			m.state = StateAllRevealed
		}
	default:
		return m.state, fmt.Errorf("%w: cannot advance from %s", ErrInvalidTransition, m.state)
	}
	m.step++
	return m.state, nil
}

func (m *Match) State() State {
	return m.state
}

// Index is the seat currently holding the device while Viewing.
func (m *Match) Index() int {
	return m.index
}

// Current returns the card of the seat being viewed.
func (m *Match) Current() (PlayerRole, bool) {
	if m.state != StateViewing {
		return PlayerRole{}, false
	}
	return m.roles[m.index], true
}

// Err is the failure reason of a Failed match.
func (m *Match) Err() error {
	return m.err
}

func (m *Match) Starter() string {
	return m.starter
}

func (m *Match) Roles() []PlayerRole {
	return append([]PlayerRole(nil), m.roles...)
}

// Answer is only available once every seat has seen its card.
func (m *Match) Answer() (Answer, error) {
	if m.state != StateAllRevealed {
		return Answer{}, ErrNotRevealed
	}
	return Reveal(m.roles), nil
}

// Token changes on every transition so a stale button press can be told
// apart from one aimed at the current step.
func (m *Match) Token() string {
	short := strings.ReplaceAll(m.ID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("%s.%d", short, m.step)
}

func MarshalRoles(roles []PlayerRole) ([]byte, error) {
	return json.Marshal(roles)
}

func ParseRoles(data []byte) ([]PlayerRole, error) {
	var roles []PlayerRole
	if err := json.Unmarshal(data, &roles); err != nil {
		return nil, fmt.Errorf("invalid roles: %w", err)
	}
	return roles, nil
}
