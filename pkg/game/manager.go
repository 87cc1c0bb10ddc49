package game

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/smith3v/impostor/pkg/logger"
)

const (
	InactivityTimeout = 2 * time.Hour
	SweeperInterval   = 5 * time.Minute
)

var (
	ErrNoMatch    = errors.New("no active match")
	ErrStaleToken = errors.New("button no longer active")
)

type hostedMatch struct {
	match          *Match
	lastActivityAt time.Time
}

// Manager keeps the active match of every host (a chat, a terminal) and
// makes sure a match is dealt only once per configuration.
type Manager struct {
	mu      sync.Mutex
	matches map[int64]*hostedMatch
	source  WordSource
	rng     Rand
	now     func() time.Time
}

// NewManager wires a manager to its word source. A nil rng or clock falls
// back to a time-seeded source and time.Now.
func NewManager(source WordSource, rng Rand, now func() time.Time) *Manager {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Manager{
		matches: make(map[int64]*hostedMatch),
		source:  source,
		rng:     rng,
		now:     now,
	}
}

// Start returns the host's match for cfg. If the host already holds a dealt
// match with the same configuration that match is returned untouched;
// otherwise a new one is dealt. A Failed match is returned together with
// its error.
func (m *Manager) Start(ctx context.Context, hostID int64, cfg GameConfig) (*Match, error) {
	key := cfg.Key()

	m.mu.Lock()
	if hosted, ok := m.matches[hostID]; ok && hosted.match.State() != StateFailed && hosted.match.Config.Key() == key {
		hosted.lastActivityAt = m.now()
		m.mu.Unlock()
		return hosted.match, nil
	}
	m.mu.Unlock()

	return m.deal(ctx, hostID, cfg)
}

// Rematch throws the host's current deal away and deals the same
// configuration again.
func (m *Manager) Rematch(ctx context.Context, hostID int64, token string) (*Match, error) {
	m.mu.Lock()
	hosted, ok := m.matches[hostID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNoMatch
	}
	if token != "" && hosted.match.Token() != token {
		m.mu.Unlock()
		return nil, ErrStaleToken
	}
	cfg := hosted.match.Config
	delete(m.matches, hostID)
	m.mu.Unlock()

	return m.deal(ctx, hostID, cfg)
}

func (m *Manager) deal(ctx context.Context, hostID int64, cfg GameConfig) (*Match, error) {
	match := NewMatch(cfg)
	if err := cfg.Validate(); err != nil {
		match.fail(err)
		return match, err
	}

	// The pool is read without holding the lock.
	pool, err := m.source.WordPool(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		match.fail(err)
	} else {
		err = match.deal(pool, m.rng)
	}
	if err != nil {
		logger.Error("failed to deal match", "host_id", hostID, "error", err)
		delete(m.matches, hostID)
		return match, err
	}

	m.matches[hostID] = &hostedMatch{match: match, lastActivityAt: m.now()}
	logger.Info("dealt match", "host_id", hostID, "match_id", match.ID, "players", cfg.PlayerCount, "imposters", cfg.ImposterCount)
	return match, nil
}

// Get returns the host's match, if any.
func (m *Manager) Get(hostID int64) *Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hosted, ok := m.matches[hostID]; ok {
		return hosted.match
	}
	return nil
}

// Advance moves the host's match one step if token matches its current step.
func (m *Manager) Advance(hostID int64, token string) (*Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hosted, err := m.lookupLocked(hostID, token)
	if err != nil {
		return nil, err
	}
	if _, err := hosted.match.Advance(); err != nil {
		return hosted.match, err
	}
	hosted.lastActivityAt = m.now()
	return hosted.match, nil
}

// Card returns the role of the seat currently holding the device.
func (m *Manager) Card(hostID int64, token string) (PlayerRole, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hosted, err := m.lookupLocked(hostID, token)
	if err != nil {
		return PlayerRole{}, err
	}
	role, ok := hosted.match.Current()
	if !ok {
		return PlayerRole{}, ErrStaleToken
	}
	hosted.lastActivityAt = m.now()
	return role, nil
}

// Answer returns the reveal of a match whose seats have all been viewed.
func (m *Manager) Answer(hostID int64, token string) (Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	hosted, err := m.lookupLocked(hostID, token)
	if err != nil {
		return Answer{}, err
	}
	hosted.lastActivityAt = m.now()
	return hosted.match.Answer()
}

// End drops the host's match.
func (m *Manager) End(hostID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.matches[hostID]
	delete(m.matches, hostID)
	return ok
}

func (m *Manager) lookupLocked(hostID int64, token string) (*hostedMatch, error) {
	hosted, ok := m.matches[hostID]
	if !ok {
		return nil, ErrNoMatch
	}
	if hosted.match.Token() != token {
		return nil, ErrStaleToken
	}
	return hosted, nil
}

// SweepInactive drops matches idle for longer than InactivityTimeout and
// returns the affected hosts.
func (m *Manager) SweepInactive() []int64 {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()

	var expired []int64
	for hostID, hosted := range m.matches {
		if now.Sub(hosted.lastActivityAt) > InactivityTimeout {
			expired = append(expired, hostID)
			delete(m.matches, hostID)
		}
	}
	return expired
}

// StartSweeper periodically expires idle matches until ctx is canceled.
// onExpire, when set, is told about every host that lost its match.
func (m *Manager) StartSweeper(ctx context.Context, onExpire func(ctx context.Context, hostID int64)) {
	ticker := time.NewTicker(SweeperInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			expired := m.SweepInactive()
			if len(expired) == 0 {
				continue
			}
			logger.Info("expired idle matches", "count", len(expired))
			if onExpire == nil {
				continue
			}
			for _, hostID := range expired {
				onExpire(ctx, hostID)
			}
		}
	}
}
