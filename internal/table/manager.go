package table

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/moonhole/holdemlite/internal/tableid"
)

// Manager is the lobby: it creates, looks up and tears down table actors.
type Manager struct {
	clock  quartz.Clock
	logger *log.Logger

	mu     sync.RWMutex
	tables map[string]*Actor
	closed bool
}

func NewManager(clock quartz.Clock, logger *log.Logger) *Manager {
	return &Manager{
		clock:  clock,
		logger: logger.WithPrefix("manager"),
		tables: make(map[string]*Actor),
	}
}

// Create allocates a fresh table with a new ID.
func (m *Manager) Create(cfg Config, onUpdate UpdateFunc) (*Actor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrTableClosed
	}

	id := tableid.New()
	a, err := New(id, cfg, m.clock, m.logger, onUpdate)
	if err != nil {
		return nil, fmt.Errorf("create table: %w", err)
	}
	m.tables[id] = a
	m.logger.Info("table created", "table_id", id,
		"small_blind", cfg.Game.SmallBlind, "big_blind", cfg.Game.BigBlind,
		"max_players", cfg.Game.MaxPlayers)
	return a, nil
}

// Get looks a table up by ID.
func (m *Manager) Get(id string) (*Actor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.tables[id]
	return a, ok
}

// Remove stops a table and drops it from the lobby.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	a, ok := m.tables[id]
	if ok {
		delete(m.tables, id)
	}
	m.mu.Unlock()
	if !ok {
		return false
	}
	a.Stop()
	m.logger.Info("table removed", "table_id", id)
	return true
}

// List returns the open tables ordered by ID, which is also rough creation
// order.
func (m *Manager) List() []*Actor {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Actor, 0, len(m.tables))
	for _, a := range m.tables {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Close stops every table. The manager accepts no further Creates.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	tables := make([]*Actor, 0, len(m.tables))
	for id, a := range m.tables {
		tables = append(tables, a)
		delete(m.tables, id)
	}
	m.mu.Unlock()
	for _, a := range tables {
		a.Stop()
	}
}
