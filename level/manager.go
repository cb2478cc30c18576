package level

import (
	"context"
	"log/slog"

	"gitlab.com/tozd/go/errors"
)

// EndlessPipes is the number of pipes in each generated endless chunk.
const EndlessPipes = 40

var ErrNoSuchLevel = errors.Base("no such level")

// Source provides level files by name.
type Source interface {
	Levels() ([]string, error)
	Level(name string) (*Config, error)
}

// Manager walks an ordered list of levels (LevelManager). Past the end of the
// list, or when the list is empty, it serves generated endless levels.
type Manager struct {
	src     Source
	names   []string
	index   int
	endless bool
	seed    uint64
	chunk   uint64
}

// NewManager lists src's levels. seed drives endless generation.
func NewManager(src Source, seed uint64) (*Manager, error) {
	names, err := src.Levels()
	if err != nil {
		return nil, errors.Errorf("listing levels: %w", err)
	}
	return &Manager{
		src:     src,
		names:   names,
		endless: len(names) == 0,
		seed:    seed,
	}, nil
}

// Names returns the configured level names in play order.
func (m *Manager) Names() []string {
	return m.names
}

func (m *Manager) Len() int {
	return len(m.names)
}

// Index is the position of the current level; it equals Len() in endless
// mode.
func (m *Manager) Index() int {
	if m.endless {
		return len(m.names)
	}
	return m.index
}

func (m *Manager) Endless() bool {
	return m.endless
}

// Current returns the current level's name.
func (m *Manager) Current() string {
	if m.endless {
		return EndlessName
	}
	return m.names[m.index]
}

// Select jumps to level i. Selecting Len() enters endless mode.
func (m *Manager) Select(i int) error {
	switch {
	case i == len(m.names):
		m.endless = true
		m.chunk = 0
	case i >= 0 && i < len(m.names):
		m.endless = false
		m.index = i
	default:
		return errors.Errorf("%w: index %d of %d", ErrNoSuchLevel, i, len(m.names))
	}
	return nil
}

// SelectName jumps to the level called name, or to endless mode.
func (m *Manager) SelectName(name string) error {
	if name == EndlessName {
		return m.Select(len(m.names))
	}
	for i, n := range m.names {
		if n == name {
			return m.Select(i)
		}
	}
	return errors.Errorf("%w: %q", ErrNoSuchLevel, name)
}

// HasNext reports whether Next would move to another level. Endless mode
// always has a next chunk.
func (m *Manager) HasNext() bool {
	return m.endless || m.index+1 < len(m.names)
}

// Next advances to the following level and reports whether there was one.
func (m *Manager) Next() bool {
	if m.endless {
		m.chunk++
		return true
	}
	if m.index+1 >= len(m.names) {
		return false
	}
	m.index++
	return true
}

// Reset goes back to the first level, or the first endless chunk.
func (m *Manager) Reset() {
	m.index = 0
	m.chunk = 0
	m.endless = len(m.names) == 0
}

// Load returns the current level.
func (m *Manager) Load(ctx context.Context) (*Config, error) {
	if m.endless {
		cfg := Generate(m.seed+m.chunk, EndlessPipes)
		slog.DebugContext(ctx, "generated endless level", "seed", m.seed+m.chunk, "pipes", EndlessPipes)
		return cfg, nil
	}

	name := m.names[m.index]
	cfg, err := m.src.Level(name)
	if err != nil {
		return nil, errors.Errorf("loading level %q: %w", name, err)
	}
	slog.InfoContext(ctx, "level loaded", "level", name, "index", m.index, "objects", len(cfg.Objects))
	return cfg, nil
}
