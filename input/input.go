// Package input maps raw key names onto game actions (InputManager).
package input

import (
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

type Action int

const (
	Flap Action = iota
	Confirm
	Back
	Up
	Down
	Pause
	Debug
	Quit
)

var actionNames = [...]string{"flap", "confirm", "back", "up", "down", "pause", "debug", "quit"}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

var ErrUnknownAction = errors.Base("unknown input action")

func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range actionNames {
		if s == name {
			return Action(i), nil
		}
	}
	return 0, errors.Errorf("%w %q", ErrUnknownAction, s)
}

// Bindings maps a key name to the actions it triggers.
type Bindings map[string][]Action

func DefaultBindings() Bindings {
	return Bindings{
		"space":  {Flap, Confirm},
		"up":     {Up, Flap},
		"w":      {Up, Flap},
		"down":   {Down},
		"s":      {Down},
		"enter":  {Confirm},
		"esc":    {Back},
		"p":      {Pause},
		"f3":     {Debug},
		"q":      {Quit},
		"ctrl+c": {Quit},
	}
}

// ParseBindings turns config entries (key name to action names) into
// Bindings layered over the defaults. A key listed with no actions is unbound.
func ParseBindings(raw map[string][]string) (Bindings, error) {
	b := DefaultBindings()
	for key, names := range raw {
		key = NormalizeKey(key)
		actions := make([]Action, 0, len(names))
		for _, name := range names {
			a, err := ParseAction(name)
			if err != nil {
				return nil, errors.Errorf("binding %q: %w", key, err)
			}
			actions = append(actions, a)
		}
		if len(actions) == 0 {
			delete(b, key)
			continue
		}
		b[key] = actions
	}
	return b, nil
}

// Keys returns the keys bound to a, sorted.
func (b Bindings) Keys(a Action) []string {
	var keys []string
	for key, actions := range b {
		if slices.Contains(actions, a) {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys
}

// NormalizeKey lower-cases a key name and maps common aliases.
func NormalizeKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	switch key {
	case " ":
		return "space"
	case "escape":
		return "esc"
	case "return":
		return "enter"
	}
	return key
}

// Manager tracks which actions are held and which were pressed this frame.
// Call EndFrame once per simulated frame after the game has read input.
type Manager struct {
	bindings Bindings
	keys     map[string]bool
	held     map[Action]int
	tapped   map[Action]bool
	pressed  map[Action]bool
}

func NewManager(bindings Bindings) *Manager {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &Manager{
		bindings: bindings,
		keys:     make(map[string]bool),
		held:     make(map[Action]int),
		tapped:   make(map[Action]bool),
		pressed:  make(map[Action]bool),
	}
}

func (m *Manager) Bindings() Bindings {
	return m.bindings
}

// Press records a key-down. Auto-repeat of an already held key is ignored.
func (m *Manager) Press(key string) {
	key = NormalizeKey(key)
	if m.keys[key] {
		return
	}
	m.keys[key] = true
	for _, a := range m.bindings[key] {
		m.held[a]++
		m.pressed[a] = true
	}
}

func (m *Manager) Release(key string) {
	key = NormalizeKey(key)
	if !m.keys[key] {
		return
	}
	delete(m.keys, key)
	for _, a := range m.bindings[key] {
		if m.held[a] > 0 {
			m.held[a]--
		}
	}
}

// Tap is a press and release inside one frame, for backends that never
// report key-up.
func (m *Manager) Tap(key string) {
	for _, a := range m.bindings[NormalizeKey(key)] {
		m.pressed[a] = true
		m.tapped[a] = true
	}
}

// Trigger fires an action directly, bypassing bindings.
func (m *Manager) Trigger(a Action) {
	m.pressed[a] = true
	m.tapped[a] = true
}

func (m *Manager) Down(a Action) bool {
	return m.held[a] > 0 || m.tapped[a]
}

func (m *Manager) JustPressed(a Action) bool {
	return m.pressed[a]
}

// EndFrame clears edge-triggered state.
func (m *Manager) EndFrame() {
	clear(m.pressed)
	clear(m.tapped)
}

// Reset forgets every held key.
func (m *Manager) Reset() {
	clear(m.keys)
	clear(m.held)
	m.EndFrame()
}
