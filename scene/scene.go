// Package scene drives the game's screens as a state machine. Each Scene
// handles its own input and drawing and returns a Transition when it wants
// another scene to take over.
package scene

import (
	"context"
	"log/slog"

	"github.com/plus3/flapper/logging"
	"github.com/plus3/flapper/render"
	"gitlab.com/tozd/go/errors"
)

var ErrUnknownScene = errors.Base("unknown scene")

type SceneID int

const (
	SceneNone SceneID = iota
	SceneMenu
	ScenePlay
	SceneGameOver
	// SceneQuit ends the loop.
	SceneQuit
)

func (id SceneID) String() string {
	switch id {
	case SceneNone:
		return "none"
	case SceneMenu:
		return "menu"
	case ScenePlay:
		return "play"
	case SceneGameOver:
		return "gameover"
	case SceneQuit:
		return "quit"
	}
	return "unknown"
}

// Result summarises a finished run.
type Result struct {
	// Level is the level the run started on; scores are kept per start level.
	Level      string
	LevelIndex int
	Reached    string
	Score      int
	Best       int
	NewBest    bool
	Won        bool
	Cause      string
}

// Transition asks the Manager to switch scenes. The zero value stays put.
type Transition struct {
	To     SceneID
	Result *Result
	// Level is the index to play, as understood by level.Manager.Select.
	Level int
}

type Scene interface {
	ID() SceneID
	Enter(ctx context.Context, t Transition) error
	Update(ctx context.Context, dt float64) (Transition, error)
	Draw(r render.Renderer)
	Exit()
}

// Manager owns the scenes and the current one. It implements render.App.
type Manager struct {
	scenes  map[SceneID]Scene
	current Scene
	done    bool
}

func NewManager(scenes ...Scene) *Manager {
	m := &Manager{scenes: make(map[SceneID]Scene)}
	for _, s := range scenes {
		m.Register(s)
	}
	return m
}

func (m *Manager) Register(s Scene) {
	m.scenes[s.ID()] = s
}

// Start enters scene id.
func (m *Manager) Start(ctx context.Context, id SceneID) error {
	return m.apply(ctx, Transition{To: id})
}

// Enter switches to t.To as if the current scene had returned t.
func (m *Manager) Enter(ctx context.Context, t Transition) error {
	return m.apply(ctx, t)
}

func (m *Manager) Current() Scene {
	return m.current
}

func (m *Manager) Done() bool {
	return m.done
}

func (m *Manager) Update(ctx context.Context, dt float64) error {
	if m.done || m.current == nil {
		return nil
	}
	t, err := m.current.Update(logging.With(ctx, "scene", m.current.ID().String()), dt)
	if err != nil {
		return errors.Errorf("updating %s: %w", m.current.ID(), err)
	}
	if t.To == SceneNone {
		return nil
	}
	return m.apply(ctx, t)
}

func (m *Manager) apply(ctx context.Context, t Transition) error {
	from := SceneNone
	if m.current != nil {
		from = m.current.ID()
	}

	if t.To == SceneQuit {
		if m.current != nil {
			m.current.Exit()
		}
		m.current = nil
		m.done = true
		slog.InfoContext(ctx, "quitting", "from", from)
		return nil
	}

	next, ok := m.scenes[t.To]
	if !ok {
		return errors.Errorf("%w: %s", ErrUnknownScene, t.To)
	}
	// the previous scene stays current if next fails to enter
	if err := next.Enter(logging.With(ctx, "scene", t.To.String()), t); err != nil {
		return errors.Errorf("entering %s: %w", t.To, err)
	}
	if m.current != nil && m.current != next {
		m.current.Exit()
	}
	m.current = next
	slog.InfoContext(ctx, "scene changed", "from", from, "to", t.To)
	return nil
}

// Draw renders the current scene and finishes the frame.
func (m *Manager) Draw(r render.Renderer) {
	if m.current == nil {
		return
	}
	m.current.Draw(r)
	if err := r.End(); err != nil {
		slog.Error("presenting frame", "err", err)
	}
}
