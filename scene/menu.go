package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
)

// Menu lists the levels plus endless mode.
type Menu struct {
	svc    *Services
	items  []string
	cursor int
	best   int
}

func NewMenu(svc *Services) *Menu {
	return &Menu{svc: svc}
}

func (m *Menu) ID() SceneID { return SceneMenu }

func (m *Menu) Enter(ctx context.Context, _ Transition) error {
	m.items = append(append(m.items[:0], m.svc.Levels.Names()...), "Endless")
	m.cursor = min(m.cursor, len(m.items)-1)
	m.refreshBest(ctx)
	return nil
}

// Cursor is the highlighted item; Len(levels) is endless.
func (m *Menu) Cursor() int {
	return m.cursor
}

func (m *Menu) Best() int {
	return m.best
}

func (m *Menu) refreshBest(ctx context.Context) {
	m.best = 0
	if m.svc.Scores == nil {
		return
	}
	best, err := m.svc.Scores.Best(ctx, m.svc.levelName(m.cursor))
	if err != nil {
		slog.WarnContext(ctx, "reading best score", "err", err)
		return
	}
	m.best = best
}

func (m *Menu) Update(ctx context.Context, _ float64) (Transition, error) {
	in := m.svc.Input
	n := len(m.items)

	switch {
	case in.JustPressed(input.Quit), in.JustPressed(input.Back):
		return Transition{To: SceneQuit}, nil
	case in.JustPressed(input.Confirm):
		return Transition{To: ScenePlay, Level: m.cursor}, nil
	case in.JustPressed(input.Up):
		m.cursor = (m.cursor - 1 + n) % n
		m.refreshBest(ctx)
	case in.JustPressed(input.Down):
		m.cursor = (m.cursor + 1) % n
		m.refreshBest(ctx)
	}
	return Transition{}, nil
}

func (m *Menu) Draw(r render.Renderer) {
	r.Begin(component.Sky)
	render.CenterText(r, 120, "F L A P P E R", component.White)

	for i, item := range m.items {
		label := "  " + item
		c := component.White
		if i == m.cursor {
			label = "> " + item
			c = component.Gold
		}
		render.CenterText(r, 220+float64(i)*24, label, c)
	}

	render.CenterText(r, 460, fmt.Sprintf("Best: %d", m.best), component.White)
	render.CenterText(r, 520, "up/down choose  enter play  esc quit", component.White)
}

func (m *Menu) Exit() {}
