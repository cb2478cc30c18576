package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/score"
)

// GameOver shows the result of a run and the level's top scores.
type GameOver struct {
	svc    *Services
	result Result
	top    []score.Entry
}

func NewGameOver(svc *Services) *GameOver {
	return &GameOver{svc: svc}
}

func (g *GameOver) ID() SceneID { return SceneGameOver }

func (g *GameOver) Result() Result {
	return g.result
}

func (g *GameOver) Enter(ctx context.Context, t Transition) error {
	g.result = Result{}
	if t.Result != nil {
		g.result = *t.Result
	}
	g.top = nil
	if g.svc.Scores != nil {
		top, err := g.svc.Scores.Top(ctx, g.result.Level, 5)
		if err != nil {
			slog.WarnContext(ctx, "reading top scores", "err", err)
		}
		g.top = top
	}
	return nil
}

func (g *GameOver) Update(context.Context, float64) (Transition, error) {
	in := g.svc.Input
	switch {
	case in.JustPressed(input.Quit):
		return Transition{To: SceneQuit}, nil
	case in.JustPressed(input.Confirm):
		return Transition{To: ScenePlay, Level: g.result.LevelIndex}, nil
	case in.JustPressed(input.Back):
		return Transition{To: SceneMenu}, nil
	}
	return Transition{}, nil
}

func (g *GameOver) Draw(r render.Renderer) {
	r.Begin(component.Black)

	title, c := "GAME OVER", component.Red
	if g.result.Won {
		title, c = "YOU WIN!", component.Gold
	}
	render.CenterText(r, 100, title, c)
	render.CenterText(r, 150, fmt.Sprintf("Score: %d", g.result.Score), component.White)
	render.CenterText(r, 170, fmt.Sprintf("Best: %d", g.result.Best), component.White)
	if g.result.NewBest {
		render.CenterText(r, 195, "New best!", component.Gold)
	}

	y := 250.0
	for i, e := range g.top {
		render.CenterText(r, y, fmt.Sprintf("%d. %-12s %4d", i+1, e.Player, e.Score), component.White)
		y += render.GlyphHeight
	}

	render.CenterText(r, 500, "enter retry  esc menu  q quit", component.White)
}

func (g *GameOver) Exit() {}
