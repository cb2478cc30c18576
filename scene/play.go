package scene

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/game"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/score"
	"gitlab.com/tozd/go/errors"
)

// Play runs levels from the selected one onwards, carrying the score
// between them.
type Play struct {
	svc        *Services
	world      *game.World
	startIndex int
	startName  string
	paused     bool
}

func NewPlay(svc *Services) *Play {
	return &Play{svc: svc}
}

func (p *Play) ID() SceneID { return ScenePlay }

func (p *Play) Enter(ctx context.Context, t Transition) error {
	if err := p.svc.Levels.Select(t.Level); err != nil {
		return err
	}
	p.startIndex = t.Level
	p.startName = p.svc.levelName(t.Level)
	p.paused = false
	return p.load(ctx, 0)
}

func (p *Play) load(ctx context.Context, carried int) error {
	cfg, err := p.svc.Levels.Load(ctx)
	if err != nil {
		return err
	}
	idx := p.svc.Levels.Index()
	w, err := game.NewWorld(ctx, game.Options{
		Level:      cfg,
		LevelIndex: idx,
		Score:      carried,
		Input:      p.svc.Input,
		Audio:      p.svc.Audio,
		Scripts:    p.svc.Scripts,
		Settings:   p.svc.Settings,
		Seed:       p.svc.Seed + uint64(idx),
		Autopilot:  p.svc.Autopilot,
	})
	if err != nil {
		return errors.Errorf("starting level %q: %w", cfg.Name, err)
	}
	p.world = w
	return nil
}

// World is the running level, or nil between runs.
func (p *Play) World() *game.World {
	return p.world
}

func (p *Play) Paused() bool {
	return p.paused
}

func (p *Play) Update(ctx context.Context, dt float64) (Transition, error) {
	in := p.svc.Input
	switch {
	case in.JustPressed(input.Quit):
		return Transition{To: SceneQuit}, nil
	case in.JustPressed(input.Back):
		return Transition{To: SceneMenu}, nil
	case in.JustPressed(input.Pause):
		p.paused = !p.paused
	}
	if p.paused || p.world == nil {
		return Transition{}, nil
	}

	p.world.Step(dt)
	state := p.world.State()

	switch {
	case state.Finished:
		if p.svc.Levels.Next() {
			slog.InfoContext(ctx, "next level", "score", state.Score)
			return Transition{}, p.load(ctx, state.Score)
		}
		return p.finish(ctx, state, true), nil
	case state.Over():
		return p.finish(ctx, state, false), nil
	}
	return Transition{}, nil
}

func (p *Play) finish(ctx context.Context, state *game.GameState, won bool) Transition {
	res := &Result{
		Level:      p.startName,
		LevelIndex: p.startIndex,
		Reached:    state.Level,
		Score:      state.Score,
		Won:        won,
		Cause:      state.Cause,
	}

	if p.svc.Scores != nil {
		newBest, err := p.svc.Scores.Submit(ctx, score.Entry{
			Level:  p.startName,
			Player: p.svc.Player,
			Score:  state.Score,
		})
		if err != nil {
			slog.WarnContext(ctx, "submitting score", "err", err)
		}
		res.NewBest = newBest
		if best, err := p.svc.Scores.Best(ctx, p.startName); err == nil {
			res.Best = best
		}
	}

	slog.InfoContext(ctx, "run finished",
		"level", res.Level, "reached", res.Reached, "score", res.Score, "won", won, "new_best", res.NewBest)
	return Transition{To: SceneGameOver, Result: res, Level: p.startIndex}
}

func (p *Play) Draw(r render.Renderer) {
	if p.world == nil {
		r.Begin(component.Black)
		return
	}
	p.world.Draw(r)
	if p.paused {
		render.CenterText(r, 280, "PAUSED", component.White)
		render.CenterText(r, 300, fmt.Sprintf("press %s to resume", firstKey(p.svc.Input, input.Pause)), component.White)
	}
}

func firstKey(in *input.Manager, a input.Action) string {
	if keys := in.Bindings().Keys(a); len(keys) > 0 {
		return keys[0]
	}
	return a.String()
}

func (p *Play) Exit() {
	p.world = nil
}
