package main

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/game"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/resource"
	"github.com/plus3/flapper/script"
	"github.com/urfave/cli/v2"
)

func (a *application) benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "run the autopilot headless and report simulation timings",
		Flags: []cli.Flag{
			&cli.DurationFlag{Name: "duration", Value: 10 * time.Second, Usage: "how long to run"},
			&cli.StringFlag{Name: "level", Value: level.EndlessName, Usage: "level to fly"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "seed for endless levels and effects"},
		},
		Action: a.bench,
	}
}

func (a *application) bench(c *cli.Context) error {
	ctx := c.Context
	name := c.String("level")
	seed := c.Uint64("seed")

	var res *resource.Manager
	if name != level.EndlessName {
		var err error
		if res, err = resource.Open(a.cfg.Levels.Dir); err != nil {
			return err
		}
	}

	b := &bencher{
		report: &Report{
			Duration: c.Duration("duration"),
			Level:    name,
			Seed:     seed,
		},
		load: func(run int) (*level.Config, error) {
			if res == nil {
				return level.Generate(seed+uint64(run), level.EndlessPipes), nil
			}
			return res.Level(name)
		},
		settings: settings(a.cfg),
		scripts:  script.Builtin(),
		systems:  make(map[string]*SystemTime),
	}

	slog.InfoContext(ctx, "bench started", "level", name, "duration", b.report.Duration)
	if err := b.run(ctx); err != nil {
		return err
	}
	slog.InfoContext(ctx, "bench finished", "runs", b.report.Runs, "frames", b.report.Frames)

	fmt.Fprintln(c.App.Writer, "\n--- Bench Report ---")
	if err := b.report.Generate(c.App.Writer); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "--- End of Report ---")
	return nil
}

type bencher struct {
	report   *Report
	load     func(run int) (*level.Config, error)
	settings game.Settings
	scripts  *script.Registry
	systems  map[string]*SystemTime
	order    []string
}

func (b *bencher) run(ctx context.Context) error {
	r := b.report
	runtime.ReadMemStats(&r.MemStatsStart)

	ctx, cancel := context.WithTimeout(ctx, r.Duration)
	defer cancel()

	const dt = 1.0 / 60
	start := time.Now()
	var world *game.World

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		if world == nil {
			cfg, err := b.load(r.Runs)
			if err != nil {
				return err
			}
			world, err = game.NewWorld(ctx, game.Options{
				Level:     cfg,
				Audio:     audio.Nop{},
				Scripts:   b.scripts,
				Settings:  b.settings,
				Seed:      r.Seed + uint64(r.Runs),
				Autopilot: true,
			})
			if err != nil {
				return err
			}
		}

		stepStart := time.Now()
		world.Step(dt)
		r.StepTime.Samples = append(r.StepTime.Samples, time.Since(stepStart))
		r.Frames++

		if state := world.State(); state.Finished || state.Over() {
			b.finishRun(world)
			world = nil
		}
	}

	if world != nil {
		b.finishRun(world)
	}
	r.TotalTime = time.Since(start)
	r.StepTime.Finalize()
	for _, name := range b.order {
		r.Systems = append(r.Systems, *b.systems[name])
	}
	runtime.ReadMemStats(&r.MemStatsEnd)
	return nil
}

func (b *bencher) finishRun(world *game.World) {
	r := b.report
	state := world.State()
	r.Runs++
	switch {
	case state.Finished:
		r.Wins++
	case state.Dead:
		r.Deaths++
	}
	r.Score += state.Score
	r.BestRun = max(r.BestRun, state.Score)
	r.Entities = world.Storage.Count()
	b.addSystems(world.Scheduler.GetStats())
}

func (b *bencher) addSystems(stats *ecs.SchedulerStats) {
	for _, s := range stats.Systems {
		acc, ok := b.systems[s.Name]
		if !ok {
			acc = &SystemTime{Name: s.Name}
			b.systems[s.Name] = acc
			b.order = append(b.order, s.Name)
		}
		acc.Calls += s.ExecutionCount
		acc.Total += s.TotalDuration
		acc.Max = max(acc.Max, s.MaxDuration)
	}
}
