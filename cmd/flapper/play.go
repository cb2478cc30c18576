package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep/speaker"
	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/config"
	"github.com/plus3/flapper/ecs/debugui"
	debugebiten "github.com/plus3/flapper/ecs/debugui/ebiten"
	"github.com/plus3/flapper/game"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/level"
	ebitenrender "github.com/plus3/flapper/render/ebiten"
	"github.com/plus3/flapper/render/term"
	"github.com/plus3/flapper/resource"
	"github.com/plus3/flapper/scene"
	"github.com/plus3/flapper/score"
	"github.com/plus3/flapper/script"
	"github.com/urfave/cli/v2"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

func (a *application) playCommand() *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "play the game",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "backend", Usage: "ebiten, terminal or headless (default from config)"},
			&cli.StringFlag{Name: "level", Usage: "start this level instead of showing the menu"},
			&cli.BoolFlag{Name: "autopilot", Usage: "let the autopilot fly"},
			&cli.BoolFlag{Name: "debug", Usage: "enable the ImGui debug overlay (ebiten only, toggle with F3)"},
			&cli.IntFlag{Name: "frames", Usage: "headless: stop after this many frames", Value: 60 * 60 * 5},
			&cli.IntFlag{Name: "flap-every", Usage: "headless: tap flap every N frames"},
		},
		Action: a.play,
	}
}

// session holds everything a play run needs, built from the config.
type session struct {
	resources *resource.Manager
	scores    score.Store
	input     *input.Manager
	audio     audio.Player
	manager   *scene.Manager
	services  *scene.Services
}

func (a *application) newSession(ctx context.Context, backend string, autopilot bool) (*session, error) {
	cfg := a.cfg

	resources, err := resource.Open(cfg.Levels.Dir)
	if err != nil {
		return nil, err
	}
	if err := resources.Preload(ctx); err != nil {
		return nil, err
	}
	levels, err := level.NewManager(resources, cfg.Levels.EndlessSeed)
	if err != nil {
		return nil, err
	}

	bindings, err := cfg.Bindings()
	if err != nil {
		return nil, err
	}

	scores, err := score.Open(ctx, cfg.Scores.Config)
	if err != nil {
		return nil, err
	}

	s := &session{
		resources: resources,
		scores:    scores,
		input:     input.NewManager(bindings),
		audio:     audio.Nop{},
	}
	if cfg.Audio.Enabled && backend != config.BackendHeadless {
		s.audio = startSpeaker(ctx, resources, cfg.Audio.Volume)
	}

	s.services = &scene.Services{
		Levels:    levels,
		Scores:    scores,
		Input:     s.input,
		Audio:     s.audio,
		Scripts:   script.Builtin(),
		Settings:  settings(cfg),
		Player:    cfg.Scores.Player,
		Seed:      cfg.Levels.EndlessSeed,
		Autopilot: autopilot,
	}
	s.manager = scene.New(s.services)
	return s, nil
}

func (s *session) Close() error {
	return s.scores.Close()
}

// start enters the menu, or goes straight to the named level.
func (s *session) start(ctx context.Context, name string) error {
	if name == "" {
		return s.manager.Start(ctx, scene.SceneMenu)
	}
	if err := s.services.Levels.SelectName(name); err != nil {
		return err
	}
	return s.manager.Enter(ctx, scene.Transition{To: scene.ScenePlay, Level: s.services.Levels.Index()})
}

func settings(cfg config.Config) game.Settings {
	return game.Settings{
		FlapVelocity: cfg.Physics.FlapVelocity,
		ScrollSpeed:  cfg.Physics.ScrollSpeed,
		MaxFall:      cfg.Physics.MaxFall,
		Shake:        cfg.Effects.Shake,
		SlowMotion:   cfg.Effects.SlowMo,
		Particles:    cfg.Effects.Particles,
	}
}

func startSpeaker(ctx context.Context, src audio.SoundSource, volume float64) audio.Player {
	if err := speaker.Init(audio.SampleRate, audio.SampleRate.N(time.Second/10)); err != nil {
		slog.WarnContext(ctx, "audio disabled", "err", err)
		return audio.Nop{}
	}
	player := audio.NewMixerPlayer(src, volume)
	speaker.Play(player.Streamer())
	return player
}

func (a *application) play(c *cli.Context) error {
	ctx := c.Context
	backend := a.cfg.Backend
	if b := c.String("backend"); b != "" {
		backend = b
	}

	s, err := a.newSession(ctx, backend, c.Bool("autopilot"))
	if err != nil {
		return err
	}
	defer s.Close()

	name := c.String("level")
	if name == "" && backend == config.BackendHeadless {
		// nobody can drive the menu
		name = s.services.Levels.Current()
	}
	if err := s.start(ctx, name); err != nil {
		return err
	}
	slog.InfoContext(ctx, "starting", "backend", backend, "level", s.services.Levels.Current())

	switch backend {
	case config.BackendEbiten:
		return a.playEbiten(ctx, s, c.Bool("debug") || a.cfg.Debug)
	case config.BackendTerminal:
		return runLoop(ctx, func(ctx context.Context) error {
			return playTerminal(ctx, s, a.cfg.Window.FPS)
		})
	case config.BackendHeadless:
		return runLoop(ctx, func(ctx context.Context) error {
			frames := c.Int("frames")
			taps := input.NewScripted()
			if n := c.Int("flap-every"); n > 0 {
				taps.Every(n, n, frames, "space")
			}
			return playHeadless(ctx, s, taps, c.App.Writer, a.cfg.Window.FPS, frames)
		})
	}
	return errors.Errorf("%w: backend %q", config.ErrInvalid, backend)
}

// runLoop runs loop until it returns or the process is interrupted.
func runLoop(ctx context.Context, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return loop(gctx)
	})
	g.Go(func() error {
		select {
		case sig := <-sigs:
			slog.InfoContext(ctx, "shutting down", "signal", sig.String())
			cancel()
		case <-gctx.Done():
		}
		return nil
	})
	return g.Wait()
}

func (a *application) playEbiten(ctx context.Context, s *session, debug bool) error {
	w := a.cfg.Window
	var overlay ebitenrender.Overlay
	if debug {
		overlay = debugebiten.NewOverlay(w.Title, w.Width, w.Height, func() debugui.Target {
			return debugTarget(s.manager)
		})
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	// ebiten must run on the main goroutine
	return ebitenrender.Run(ctx, w.Title, w.Width, w.Height, s.manager, s.input, overlay)
}

func debugTarget(m *scene.Manager) debugui.Target {
	play, ok := m.Current().(*scene.Play)
	if !ok || play.World() == nil {
		return debugui.Target{}
	}
	world := play.World()
	return debugui.Target{
		Label:     fmt.Sprintf("level %s", world.State().Level),
		Storage:   world.Storage,
		Scheduler: world.Scheduler,
	}
}

func playTerminal(ctx context.Context, s *session, fps int) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Errorf("opening terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return errors.Errorf("opening terminal: %w", err)
	}
	defer screen.Fini()
	return term.Run(ctx, screen, s.input, s.manager, fps)
}

// playHeadless steps the scenes at a fixed rate without drawing and prints
// the result of the first finished run.
func playHeadless(ctx context.Context, s *session, taps *input.Scripted, w io.Writer, fps, frames int) error {
	dt := 1 / float64(fps)
	for frame := 0; frame < frames; frame++ {
		if err := ctx.Err(); err != nil {
			return nil
		}
		taps.Apply(s.input)
		if err := s.manager.Update(ctx, dt); err != nil {
			return err
		}
		s.input.EndFrame()

		if over, ok := s.manager.Current().(*scene.GameOver); ok {
			printResult(w, over.Result())
			return nil
		}
		if s.manager.Done() {
			return nil
		}
	}
	slog.InfoContext(ctx, "frame limit reached", "frames", frames)
	return nil
}

func printResult(w io.Writer, r scene.Result) {
	outcome := "died"
	if r.Won {
		outcome = "won"
	}
	fmt.Fprintf(w, "%s on %s (started %s): score %d, best %d", outcome, r.Reached, r.Level, r.Score, r.Best)
	if r.NewBest {
		fmt.Fprint(w, " (new best)")
	}
	if r.Cause != "" && !r.Won {
		fmt.Fprintf(w, ", hit %s", r.Cause)
	}
	fmt.Fprintln(w)
}
