package game

import (
	"context"
	"log/slog"

	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/effect"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/particle"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/script"
	"gitlab.com/tozd/go/errors"
)

// Options describe the level to play and the services the world talks to.
type Options struct {
	Level      *level.Config
	LevelIndex int
	// Score carries over from the previous level.
	Score int

	Input    *input.Manager
	Audio    audio.Player
	Scripts  *script.Registry
	Settings Settings
	Seed     uint64
	// Autopilot attaches the autopilot script to the bird.
	Autopilot bool
}

// World is one level's ECS storage with its simulation and render
// schedulers.
type World struct {
	Storage   *ecs.Storage
	Scheduler *ecs.Scheduler

	renderer *ecs.Scheduler
	draw     *RenderSystem

	ctx      context.Context
	input    *input.Manager
	audio    audio.Player
	settings Settings

	bird     *ecs.EntityRef
	state    *ecs.Singleton[GameState]
	info     *ecs.Singleton[LevelInfo]
	shake    *ecs.Singleton[effect.ScreenShake]
	slowmo   *ecs.Singleton[effect.SlowMotionEffect]
	powerUps *ecs.Singleton[effect.PowerUps]
}

// NewRegistry returns a component registry with every type a world uses.
func NewRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	particle.Register(registry)
	return registry
}

func NewWorld(ctx context.Context, opts Options) (*World, error) {
	if opts.Level == nil {
		return nil, errors.New("no level")
	}
	if opts.Input == nil {
		opts.Input = input.NewManager(input.DefaultBindings())
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Scripts == nil {
		opts.Scripts = script.Builtin()
	}
	if opts.Settings == (Settings{}) {
		opts.Settings = DefaultSettings()
	}

	storage := ecs.NewStorage(NewRegistry())
	w := &World{
		Storage:  storage,
		ctx:      ctx,
		input:    opts.Input,
		audio:    opts.Audio,
		settings: opts.Settings,
	}

	info := newLevelInfo(opts.Level)
	w.info = ecs.NewSingleton(storage, info)
	w.state = ecs.NewSingleton(storage, GameState{
		Level:      info.Name,
		LevelIndex: opts.LevelIndex,
		Score:      opts.Score,
	})
	w.shake = ecs.NewSingleton(storage, effect.NewScreenShake(opts.Seed))
	w.slowmo = ecs.NewSingleton[effect.SlowMotionEffect](storage)
	w.powerUps = ecs.NewSingleton[effect.PowerUps](storage)
	ecs.NewSingleton[render.Camera](storage)
	ecs.NewSingleton[script.Collisions](storage)

	if _, err := level.Spawn(storage, opts.Level, opts.Scripts.Check); err != nil {
		return nil, errors.Errorf("spawning level %q: %w", info.Name, err)
	}
	w.spawnBird(opts)

	scripts := script.NewSystem(opts.Scripts)
	scripts.Flap = w.flap

	particles := particle.NewSystem(opts.Seed)
	particles.Disabled = !opts.Settings.Particles

	w.Scheduler = ecs.NewScheduler(storage)
	w.Scheduler.Register(&InputSystem{world: w})
	w.Scheduler.Register(scripts)
	w.Scheduler.Register(&PowerUpSystem{})
	w.Scheduler.Register(&PhysicsSystem{settings: opts.Settings})
	w.Scheduler.Register(&CollisionSystem{world: w})
	w.Scheduler.Register(&ScoreSystem{world: w})
	w.Scheduler.Register(particles)
	w.Scheduler.Register(&CameraSystem{shake: opts.Settings.Shake})

	w.draw = &RenderSystem{}
	w.renderer = ecs.NewScheduler(storage)
	w.renderer.Register(w.draw)

	slog.DebugContext(ctx, "world created", "level", info.Name, "entities", storage.Count())
	return w, nil
}

func (w *World) spawnBird(opts Options) {
	info := w.info.Get()
	comps := []any{
		component.GameObject{Name: "Bird", Active: true},
		component.Transform{X: BirdX, Y: info.Height/2 - BirdHeight/2, ScaleX: 1, ScaleY: 1},
		component.Physics{GravityScale: 1, MaxFall: opts.Settings.MaxFall},
		component.Sprite{Width: BirdWidth, Height: BirdHeight, Color: component.Orange, Layer: 5},
		component.Collider{Width: BirdWidth, Height: BirdHeight, Tag: "bird"},
		component.Bird{FlapVelocity: opts.Settings.FlapVelocity, Alive: true},
		particle.Feathers,
	}
	if opts.Autopilot {
		comps = append(comps, component.Script{Name: "autopilot"})
	}
	w.bird = w.Storage.CreateEntityRef(w.Storage.Spawn(comps...))
}

// Step advances the world by dt seconds of real time. Slow motion scales the
// simulated time; effect timers and the death timer run in real time.
func (w *World) Step(dt float64) {
	state := w.state.Get()
	state.Elapsed += dt
	if state.Dead {
		state.DeathTimer += dt
	}

	slowmo := w.slowmo.Get()
	scale := slowmo.Scale()
	slowmo.Update(dt)
	w.shake.Get().Update(dt)

	w.Scheduler.Once(dt * scale)
}

// Draw renders the world. It calls r.Begin but leaves r.End to the caller so
// overlays can be drawn on top.
func (w *World) Draw(r render.Renderer) {
	r.Begin(w.info.Get().Background)
	w.draw.Target = r
	w.renderer.Once(0)
	w.draw.Target = nil
}

func (w *World) State() *GameState {
	return w.state.Get()
}

func (w *World) Info() *LevelInfo {
	return w.info.Get()
}

func (w *World) PowerUps() *effect.PowerUps {
	return w.powerUps.Get()
}

// Bird returns the bird's id; it is zero once the bird entity is gone.
func (w *World) Bird() ecs.EntityId {
	id, _ := w.Storage.ResolveEntityRef(w.bird)
	return id
}

// Transform returns the bird's transform.
func (w *World) Transform() *component.Transform {
	return ecs.ReadComponent[component.Transform](w.Storage, w.Bird())
}

// Flap makes the bird flap outside of a system, for tests and tools.
func (w *World) Flap() {
	cmds := &ecs.Commands{}
	w.flap(&ecs.UpdateFrame{Commands: cmds, Storage: w.Storage}, w.Bird())
	cmds.Flush(w.Storage)
}

func (w *World) flap(frame *ecs.UpdateFrame, id ecs.EntityId) {
	bird := ecs.ReadComponent[component.Bird](frame.Storage, id)
	phys := ecs.ReadComponent[component.Physics](frame.Storage, id)
	if bird == nil || phys == nil || !bird.Alive {
		return
	}
	phys.VY = bird.FlapVelocity
	phys.Grounded = false
	w.state.Get().Flaps++
	w.audio.Play(audio.Flap)

	if e := ecs.ReadComponent[particle.Emitter](frame.Storage, id); e != nil {
		e.Burst += 5
		e.OffsetX = 0
		e.OffsetY = BirdHeight / 2
	}
}

func (w *World) kill(frame *ecs.UpdateFrame, b birdView, cause string) {
	if !b.Alive {
		return
	}
	b.Alive = false
	b.VX = 0

	state := w.state.Get()
	state.Dead = true
	state.Cause = cause

	if w.settings.Shake {
		w.shake.Get().Start(ShakeIntensity, ShakeDuration)
	}
	if w.settings.SlowMotion {
		w.slowmo.Get().Start(SlowMotionScale, SlowMotionTime)
	}
	w.audio.Play(audio.Hit)

	burst := particle.Explosion.WithBurst(40)
	burst.OneShot = true
	frame.Commands.Spawn(
		component.Transform{X: b.X + b.Width/2, Y: b.Y + b.Height/2, ScaleX: 1, ScaleY: 1},
		burst,
	)

	slog.InfoContext(w.ctx, "bird died", "level", state.Level, "cause", cause, "score", state.Score)
}

func (w *World) collect(frame *ecs.UpdateFrame, pickup colliderView) {
	w.powerUps.Get().Activate(pickup.Pickup.Kind)
	w.state.Get().PowerUps++
	w.audio.Play(audio.PowerUp)
	frame.Commands.Delete(pickup.EntityId)

	sparkle := particle.Sparkle.WithBurst(12)
	sparkle.Color = component.PowerUpColor(pickup.Pickup.Kind)
	sparkle.OneShot = true
	frame.Commands.Spawn(
		component.Transform{X: pickup.X + pickup.Width/2, Y: pickup.Y + pickup.Height/2, ScaleX: 1, ScaleY: 1},
		sparkle,
	)

	slog.DebugContext(w.ctx, "power-up collected", "kind", pickup.Pickup.Kind)
}
