package game

import (
	"log/slog"
	"strings"

	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/effect"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/script"
)

type birdView struct {
	ecs.EntityId
	*component.Transform
	*component.Physics
	*component.Collider
	*component.Bird
}

type colliderView struct {
	ecs.EntityId
	*component.Transform
	*component.Collider
	Pickup *component.PowerUpPickup `ecs:"optional"`
}

// InputSystem turns the Flap action into a flap.
type InputSystem struct {
	Birds ecs.Query[birdView]

	world *World
}

func (s *InputSystem) Execute(frame *ecs.UpdateFrame) {
	if !s.world.input.JustPressed(input.Flap) {
		return
	}
	for b := range s.Birds.Iter() {
		s.world.flap(frame, b.EntityId)
	}
}

// PowerUpSystem ticks power-up timers and applies shrink to the bird.
type PowerUpSystem struct {
	Birds ecs.Query[struct {
		Transform *component.Transform
		Collider  *component.Collider
		Sprite    *component.Sprite
		Bird      *component.Bird
	}]
	PowerUps ecs.Singleton[effect.PowerUps]
}

func (s *PowerUpSystem) Execute(frame *ecs.UpdateFrame) {
	powerUps := s.PowerUps.Get()
	for _, kind := range powerUps.Update(frame.DeltaTime) {
		slog.Debug("power-up expired", "kind", kind)
	}

	mult := powerUps.SizeMultiplier()
	for b := range s.Birds.Iter() {
		height := BirdHeight * mult
		if b.Collider.Height == height {
			continue
		}
		center := b.Transform.Y + b.Collider.Height/2
		b.Collider.Width = BirdWidth * mult
		b.Collider.Height = height
		b.Transform.Y = center - height/2
		b.Sprite.Width = int(b.Collider.Width)
		b.Sprite.Height = int(b.Collider.Height)
	}
}

// PhysicsSystem integrates velocity and gravity with explicit Euler steps.
type PhysicsSystem struct {
	Bodies ecs.Query[struct {
		*component.Transform
		*component.Physics
		Bird *component.Bird `ecs:"optional"`
	}]
	Level    ecs.Singleton[LevelInfo]
	PowerUps ecs.Singleton[effect.PowerUps]

	settings Settings
}

func (s *PhysicsSystem) Execute(frame *ecs.UpdateFrame) {
	dt := frame.DeltaTime
	gravity := s.Level.Get().Gravity
	scroll := s.settings.ScrollSpeed * s.PowerUps.Get().ScrollMultiplier()

	for b := range s.Bodies.Iter() {
		if b.Bird != nil && b.Bird.Alive {
			b.VX = scroll
		}

		if !b.Grounded {
			b.VY += gravity * b.GravityScale * dt
		}
		maxFall := b.MaxFall
		if maxFall <= 0 {
			maxFall = s.settings.MaxFall
		}
		b.VY = min(b.VY, maxFall)

		b.X += b.VX * dt
		b.Y += b.VY * dt
		if b.Y < 0 {
			b.Y = 0
			b.VY = 0
		}

		if b.Bird != nil {
			b.Rotation = min(maxRotation, max(minRotation, b.VY*maxRotation/maxFall))
		}
	}
}

// CollisionSystem tests the bird's box against every other collider.
type CollisionSystem struct {
	Birds      ecs.Query[birdView]
	Colliders  ecs.Query[colliderView]
	PowerUps   ecs.Singleton[effect.PowerUps]
	Collisions ecs.Singleton[script.Collisions]

	world *World
}

func overlaps(ax, ay, aw, ah, bx, by, bw, bh float64) bool {
	return ax < bx+bw && ax+aw > bx && ay < by+bh && ay+ah > by
}

func (s *CollisionSystem) Execute(frame *ecs.UpdateFrame) {
	invincible := s.PowerUps.Get().Active(component.PowerUpInvincibility)

	for b := range s.Birds.Iter() {
		for c := range s.Colliders.Iter() {
			if c.EntityId == b.EntityId {
				continue
			}
			if !overlaps(b.X, b.Y, b.Collider.Width, b.Collider.Height, c.X, c.Y, c.Collider.Width, c.Collider.Height) {
				continue
			}

			tag := c.Tag
			switch {
			case tag == component.TagGround:
				b.Y = c.Y - b.Collider.Height
				b.VY = 0
				b.Grounded = true
				s.world.kill(frame, b, tag)
			case tag == component.TagPipe:
				if b.Alive && !invincible {
					s.world.kill(frame, b, tag)
				}
			case c.Pickup != nil && c.IsTrigger:
				if b.Alive {
					s.world.collect(frame, c)
				}
			case strings.HasPrefix(tag, component.TagPowerUp):
				continue
			}

			if q := s.Collisions.Get(); q != nil {
				q.Report(b.EntityId, tag)
			}
		}
	}
}

// ScoreSystem counts pipes passed and detects the end of the level.
type ScoreSystem struct {
	Birds ecs.Query[birdView]
	Pipes ecs.Query[struct{ *component.Pipe }]
	State ecs.Singleton[GameState]
	Level ecs.Singleton[LevelInfo]

	world *World
}

func (s *ScoreSystem) Execute(frame *ecs.UpdateFrame) {
	state := s.State.Get()
	bird, ok := s.Birds.First()
	if !ok || !bird.Alive || state.Finished {
		return
	}

	for p := range s.Pipes.Iter() {
		if p.Scored || bird.X <= p.Right() {
			continue
		}
		p.Scored = true
		state.Score++
		s.world.audio.Play(audio.Score)
	}

	if bird.X > s.Level.Get().End {
		state.Finished = true
		slog.InfoContext(s.world.ctx, "level finished", "level", state.Level, "score", state.Score)
	}
}

// CameraSystem follows the bird, applies shake and keeps the ground under
// the view.
type CameraSystem struct {
	Birds ecs.Query[struct {
		*component.Transform
		*component.Bird
	}]
	Grounds ecs.Query[struct {
		*component.Transform
		*component.Collider
	}]
	Camera ecs.Singleton[render.Camera]
	Shake  ecs.Singleton[effect.ScreenShake]

	shake bool
}

func (s *CameraSystem) Execute(frame *ecs.UpdateFrame) {
	cam := s.Camera.Get()
	if bird, ok := s.Birds.First(); ok {
		cam.X = max(0, bird.X-BirdX)
	}

	cam.ShakeX, cam.ShakeY = 0, 0
	if s.shake {
		cam.ShakeX, cam.ShakeY = s.Shake.Get().Offset()
	}

	for g := range s.Grounds.Iter() {
		if g.Tag == component.TagGround {
			g.X = cam.X
		}
	}
}
