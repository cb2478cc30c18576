// Package particle implements short-lived point particles and the emitters
// that spawn them.
package particle

import (
	"math"
	"math/rand/v2"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
)

// MaxParticles caps live particles per world. Emission beyond the cap is
// dropped.
const MaxParticles = 512

type Particle struct {
	X, Y    float64
	VX, VY  float64
	Gravity float64
	Life    float64
	MaxLife float64
	Size    float64
	Color   component.Color
}

// Tint is the particle colour faded by remaining life.
func (p *Particle) Tint() component.Color {
	if p.MaxLife <= 0 {
		return p.Color
	}
	return p.Color.Fade(p.Life / p.MaxLife)
}

// Emitter spawns particles at its entity's Transform. Rate is particles per
// second while Active; Burst particles are emitted once on the next frame.
// Angle and Spread are in radians, Angle 0 pointing right and increasing
// clockwise on screen.
type Emitter struct {
	Rate    float64
	Speed   float64
	Angle   float64
	Spread  float64
	Life    float64
	Size    float64
	Gravity float64
	Color   component.Color
	Burst   int
	Active  bool

	// OffsetX and OffsetY place the emitter relative to the Transform.
	OffsetX, OffsetY float64
	// OneShot emitters delete their entity after the burst.
	OneShot bool

	accumulator float64
}

var (
	Feathers = Emitter{
		Speed: 90, Angle: math.Pi, Spread: math.Pi / 2,
		Life: 0.6, Size: 3, Gravity: 250, Color: component.White,
	}
	Explosion = Emitter{
		Speed: 220, Spread: 2 * math.Pi,
		Life: 0.8, Size: 4, Gravity: 300, Color: component.Orange,
	}
	Sparkle = Emitter{
		Speed: 120, Spread: 2 * math.Pi,
		Life: 0.5, Size: 2, Color: component.Gold,
	}
)

// WithBurst returns a copy of e that emits n particles once.
func (e Emitter) WithBurst(n int) Emitter {
	e.Burst = n
	return e
}

// New creates one particle from e at (x, y).
func New(e *Emitter, x, y float64, rng *rand.Rand) Particle {
	angle := e.Angle + (rng.Float64()-0.5)*e.Spread
	speed := e.Speed * (0.5 + rng.Float64()*0.5)
	return Particle{
		X:       x,
		Y:       y,
		VX:      math.Cos(angle) * speed,
		VY:      math.Sin(angle) * speed,
		Gravity: e.Gravity,
		Life:    e.Life,
		MaxLife: e.Life,
		Size:    e.Size,
		Color:   e.Color,
	}
}

// Emit queues n particles from e at (x, y).
func Emit(cmds *ecs.Commands, e *Emitter, x, y float64, n int, rng *rand.Rand) {
	for range n {
		cmds.Spawn(New(e, x, y, rng))
	}
}

// Step advances p by dt and reports whether it is still alive.
func (p *Particle) Step(dt float64) bool {
	p.VY += p.Gravity * dt
	p.X += p.VX * dt
	p.Y += p.VY * dt
	p.Life -= dt
	return p.Life > 0
}

func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Particle](registry)
	ecs.RegisterComponent[Emitter](registry)
}
