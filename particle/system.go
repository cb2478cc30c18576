package particle

import (
	"math/rand/v2"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
)

type particleView struct {
	ecs.EntityId
	*Particle
}

type emitterView struct {
	ecs.EntityId
	*Emitter
	*component.Transform
}

// System moves particles, removes dead ones and runs emitters.
type System struct {
	Particles ecs.Query[particleView]
	Emitters  ecs.Query[emitterView]

	// Disabled drops all emission; live particles still finish.
	Disabled bool
	Max      int

	rng *rand.Rand
}

func NewSystem(seed uint64) *System {
	return &System{
		Max: MaxParticles,
		rng: rand.New(rand.NewPCG(seed, seed^0x5bd1e995)),
	}
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	live := 0
	for p := range s.Particles.Iter() {
		if p.Step(frame.DeltaTime) {
			live++
			continue
		}
		frame.Commands.Delete(p.EntityId)
	}

	budget := s.Max - live
	for e := range s.Emitters.Iter() {
		n := e.Burst
		e.Burst = 0
		if e.Active && e.Rate > 0 {
			e.accumulator += e.Rate * frame.DeltaTime
			whole := int(e.accumulator)
			e.accumulator -= float64(whole)
			n += whole
		}

		n = min(n, max(budget, 0))
		if s.Disabled {
			n = 0
		}
		if n > 0 {
			Emit(frame.Commands, e.Emitter, e.X+e.OffsetX, e.Y+e.OffsetY, n, s.rng)
			budget -= n
		}

		if e.OneShot {
			frame.Commands.Delete(e.EntityId)
		}
	}
}
