// Package effect holds the timed effects that sit on top of gameplay:
// screen shake, slow motion and active power-ups. Each is stored as an ECS
// singleton in the play world.
package effect

import "math/rand/v2"

// ScreenShake offsets the camera by a random amount that decays linearly.
type ScreenShake struct {
	Intensity float64
	Duration  float64
	Remaining float64

	rng *rand.Rand
}

func NewScreenShake(seed uint64) ScreenShake {
	return ScreenShake{rng: rand.New(rand.NewPCG(seed, seed+1))}
}

// Start begins a shake. A weaker shake never cuts a stronger one short.
func (s *ScreenShake) Start(intensity, duration float64) {
	if duration <= 0 || intensity <= 0 {
		return
	}
	if s.Active() && s.current() >= intensity {
		return
	}
	s.Intensity = intensity
	s.Duration = duration
	s.Remaining = duration
}

func (s *ScreenShake) Update(dt float64) {
	s.Remaining = max(0, s.Remaining-dt)
}

func (s *ScreenShake) Active() bool {
	return s.Remaining > 0
}

func (s *ScreenShake) current() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return s.Intensity * s.Remaining / s.Duration
}

// Offset returns this frame's camera displacement in pixels.
func (s *ScreenShake) Offset() (dx, dy float64) {
	if !s.Active() {
		return 0, 0
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(1, 2))
	}
	mag := s.current()
	return mag * (s.rng.Float64()*2 - 1), mag * (s.rng.Float64()*2 - 1)
}
