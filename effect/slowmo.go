package effect

const (
	MinTimeScale = 0.05
	easeFraction = 0.25
)

// SlowMotionEffect scales simulation time. It is advanced with real time so
// that it ends on schedule however slow the world runs.
type SlowMotionEffect struct {
	Target    float64
	Duration  float64
	Remaining float64
}

func (s *SlowMotionEffect) Start(scale, duration float64) {
	if duration <= 0 {
		return
	}
	s.Target = min(1, max(MinTimeScale, scale))
	s.Duration = duration
	s.Remaining = duration
}

func (s *SlowMotionEffect) Update(realDt float64) {
	s.Remaining = max(0, s.Remaining-realDt)
}

func (s *SlowMotionEffect) Active() bool {
	return s.Remaining > 0
}

// Scale is the multiplier applied to dt. It holds Target and then eases back
// to 1 over the last quarter of the effect.
func (s *SlowMotionEffect) Scale() float64 {
	if !s.Active() {
		return 1
	}
	ease := s.Duration * easeFraction
	if s.Remaining >= ease {
		return s.Target
	}
	t := 1 - s.Remaining/ease
	return s.Target + (1-s.Target)*t
}
