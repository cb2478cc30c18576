package input

// Scripted replays key taps at fixed frame numbers. It drives the game in
// tests and benchmarks.
type Scripted struct {
	taps  map[int][]string
	frame int
}

func NewScripted() *Scripted {
	return &Scripted{taps: make(map[int][]string)}
}

// At schedules keys to be tapped on frame.
func (s *Scripted) At(frame int, keys ...string) *Scripted {
	s.taps[frame] = append(s.taps[frame], keys...)
	return s
}

// Every schedules key on every period-th frame from start up to end.
func (s *Scripted) Every(start, period, end int, key string) *Scripted {
	for f := start; f < end; f += period {
		s.At(f, key)
	}
	return s
}

// Apply taps this frame's keys into m and advances to the next frame.
func (s *Scripted) Apply(m *Manager) {
	for _, key := range s.taps[s.frame] {
		m.Tap(key)
	}
	s.frame++
}

func (s *Scripted) Frame() int {
	return s.frame
}
