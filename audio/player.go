package audio

import (
	"log/slog"
	"sync"

	"github.com/gopxl/beep"
)

// Player plays a named sound effect without blocking.
type Player interface {
	Play(name string)
}

// Nop discards every sound.
type Nop struct{}

func (Nop) Play(string) {}

// SoundSource supplies decoded or synthesised buffers by name.
type SoundSource interface {
	Sound(name string) (*beep.Buffer, error)
}

// MixerPlayer mixes effects into one stream. Hand Streamer() to the speaker.
type MixerPlayer struct {
	mu     sync.Mutex
	mixer  *beep.Mixer
	src    SoundSource
	volume float64
}

func NewMixerPlayer(src SoundSource, volume float64) *MixerPlayer {
	return &MixerPlayer{
		mixer:  &beep.Mixer{},
		src:    src,
		volume: volume,
	}
}

// Streamer is the mixed output. It never drains; silence is emitted when
// nothing is playing.
func (p *MixerPlayer) Streamer() beep.Streamer {
	return &lockedStreamer{mu: &p.mu, s: p.mixer}
}

func (p *MixerPlayer) Play(name string) {
	buf, err := p.src.Sound(name)
	if err != nil {
		slog.Debug("sound unavailable", "sound", name, "error", err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.mixer.Add(newVolume(buf.Streamer(0, buf.Len()), p.volume))
}

// Playing is the number of sounds still in the mix.
func (p *MixerPlayer) Playing() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

func (p *MixerPlayer) SetVolume(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
}

// Clear stops everything currently playing.
func (p *MixerPlayer) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mixer.Clear()
}

// lockedStreamer guards the mixer against Play running while the speaker
// goroutine pulls samples.
type lockedStreamer struct {
	mu *sync.Mutex
	s  beep.Streamer
}

func (l *lockedStreamer) Stream(samples [][2]float64) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.Stream(samples)
}

func (l *lockedStreamer) Err() error { return nil }

// Recorder remembers which sounds were requested.
type Recorder struct {
	mu     sync.Mutex
	Played []string
}

func (r *Recorder) Play(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Played = append(r.Played, name)
}

// Count returns how many times name was played.
func (r *Recorder) Count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, p := range r.Played {
		if p == name {
			n++
		}
	}
	return n
}
