// Package audio synthesises and plays the game's sound effects.
package audio

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"gitlab.com/tozd/go/errors"
)

const SampleRate = beep.SampleRate(44100)

// Format is the format of every synthesised buffer.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

// Sound names.
const (
	Flap    = "flap"
	Score   = "score"
	Hit     = "hit"
	PowerUp = "powerup"
)

var ErrUnknownSound = errors.Base("unknown sound")

// Names lists every sound Synth can build.
func Names() []string {
	return []string{Flap, Score, Hit, PowerUp}
}

// Synth renders the named effect into a buffer.
func Synth(name string) (*beep.Buffer, error) {
	var s beep.Streamer
	var err error

	switch name {
	case Flap:
		s, err = tone(520, 90*time.Millisecond, 5*time.Millisecond, 70*time.Millisecond)
	case Score:
		s, err = notes(80*time.Millisecond, 880, 1320)
	case Hit:
		s, err = hit()
	case PowerUp:
		s, err = notes(70*time.Millisecond, 523.25, 659.25, 783.99, 1046.5)
	default:
		return nil, errors.Errorf("%w %q", ErrUnknownSound, name)
	}
	if err != nil {
		return nil, errors.Errorf("synthesising %q: %w", name, err)
	}

	buf := beep.NewBuffer(Format)
	buf.Append(s)
	return buf, nil
}

func tone(freq float64, d, attack, release time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(SampleRate, freq)
	if err != nil {
		return nil, err
	}
	return newEnvelope(beep.Take(SampleRate.N(d), sine), d, attack, release), nil
}

func notes(each time.Duration, freqs ...float64) (beep.Streamer, error) {
	seq := make([]beep.Streamer, 0, len(freqs))
	for _, f := range freqs {
		s, err := tone(f, each, 3*time.Millisecond, each/2)
		if err != nil {
			return nil, err
		}
		seq = append(seq, s)
	}
	return beep.Seq(seq...), nil
}

func hit() (beep.Streamer, error) {
	const d = 250 * time.Millisecond
	thud, err := tone(110, d, 2*time.Millisecond, 200*time.Millisecond)
	if err != nil {
		return nil, err
	}
	crack := newEnvelope(&noise{remaining: SampleRate.N(d)}, d, time.Millisecond, 220*time.Millisecond)
	return beep.Mix(newVolume(thud, 0.8), newVolume(crack, 0.4)), nil
}

type noise struct {
	remaining int
}

func (n *noise) Stream(samples [][2]float64) (int, bool) {
	if n.remaining <= 0 {
		return 0, false
	}
	count := min(len(samples), n.remaining)
	for i := range count {
		v := rand.Float64()*2 - 1
		samples[i][0] = v
		samples[i][1] = v
	}
	n.remaining -= count
	return count, true
}

func (n *noise) Err() error { return nil }

// envelope fades a stream in over attack and out over release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, d, attack, release time.Duration) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   SampleRate.N(attack),
		release:  SampleRate.N(release),
		total:    SampleRate.N(d),
	}
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.streamer.Stream(samples)
	for i := range n {
		if e.position >= e.total {
			return i, false
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release {
			vol = math.Min(vol, float64(left)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}
