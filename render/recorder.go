package render

import (
	"strings"

	"github.com/plus3/flapper/component"
)

type OpKind int

const (
	OpRect OpKind = iota
	OpCircle
	OpText
)

// Op is one recorded draw call. Circles store their radius in W.
type Op struct {
	Kind  OpKind
	X, Y  float64
	W, H  float64
	Text  string
	Color component.Color
}

// Recorder keeps the draw calls of the last frame in memory.
type Recorder struct {
	Width, Height int
	Background    component.Color
	Ops           []Op
	Frames        int
}

func NewRecorder() *Recorder {
	return &Recorder{Width: LogicalWidth, Height: LogicalHeight}
}

func (r *Recorder) Size() (int, int) {
	return r.Width, r.Height
}

func (r *Recorder) Begin(bg component.Color) {
	r.Background = bg
	r.Ops = r.Ops[:0]
}

func (r *Recorder) FillRect(x, y, w, h float64, c component.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, X: x, Y: y, W: w, H: h, Color: c})
}

func (r *Recorder) FillCircle(cx, cy, radius float64, c component.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpCircle, X: cx, Y: cy, W: radius, Color: c})
}

func (r *Recorder) Text(x, y float64, s string, c component.Color) {
	r.Ops = append(r.Ops, Op{Kind: OpText, X: x, Y: y, Text: s, Color: c})
}

func (r *Recorder) End() error {
	r.Frames++
	return nil
}

// Count returns the number of ops of kind in the last frame.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Texts returns every string drawn in the last frame.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == OpText {
			out = append(out, op.Text)
		}
	}
	return out
}

// HasText reports whether any drawn string contains sub.
func (r *Recorder) HasText(sub string) bool {
	for _, s := range r.Texts() {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
