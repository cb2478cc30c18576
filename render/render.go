// Package render defines the drawing surface used by scenes and systems.
//
// Coordinates are logical level pixels; backends scale them to whatever
// they draw on.
package render

import (
	"context"
	"unicode/utf8"

	"github.com/plus3/flapper/component"
)

const (
	LogicalWidth  = 800
	LogicalHeight = 600

	// GlyphWidth and GlyphHeight are the logical size of one text character.
	GlyphWidth  = 6
	GlyphHeight = 16
)

type Renderer interface {
	Size() (w, h int)
	Begin(bg component.Color)
	FillRect(x, y, w, h float64, c component.Color)
	FillCircle(cx, cy, r float64, c component.Color)
	Text(x, y float64, s string, c component.Color)
	End() error
}

// App is what a backend loop drives once per frame.
type App interface {
	Update(ctx context.Context, dt float64) error
	Draw(r Renderer)
	Done() bool
}

// TextWidth is the logical width of s.
func TextWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s) * GlyphWidth)
}

// CenterText draws s horizontally centered at y.
func CenterText(r Renderer, y float64, s string, c component.Color) {
	w, _ := r.Size()
	r.Text((float64(w)-TextWidth(s))/2, y, s, c)
}

// Camera maps world coordinates onto the screen.
type Camera struct {
	X, Y           float64
	ShakeX, ShakeY float64
}

func (c Camera) WorldToScreen(x, y float64) (float64, float64) {
	return x - c.X + c.ShakeX, y - c.Y + c.ShakeY
}

// Visible reports whether a world-space box overlaps the screen.
func (c Camera) Visible(x, y, w, h float64) bool {
	sx, sy := c.WorldToScreen(x, y)
	return sx+w >= 0 && sx <= LogicalWidth && sy+h >= 0 && sy <= LogicalHeight
}
