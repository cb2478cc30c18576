// Package ebiten polls Ebiten's keyboard state into an input.Manager.
package ebiten

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/flapper/input"
)

var keys = map[ebiten.Key]string{
	ebiten.KeySpace:  "space",
	ebiten.KeyUp:     "up",
	ebiten.KeyDown:   "down",
	ebiten.KeyLeft:   "left",
	ebiten.KeyRight:  "right",
	ebiten.KeyW:      "w",
	ebiten.KeyS:      "s",
	ebiten.KeyP:      "p",
	ebiten.KeyQ:      "q",
	ebiten.KeyX:      "x",
	ebiten.KeyEnter:  "enter",
	ebiten.KeyEscape: "esc",
	ebiten.KeyF3:     "f3",
	ebiten.KeyTab:    "tab",
}

// Poll forwards this tick's key transitions to m. Keys the debug overlay is
// capturing are skipped when captured is true.
func Poll(m *input.Manager, captured bool) {
	for key, name := range keys {
		if inpututil.IsKeyJustReleased(key) {
			m.Release(name)
		}
		if captured && key != ebiten.KeyF3 {
			continue
		}
		if inpututil.IsKeyJustPressed(key) {
			m.Press(name)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) && !captured {
		m.Trigger(input.Flap)
	}
}
