package input

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

var tcellKeys = map[tcell.Key]string{
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyEnter:  "enter",
	tcell.KeyEscape: "esc",
	tcell.KeyF1:     "f1",
	tcell.KeyF2:     "f2",
	tcell.KeyF3:     "f3",
	tcell.KeyCtrlC:  "ctrl+c",
	tcell.KeyTab:    "tab",
}

// TcellKey names the key in a terminal key event.
func TcellKey(ev *tcell.EventKey) (string, bool) {
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		if r == ' ' {
			return "space", true
		}
		return string(unicode.ToLower(r)), true
	}
	name, ok := tcellKeys[ev.Key()]
	return name, ok
}

// HandleTcell feeds a terminal event into m. Terminals report no key-up,
// so every key event is a Tap. Returns false for events that are not keys.
func (m *Manager) HandleTcell(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return false
	}
	name, ok := TcellKey(key)
	if !ok {
		return false
	}
	m.Tap(name)
	return true
}
