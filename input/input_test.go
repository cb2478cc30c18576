package input_test

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/flapper/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func TestPressAndRelease(t *testing.T) {
	m := input.NewManager(nil)

	m.Press("space")
	assert.True(t, m.JustPressed(input.Flap))
	assert.True(t, m.Down(input.Flap))
	assert.True(t, m.JustPressed(input.Confirm))

	m.EndFrame()
	assert.False(t, m.JustPressed(input.Flap))
	assert.True(t, m.Down(input.Flap), "still held")

	m.Press("space")
	assert.False(t, m.JustPressed(input.Flap), "auto-repeat is not a new press")

	m.Release("space")
	assert.False(t, m.Down(input.Flap))
}

func TestTwoKeysSameAction(t *testing.T) {
	m := input.NewManager(nil)

	m.Press("up")
	m.Press("w")
	m.Release("up")
	assert.True(t, m.Down(input.Up))
	m.Release("w")
	assert.False(t, m.Down(input.Up))
}

func TestTap(t *testing.T) {
	m := input.NewManager(nil)

	m.Tap("Enter")
	assert.True(t, m.JustPressed(input.Confirm))
	assert.True(t, m.Down(input.Confirm))

	m.EndFrame()
	assert.False(t, m.JustPressed(input.Confirm))
	assert.False(t, m.Down(input.Confirm))
}

func TestParseBindings(t *testing.T) {
	b, err := input.ParseBindings(map[string][]string{
		"x":     {"flap"},
		"space": {},
		"ESC":   {"quit", "back"},
	})
	require.NoError(t, err)

	assert.Equal(t, []input.Action{input.Flap}, b["x"])
	assert.NotContains(t, b, "space")
	assert.Equal(t, []input.Action{input.Quit, input.Back}, b["esc"])
	assert.Equal(t, []string{"enter"}, b.Keys(input.Confirm))

	_, err = input.ParseBindings(map[string][]string{"x": {"jump"}})
	assert.True(t, errors.Is(err, input.ErrUnknownAction))
}

func TestTcellKeys(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
		ok   bool
	}{
		{tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), "space", true},
		{tcell.NewEventKey(tcell.KeyRune, 'Q', tcell.ModNone), "q", true},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "esc", true},
		{tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "ctrl+c", true},
		{tcell.NewEventKey(tcell.KeyF3, 0, tcell.ModNone), "f3", true},
		{tcell.NewEventKey(tcell.KeyBackspace, 0, tcell.ModNone), "", false},
	}

	for _, tt := range tests {
		got, ok := input.TcellKey(tt.ev)
		assert.Equal(t, tt.ok, ok)
		assert.Equal(t, tt.want, got)
	}
}

func TestHandleTcell(t *testing.T) {
	m := input.NewManager(nil)

	assert.True(t, m.HandleTcell(tcell.NewEventKey(tcell.KeyRune, 'p', tcell.ModNone)))
	assert.True(t, m.JustPressed(input.Pause))
	assert.False(t, m.HandleTcell(tcell.NewEventResize(80, 24)))
}

func TestScripted(t *testing.T) {
	m := input.NewManager(nil)
	s := input.NewScripted().At(1, "space").Every(3, 2, 8, "q")

	var flaps, quits []int
	for frame := range 8 {
		s.Apply(m)
		if m.JustPressed(input.Flap) {
			flaps = append(flaps, frame)
		}
		if m.JustPressed(input.Quit) {
			quits = append(quits, frame)
		}
		m.EndFrame()
	}

	assert.Equal(t, []int{1}, flaps)
	assert.Equal(t, []int{3, 5, 7}, quits)
	assert.Equal(t, 8, s.Frame())
}
