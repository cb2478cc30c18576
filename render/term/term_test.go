package term_test

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
	"github.com/plus3/flapper/render/term"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return screen
}

func background(screen tcell.Screen, x, y int) tcell.Color {
	_, _, style, _ := screen.GetContent(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestRectPaintsCoveredCells(t *testing.T) {
	screen := newScreen(t, 80, 30)
	r := term.New(screen)

	// 10x20 logical pixels per cell
	r.Begin(component.Sky)
	r.FillRect(0, 550, 800, 50, component.Brown)
	require.NoError(t, r.End())

	brown := tcell.NewRGBColor(139, 69, 19)
	sky := tcell.NewRGBColor(135, 206, 235)
	// row 27 spans y 540..560 and is partly covered
	assert.Equal(t, brown, background(screen, 0, 29))
	assert.Equal(t, brown, background(screen, 79, 27))
	assert.Equal(t, sky, background(screen, 0, 26))
}

func TestCircleAndText(t *testing.T) {
	screen := newScreen(t, 80, 30)
	r := term.New(screen)

	r.Begin(component.Black)
	r.FillCircle(405, 310, 2, component.Yellow)
	r.Text(100, 40, "SCORE", component.White)
	require.NoError(t, r.End())

	assert.Equal(t, tcell.NewRGBColor(255, 255, 0), background(screen, 40, 15), "tiny circle paints its own cell")

	var got []rune
	for x := 10; x < 15; x++ {
		ch, _, _, _ := screen.GetContent(x, 2)
		got = append(got, ch)
	}
	assert.Equal(t, "SCORE", string(got))
}

func TestOffscreenIsIgnored(t *testing.T) {
	screen := newScreen(t, 40, 20)
	r := term.New(screen)

	r.Begin(component.Black)
	r.FillRect(-500, -500, 10, 10, component.Red)
	r.FillRect(900, 0, 100, 100, component.Red)
	r.Text(0, 900, "gone", component.White)
	assert.NoError(t, r.End())
}

type countingApp struct {
	frames int
	quit   bool
	in     *input.Manager
}

func (a *countingApp) Update(ctx context.Context, dt float64) error {
	a.frames++
	if a.in.JustPressed(input.Quit) {
		a.quit = true
	}
	return nil
}

func (a *countingApp) Draw(r render.Renderer) {
	r.Begin(component.Black)
	_ = r.End()
}

func (a *countingApp) Done() bool { return a.quit }

func TestRunStopsWhenAppIsDone(t *testing.T) {
	screen := newScreen(t, 40, 20)
	in := input.NewManager(nil)
	app := &countingApp{in: in}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	}()

	require.NoError(t, term.Run(ctx, screen, in, app, 120))
	assert.True(t, app.quit)
	assert.Positive(t, app.frames)
}
