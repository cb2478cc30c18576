// Package term draws the game into a terminal with tcell.
package term

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/render"
)

// Renderer maps the logical 800x600 surface onto terminal cells. Each cell
// covers a block of logical pixels; rectangles paint cell backgrounds.
type Renderer struct {
	screen tcell.Screen
	bg     component.Color
	cols   int
	rows   int
	cellW  float64
	cellH  float64
}

func New(screen tcell.Screen) *Renderer {
	return &Renderer{screen: screen}
}

func (r *Renderer) Size() (int, int) {
	return render.LogicalWidth, render.LogicalHeight
}

func (r *Renderer) Begin(bg component.Color) {
	r.bg = bg
	r.cols, r.rows = r.screen.Size()
	if r.cols <= 0 || r.rows <= 0 {
		r.cols, r.rows = 1, 1
	}
	r.cellW = math.Ceil(float64(render.LogicalWidth) / float64(r.cols))
	r.cellH = math.Ceil(float64(render.LogicalHeight) / float64(r.rows))

	style := tcell.StyleDefault.Background(color(bg)).Foreground(color(bg))
	r.screen.Clear()
	for y := range r.rows {
		for x := range r.cols {
			r.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// Cell returns the terminal cell containing logical point (x, y).
func (r *Renderer) Cell(x, y float64) (int, int) {
	return int(math.Floor(x / r.cellW)), int(math.Floor(y / r.cellH))
}

func (r *Renderer) inside(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < r.cols && cy < r.rows
}

func (r *Renderer) paint(cx, cy int, c component.Color) {
	if !r.inside(cx, cy) {
		return
	}
	r.screen.SetContent(cx, cy, ' ', nil, tcell.StyleDefault.Background(color(c)))
}

func (r *Renderer) FillRect(x, y, w, h float64, c component.Color) {
	if c.A < 64 || w <= 0 || h <= 0 {
		return
	}
	x0, y0 := r.Cell(x, y)
	x1 := int(math.Ceil((x+w)/r.cellW)) - 1
	y1 := int(math.Ceil((y+h)/r.cellH)) - 1
	for cy := max(y0, 0); cy <= min(y1, r.rows-1); cy++ {
		for cx := max(x0, 0); cx <= min(x1, r.cols-1); cx++ {
			r.paint(cx, cy, c)
		}
	}
}

func (r *Renderer) FillCircle(cx, cy, radius float64, c component.Color) {
	if c.A < 64 || radius <= 0 {
		return
	}
	x0, y0 := r.Cell(cx-radius, cy-radius)
	x1, y1 := r.Cell(cx+radius, cy+radius)

	painted := false
	for y := max(y0, 0); y <= min(y1, r.rows-1); y++ {
		for x := max(x0, 0); x <= min(x1, r.cols-1); x++ {
			mx := (float64(x) + 0.5) * r.cellW
			my := (float64(y) + 0.5) * r.cellH
			if math.Hypot(mx-cx, my-cy) <= radius {
				r.paint(x, y, c)
				painted = true
			}
		}
	}
	// circles smaller than a cell still show up
	if !painted {
		x, y := r.Cell(cx, cy)
		r.paint(x, y, c)
	}
}

func (r *Renderer) Text(x, y float64, s string, c component.Color) {
	cx, cy := r.Cell(x, y)
	if cy < 0 || cy >= r.rows {
		return
	}
	for _, ch := range s {
		if r.inside(cx, cy) {
			_, _, style, _ := r.screen.GetContent(cx, cy)
			_, bg, _ := style.Decompose()
			r.screen.SetContent(cx, cy, ch, nil, tcell.StyleDefault.Background(bg).Foreground(color(c)))
		}
		cx++
	}
}

func (r *Renderer) End() error {
	r.screen.Show()
	return nil
}

func color(c component.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// Run drives app at fps until it reports Done or ctx is cancelled. Key
// events are polled on their own goroutine and applied between frames.
func Run(ctx context.Context, screen tcell.Screen, in *input.Manager, app render.App, fps int) error {
	renderer := New(screen)
	events := make(chan tcell.Event, 64)

	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	last := time.Now()

	for !app.Done() {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if _, resized := ev.(*tcell.EventResize); resized {
				screen.Sync()
				continue
			}
			in.HandleTcell(ev)
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			if err := app.Update(ctx, dt); err != nil {
				return err
			}
			in.EndFrame()
			app.Draw(renderer)
		}
	}
	slog.DebugContext(ctx, "terminal loop finished")
	return nil
}
