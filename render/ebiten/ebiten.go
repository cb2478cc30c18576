// Package ebiten draws the game in a window with Ebiten.
package ebiten

import (
	"context"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/input"
	ebiteninput "github.com/plus3/flapper/input/ebiten"
	"github.com/plus3/flapper/render"
)

// Renderer draws onto the current frame's screen image. Ebiten scales the
// logical 800x600 surface to the window.
type Renderer struct {
	screen *ebiten.Image
}

func (r *Renderer) Size() (int, int) {
	return render.LogicalWidth, render.LogicalHeight
}

func (r *Renderer) Begin(bg component.Color) {
	r.screen.Fill(rgba(bg))
}

func (r *Renderer) FillRect(x, y, w, h float64, c component.Color) {
	vector.DrawFilledRect(r.screen, float32(x), float32(y), float32(w), float32(h), rgba(c), false)
}

func (r *Renderer) FillCircle(cx, cy, radius float64, c component.Color) {
	vector.DrawFilledCircle(r.screen, float32(cx), float32(cy), float32(radius), rgba(c), true)
}

// Text uses Ebiten's debug font, which is always white.
func (r *Renderer) Text(x, y float64, s string, _ component.Color) {
	ebitenutil.DebugPrintAt(r.screen, s, int(x), int(y))
}

func (r *Renderer) End() error {
	return nil
}

func rgba(c component.Color) color.Color {
	// vector expects premultiplied alpha
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}

// Overlay is drawn over the game, typically the Dear ImGui debug UI.
type Overlay interface {
	BeginFrame()
	EndFrame()
	Update(dt float64)
	Draw(screen *ebiten.Image)
	Layout(w, h int)
	WantsKeyboard() bool
	Toggle()
}

// Game adapts a render.App to ebiten.Game.
type Game struct {
	ctx      context.Context
	app      render.App
	in       *input.Manager
	renderer Renderer
	overlay  Overlay
	err      error
}

func NewGame(ctx context.Context, app render.App, in *input.Manager, overlay Overlay) *Game {
	return &Game{ctx: ctx, app: app, in: in, overlay: overlay}
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	captured := false
	if g.overlay != nil {
		g.overlay.BeginFrame()
		captured = g.overlay.WantsKeyboard()
	}
	ebiteninput.Poll(g.in, captured)

	if g.overlay != nil && g.in.JustPressed(input.Debug) {
		g.overlay.Toggle()
	}

	if err := g.app.Update(g.ctx, dt); err != nil {
		g.err = err
		return err
	}
	g.in.EndFrame()

	if g.overlay != nil {
		g.overlay.Update(dt)
		g.overlay.EndFrame()
	}

	if g.app.Done() || g.ctx.Err() != nil {
		return ebiten.Termination
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.screen = screen
	g.app.Draw(&g.renderer)
	if g.overlay != nil {
		g.overlay.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.overlay != nil {
		g.overlay.Layout(render.LogicalWidth, render.LogicalHeight)
	}
	return render.LogicalWidth, render.LogicalHeight
}

// Err is the error that stopped the game, if any.
func (g *Game) Err() error {
	return g.err
}

// Run opens a window and blocks until the app finishes.
func Run(ctx context.Context, title string, width, height int, app render.App, in *input.Manager, overlay Overlay) error {
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowTitle(title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	game := NewGame(ctx, app, in, overlay)
	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		return err
	}
	return game.Err()
}
