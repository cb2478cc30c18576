package game

import (
	"fmt"
	"sort"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/effect"
	"github.com/plus3/flapper/particle"
	"github.com/plus3/flapper/render"
)

type spriteView struct {
	Transform *component.Transform
	Sprite    *component.Sprite
	Bird      *component.Bird `ecs:"optional"`
}

// RenderSystem draws sprites by layer, then particles, then the HUD.
type RenderSystem struct {
	Sprites   ecs.Query[spriteView]
	Particles ecs.Query[struct{ *particle.Particle }]
	Camera    ecs.Singleton[render.Camera]
	State     ecs.Singleton[GameState]
	PowerUps  ecs.Singleton[effect.PowerUps]

	Target render.Renderer

	sorted []spriteView
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	r := s.Target
	if r == nil {
		return
	}
	cam := *s.Camera.Get()
	powerUps := s.PowerUps.Get()

	s.sorted = s.sorted[:0]
	for v := range s.Sprites.Iter() {
		s.sorted = append(s.sorted, v)
	}
	sort.SliceStable(s.sorted, func(i, j int) bool {
		return s.sorted[i].Sprite.Layer < s.sorted[j].Sprite.Layer
	})

	for _, v := range s.sorted {
		t, sp := v.Transform, v.Sprite
		w := float64(sp.Width) * scale(t.ScaleX)
		h := float64(sp.Height) * scale(t.ScaleY)
		if !cam.Visible(t.X, t.Y, w, h) {
			continue
		}
		x, y := cam.WorldToScreen(t.X, t.Y)

		if v.Bird != nil {
			drawBird(r, x, y, w, h, sp.Color, v.Bird, powerUps)
			continue
		}
		switch sp.Shape {
		case component.ShapeCircle:
			r.FillCircle(x+w/2, y+h/2, min(w, h)/2, sp.Color)
		default:
			r.FillRect(x, y, w, h, sp.Color)
		}
	}

	for p := range s.Particles.Iter() {
		x, y := cam.WorldToScreen(p.X, p.Y)
		r.FillCircle(x, y, p.Size, p.Tint())
	}

	s.drawHUD(r, powerUps)
}

func scale(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func drawBird(r render.Renderer, x, y, w, h float64, c component.Color, bird *component.Bird, powerUps *effect.PowerUps) {
	if powerUps.Active(component.PowerUpInvincibility) {
		r.FillCircle(x+w/2, y+h/2, max(w, h)/2+4, component.PowerUpColor(component.PowerUpInvincibility).Fade(0.5))
	}
	if !bird.Alive {
		c = component.Red
	}
	r.FillRect(x, y, w, h, c)
	// eye and beak
	r.FillCircle(x+w*0.7, y+h*0.3, h*0.15, component.White)
	r.FillRect(x+w, y+h*0.4, w*0.25, h*0.25, component.Red)
}

func (s *RenderSystem) drawHUD(r render.Renderer, powerUps *effect.PowerUps) {
	state := s.State.Get()
	r.Text(10, 10, fmt.Sprintf("Score: %d", state.Score), component.White)

	name := state.Level
	w, _ := r.Size()
	r.Text(float64(w)-render.TextWidth(name)-10, 10, name, component.White)

	y := 30.0
	for _, p := range powerUps.List() {
		r.Text(10, y, fmt.Sprintf("%s %.1fs", p.Kind, p.Remaining), component.PowerUpColor(p.Kind))
		y += render.GlyphHeight
	}
}
