package script

import (
	"math"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/level"
)

// Oscillate moves the entity up and down around its starting height.
// Params: amplitude (px, default 40), period (s, default 2).
type Oscillate struct {
	baseY   float64
	elapsed float64
}

func NewOscillate(map[string]float64) GameScript {
	return &Oscillate{}
}

func (o *Oscillate) Start(ctx *Context) {
	o.baseY = ctx.Transform.Y
}

func (o *Oscillate) Update(ctx *Context, dt float64) {
	o.elapsed += dt
	amplitude := ctx.Param("amplitude", 40)
	period := ctx.Param("period", 2)
	if period <= 0 {
		return
	}
	ctx.Transform.Y = o.baseY + amplitude*math.Sin(2*math.Pi*o.elapsed/period)
}

func (o *Oscillate) OnCollision(*Context, string) {}

// Spin rotates the entity at speed degrees per second (default 90).
type Spin struct{}

func NewSpin(map[string]float64) GameScript {
	return Spin{}
}

func (Spin) Start(*Context) {}

func (Spin) Update(ctx *Context, dt float64) {
	ctx.Transform.Rotation = math.Mod(ctx.Transform.Rotation+ctx.Param("speed", 90)*dt, 360)
}

func (Spin) OnCollision(*Context, string) {}

// Autopilot keeps the bird near the gap center of the pipe ahead of it.
// Params: margin (px below the center before flapping, default 15),
// climb (flap again once vertical speed rises above -climb, default 120).
type Autopilot struct {
	Collisions int
}

func NewAutopilot(map[string]float64) GameScript {
	return &Autopilot{}
}

func (a *Autopilot) Start(*Context) {}

func (a *Autopilot) Update(ctx *Context, _ float64) {
	if ctx.Physics == nil {
		return
	}

	height := 0.0
	if c := ecs.ReadComponent[component.Collider](ctx.Storage, ctx.Entity); c != nil {
		height = c.Height
	}
	target, ok := NextGap(ctx.Storage, ctx.Transform.X)
	if !ok {
		target = float64(level.DefaultHeight-level.GroundHeight) / 2
	}

	center := ctx.Transform.Y + height/2
	if center > target+ctx.Param("margin", 15) && ctx.Physics.VY > -ctx.Param("climb", 120) {
		ctx.Flap()
	}
}

func (a *Autopilot) OnCollision(*Context, string) {
	a.Collisions++
}

// NextGap returns the gap center of the first pipe whose right edge is still
// ahead of x.
func NextGap(storage *ecs.Storage, x float64) (float64, bool) {
	var (
		best  component.Pipe
		found bool
	)
	for _, v := range ecs.NewView[struct{ *component.Pipe }](storage).Iter() {
		if v.Right() < x {
			continue
		}
		if !found || v.X < best.X {
			best = *v.Pipe
			found = true
		}
	}
	return best.GapCenter(), found
}
