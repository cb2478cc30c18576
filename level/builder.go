package level

import (
	"fmt"

	"github.com/plus3/flapper/component"
)

const (
	DefaultPipeWidth = 60
	DefaultPipeGap   = 150

	// MinGapTop keeps a sliver of pipe above every gap.
	MinGapTop = 30

	PowerUpSize = 20
)

type pipeSpec struct {
	x      float64
	gapTop int
	width  int
	gap    int
}

type powerUpSpec struct {
	kind component.PowerUpKind
	x, y float64
}

// Builder assembles a level the way the editor saves one: ground first,
// then pipe halves, then power-ups.
type Builder struct {
	name     string
	width    int
	height   int
	gravity  float64
	bg       [3]int
	pipeW    int
	gap      int
	pipes    []pipeSpec
	powerUps []powerUpSpec
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:    name,
		width:   DefaultWidth,
		height:  DefaultHeight,
		gravity: DefaultGravity,
		bg:      DefaultBackground,
		pipeW:   DefaultPipeWidth,
		gap:     DefaultPipeGap,
	}
}

func (b *Builder) Gravity(g float64) *Builder {
	b.gravity = g
	return b
}

func (b *Builder) Background(r, g, bl int) *Builder {
	b.bg = [3]int{r, g, bl}
	return b
}

// PipeWidth and Gap apply to pipes added afterwards.
func (b *Builder) PipeWidth(w int) *Builder {
	b.pipeW = w
	return b
}

func (b *Builder) Gap(gap int) *Builder {
	b.gap = gap
	return b
}

// AddPipe places a pipe centered on x with its gap centered on y. The gap
// is pushed back inside the playable area when it would overlap the top
// margin or the ground.
func (b *Builder) AddPipe(x, y float64) *Builder {
	gapTop := int(y) - b.gap/2
	if gapTop < MinGapTop {
		gapTop = MinGapTop
	}
	if gapTop+b.gap > b.height-GroundHeight {
		gapTop = b.height - GroundHeight - b.gap
	}
	b.pipes = append(b.pipes, pipeSpec{x: x, gapTop: gapTop, width: b.pipeW, gap: b.gap})
	return b
}

func (b *Builder) AddPowerUp(kind component.PowerUpKind, x, y float64) *Builder {
	b.powerUps = append(b.powerUps, powerUpSpec{kind: kind, x: x, y: y})
	return b
}

func (b *Builder) Build() *Config {
	cfg := &Config{
		Type:    "Level",
		Name:    b.name,
		Width:   b.width,
		Height:  b.height,
		Gravity: b.gravity,
		BgR:     b.bg[0],
		BgG:     b.bg[1],
		BgB:     b.bg[2],
	}

	ground := float64(GroundHeight)
	cfg.Objects = append(cfg.Objects, Object{
		Name:   "Ground",
		Active: true,
		Components: []Component{
			Transform{X: 0, Y: float64(b.height - GroundHeight), ScaleX: 1, ScaleY: 1},
			Sprite{Width: b.width, Height: GroundHeight, R: 139, G: 69, B: 19},
			Collider{Width: float64(b.width), Height: ground, Tag: component.TagGround},
		},
	})

	for i, p := range b.pipes {
		left := p.x - float64(p.width/2)
		gapBottom := p.gapTop + p.gap
		bottomHeight := b.height - GroundHeight - gapBottom

		cfg.Objects = append(cfg.Objects,
			Object{
				Name:   fmt.Sprintf("Pipe%d_Top", i),
				Active: true,
				Components: []Component{
					Transform{X: left, Y: 0, ScaleX: 1, ScaleY: 1},
					Sprite{Width: p.width, Height: p.gapTop, R: 34, G: 139, B: 34},
					Collider{Width: float64(p.width), Height: float64(p.gapTop), Tag: component.TagPipe},
				},
			},
			Object{
				Name:   fmt.Sprintf("Pipe%d_Bottom", i),
				Active: true,
				Components: []Component{
					Transform{X: left, Y: float64(gapBottom), ScaleX: 1, ScaleY: 1},
					Sprite{Width: p.width, Height: bottomHeight, R: 34, G: 139, B: 34},
					Collider{Width: float64(p.width), Height: float64(bottomHeight), Tag: component.TagPipe},
				},
			},
		)
	}

	for i, p := range b.powerUps {
		cfg.Objects = append(cfg.Objects, Object{
			Name:   fmt.Sprintf("PowerUp_%s_%d", p.kind, i),
			Active: true,
			Components: []Component{
				Transform{X: p.x, Y: p.y, ScaleX: 1, ScaleY: 1},
				Sprite{Width: PowerUpSize, Height: PowerUpSize, R: 255, G: 255, B: 0},
				Collider{Width: PowerUpSize, Height: PowerUpSize, IsTrigger: true, Tag: p.kind.Tag()},
			},
		})
	}

	return cfg
}
