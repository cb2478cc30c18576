// Package component holds the plain data types attached to game entities.
package component

import (
	"fmt"
	"math"

	"github.com/plus3/flapper/ecs"
)

// Collider tags written by the level editor.
const (
	TagGround               = "ground"
	TagPipe                 = "pipe"
	TagPowerUp              = "powerup"
	TagPowerUpInvincibility = "powerup_invincibility"
	TagPowerUpSpeed         = "powerup_speed"
	TagPowerUpShrink        = "powerup_shrink"
)

type GameObject struct {
	Name   string
	Active bool
}

// Transform positions an entity. X and Y are the top-left corner in level
// pixels; Rotation is in degrees.
type Transform struct {
	X, Y     float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64
}

// Physics is integrated every frame by the physics system. A zero MaxFall
// means the world default applies.
type Physics struct {
	VX, VY       float64
	GravityScale float64
	MaxFall      float64
	Grounded     bool
}

type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

type Sprite struct {
	Width  int
	Height int
	Color  Color
	Layer  int
	Shape  Shape
}

type Collider struct {
	Width     float64
	Height    float64
	IsTrigger bool
	Tag       string
}

// Bird marks the player.
type Bird struct {
	FlapVelocity float64
	Alive        bool
}

// Pipe is the scoring gate for one top/bottom pipe pair. X is the center.
type Pipe struct {
	Index     int
	X         float64
	Width     float64
	GapTop    float64
	GapHeight float64
	Scored    bool
}

func (p Pipe) Left() float64  { return p.X - p.Width/2 }
func (p Pipe) Right() float64 { return p.X + p.Width/2 }

// GapCenter is the vertical middle of the opening.
func (p Pipe) GapCenter() float64 { return p.GapTop + p.GapHeight/2 }

type PowerUpPickup struct {
	Kind PowerUpKind
}

type PowerUpKind int

const (
	PowerUpInvincibility PowerUpKind = iota
	PowerUpSpeed
	PowerUpShrink
)

var powerUpNames = [...]string{"invincibility", "speed", "shrink"}

func (k PowerUpKind) String() string {
	if int(k) < len(powerUpNames) {
		return powerUpNames[k]
	}
	return fmt.Sprintf("PowerUpKind(%d)", int(k))
}

// Tag is the collider tag used for pickups of this kind.
func (k PowerUpKind) Tag() string {
	return TagPowerUp + "_" + k.String()
}

// ParsePowerUpKind accepts either the bare kind name or its collider tag.
func ParsePowerUpKind(s string) (PowerUpKind, bool) {
	for i, name := range powerUpNames {
		if s == name || s == TagPowerUp+"_"+name {
			return PowerUpKind(i), true
		}
	}
	return 0, false
}

// PowerUpKinds lists every kind in declaration order.
func PowerUpKinds() []PowerUpKind {
	return []PowerUpKind{PowerUpInvincibility, PowerUpSpeed, PowerUpShrink}
}

// Script attaches a named behaviour. State is owned by the script system.
type Script struct {
	Name   string
	Params map[string]float64
	State  ScriptState
}

type ScriptState struct {
	Started bool
	Failed  bool
	Elapsed float64
}

type Color struct {
	R, G, B, A uint8
}

func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b, A: 255}
}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Fade scales alpha by f, clamped to [0, 1].
func (c Color) Fade(f float64) Color {
	f = math.Max(0, math.Min(1, f))
	c.A = uint8(math.Round(float64(c.A) * f))
	return c
}

var (
	Sky    = RGB(135, 206, 235)
	Brown  = RGB(139, 69, 19)
	Green  = RGB(34, 139, 34)
	Yellow = RGB(255, 255, 0)
	White  = RGB(255, 255, 255)
	Black  = RGB(0, 0, 0)
	Orange = RGB(255, 165, 0)
	Red    = RGB(220, 40, 40)
	Gold   = RGB(255, 215, 0)
	Cyan   = RGB(0, 200, 255)
	Purple = RGB(170, 80, 220)
)

// PowerUpColor is the colour pickups and the bird's aura use for kind.
func PowerUpColor(k PowerUpKind) Color {
	switch k {
	case PowerUpInvincibility:
		return Gold
	case PowerUpSpeed:
		return Cyan
	case PowerUpShrink:
		return Purple
	}
	return Yellow
}

// Register adds every component type in this package to registry.
func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[GameObject](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Physics](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Collider](registry)
	ecs.RegisterComponent[Bird](registry)
	ecs.RegisterComponent[Pipe](registry)
	ecs.RegisterComponent[PowerUpPickup](registry)
	ecs.RegisterComponent[Script](registry)
}
