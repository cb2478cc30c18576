package level

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/plus3/flapper/component"
)

// Pipes pairs PipeN_Top and PipeN_Bottom objects back into pipe gates,
// ordered left to right. Halves without a partner are ignored.
func (c *Config) Pipes() []component.Pipe {
	type half struct {
		centerX   float64
		width     float64
		topHeight float64
		bottomY   float64
		hasTop    bool
		hasBottom bool
	}
	pairs := make(map[string]*half)
	var order []string

	for i := range c.Objects {
		obj := &c.Objects[i]
		if !strings.Contains(obj.Name, "Pipe") {
			continue
		}

		var key string
		var top bool
		switch {
		case strings.Contains(obj.Name, "_Top"):
			key, top = pipeKey(obj.Name, "_Top"), true
		case strings.Contains(obj.Name, "_Bottom"):
			key = pipeKey(obj.Name, "_Bottom")
		default:
			continue
		}

		h, ok := pairs[key]
		if !ok {
			h = &half{}
			pairs[key] = h
			order = append(order, key)
		}

		transform, _ := Get[Transform](obj)
		// a missing Sprite leaves the half zero sized
		sprite, _ := Get[Sprite](obj)
		width, height := sprite.Width, sprite.Height

		if top {
			h.centerX = transform.X + float64(width/2)
			h.width = float64(width)
			h.topHeight = float64(height)
			h.hasTop = true
		} else {
			h.bottomY = transform.Y
			h.hasBottom = true
		}
	}

	pipes := make([]component.Pipe, 0, len(pairs))
	for _, key := range order {
		h := pairs[key]
		if !h.hasTop || !h.hasBottom {
			continue
		}
		pipes = append(pipes, component.Pipe{
			Index:     pipeNumber(key),
			X:         h.centerX,
			Width:     h.width,
			GapTop:    h.topHeight,
			GapHeight: h.bottomY - h.topHeight,
		})
	}

	slices.SortStableFunc(pipes, func(a, b component.Pipe) int {
		return cmp.Compare(a.X, b.X)
	})
	for i := range pipes {
		pipes[i].Index = i
	}
	return pipes
}

// pipeKey strips every "Pipe" and the half suffix from name, so BigPipe3_Top
// and BigPipe3_Bottom share the key "Big3".
func pipeKey(name, suffix string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, "Pipe", ""), suffix, "")
}

func pipeNumber(key string) int {
	n, err := strconv.Atoi(key)
	if err != nil {
		return -1
	}
	return n
}

// PowerUp is a pickup placed in the level. X and Y are its center.
type PowerUp struct {
	Kind component.PowerUpKind
	X, Y float64
}

// PowerUps lists the level's pickups in file order. Objects whose collider
// tag names no known kind are skipped.
func (c *Config) PowerUps() []PowerUp {
	var out []PowerUp
	for i := range c.Objects {
		obj := &c.Objects[i]
		if !strings.Contains(obj.Name, "PowerUp") {
			continue
		}
		collider, ok := Get[Collider](obj)
		if !ok {
			continue
		}
		kind, ok := component.ParsePowerUpKind(collider.Tag)
		if !ok {
			continue
		}
		transform, _ := Get[Transform](obj)
		out = append(out, PowerUp{Kind: kind, X: transform.X, Y: transform.Y})
	}
	return out
}

// End is the x coordinate past which the level counts as finished.
func (c *Config) End() float64 {
	pipes := c.Pipes()
	if len(pipes) == 0 {
		return float64(c.Width)
	}
	return pipes[len(pipes)-1].Right() + 200
}
