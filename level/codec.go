package level

import (
	"encoding/json"

	"gitlab.com/tozd/go/errors"
)

type rawConfig struct {
	Type    string      `json:"type"`
	Name    string      `json:"name"`
	Width   *int        `json:"width"`
	Height  *int        `json:"height"`
	Gravity *float64    `json:"gravity"`
	BgR     *int        `json:"bgR"`
	BgG     *int        `json:"bgG"`
	BgB     *int        `json:"bgB"`
	Objects []rawObject `json:"gameObjects"`
}

type rawObject struct {
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Active     *bool             `json:"active"`
	Components []json.RawMessage `json:"components"`
}

type rawTransform struct {
	X        float64  `json:"x"`
	Y        float64  `json:"y"`
	Rotation float64  `json:"rotation"`
	ScaleX   *float64 `json:"scaleX"`
	ScaleY   *float64 `json:"scaleY"`
}

type rawSprite struct {
	Width  *int `json:"width"`
	Height *int `json:"height"`
	R      int  `json:"r"`
	G      int  `json:"g"`
	B      int  `json:"b"`
}

type rawPhysics struct {
	VX           float64  `json:"vx"`
	VY           float64  `json:"vy"`
	GravityScale *float64 `json:"gravityScale"`
}

func or[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}

func (c *Config) UnmarshalJSON(data []byte) error {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Config{
		Type:    raw.Type,
		Name:    raw.Name,
		Width:   or(raw.Width, DefaultWidth),
		Height:  or(raw.Height, DefaultHeight),
		Gravity: or(raw.Gravity, DefaultGravity),
		BgR:     or(raw.BgR, DefaultBackground[0]),
		BgG:     or(raw.BgG, DefaultBackground[1]),
		BgB:     or(raw.BgB, DefaultBackground[2]),
		Objects: make([]Object, 0, len(raw.Objects)),
	}
	if c.Type == "" {
		c.Type = "Level"
	}

	for _, ro := range raw.Objects {
		obj := Object{
			Name:       ro.Name,
			Active:     or(ro.Active, true),
			Components: make([]Component, 0, len(ro.Components)),
		}
		for _, rc := range ro.Components {
			comp, err := decodeComponent(rc)
			if err != nil {
				return errors.Errorf("object %q: %w", ro.Name, err)
			}
			obj.Components = append(obj.Components, comp)
		}
		c.Objects = append(c.Objects, obj)
	}
	return nil
}

func decodeComponent(data json.RawMessage) (Component, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	switch head.Type {
	case "Transform":
		var t rawTransform
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, err
		}
		return Transform{
			X:        t.X,
			Y:        t.Y,
			Rotation: t.Rotation,
			ScaleX:   or(t.ScaleX, 1),
			ScaleY:   or(t.ScaleY, 1),
		}, nil
	case "Sprite":
		var s rawSprite
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return Sprite{
			Width:  or(s.Width, DefaultSpriteWidth),
			Height: or(s.Height, DefaultSpriteHeight),
			R:      s.R,
			G:      s.G,
			B:      s.B,
		}, nil
	case "Collider":
		var c Collider
		err := json.Unmarshal(data, &c)
		return c, err
	case "Script":
		var s Script
		err := json.Unmarshal(data, &s)
		return s, err
	case "Physics":
		var p rawPhysics
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return Physics{VX: p.VX, VY: p.VY, GravityScale: or(p.GravityScale, 1)}, nil
	}
	return nil, errors.Errorf("%w %q", ErrUnknownComponent, head.Type)
}

func (o Object) MarshalJSON() ([]byte, error) {
	comps := make([]any, 0, len(o.Components))
	for _, comp := range o.Components {
		switch v := comp.(type) {
		case Transform:
			comps = append(comps, struct {
				Type string `json:"type"`
				Transform
			}{"Transform", v})
		case Sprite:
			comps = append(comps, struct {
				Type string `json:"type"`
				Sprite
			}{"Sprite", v})
		case Collider:
			comps = append(comps, struct {
				Type string `json:"type"`
				Collider
			}{"Collider", v})
		case Script:
			comps = append(comps, struct {
				Type string `json:"type"`
				Script
			}{"Script", v})
		case Physics:
			comps = append(comps, struct {
				Type string `json:"type"`
				Physics
			}{"Physics", v})
		default:
			return nil, errors.Errorf("%w %T", ErrUnknownComponent, comp)
		}
	}

	return json.Marshal(struct {
		Type       string `json:"type"`
		Name       string `json:"name"`
		Active     bool   `json:"active"`
		Components []any  `json:"components"`
	}{"GameObject", o.Name, o.Active, comps})
}
