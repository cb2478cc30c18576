package level

import (
	"strings"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"gitlab.com/tozd/go/errors"
)

// ScriptCheck reports whether a script name can be instantiated.
type ScriptCheck func(name string) error

// Spawn creates an entity for every active object in cfg plus one Pipe gate
// per pipe pair. Objects tagged as power-ups also get a PowerUpPickup.
func Spawn(storage *ecs.Storage, cfg *Config, check ScriptCheck) ([]ecs.EntityId, error) {
	ids := make([]ecs.EntityId, 0, len(cfg.Objects))

	for i := range cfg.Objects {
		obj := &cfg.Objects[i]
		if !obj.Active {
			continue
		}

		comps, err := objectComponents(obj, check)
		if err != nil {
			return nil, err
		}
		ids = append(ids, storage.Spawn(comps...))
	}

	for _, pipe := range cfg.Pipes() {
		ids = append(ids, storage.Spawn(pipe))
	}
	return ids, nil
}

func objectComponents(obj *Object, check ScriptCheck) ([]any, error) {
	transform := component.Transform{ScaleX: 1, ScaleY: 1}
	if t, ok := Get[Transform](obj); ok {
		transform = component.Transform{X: t.X, Y: t.Y, Rotation: t.Rotation, ScaleX: t.ScaleX, ScaleY: t.ScaleY}
	}

	comps := []any{
		component.GameObject{Name: obj.Name, Active: obj.Active},
		transform,
	}

	var pickup *component.PowerUpPickup
	for _, c := range obj.Components {
		switch c := c.(type) {
		case Sprite:
			comps = append(comps, component.Sprite{
				Width:  c.Width,
				Height: c.Height,
				Color:  component.RGB(clampByte(c.R), clampByte(c.G), clampByte(c.B)),
				Layer:  layerFor(obj.Name),
			})
		case Collider:
			comps = append(comps, component.Collider{
				Width:     c.Width,
				Height:    c.Height,
				IsTrigger: c.IsTrigger,
				Tag:       c.Tag,
			})
			if kind, ok := component.ParsePowerUpKind(c.Tag); ok && c.IsTrigger {
				pickup = &component.PowerUpPickup{Kind: kind}
			}
		case Physics:
			comps = append(comps, component.Physics{VX: c.VX, VY: c.VY, GravityScale: c.GravityScale})
		case Script:
			if check != nil {
				if err := check(c.Name); err != nil {
					return nil, errors.Errorf("object %q: %w", obj.Name, err)
				}
			}
			comps = append(comps, component.Script{Name: c.Name, Params: c.Params})
		}
	}

	if pickup != nil {
		comps = append(comps, *pickup)
		// pickups are placed by their center
		if t, ok := comps[1].(component.Transform); ok {
			if col, ok := Get[Collider](obj); ok {
				t.X -= col.Width / 2
				t.Y -= col.Height / 2
				comps[1] = t
			}
		}
		for i, c := range comps {
			if s, ok := c.(component.Sprite); ok {
				s.Shape = component.ShapeCircle
				comps[i] = s
			}
		}
	}
	return comps, nil
}

func layerFor(name string) int {
	switch {
	case name == "Ground":
		return 3
	case strings.HasPrefix(name, "Pipe"):
		return 1
	case strings.Contains(name, "PowerUp"):
		return 2
	}
	return 0
}
