package script

import (
	"log/slog"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
)

// Collision is one contact reported to the entity's script.
type Collision struct {
	Entity ecs.EntityId
	Tag    string
}

// Collisions is a singleton queue filled by the collision system and drained
// by the script System on the next frame.
type Collisions struct {
	pending []Collision
}

func (c *Collisions) Report(entity ecs.EntityId, tag string) {
	c.pending = append(c.pending, Collision{Entity: entity, Tag: tag})
}

func (c *Collisions) Len() int {
	return len(c.pending)
}

type scriptView struct {
	ecs.EntityId
	*component.Script
	*component.Transform
	Physics *component.Physics `ecs:"optional"`
}

// System runs the GameScript of every entity carrying a Script component.
type System struct {
	Scripts    ecs.Query[scriptView]
	Collisions ecs.Singleton[Collisions]

	Registry *Registry
	// Flap is called when a script asks its entity to flap.
	Flap func(frame *ecs.UpdateFrame, id ecs.EntityId)

	instances map[ecs.EntityId]GameScript
	seen      map[ecs.EntityId]bool
}

func NewSystem(registry *Registry) *System {
	return &System{
		Registry:  registry,
		instances: make(map[ecs.EntityId]GameScript),
		seen:      make(map[ecs.EntityId]bool),
	}
}

// Instance returns the running script of id, if any.
func (s *System) Instance(id ecs.EntityId) (GameScript, bool) {
	gs, ok := s.instances[id]
	return gs, ok
}

func (s *System) Execute(frame *ecs.UpdateFrame) {
	clear(s.seen)

	for v := range s.Scripts.Iter() {
		if v.State.Failed {
			continue
		}
		s.seen[v.EntityId] = true

		ctx := s.context(frame, v)
		gs, ok := s.instances[v.EntityId]
		if !ok {
			var err error
			gs, err = s.Registry.New(v.Name, v.Params)
			if err != nil {
				slog.Warn("script disabled", "script", v.Name, "err", err)
				v.State.Failed = true
				continue
			}
			s.instances[v.EntityId] = gs
		}
		if !v.State.Started {
			gs.Start(ctx)
			v.State.Started = true
		}
		v.State.Elapsed += frame.DeltaTime
		gs.Update(ctx, frame.DeltaTime)
	}

	for id := range s.instances {
		if !s.seen[id] {
			delete(s.instances, id)
		}
	}

	if queue := s.Collisions.Get(); queue != nil {
		for _, c := range queue.pending {
			gs, ok := s.instances[c.Entity]
			if !ok {
				continue
			}
			v := s.Scripts.View().Get(c.Entity)
			if v == nil {
				continue
			}
			gs.OnCollision(s.context(frame, *v), c.Tag)
		}
		queue.pending = queue.pending[:0]
	}
}

func (s *System) context(frame *ecs.UpdateFrame, v scriptView) *Context {
	ctx := &Context{
		Entity:    v.EntityId,
		Storage:   frame.Storage,
		Commands:  frame.Commands,
		Transform: v.Transform,
		Physics:   v.Physics,
		Params:    v.Params,
	}
	if s.Flap != nil {
		id := v.EntityId
		ctx.flap = func() { s.Flap(frame, id) }
	}
	return ctx
}
