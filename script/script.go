// Package script attaches named behaviours to level objects.
//
// A level object carries a component.Script naming its behaviour and its
// parameters. The System instantiates the behaviour from a Registry the first
// time it sees the entity and drives it every frame after that.
package script

import (
	"sort"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"gitlab.com/tozd/go/errors"
)

var ErrUnknownScript = errors.Base("unknown script")

// GameScript is a per-entity behaviour.
type GameScript interface {
	Start(ctx *Context)
	Update(ctx *Context, dt float64)
	OnCollision(ctx *Context, tag string)
}

// Context is what a script sees of its entity. Physics is nil when the entity
// has no Physics component.
type Context struct {
	Entity    ecs.EntityId
	Storage   *ecs.Storage
	Commands  *ecs.Commands
	Transform *component.Transform
	Physics   *component.Physics
	Params    map[string]float64

	flap func()
}

// Param returns the named parameter or def when it is absent.
func (c *Context) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

// Flap makes the entity flap like the player would. It does nothing for
// entities that cannot flap.
func (c *Context) Flap() {
	if c.flap != nil {
		c.flap()
	}
}

type Constructor func(params map[string]float64) GameScript

type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Builtin returns a registry holding oscillate, spin and autopilot.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register("oscillate", NewOscillate)
	r.Register("spin", NewSpin)
	r.Register("autopilot", NewAutopilot)
	return r
}

// Register adds or replaces a constructor.
func (r *Registry) Register(name string, ctor Constructor) {
	r.ctors[name] = ctor
}

// Check returns ErrUnknownScript if name is not registered.
func (r *Registry) Check(name string) error {
	if _, ok := r.ctors[name]; !ok {
		return errors.Errorf("%w %q", ErrUnknownScript, name)
	}
	return nil
}

func (r *Registry) New(name string, params map[string]float64) (GameScript, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, errors.Errorf("%w %q", ErrUnknownScript, name)
	}
	return ctor(params), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
