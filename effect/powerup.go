package effect

import (
	"sort"

	"github.com/plus3/flapper/component"
)

const (
	SpeedMultiplier = 1.5
	ShrinkFactor    = 0.5
)

var durations = map[component.PowerUpKind]float64{
	component.PowerUpInvincibility: 5,
	component.PowerUpSpeed:         4,
	component.PowerUpShrink:        6,
}

// Duration is how long a freshly activated power-up of kind lasts, in seconds.
func Duration(kind component.PowerUpKind) float64 {
	return durations[kind]
}

type ActivePowerUp struct {
	Kind      component.PowerUpKind
	Remaining float64
	Duration  float64
}

// PowerUps is the set of power-ups currently affecting the bird.
type PowerUps struct {
	active map[component.PowerUpKind]*ActivePowerUp
}

// Activate starts kind, or restarts its timer if it is already running.
func (p *PowerUps) Activate(kind component.PowerUpKind) {
	if p.active == nil {
		p.active = make(map[component.PowerUpKind]*ActivePowerUp)
	}
	d := Duration(kind)
	p.active[kind] = &ActivePowerUp{Kind: kind, Remaining: d, Duration: d}
}

// Update ticks every timer and returns the kinds that expired.
func (p *PowerUps) Update(dt float64) []component.PowerUpKind {
	var expired []component.PowerUpKind
	for kind, a := range p.active {
		a.Remaining -= dt
		if a.Remaining <= 0 {
			delete(p.active, kind)
			expired = append(expired, kind)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i] < expired[j] })
	return expired
}

func (p *PowerUps) Active(kind component.PowerUpKind) bool {
	_, ok := p.active[kind]
	return ok
}

func (p *PowerUps) Remaining(kind component.PowerUpKind) float64 {
	if a, ok := p.active[kind]; ok {
		return a.Remaining
	}
	return 0
}

// List returns the active power-ups ordered by kind.
func (p *PowerUps) List() []ActivePowerUp {
	list := make([]ActivePowerUp, 0, len(p.active))
	for _, a := range p.active {
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Kind < list[j].Kind })
	return list
}

// Clear ends every power-up.
func (p *PowerUps) Clear() {
	clear(p.active)
}

// ScrollMultiplier is the factor applied to scroll speed.
func (p *PowerUps) ScrollMultiplier() float64 {
	if p.Active(component.PowerUpSpeed) {
		return SpeedMultiplier
	}
	return 1
}

// SizeMultiplier is the factor applied to the bird's collider and sprite.
func (p *PowerUps) SizeMultiplier() float64 {
	if p.Active(component.PowerUpShrink) {
		return ShrinkFactor
	}
	return 1
}
