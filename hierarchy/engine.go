package hierarchy

import (
	_ "embed"
)

//go:embed hierarchy.js
var engineTable []byte

// Engine returns the engine's documented type hierarchy.
func Engine() []*Node {
	nodes, err := Parse(engineTable)
	if err != nil {
		panic("embedded hierarchy: " + err.Error())
	}
	return nodes
}

// EngineTable is the raw embedded table.
func EngineTable() []byte {
	return engineTable
}

// Homes maps each documented type to the Go identifier that implements it.
var Homes = map[string]string{
	"ActivePowerUp":      "effect.ActivePowerUp",
	"Component":          "component (ecs components)",
	"PhysicsComponent":   "component.Physics",
	"TransformComponent": "component.Transform",
	"GameObject":         "component.GameObject",
	"GameScript":         "script.GameScript",
	"InputManager":       "input.Manager",
	"LevelConfig":        "level.Config",
	"LevelManager":       "level.Manager",
	"Particle":           "particle.Particle",
	"ParticleEmitter":    "particle.Emitter",
	"Pipe":               "component.Pipe",
	"Renderer":           "render.Renderer",
	"ResourceManager":    "resource.Manager",
	"Scene":              "scene.Scene",
	"GameOverScene":      "scene.GameOver",
	"MenuScene":          "scene.Menu",
	"ScreenShake":        "effect.ScreenShake",
	"SlowMotionEffect":   "effect.SlowMotionEffect",
}
