// Package game runs one level of play: it spawns a level into a fresh ECS
// world, adds the bird and drives the gameplay systems.
package game

import (
	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/level"
)

const (
	BirdX      = 150
	BirdWidth  = 34
	BirdHeight = 24

	DefaultFlapVelocity = -300
	DefaultScrollSpeed  = 150
	DefaultMaxFall      = 600

	// GameOverDelay is the real time between death and game over.
	GameOverDelay = 1.0

	ShakeIntensity  = 8
	ShakeDuration   = 0.4
	SlowMotionScale = 0.25
	SlowMotionTime  = 0.8

	maxRotation = 90
	minRotation = -30
)

// GameState is the per-level singleton that scenes read.
type GameState struct {
	Level      string
	LevelIndex int
	Score      int
	Flaps      int
	PowerUps   int

	Dead       bool
	Cause      string
	DeathTimer float64
	// Finished is set once the bird flies past the level's end.
	Finished bool
	Elapsed  float64
}

// Over reports whether the death animation has played out.
func (s *GameState) Over() bool {
	return s.Dead && s.DeathTimer >= GameOverDelay
}

// Settings are the tunables that come from configuration.
type Settings struct {
	FlapVelocity float64
	ScrollSpeed  float64
	MaxFall      float64
	Shake        bool
	SlowMotion   bool
	Particles    bool
}

func DefaultSettings() Settings {
	return Settings{
		FlapVelocity: DefaultFlapVelocity,
		ScrollSpeed:  DefaultScrollSpeed,
		MaxFall:      DefaultMaxFall,
		Shake:        true,
		SlowMotion:   true,
		Particles:    true,
	}
}

// LevelInfo is the level-wide data systems need.
type LevelInfo struct {
	Name       string
	Width      float64
	Height     float64
	Gravity    float64
	End        float64
	GroundY    float64
	Background component.Color
}

func newLevelInfo(cfg *level.Config) LevelInfo {
	return LevelInfo{
		Name:       cfg.Name,
		Width:      float64(cfg.Width),
		Height:     float64(cfg.Height),
		Gravity:    cfg.Gravity,
		End:        cfg.End(),
		GroundY:    cfg.GroundY(),
		Background: component.RGB(cfg.Background()),
	}
}
