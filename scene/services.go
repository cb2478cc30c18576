package scene

import (
	"github.com/plus3/flapper/audio"
	"github.com/plus3/flapper/game"
	"github.com/plus3/flapper/input"
	"github.com/plus3/flapper/level"
	"github.com/plus3/flapper/score"
	"github.com/plus3/flapper/script"
)

// Services are shared by every scene.
type Services struct {
	Levels   *level.Manager
	Scores   score.Store
	Input    *input.Manager
	Audio    audio.Player
	Scripts  *script.Registry
	Settings game.Settings
	Player   string
	Seed     uint64
	// Autopilot plays every level with the autopilot script.
	Autopilot bool
}

// New registers the menu, play and game-over scenes on a Manager.
func New(svc *Services) *Manager {
	return NewManager(NewMenu(svc), NewPlay(svc), NewGameOver(svc))
}

func (s *Services) levelName(i int) string {
	if i >= s.Levels.Len() {
		return level.EndlessName
	}
	return s.Levels.Names()[i]
}
