package level

import (
	"math/rand/v2"

	"github.com/plus3/flapper/component"
)

const (
	// EndlessName is the name given to generated levels.
	EndlessName = "endless"

	GenerateSpacing = 250
	generateStartX  = 500
	powerUpEvery    = 7
)

// Generate builds a level of count pipes from seed. The same seed always
// yields the same level.
func Generate(seed uint64, count int) *Config {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	b := NewBuilder(EndlessName)

	lo := MinGapTop + DefaultPipeGap/2
	hi := DefaultHeight - GroundHeight - DefaultPipeGap/2

	kinds := component.PowerUpKinds()
	for i := range count {
		x := float64(generateStartX + i*GenerateSpacing)
		y := float64(lo + rng.IntN(hi-lo+1))
		b.AddPipe(x, y)

		if i%powerUpEvery == powerUpEvery-1 && i < count-1 {
			kind := kinds[rng.IntN(len(kinds))]
			b.AddPowerUp(kind, x+GenerateSpacing/2, y)
		}
	}
	return b.Build()
}
