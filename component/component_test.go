package component_test

import (
	"testing"

	"github.com/plus3/flapper/component"
	"github.com/stretchr/testify/assert"
)

func TestColorFade(t *testing.T) {
	c := component.RGB(10, 20, 30)

	assert.Equal(t, uint8(255), c.A)
	assert.Equal(t, uint8(128), c.Fade(0.5).A)
	assert.Equal(t, uint8(0), c.Fade(-1).A)
	assert.Equal(t, uint8(255), c.Fade(2).A)
	assert.Equal(t, "#0a141e", c.Hex())
}

func TestParsePowerUpKind(t *testing.T) {
	tests := []struct {
		in   string
		kind component.PowerUpKind
		ok   bool
	}{
		{"invincibility", component.PowerUpInvincibility, true},
		{"powerup_speed", component.PowerUpSpeed, true},
		{"shrink", component.PowerUpShrink, true},
		{"powerup", 0, false},
		{"teleport", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			kind, ok := component.ParsePowerUpKind(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, kind)
				assert.Equal(t, "powerup_"+kind.String(), kind.Tag())
			}
		})
	}
}

func TestPipeEdges(t *testing.T) {
	p := component.Pipe{X: 400, Width: 60, GapTop: 200, GapHeight: 150}

	assert.Equal(t, 370.0, p.Left())
	assert.Equal(t, 430.0, p.Right())
	assert.Equal(t, 275.0, p.GapCenter())
}
