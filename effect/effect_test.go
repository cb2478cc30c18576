package effect_test

import (
	"testing"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/effect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenShake(t *testing.T) {
	s := effect.NewScreenShake(42)

	dx, dy := s.Offset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)

	s.Start(8, 0.4)
	require.True(t, s.Active())
	for range 20 {
		dx, dy = s.Offset()
		assert.LessOrEqual(t, dx, 8.0)
		assert.GreaterOrEqual(t, dx, -8.0)
		assert.LessOrEqual(t, dy, 8.0)
		assert.GreaterOrEqual(t, dy, -8.0)
	}

	s.Update(0.2)
	for range 20 {
		dx, _ = s.Offset()
		assert.LessOrEqual(t, dx, 4.0+1e-9)
		assert.GreaterOrEqual(t, dx, -4.0-1e-9)
	}

	s.Update(0.3)
	assert.False(t, s.Active())
	dx, dy = s.Offset()
	assert.Zero(t, dx)
	assert.Zero(t, dy)
}

func TestScreenShakeKeepsStronger(t *testing.T) {
	s := effect.NewScreenShake(1)
	s.Start(8, 1)
	s.Start(2, 5)
	assert.Equal(t, 8.0, s.Intensity)
	assert.Equal(t, 1.0, s.Duration)

	s.Update(0.9)
	// 8 * 0.1 is weaker than the new shake now
	s.Start(2, 5)
	assert.Equal(t, 2.0, s.Intensity)
	assert.Equal(t, 5.0, s.Remaining)
}

func TestScreenShakeSeeded(t *testing.T) {
	a := effect.NewScreenShake(7)
	b := effect.NewScreenShake(7)
	a.Start(5, 1)
	b.Start(5, 1)
	for range 5 {
		ax, ay := a.Offset()
		bx, by := b.Offset()
		assert.Equal(t, ax, bx)
		assert.Equal(t, ay, by)
	}
}

func TestSlowMotion(t *testing.T) {
	var s effect.SlowMotionEffect
	assert.Equal(t, 1.0, s.Scale())

	s.Start(0.25, 0.8)
	assert.Equal(t, 0.25, s.Scale())

	s.Update(0.5)
	assert.Equal(t, 0.25, s.Scale())

	// halfway through the 0.2s ease
	s.Update(0.2)
	assert.InDelta(t, 0.625, s.Scale(), 1e-9)

	s.Update(0.2)
	assert.False(t, s.Active())
	assert.Equal(t, 1.0, s.Scale())
}

func TestSlowMotionClamp(t *testing.T) {
	var s effect.SlowMotionEffect
	s.Start(0, 1)
	assert.Equal(t, effect.MinTimeScale, s.Scale())

	s.Start(3, 1)
	assert.Equal(t, 1.0, s.Scale())

	s.Start(0.5, 0)
	assert.Equal(t, 1.0, s.Scale())
}

func TestPowerUps(t *testing.T) {
	var p effect.PowerUps
	assert.False(t, p.Active(component.PowerUpSpeed))
	assert.Equal(t, 1.0, p.ScrollMultiplier())
	assert.Equal(t, 1.0, p.SizeMultiplier())

	p.Activate(component.PowerUpSpeed)
	p.Activate(component.PowerUpShrink)
	assert.Equal(t, effect.SpeedMultiplier, p.ScrollMultiplier())
	assert.Equal(t, effect.ShrinkFactor, p.SizeMultiplier())
	assert.Equal(t, 4.0, p.Remaining(component.PowerUpSpeed))

	expired := p.Update(3)
	assert.Empty(t, expired)
	assert.InDelta(t, 1.0, p.Remaining(component.PowerUpSpeed), 1e-9)

	p.Activate(component.PowerUpSpeed)
	assert.Equal(t, 4.0, p.Remaining(component.PowerUpSpeed))

	list := p.List()
	require.Len(t, list, 2)
	assert.Equal(t, component.PowerUpSpeed, list[0].Kind)
	assert.Equal(t, component.PowerUpShrink, list[1].Kind)

	expired = p.Update(3.5)
	assert.Equal(t, []component.PowerUpKind{component.PowerUpShrink}, expired)
	assert.True(t, p.Active(component.PowerUpSpeed))

	assert.Equal(t, []component.PowerUpKind{component.PowerUpSpeed}, p.Update(1))
	assert.Empty(t, p.List())
	assert.Zero(t, p.Remaining(component.PowerUpSpeed))
}

func TestPowerUpDurations(t *testing.T) {
	assert.Equal(t, 5.0, effect.Duration(component.PowerUpInvincibility))
	assert.Equal(t, 4.0, effect.Duration(component.PowerUpSpeed))
	assert.Equal(t, 6.0, effect.Duration(component.PowerUpShrink))
}
