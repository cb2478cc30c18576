package script_test

import (
	"testing"

	"github.com/plus3/flapper/component"
	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func newWorld(t *testing.T) (*ecs.Storage, *ecs.Scheduler, *script.System) {
	t.Helper()
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	storage := ecs.NewStorage(registry)
	scheduler := ecs.NewScheduler(storage)
	system := script.NewSystem(script.Builtin())
	scheduler.Register(system)
	return storage, scheduler, system
}

func TestRegistry(t *testing.T) {
	r := script.Builtin()
	assert.Equal(t, []string{"autopilot", "oscillate", "spin"}, r.Names())
	assert.NoError(t, r.Check("spin"))

	err := r.Check("teleport")
	require.Error(t, err)
	assert.True(t, errors.Is(err, script.ErrUnknownScript))
	assert.Contains(t, err.Error(), `"teleport"`)

	_, err = r.New("teleport", nil)
	assert.True(t, errors.Is(err, script.ErrUnknownScript))

	r.Register("teleport", script.NewSpin)
	assert.NoError(t, r.Check("teleport"))
}

func TestSpin(t *testing.T) {
	storage, scheduler, _ := newWorld(t)
	id := storage.Spawn(
		component.Transform{ScaleX: 1, ScaleY: 1},
		component.Script{Name: "spin", Params: map[string]float64{"speed": 180}},
	)

	for range 3 {
		scheduler.Once(0.5)
	}
	tr := ecs.ReadComponent[component.Transform](storage, id)
	assert.InDelta(t, 270.0, tr.Rotation, 1e-9)

	scheduler.Once(0.5)
	assert.InDelta(t, 0.0, tr.Rotation, 1e-9)

	sc := ecs.ReadComponent[component.Script](storage, id)
	assert.True(t, sc.State.Started)
	assert.InDelta(t, 2.0, sc.State.Elapsed, 1e-9)
}

func TestOscillate(t *testing.T) {
	storage, scheduler, _ := newWorld(t)
	id := storage.Spawn(
		component.Transform{Y: 100},
		component.Script{Name: "oscillate", Params: map[string]float64{"amplitude": 10, "period": 4}},
	)

	scheduler.Once(1)
	tr := ecs.ReadComponent[component.Transform](storage, id)
	assert.InDelta(t, 110.0, tr.Y, 1e-9)

	scheduler.Once(1)
	assert.InDelta(t, 100.0, tr.Y, 1e-9)

	scheduler.Once(1)
	assert.InDelta(t, 90.0, tr.Y, 1e-9)
}

func TestUnknownScriptIsDisabled(t *testing.T) {
	storage, scheduler, system := newWorld(t)
	id := storage.Spawn(component.Transform{}, component.Script{Name: "nope"})

	scheduler.Once(0.1)
	scheduler.Once(0.1)

	sc := ecs.ReadComponent[component.Script](storage, id)
	assert.True(t, sc.State.Failed)
	_, ok := system.Instance(id)
	assert.False(t, ok)
}

func TestAutopilotFlapsBelowGap(t *testing.T) {
	storage, scheduler, system := newWorld(t)

	var flaps []ecs.EntityId
	system.Flap = func(frame *ecs.UpdateFrame, id ecs.EntityId) {
		flaps = append(flaps, id)
		ecs.ReadComponent[component.Physics](frame.Storage, id).VY = -300
	}

	storage.Spawn(component.Pipe{X: 400, Width: 60, GapTop: 200, GapHeight: 150})
	bird := storage.Spawn(
		component.Transform{X: 150, Y: 300},
		component.Physics{VY: 50},
		component.Collider{Width: 34, Height: 24},
		component.Script{Name: "autopilot"},
	)

	// center 312 is below 275 + 15
	scheduler.Once(0.01)
	assert.Equal(t, []ecs.EntityId{bird}, flaps)

	// still below, but already climbing fast
	scheduler.Once(0.01)
	assert.Len(t, flaps, 1)

	tr := ecs.ReadComponent[component.Transform](storage, bird)
	tr.Y = 200
	ecs.ReadComponent[component.Physics](storage, bird).VY = 100
	scheduler.Once(0.01)
	assert.Len(t, flaps, 1)
}

func TestNextGap(t *testing.T) {
	storage, _, _ := newWorld(t)
	storage.Spawn(component.Pipe{X: 300, Width: 60, GapTop: 100, GapHeight: 100})
	storage.Spawn(component.Pipe{X: 550, Width: 60, GapTop: 300, GapHeight: 100})

	y, ok := script.NextGap(storage, 100)
	require.True(t, ok)
	assert.Equal(t, 150.0, y)

	y, ok = script.NextGap(storage, 340)
	require.True(t, ok)
	assert.Equal(t, 350.0, y)

	_, ok = script.NextGap(storage, 600)
	assert.False(t, ok)
}

type recordingScript struct {
	tags []string
}

func (r *recordingScript) Start(*script.Context)                     {}
func (r *recordingScript) Update(*script.Context, float64)           {}
func (r *recordingScript) OnCollision(_ *script.Context, tag string) { r.tags = append(r.tags, tag) }

func TestCollisionsReachScript(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	storage := ecs.NewStorage(registry)
	storage.AddSingleton(script.Collisions{})
	scheduler := ecs.NewScheduler(storage)

	rec := &recordingScript{}
	scripts := script.NewRegistry()
	scripts.Register("rec", func(map[string]float64) script.GameScript { return rec })
	scheduler.Register(script.NewSystem(scripts))

	id := storage.Spawn(component.Transform{}, component.Script{Name: "rec"})
	scheduler.Once(0.1)

	var queue *script.Collisions
	require.True(t, storage.ReadSingleton(&queue))
	queue.Report(id, "pipe")
	queue.Report(ecs.EntityId(12345), "ground")

	scheduler.Once(0.1)
	assert.Equal(t, []string{"pipe"}, rec.tags)
	assert.Zero(t, queue.Len())
}
