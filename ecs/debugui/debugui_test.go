package debugui_test

import (
	"reflect"
	"testing"

	"github.com/plus3/flapper/ecs"
	"github.com/plus3/flapper/ecs/debugui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type position struct {
	X, Y float64
}

type body struct {
	Pos    position
	Mass   float32
	Name   string
	Frozen bool
	hidden int
}

type counter int

func newStorage() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[position](registry)
	ecs.RegisterComponent[body](registry)
	ecs.RegisterComponent[counter](registry)
	return ecs.NewStorage(registry)
}

func TestFrameHistory(t *testing.T) {
	h := debugui.NewFrameHistory(3)
	assert.Zero(t, h.Average())
	assert.Zero(t, h.FPS())

	h.Push(0.010)
	assert.InDelta(t, 10, h.Average(), 1e-4)

	h.Push(0.020)
	h.Push(0.030)
	h.Push(0.040)
	assert.InDelta(t, 30, h.Average(), 1e-4, "oldest sample is overwritten")
	assert.InDelta(t, 1000.0/30, h.FPS(), 1e-3)
}

func TestListAndFilterEntities(t *testing.T) {
	storage := newStorage()
	a := storage.Spawn(position{X: 1})
	b := storage.Spawn(position{}, counter(2))
	storage.Spawn(body{Name: "rock"})
	storage.Delete(a)

	rows := debugui.ListEntities(storage)
	require.Len(t, rows, 2)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].ID, rows[i].ID)
	}

	found := debugui.FilterEntities(rows, "COUNTER")
	require.Len(t, found, 1)
	assert.Equal(t, b, found[0].ID)
	assert.Contains(t, found[0].Components, "debugui_test.counter")

	assert.Len(t, debugui.FilterEntities(rows, "  "), 2)
	assert.Empty(t, debugui.FilterEntities(rows, "nothing"))
}

func TestFieldsAreEditable(t *testing.T) {
	storage := newStorage()
	id := storage.Spawn(body{Pos: position{X: 1, Y: 2}, Mass: 3, Name: "rock"})
	ptr := storage.GetComponent(id, reflect.TypeFor[body]())

	fields := debugui.Fields(ptr)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Name
	}
	assert.Equal(t, []string{"Pos.X", "Pos.Y", "Mass", "Name", "Frozen"}, names)

	fields[1].Value.SetFloat(9)
	fields[4].Value.SetBool(true)
	got := ecs.ReadComponent[body](storage, id)
	assert.Equal(t, 9.0, got.Pos.Y)
	assert.True(t, got.Frozen)
}

func TestFieldsOfScalarComponent(t *testing.T) {
	c := counter(5)
	fields := debugui.Fields(&c)
	require.Len(t, fields, 1)
	assert.Equal(t, "value", fields[0].Name)
	fields[0].Value.SetInt(7)
	assert.Equal(t, counter(7), c)

	assert.Nil(t, debugui.Fields(nil))
	assert.Nil(t, debugui.Fields(c))
}

func TestTargetValid(t *testing.T) {
	var nilTarget *debugui.Target
	assert.False(t, nilTarget.Valid())
	assert.False(t, (&debugui.Target{}).Valid())
	assert.True(t, (&debugui.Target{Storage: newStorage()}).Valid())
}
