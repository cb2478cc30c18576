package ecs_test

import (
	"reflect"
	"testing"

	"github.com/plus3/flapper/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityRefFollowsMigration(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1})

	ref := storage.CreateEntityRef(id)
	require.NotNil(t, ref)
	assert.Same(t, ref, storage.CreateEntityRef(id), "one ref per entity")

	moved := storage.AddComponent(id, Velocity{})
	resolved, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, moved, resolved)

	back := storage.RemoveComponent(moved, reflect.TypeFor[Velocity]())
	resolved, ok = storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Equal(t, back, resolved)
}

func TestEntityRefInvalidatedOnDelete(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	storage.Delete(id)

	assert.False(t, ref.Valid())
	_, ok := storage.ResolveEntityRef(ref)
	assert.False(t, ok)

	// the slot is reused, the stale ref must not pick up the newcomer
	storage.Spawn(Position{})
	assert.False(t, ref.Valid())
}

func TestEntityRefForDeadEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	storage.Delete(id)

	assert.Nil(t, storage.CreateEntityRef(id))

	var nilRef *ecs.EntityRef
	assert.False(t, nilRef.Valid())
}

func TestInvalidateEntityRef(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})
	ref := storage.CreateEntityRef(id)

	assert.True(t, storage.InvalidateEntityRef(ref))
	assert.False(t, ref.Valid())
	assert.True(t, storage.Alive(id))
	assert.False(t, storage.InvalidateEntityRef(ref))

	fresh := storage.CreateEntityRef(id)
	require.NotNil(t, fresh)
	assert.NotSame(t, ref, fresh)
}

func TestEntityRefAsComponent(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	bird := storage.Spawn(Position{X: 100})
	feather := storage.Spawn(Feather{Owner: storage.CreateEntityRef(bird)})

	owner := ecs.ReadComponent[Feather](storage, feather).Owner
	view := ecs.NewView[struct{ *Position }](storage)
	require.NotNil(t, view.GetRef(owner))

	storage.Delete(bird)
	assert.Nil(t, view.GetRef(owner))
}
