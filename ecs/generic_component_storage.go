package ecs

import (
	"iter"
	"reflect"
)

// ComponentRegistry records which component types a Storage may hold and how
// to build a column for each. Separate registries keep separate worlds apart.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers T with the registry. Spawning an entity with an
// unregistered component type panics.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &blockColumn[T]{}
	}
}

// Registered reports whether t has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const blockSize = 64

// blockColumn stores components of one type in fixed-size blocks so that
// pointers handed out by Get stay valid while the column grows.
type blockColumn[T any] struct {
	blocks    []*[blockSize]T
	filled    []*[blockSize]bool
	freeSlots []int
	nextIndex int
}

func (c *blockColumn[T]) unwrap(item any) (T, bool) {
	switch v := item.(type) {
	case *T:
		return *v, true
	case T:
		return v, true
	}
	var zero T
	return zero, false
}

func (c *blockColumn[T]) locate(index int) (int, int, bool) {
	if index < 0 {
		return 0, 0, false
	}
	block, slot := index/blockSize, index%blockSize
	if block >= len(c.blocks) {
		return 0, 0, false
	}
	return block, slot, true
}

// Append stores item in a free slot (most recently freed first) and returns
// the slot index, or -1 when item is not a T.
func (c *blockColumn[T]) Append(item any) int {
	value, ok := c.unwrap(item)
	if !ok {
		return -1
	}

	var index int
	if n := len(c.freeSlots); n > 0 {
		index = c.freeSlots[n-1]
		c.freeSlots = c.freeSlots[:n-1]
	} else {
		index = c.nextIndex
		c.nextIndex++
		if index/blockSize >= len(c.blocks) {
			c.blocks = append(c.blocks, new([blockSize]T))
			c.filled = append(c.filled, new([blockSize]bool))
		}
	}

	block, slot := index/blockSize, index%blockSize
	c.blocks[block][slot] = value
	c.filled[block][slot] = true
	return index
}

// Set overwrites an occupied slot in place.
func (c *blockColumn[T]) Set(index int, item any) bool {
	value, ok := c.unwrap(item)
	if !ok {
		return false
	}
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return false
	}
	c.blocks[block][slot] = value
	return true
}

// Get returns a *T for an occupied slot, or nil.
func (c *blockColumn[T]) Get(index int) any {
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return nil
	}
	return &c.blocks[block][slot]
}

// Delete frees a slot and zeroes its value so references it held can be collected.
func (c *blockColumn[T]) Delete(index int) {
	block, slot, ok := c.locate(index)
	if !ok || !c.filled[block][slot] {
		return
	}
	var zero T
	c.blocks[block][slot] = zero
	c.filled[block][slot] = false
	c.freeSlots = append(c.freeSlots, index)
}

func (c *blockColumn[T]) Has(index int) bool {
	block, slot, ok := c.locate(index)
	return ok && c.filled[block][slot]
}

func (c *blockColumn[T]) Len() int {
	return c.nextIndex - len(c.freeSlots)
}

func (c *blockColumn[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < c.nextIndex; i++ {
			if !c.filled[i/blockSize][i%blockSize] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
