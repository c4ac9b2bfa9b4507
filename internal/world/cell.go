package world

import (
	"sync"
	"sync/atomic"
)

// Cell holds the objects standing in one grid cell.
// Keeps a lazily rebuilt snapshot so radius queries do not walk the map each time.
type Cell[T Object] struct {
	key cellKey

	objects sync.Map // map[uint64]T

	snapshot atomic.Pointer[[]T]
	dirty    atomic.Bool
	size     atomic.Int32
}

func newCell[T Object](key cellKey) *Cell[T] {
	return &Cell[T]{key: key}
}

func (c *Cell[T]) add(obj T) {
	if _, loaded := c.objects.Swap(obj.GUID(), obj); !loaded {
		c.size.Add(1)
	}
	c.dirty.Store(true)
}

func (c *Cell[T]) remove(guid uint64) {
	if _, loaded := c.objects.LoadAndDelete(guid); loaded {
		c.size.Add(-1)
	}
	c.dirty.Store(true)
}

// Len returns the number of objects in the cell.
func (c *Cell[T]) Len() int {
	return int(c.size.Load())
}

// Snapshot returns the cell's objects.
// IMPORTANT: Returned slice is shared, DO NOT modify.
func (c *Cell[T]) Snapshot() []T {
	if !c.dirty.Load() {
		if snap := c.snapshot.Load(); snap != nil {
			return *snap
		}
	}
	return c.rebuild()
}

func (c *Cell[T]) rebuild() []T {
	c.dirty.Store(false)

	objects := make([]T, 0, c.Len())
	c.objects.Range(func(_, value any) bool {
		objects = append(objects, value.(T))
		return true
	})
	c.snapshot.Store(&objects)
	return objects
}
