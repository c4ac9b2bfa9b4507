package world

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/udisondev/spellcore/internal/model"
)

// ErrDuplicateObject is returned by Add when the GUID is already registered.
var ErrDuplicateObject = errors.New("object already in world")

// Object is anything the world can place on a map.
type Object interface {
	GUID() uint64
	MapID() uint32
	Location() model.Location
}

type entry[T Object] struct {
	obj T
	key cellKey
}

// World indexes objects of every map by GUID and by grid cell.
// Objects move on their own; Relocate or Sync moves them to their new cell.
type World[T Object] struct {
	mu      sync.RWMutex
	cells   map[cellKey]*Cell[T]
	objects map[uint64]entry[T]
}

// New creates an empty world.
func New[T Object]() *World[T] {
	return &World[T]{
		cells:   make(map[cellKey]*Cell[T]),
		objects: make(map[uint64]entry[T]),
	}
}

// Add places obj into the cell of its current position.
func (w *World[T]) Add(obj T) error {
	loc := obj.Location()
	key := keyOf(obj.MapID(), loc.X, loc.Y)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.objects[obj.GUID()]; ok {
		return fmt.Errorf("adding object %d: %w", obj.GUID(), ErrDuplicateObject)
	}
	w.objects[obj.GUID()] = entry[T]{obj: obj, key: key}
	w.cellLocked(key).add(obj)
	return nil
}

// Remove takes the object out of the world. Returns false if it was not there.
func (w *World[T]) Remove(guid uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.objects[guid]
	if !ok {
		return false
	}
	delete(w.objects, guid)
	w.dropLocked(e.key, guid)
	return true
}

// Get returns object by GUID.
func (w *World[T]) Get(guid uint64) (T, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	e, ok := w.objects[guid]
	return e.obj, ok
}

// Relocate moves the object to the cell of its current position.
// Returns true if the cell changed.
func (w *World[T]) Relocate(guid uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	e, ok := w.objects[guid]
	if !ok {
		return false
	}
	return w.relocateLocked(guid, e)
}

// Sync relocates every object whose position left its cell (teleports, movement
// done by spell effects). Returns the number of moved objects.
func (w *World[T]) Sync() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	moved := 0
	for guid, e := range w.objects {
		if w.relocateLocked(guid, e) {
			moved++
		}
	}
	return moved
}

func (w *World[T]) relocateLocked(guid uint64, e entry[T]) bool {
	loc := e.obj.Location()
	key := keyOf(e.obj.MapID(), loc.X, loc.Y)
	if key == e.key {
		return false
	}
	w.dropLocked(e.key, guid)
	w.cellLocked(key).add(e.obj)
	w.objects[guid] = entry[T]{obj: e.obj, key: key}
	return true
}

// InRadius returns the objects on mapID within radius of center (3D, inclusive),
// ordered by GUID.
func (w *World[T]) InRadius(mapID uint32, center model.Location, radius float32) []T {
	radius = min(radius, MaxQueryRadius)
	if radius < 0 {
		return nil
	}
	minX, maxX := CellSpan(center.X, radius)
	minY, maxY := CellSpan(center.Y, radius)

	w.mu.RLock()
	var out []T
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			c, ok := w.cells[cellKey{mapID: mapID, cx: cx, cy: cy}]
			if !ok {
				continue
			}
			for _, obj := range c.Snapshot() {
				if obj.MapID() == mapID && center.IsInRange(obj.Location(), radius) {
					out = append(out, obj)
				}
			}
		}
	}
	w.mu.RUnlock()

	slices.SortFunc(out, func(a, b T) int {
		return cmp.Compare(a.GUID(), b.GUID())
	})
	return out
}

// ForEach calls fn for every object until fn returns false. Order is unspecified.
// fn must not add or remove objects.
func (w *World[T]) ForEach(fn func(T) bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, e := range w.objects {
		if !fn(e.obj) {
			return
		}
	}
}

// ObjectCount returns total number of objects in world.
func (w *World[T]) ObjectCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.objects)
}

// CellCount returns number of non-empty cells.
func (w *World[T]) CellCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.cells)
}

func (w *World[T]) cellLocked(key cellKey) *Cell[T] {
	c, ok := w.cells[key]
	if !ok {
		c = newCell[T](key)
		w.cells[key] = c
	}
	return c
}

func (w *World[T]) dropLocked(key cellKey, guid uint64) {
	c, ok := w.cells[key]
	if !ok {
		return
	}
	c.remove(guid)
	if c.Len() == 0 {
		delete(w.cells, key)
	}
}
