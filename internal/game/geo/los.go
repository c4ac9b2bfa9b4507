package geo

import "github.com/udisondev/spellcore/internal/model"

// CanSee checks line of sight between two points on mapID.
// Walks the cells between them and fails when the ground rises more than
// EyeHeight above the straight line. Cells without terrain never block;
// the end cells are not checked.
func (e *Engine) CanSee(mapID uint32, from, to model.Location) bool {
	if !e.IsLoaded() {
		return true
	}

	start, _, _ := CellAt(from.X, from.Y)
	end, _, _ := CellAt(to.X, to.Y)
	it := NewLineIterator(start.X, start.Y, end.X, end.Y)
	steps := it.Steps()
	if steps < 2 {
		return true
	}

	for i := int32(0); it.Next(); i++ {
		if i == 0 || i == steps {
			continue
		}
		ground, ok := e.cellHeight(mapID, it.Cell(), 0.5, 0.5)
		if !ok {
			continue
		}
		lineZ := lerp(from.Z, to.Z, float32(i)/float32(steps))
		if ground > lineZ+EyeHeight {
			return false
		}
	}
	return true
}
