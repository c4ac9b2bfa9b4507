package world

import "math"

// Grid constants. A map tile (533.33 yards) is split into 8×8 cells;
// radius queries visit only the cells overlapping the query circle.
const (
	CellsPerTile = 8
	TileSize     = 533.33333
	CellSize     = TileSize / CellsPerTile

	// MaxQueryRadius bounds radius queries so a bad spell row
	// cannot make a query walk the whole map.
	MaxQueryRadius = 2 * TileSize
)

// cellKey identifies one cell of one map.
type cellKey struct {
	mapID  uint32
	cx, cy int32
}

// CoordToCell converts a world coordinate to a cell index.
func CoordToCell(v float32) int32 {
	return int32(math.Floor(float64(v) / CellSize))
}

func keyOf(mapID uint32, x, y float32) cellKey {
	return cellKey{mapID: mapID, cx: CoordToCell(x), cy: CoordToCell(y)}
}

// CellSpan returns the inclusive cell range covering [v-radius, v+radius].
func CellSpan(v, radius float32) (int32, int32) {
	return CoordToCell(v - radius), CoordToCell(v + radius)
}
