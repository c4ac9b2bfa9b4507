package geo

import "math"

// Cell is a global height-map cell index on one map.
type Cell struct {
	X int32
	Y int32
}

// Tile returns the tile holding the cell.
func (c Cell) Tile() (int32, int32) {
	return c.X / CellsPerTile, c.Y / CellsPerTile
}

// Local returns the cell index inside its tile.
func (c Cell) Local() (int32, int32) {
	return c.X % CellsPerTile, c.Y % CellsPerTile
}

// clampCoord keeps a world coordinate inside the tiled area.
func clampCoord(v float32) float32 {
	return min(max(v, -MapExtent), MapExtent)
}

// gridPos converts a world coordinate into the continuous cell axis.
// The axis grows as the world coordinate shrinks.
func gridPos(v float32) float64 {
	return max((HalfTiles-float64(clampCoord(v))/TileSize)*CellsPerTile, 0)
}

// CellAt returns the cell holding world point (x, y) and the fractional
// position inside that cell, used for interpolation.
func CellAt(x, y float32) (Cell, float32, float32) {
	gx := gridPos(x)
	gy := gridPos(y)
	cx := math.Floor(gx)
	cy := math.Floor(gy)
	return Cell{X: int32(cx), Y: int32(cy)}, float32(gx - cx), float32(gy - cy)
}

// TileAt returns the tile indices holding world point (x, y).
func TileAt(x, y float32) (int32, int32) {
	c, _, _ := CellAt(x, y)
	return c.Tile()
}

func validTile(tx, ty int32) bool {
	return tx >= 0 && tx < TilesPerSide && ty >= 0 && ty < TilesPerSide
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
