package geo

// Map tile grid. A map is 64x64 tiles centred on the world origin;
// tile (0,0) covers the largest x and y.
const (
	TileSize     = 533.33333
	TilesPerSide = 64
	HalfTiles    = TilesPerSide / 2

	// HeightResolution is the number of height samples per tile side.
	// Neighbouring tiles share their border samples.
	HeightResolution = 256
	CellsPerTile     = HeightResolution - 1

	// MapExtent is the largest absolute coordinate covered by tiles.
	MapExtent = HalfTiles * TileSize
)

// Line of sight.
const (
	// EyeHeight is how far above the line between two positions the terrain
	// may rise before it blocks the view.
	EyeHeight float32 = 2.0
)

// TileExt is the file extension of height map tiles.
const TileExt = ".tile"
