package geo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// mapTiles holds the tile grid of one map.
type mapTiles struct {
	tiles [TilesPerSide * TilesPerSide]atomic.Pointer[Tile]
}

// Engine answers ground height and line-of-sight queries from loaded
// height-map tiles. Thread-safe: tiles are immutable once stored.
type Engine struct {
	mu     sync.RWMutex
	maps   map[uint32]*mapTiles
	loaded atomic.Int32
}

// NewEngine creates an empty Engine (no tiles loaded).
func NewEngine() *Engine {
	return &Engine{maps: make(map[uint32]*mapTiles)}
}

// LoadDir loads all .tile files from the given directory.
// File naming convention: "<mapID>_<tileX>_<tileY>.tile"
func (e *Engine) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading terrain dir %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != TileExt {
			continue
		}

		var mapID uint32
		var tx, ty int32
		base := name[:len(name)-len(ext)]
		if _, err := fmt.Sscanf(base, "%d_%d_%d", &mapID, &tx, &ty); err != nil {
			slog.Warn("skip terrain file (bad name)", "file", name)
			continue
		}
		if !validTile(tx, ty) {
			slog.Warn("skip terrain file (out of range)", "file", name, "tx", tx, "ty", ty)
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading terrain %s: %w", name, err)
		}
		tile, err := ParseTile(raw)
		if err != nil {
			return fmt.Errorf("parsing terrain %s: %w", name, err)
		}

		e.SetTile(mapID, tx, ty, tile)
		loaded++
	}

	slog.Info("terrain loaded", "tiles", loaded, "dir", dir)
	return nil
}

// SetTile stores the height map of tile (tx, ty) on mapID.
// Out-of-range tiles are ignored.
func (e *Engine) SetTile(mapID uint32, tx, ty int32, tile *Tile) {
	if !validTile(tx, ty) || tile == nil {
		return
	}

	e.mu.Lock()
	m, ok := e.maps[mapID]
	if !ok {
		m = &mapTiles{}
		e.maps[mapID] = m
	}
	e.mu.Unlock()

	if m.tiles[tx*TilesPerSide+ty].Swap(tile) == nil {
		e.loaded.Add(1)
	}
}

// IsLoaded returns true if any tile is loaded.
func (e *Engine) IsLoaded() bool {
	return e.loaded.Load() > 0
}

// TileCount returns the number of loaded tiles over all maps.
func (e *Engine) TileCount() int {
	return int(e.loaded.Load())
}

func (e *Engine) tile(mapID uint32, tx, ty int32) *Tile {
	if !validTile(tx, ty) {
		return nil
	}
	e.mu.RLock()
	m := e.maps[mapID]
	e.mu.RUnlock()
	if m == nil {
		return nil
	}
	return m.tiles[tx*TilesPerSide+ty].Load()
}

// HasTerrain returns true if a tile covers world point (x, y) on mapID.
func (e *Engine) HasTerrain(mapID uint32, x, y float32) bool {
	tx, ty := TileAt(x, y)
	return e.tile(mapID, tx, ty) != nil
}

// Height returns the interpolated ground height at (x, y).
// Returns currentZ unchanged if no tile is loaded for this position.
func (e *Engine) Height(mapID uint32, x, y, currentZ float32) float32 {
	cell, fx, fy := CellAt(x, y)
	h, ok := e.cellHeight(mapID, cell, fx, fy)
	if !ok {
		return currentZ
	}
	return h
}

func (e *Engine) cellHeight(mapID uint32, cell Cell, fx, fy float32) (float32, bool) {
	tx, ty := cell.Tile()
	tile := e.tile(mapID, tx, ty)
	if tile == nil {
		return 0, false
	}
	lx, ly := cell.Local()
	return tile.interpolate(lx, ly, fx, fy), true
}
