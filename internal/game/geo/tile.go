package geo

import (
	"encoding/binary"
	"fmt"
	"math"
)

// TileBytes is the size of an encoded tile.
const TileBytes = HeightResolution * HeightResolution * 4

// Tile is the height map of one map tile: HeightResolution² samples.
// Immutable once parsed.
type Tile struct {
	heights [HeightResolution * HeightResolution]float32
}

// ParseTile decodes a tile: row-major float32 samples, little-endian, x outer.
func ParseTile(data []byte) (*Tile, error) {
	if len(data) != TileBytes {
		return nil, fmt.Errorf("parse tile: got %d bytes, want %d", len(data), TileBytes)
	}
	t := &Tile{}
	for i := range t.heights {
		t.heights[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return t, nil
}

// NewFlatTile returns a tile with every sample at height.
func NewFlatTile(height float32) *Tile {
	t := &Tile{}
	for i := range t.heights {
		t.heights[i] = height
	}
	return t
}

// Encode serialises the tile in the format read by ParseTile.
func (t *Tile) Encode() []byte {
	out := make([]byte, TileBytes)
	for i, h := range t.heights {
		binary.LittleEndian.PutUint32(out[i*4:], math.Float32bits(h))
	}
	return out
}

// Sample returns the height sample at local index (lx, ly).
func (t *Tile) Sample(lx, ly int32) float32 {
	return t.heights[lx*HeightResolution+ly]
}

// SetSample overwrites one sample. Only for building tiles before they are shared.
func (t *Tile) SetSample(lx, ly int32, h float32) {
	t.heights[lx*HeightResolution+ly] = h
}

// interpolate returns the bilinear height inside cell (lx, ly) at fraction (fx, fy).
func (t *Tile) interpolate(lx, ly int32, fx, fy float32) float32 {
	top := lerp(t.Sample(lx, ly), t.Sample(lx+1, ly), fx)
	bottom := lerp(t.Sample(lx, ly+1), t.Sample(lx+1, ly+1), fx)
	return lerp(top, bottom, fy)
}
