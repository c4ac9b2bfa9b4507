package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/spellcore/internal/model"
)

// wallTile returns a flat tile at zero with a ridge of the given height
// across local columns 100 and 101.
func wallTile(height float32) *Tile {
	tile := NewFlatTile(0)
	for ly := range int32(HeightResolution) {
		tile.SetSample(100, ly, height)
		tile.SetSample(101, ly, height)
	}
	return tile
}

func TestEngineCanSee(t *testing.T) {
	e := NewEngine()
	e.SetTile(0, 32, 32, wallTile(100))

	near := model.NewLocation(-10, -10, 1, 0)
	far := model.NewLocation(-500, -10, 1, 0)
	beforeWall := model.NewLocation(-150, -10, 1, 0)

	tests := []struct {
		name     string
		mapID    uint32
		from, to model.Location
		want     bool
	}{
		{"ridge blocks", 0, near, far, false},
		{"ridge blocks both ways", 0, far, near, false},
		{"same side", 0, near, beforeWall, true},
		{"above the ridge", 0, near.WithCoordinates(-10, -10, 200), far.WithCoordinates(-500, -10, 200), true},
		{"other map has no terrain", 1, near, far, true},
		{"same cell", 0, near, near, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.CanSee(tt.mapID, tt.from, tt.to))
		})
	}
}

func TestEngineCanSee_EndpointsIgnored(t *testing.T) {
	e := NewEngine()
	e.SetTile(0, 32, 32, wallTile(100))

	// стоим на склоне хребта, ниже него по Z
	onSlope := model.NewLocation(-213, -10, 1, 0)
	assert.True(t, e.CanSee(0, onSlope, model.NewLocation(-218.5, -10, 1, 0)))
}
