package geo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/udisondev/spellcore/internal/model"
)

// rampTile returns a tile whose samples rise by one per cell along both axes.
func rampTile() *Tile {
	tile := NewFlatTile(0)
	for lx := range int32(HeightResolution) {
		for ly := range int32(HeightResolution) {
			tile.SetSample(lx, ly, float32(lx+ly))
		}
	}
	return tile
}

func TestEngineNoTerrain(t *testing.T) {
	e := NewEngine()
	assert.False(t, e.IsLoaded())

	assert.Equal(t, float32(50), e.Height(0, 100, 200, 50))
	assert.True(t, e.CanSee(0, model.NewLocation(0, 0, 0, 0), model.NewLocation(-300, -300, 0, 0)))
}

func TestEngineFlatTile(t *testing.T) {
	e := NewEngine()
	e.SetTile(0, 32, 32, NewFlatTile(12))

	assert.True(t, e.IsLoaded())
	assert.Equal(t, 1, e.TileCount())
	assert.True(t, e.HasTerrain(0, -100, -100))
	assert.False(t, e.HasTerrain(0, 1000, 1000))
	assert.False(t, e.HasTerrain(1, -100, -100))

	assert.Equal(t, float32(12), e.Height(0, -100, -100, 5))
	// соседний тайл не загружен
	assert.Equal(t, float32(7), e.Height(0, 1000, 1000, 7))
	// другая карта
	assert.Equal(t, float32(7), e.Height(1, -100, -100, 7))
}

func TestEngineSetTile(t *testing.T) {
	e := NewEngine()
	e.SetTile(0, 64, 0, NewFlatTile(1))
	e.SetTile(0, 0, -1, NewFlatTile(1))
	e.SetTile(0, 1, 1, nil)
	assert.False(t, e.IsLoaded())

	e.SetTile(0, 32, 32, NewFlatTile(1))
	e.SetTile(0, 32, 32, NewFlatTile(2))
	assert.Equal(t, 1, e.TileCount(), "replacing a tile does not count twice")
	assert.Equal(t, float32(2), e.Height(0, -10, -10, 0))
}

func TestEngineHeight_Bilinear(t *testing.T) {
	e := NewEngine()
	e.SetTile(0, 32, 32, rampTile())

	rapid.Check(t, func(t *rapid.T) {
		x := rapid.Float32Range(-533, -0.01).Draw(t, "x")
		y := rapid.Float32Range(-533, -0.01).Draw(t, "y")

		want := gridPos(x) - 32*CellsPerTile + gridPos(y) - 32*CellsPerTile
		assert.InDelta(t, want, e.Height(0, x, y, -1000), 0.01)
	})
}

func TestEngineLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	write("0_32_32.tile", NewFlatTile(20).Encode())
	write("bad.tile", NewFlatTile(1).Encode())
	write("0_99_1.tile", NewFlatTile(1).Encode())
	write("readme.txt", []byte("not a tile"))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "1_1_1.tile"), 0o755))

	e := NewEngine()
	require.NoError(t, e.LoadDir(dir))

	assert.Equal(t, 1, e.TileCount())
	assert.Equal(t, float32(20), e.Height(0, -50, -50, 0))
}

func TestEngineLoadDir_Errors(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		err := NewEngine().LoadDir(filepath.Join(t.TempDir(), "nope"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading terrain dir")
	})

	t.Run("truncated tile", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "0_1_1.tile"), []byte{1, 2, 3}, 0o644))

		err := NewEngine().LoadDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing terrain 0_1_1.tile")
	})
}
