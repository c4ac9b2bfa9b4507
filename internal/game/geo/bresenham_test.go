package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(it *LineIterator) []Cell {
	var cells []Cell
	for it.Next() {
		cells = append(cells, it.Cell())
	}
	return cells
}

func TestLineIterator_SinglePoint(t *testing.T) {
	it := NewLineIterator(5, 5, 5, 5)
	assert.Equal(t, int32(0), it.Steps())
	assert.Equal(t, []Cell{{5, 5}}, collect(it))
}

func TestLineIterator(t *testing.T) {
	tests := []struct {
		name           string
		sx, sy, ex, ey int32
	}{
		{"x dominant", 0, 0, 5, 2},
		{"y dominant", 0, 0, 2, 7},
		{"diagonal", 0, 0, 4, 4},
		{"reverse", 10, 10, 3, 8},
		{"vertical", 3, 9, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := NewLineIterator(tt.sx, tt.sy, tt.ex, tt.ey)
			steps := it.Steps()
			cells := collect(it)

			require.Len(t, cells, int(steps)+1)
			assert.Equal(t, Cell{tt.sx, tt.sy}, cells[0])
			assert.Equal(t, Cell{tt.ex, tt.ey}, cells[len(cells)-1])
			for i := 1; i < len(cells); i++ {
				dx := abs32(cells[i].X - cells[i-1].X)
				dy := abs32(cells[i].Y - cells[i-1].Y)
				assert.LessOrEqual(t, dx, int32(1))
				assert.LessOrEqual(t, dy, int32(1))
				assert.Positive(t, dx+dy)
			}
		})
	}
}
