package geo

// LineIterator steps through the height-map cells crossed by a straight
// line, Bresenham style: one cell per step along the dominant axis.
type LineIterator struct {
	currentX, currentY int32
	targetX, targetY   int32
	deltaX, deltaY     int32
	stepX, stepY       int32
	errorTerm          int32
	xDominant          bool
	started            bool
}

// NewLineIterator creates an iterator from (sx, sy) to (ex, ey), both inclusive.
func NewLineIterator(sx, sy, ex, ey int32) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentY: sy,
		targetX: ex, targetY: ey,
		deltaX: abs32(ex - sx),
		deltaY: abs32(ey - sy),
		stepX:  1,
		stepY:  1,
	}
	if ex < sx {
		it.stepX = -1
	}
	if ey < sy {
		it.stepY = -1
	}

	it.xDominant = it.deltaX >= it.deltaY
	if it.xDominant {
		it.errorTerm = it.deltaX / 2
	} else {
		it.errorTerm = it.deltaY / 2
	}
	return it
}

// Steps returns the number of cells after the start one.
func (it *LineIterator) Steps() int32 {
	return max(it.deltaX, it.deltaY)
}

// Next advances to the next cell. The first call yields the start cell;
// false means the target was already reached.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.currentX == it.targetX && it.currentY == it.targetY {
		return false
	}

	if it.xDominant {
		it.currentX += it.stepX
		it.errorTerm += it.deltaY
		if it.errorTerm >= it.deltaX {
			it.currentY += it.stepY
			it.errorTerm -= it.deltaX
		}
		return true
	}

	it.currentY += it.stepY
	it.errorTerm += it.deltaX
	if it.errorTerm >= it.deltaY {
		it.currentX += it.stepX
		it.errorTerm -= it.deltaY
	}
	return true
}

// Cell returns the current cell.
func (it *LineIterator) Cell() Cell {
	return Cell{X: it.currentX, Y: it.currentY}
}

func abs32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
