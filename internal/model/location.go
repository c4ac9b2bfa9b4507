package model

import "math"

// Location представляет координаты в игровом мире (yards).
// Value type, передаётся по значению (immutable).
type Location struct {
	X float32
	Y float32
	Z float32
	O float32 // orientation, radians
}

// NewLocation создаёт Location с указанными координатами.
func NewLocation(x, y, z, o float32) Location {
	return Location{X: x, Y: y, Z: z, O: o}
}

// WithCoordinates возвращает новый Location с обновлёнными координатами (immutable pattern).
func (l Location) WithCoordinates(x, y, z float32) Location {
	l.X = x
	l.Y = y
	l.Z = z
	return l
}

// WithOrientation возвращает новый Location с обновлённым направлением.
func (l Location) WithOrientation(o float32) Location {
	l.O = o
	return l
}

// DistanceSquared возвращает квадрат 3D расстояния (без sqrt для hot path).
func (l Location) DistanceSquared(other Location) float32 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance возвращает 3D расстояние до другой точки.
func (l Location) Distance(other Location) float32 {
	return float32(math.Sqrt(float64(l.DistanceSquared(other))))
}

// Distance2D возвращает расстояние в плоскости XY.
func (l Location) Distance2D(other Location) float32 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	return float32(math.Sqrt(float64(dx*dx + dy*dy)))
}

// IsInRange проверяет, находится ли точка в радиусе (3D, inclusive).
func (l Location) IsInRange(other Location, radius float32) bool {
	return l.DistanceSquared(other) <= radius*radius
}
