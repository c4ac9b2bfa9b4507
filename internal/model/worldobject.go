package model

import "sync"

// WorldObject — базовый класс для всех объектов в мире.
// Все объекты имеют GUID, Name, карту и Location.
type WorldObject struct {
	guid     uint64
	name     string
	mapID    uint32
	location Location

	mu sync.RWMutex
}

// NewWorldObject создаёт новый объект в игровом мире.
func NewWorldObject(guid uint64, name string, mapID uint32, loc Location) *WorldObject {
	return &WorldObject{
		guid:     guid,
		name:     name,
		mapID:    mapID,
		location: loc,
	}
}

// GUID возвращает уникальный идентификатор (immutable после создания).
func (w *WorldObject) GUID() uint64 {
	return w.guid
}

// Name возвращает имя объекта.
func (w *WorldObject) Name() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.name
}

// MapID возвращает карту, на которой находится объект.
func (w *WorldObject) MapID() uint32 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.mapID
}

// Location возвращает копию координат объекта (value type).
func (w *WorldObject) Location() Location {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.location
}

// SetLocation устанавливает новые координаты объекта.
func (w *WorldObject) SetLocation(loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.location = loc
}

// SetPosition перемещает объект на другую карту.
func (w *WorldObject) SetPosition(mapID uint32, loc Location) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mapID = mapID
	w.location = loc
}
