package model

import "sync/atomic"

// GameObjectState is the activation state of a world object.
type GameObjectState uint8

const (
	GOStateReady GameObjectState = iota
	GOStateActive
)

// GameObject is a static interactive object: chests, doors, ore veins.
type GameObject struct {
	*WorldObject

	entry    uint32
	state    atomic.Uint32
	lastUser atomic.Uint64
}

// NewGameObject creates a game object in ready state.
func NewGameObject(guid uint64, entry uint32, name string, mapID uint32, loc Location) *GameObject {
	return &GameObject{
		WorldObject: NewWorldObject(guid, name, mapID, loc),
		entry:       entry,
	}
}

// Entry returns the template entry.
func (g *GameObject) Entry() uint32 {
	return g.entry
}

// Use activates the object on behalf of user.
func (g *GameObject) Use(user uint64) {
	g.lastUser.Store(user)
	g.state.Store(uint32(GOStateActive))
}

// State returns the current activation state.
func (g *GameObject) State() GameObjectState {
	return GameObjectState(g.state.Load())
}

// LastUser returns the GUID of the last unit that used the object.
func (g *GameObject) LastUser() uint64 {
	return g.lastUser.Load()
}
