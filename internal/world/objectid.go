package world

import "sync/atomic"

// GUIDGenerator hands out unique GUIDs for world entities.
//
// GUID ranges (high 16 bits):
//
//	0x0000: players
//	0xF130: creatures
//	0xF110: game objects
//
// Items use their own range (see model.NextItemGUID).
type GUIDGenerator struct {
	nextPlayer     atomic.Uint64
	nextCreature   atomic.Uint64
	nextGameObject atomic.Uint64
}

const (
	HighGUIDPlayer     uint64 = 0x0000 << 48
	HighGUIDCreature   uint64 = 0xF130 << 48
	HighGUIDGameObject uint64 = 0xF110 << 48

	lowGUIDMask uint64 = 1<<48 - 1
)

// NewGUIDGenerator creates a generator. Player GUIDs continue after lastPlayer
// so that GUIDs restored from storage are never handed out again.
func NewGUIDGenerator(lastPlayer uint64) *GUIDGenerator {
	g := &GUIDGenerator{}
	g.nextPlayer.Store(lastPlayer & lowGUIDMask)
	return g
}

// NextPlayer returns a fresh player GUID. Thread-safe.
func (g *GUIDGenerator) NextPlayer() uint64 {
	return HighGUIDPlayer | g.nextPlayer.Add(1)&lowGUIDMask
}

// NextCreature returns a fresh creature GUID. Thread-safe.
func (g *GUIDGenerator) NextCreature() uint64 {
	return HighGUIDCreature | g.nextCreature.Add(1)&lowGUIDMask
}

// NextGameObject returns a fresh game object GUID. Thread-safe.
func (g *GUIDGenerator) NextGameObject() uint64 {
	return HighGUIDGameObject | g.nextGameObject.Add(1)&lowGUIDMask
}

// HighGUID returns the type part of a GUID.
func HighGUID(guid uint64) uint64 {
	return guid &^ lowGUIDMask
}
