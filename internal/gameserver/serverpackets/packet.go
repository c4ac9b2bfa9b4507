package serverpackets

import "github.com/udisondev/spellcore/internal/gameserver/packet"

// Packet is an outbound message. Write returns the payload only;
// the size/opcode header and encryption belong to the session layer.
type Packet interface {
	Opcode() uint16
	Write() ([]byte, error)
}

// Target mask bits, as carried in cast packets.
const (
	TargetMaskSelf           uint16 = 0x0000
	TargetMaskUnit           uint16 = 0x0002
	TargetMaskItem           uint16 = 0x0010
	TargetMaskSourceLocation uint16 = 0x0020
	TargetMaskDestLocation   uint16 = 0x0040
	TargetMaskGameObject     uint16 = 0x0800
	TargetMaskCorpse         uint16 = 0x8000

	targetMaskGUID     = TargetMaskUnit | TargetMaskItem | TargetMaskGameObject | TargetMaskCorpse
	targetMaskLocation = TargetMaskSourceLocation | TargetMaskDestLocation
)

// CastFlagHasAmmo marks casts that carry ammunition info.
const CastFlagHasAmmo uint16 = 0x20

// TargetInfo is the initial target of a cast as sent to clients.
// A GUID mask writes GUID; a location mask writes X, Y, Z.
// Point selects the coordinates when the mask carries both kinds of bits.
type TargetInfo struct {
	Mask    uint16
	GUID    uint64
	X, Y, Z float32
	Point   bool
}

// AmmoInfo is the projectile shown for ranged casts.
type AmmoInfo struct {
	DisplayID     uint32
	InventoryType uint32
}

// writeTargets writes mask-dependent target info. Self casts write nothing:
// some self-cast spells crash the client if a target is written.
func writeTargets(w *packet.Writer, t TargetInfo) {
	switch t.kind() {
	case targetGUID:
		w.WriteUint64(t.GUID)
	case targetLocation:
		w.WriteFloat32(t.X)
		w.WriteFloat32(t.Y)
		w.WriteFloat32(t.Z)
	}
}

func targetsSize(t TargetInfo) int {
	switch t.kind() {
	case targetGUID:
		return 8
	case targetLocation:
		return 12
	}
	return 0
}

type targetKind uint8

const (
	targetNone targetKind = iota
	targetGUID
	targetLocation
)

func (t TargetInfo) kind() targetKind {
	hasGUID := t.Mask&targetMaskGUID != 0
	hasLocation := t.Mask&targetMaskLocation != 0
	switch {
	case t.Mask == TargetMaskSelf:
		return targetNone
	case hasLocation && (t.Point || !hasGUID):
		return targetLocation
	case hasGUID:
		return targetGUID
	}
	return targetNone
}
