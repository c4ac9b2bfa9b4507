package clientpackets

import (
	"errors"
	"fmt"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

// ErrShortPacket is returned when a client packet ends before its last field.
var ErrShortPacket = errors.New("short packet")

// Client opcodes handled by the spell system.
const (
	OpcodeCastSpell  uint16 = 0x12E
	OpcodeCancelCast uint16 = 0x12F
)

// Target mask bits that carry data in a cast request.
const (
	targetMaskGUID     uint16 = 0x0002 | 0x0010 | 0x0800 | 0x8000
	targetMaskLocation uint16 = 0x0020 | 0x0040
)

// CastSpell is a request to cast a spell (CMSG_CAST_SPELL).
//
// Packet structure:
//   - spell ID (uint32)
//   - target mask (uint16)
//   - target GUID (uint64) for unit/item/object/corpse masks,
//     or X, Y, Z (3×float32) for location masks
type CastSpell struct {
	SpellID    uint32
	TargetMask uint16
	TargetGUID uint64
	X, Y, Z    float32
}

// HasGUID reports whether the request names a target by GUID.
func (p *CastSpell) HasGUID() bool {
	return p.TargetMask&targetMaskGUID != 0
}

// HasLocation reports whether the request carries a ground position.
func (p *CastSpell) HasLocation() bool {
	return !p.HasGUID() && p.TargetMask&targetMaskLocation != 0
}

// ParseCastSpell parses CastSpell from the payload (opcode already stripped).
func ParseCastSpell(data []byte) (*CastSpell, error) {
	r := packet.NewReader(data)
	p := &CastSpell{}

	var err error
	if p.SpellID, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("cast spell: spell id: %w", ErrShortPacket)
	}
	if p.TargetMask, err = r.ReadUint16(); err != nil {
		return nil, fmt.Errorf("cast spell %d: target mask: %w", p.SpellID, ErrShortPacket)
	}

	switch {
	case p.HasGUID():
		if p.TargetGUID, err = r.ReadUint64(); err != nil {
			return nil, fmt.Errorf("cast spell %d: target guid: %w", p.SpellID, ErrShortPacket)
		}
	case p.HasLocation():
		if p.X, err = r.ReadFloat32(); err != nil {
			return nil, fmt.Errorf("cast spell %d: target x: %w", p.SpellID, ErrShortPacket)
		}
		if p.Y, err = r.ReadFloat32(); err != nil {
			return nil, fmt.Errorf("cast spell %d: target y: %w", p.SpellID, ErrShortPacket)
		}
		if p.Z, err = r.ReadFloat32(); err != nil {
			return nil, fmt.Errorf("cast spell %d: target z: %w", p.SpellID, ErrShortPacket)
		}
	}
	return p, nil
}

// CancelCast is a request to stop a cast or channel (CMSG_CANCEL_CAST).
//
// Packet structure: spell ID (uint32).
type CancelCast struct {
	SpellID uint32
}

// ParseCancelCast parses CancelCast from the payload (opcode already stripped).
func ParseCancelCast(data []byte) (*CancelCast, error) {
	id, err := packet.NewReader(data).ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("cancel cast: %w", ErrShortPacket)
	}
	return &CancelCast{SpellID: id}, nil
}
