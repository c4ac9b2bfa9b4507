package serverpackets

import "github.com/udisondev/spellcore/internal/gameserver/packet"

// OpcodeCastResult is the server opcode for SMSG_CAST_RESULT.
const OpcodeCastResult uint16 = 0x130

// Cast status bytes.
const (
	CastStatusSuccess uint8 = 0
	CastStatusFailed  uint8 = 2
)

// CastResult tells the caster whether a cast succeeded.
//
// Packet structure:
//   - spell ID (uint32)
//   - status (uint8)
//   - reason (uint8), only when status is CastStatusFailed
type CastResult struct {
	SpellID uint32
	Status  uint8
	Reason  uint8
}

// NewCastSuccess creates a success result.
func NewCastSuccess(spellID uint32) *CastResult {
	return &CastResult{SpellID: spellID, Status: CastStatusSuccess}
}

// NewCastFailure creates a failure result with reason.
func NewCastFailure(spellID uint32, reason uint8) *CastResult {
	return &CastResult{SpellID: spellID, Status: CastStatusFailed, Reason: reason}
}

// Opcode returns OpcodeCastResult.
func (p *CastResult) Opcode() uint16 { return OpcodeCastResult }

// Write serializes the payload.
func (p *CastResult) Write() ([]byte, error) {
	w := packet.NewWriter(6)
	w.WriteUint32(p.SpellID)
	w.WriteUint8(p.Status)
	if p.Status != CastStatusSuccess {
		w.WriteUint8(p.Reason)
	}
	return w.Bytes(), nil
}
