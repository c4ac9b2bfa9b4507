package serverpackets

import "github.com/udisondev/spellcore/internal/gameserver/packet"

// Cooldown opcodes.
const (
	OpcodeSpellCooldown uint16 = 0x134
	OpcodeClearCooldown uint16 = 0x1DE
)

// SpellCooldown starts a cooldown timer on the client.
//
// Packet structure: spell ID (uint32), GUID (uint64), length ms (uint32).
type SpellCooldown struct {
	SpellID  uint32
	GUID     uint64
	LengthMs uint32
}

// Opcode returns OpcodeSpellCooldown.
func (p *SpellCooldown) Opcode() uint16 { return OpcodeSpellCooldown }

// Write serializes the payload.
func (p *SpellCooldown) Write() ([]byte, error) {
	w := packet.NewWriter(16)
	w.WriteUint32(p.SpellID)
	w.WriteUint64(p.GUID)
	w.WriteUint32(p.LengthMs)
	return w.Bytes(), nil
}

// ClearCooldown ends a cooldown timer early.
//
// Packet structure: spell ID (uint32), GUID (uint64).
type ClearCooldown struct {
	SpellID uint32
	GUID    uint64
}

// Opcode returns OpcodeClearCooldown.
func (p *ClearCooldown) Opcode() uint16 { return OpcodeClearCooldown }

// Write serializes the payload.
func (p *ClearCooldown) Write() ([]byte, error) {
	w := packet.NewWriter(12)
	w.WriteUint32(p.SpellID)
	w.WriteUint64(p.GUID)
	return w.Bytes(), nil
}
