package serverpackets

import "github.com/udisondev/spellcore/internal/gameserver/packet"

// OpcodeSpellStart is the server opcode for SMSG_SPELL_START.
// Broadcast when a cast begins (cast bar).
const OpcodeSpellStart uint16 = 0x131

// SpellStart — начало каста, рассылается окружающим.
//
// Packet structure:
//   - source GUID (uint64)
//   - caster GUID (uint64)
//   - spell ID (uint32)
//   - cast flags (uint16)
//   - cast time, ms (int32)
//   - target mask (uint16)
//   - target info (see TargetInfo)
//   - ammo display ID, inventory type (2×uint32), only with CastFlagHasAmmo
type SpellStart struct {
	SourceGUID uint64
	CasterGUID uint64
	SpellID    uint32
	Flags      uint16
	CastTimeMs int32
	Targets    TargetInfo
	Ammo       AmmoInfo
}

// Opcode returns OpcodeSpellStart.
func (p *SpellStart) Opcode() uint16 { return OpcodeSpellStart }

// Write serializes the payload.
func (p *SpellStart) Write() ([]byte, error) {
	w := packet.NewWriter(28 + targetsSize(p.Targets) + 8)

	w.WriteUint64(p.SourceGUID)
	w.WriteUint64(p.CasterGUID)
	w.WriteUint32(p.SpellID)
	w.WriteUint16(p.Flags)
	w.WriteInt32(p.CastTimeMs)
	w.WriteUint16(p.Targets.Mask)
	writeTargets(w, p.Targets)
	if p.Flags&CastFlagHasAmmo != 0 {
		w.WriteUint32(p.Ammo.DisplayID)
		w.WriteUint32(p.Ammo.InventoryType)
	}

	return w.Bytes(), nil
}
