package serverpackets

import (
	"fmt"
	"math"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

// OpcodeSpellGo is the server opcode for SMSG_SPELL_GO.
// Broadcast when a cast fires; carries the per-target outcome.
const OpcodeSpellGo uint16 = 0x132

// MissGroup is a run of targets missed for the same reason.
type MissGroup struct {
	Reason uint8
	GUIDs  []uint64
}

// SpellGo — срабатывание каста с результатом по каждой цели.
//
// Packet structure:
//   - source GUID, caster GUID (2×uint64)
//   - spell ID (uint32)
//   - cast flags (uint16)
//   - hit count (uint8), hit GUIDs (uint64 each)
//   - miss count (uint8) — total missed targets
//   - per miss group: reason (uint8), GUIDs (uint64 each)
//   - target mask (uint16), target info
//   - ammo (2×uint32), only with CastFlagHasAmmo
type SpellGo struct {
	SourceGUID uint64
	CasterGUID uint64
	SpellID    uint32
	Flags      uint16
	Hits       []uint64
	Misses     []MissGroup
	Targets    TargetInfo
	Ammo       AmmoInfo
}

// Opcode returns OpcodeSpellGo.
func (p *SpellGo) Opcode() uint16 { return OpcodeSpellGo }

// MissCount returns the number of missed targets over all groups.
func (p *SpellGo) MissCount() int {
	n := 0
	for _, g := range p.Misses {
		n += len(g.GUIDs)
	}
	return n
}

// Write serializes the payload.
func (p *SpellGo) Write() ([]byte, error) {
	misses := p.MissCount()
	if len(p.Hits) > math.MaxUint8 || misses > math.MaxUint8 {
		return nil, fmt.Errorf("spell go %d: too many targets (hits=%d, misses=%d)", p.SpellID, len(p.Hits), misses)
	}

	w := packet.NewWriter(26 + 8*(len(p.Hits)+misses) + len(p.Misses) + targetsSize(p.Targets) + 8)

	w.WriteUint64(p.SourceGUID)
	w.WriteUint64(p.CasterGUID)
	w.WriteUint32(p.SpellID)
	w.WriteUint16(p.Flags)

	w.WriteUint8(uint8(len(p.Hits)))
	for _, guid := range p.Hits {
		w.WriteUint64(guid)
	}
	w.WriteUint8(uint8(misses))
	for _, g := range p.Misses {
		w.WriteUint8(g.Reason)
		for _, guid := range g.GUIDs {
			w.WriteUint64(guid)
		}
	}

	w.WriteUint16(p.Targets.Mask)
	writeTargets(w, p.Targets)
	if p.Flags&CastFlagHasAmmo != 0 {
		w.WriteUint32(p.Ammo.DisplayID)
		w.WriteUint32(p.Ammo.InventoryType)
	}

	return w.Bytes(), nil
}
