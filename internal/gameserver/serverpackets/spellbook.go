package serverpackets

import (
	"fmt"
	"math"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

// Spellbook opcodes.
const (
	OpcodeInitialSpells uint16 = 0x12A
	OpcodeLearnedSpell  uint16 = 0x12B
)

// LearnedSpell adds a spell to the client spellbook: spell ID (uint16).
type LearnedSpell struct {
	SpellID uint16
}

// Opcode returns OpcodeLearnedSpell.
func (p *LearnedSpell) Opcode() uint16 { return OpcodeLearnedSpell }

// Write serializes the payload.
func (p *LearnedSpell) Write() ([]byte, error) {
	w := packet.NewWriter(2)
	w.WriteUint16(p.SpellID)
	return w.Bytes(), nil
}

// SpellButton is one spellbook entry with its action bar slot.
type SpellButton struct {
	SpellID int16
	Button  int16
}

// InitialSpells sends the spellbook at login.
//
// Packet structure:
//   - talent flag (uint8), always 0
//   - count (uint16)
//   - per spell: spell ID (int16), button (int16)
//   - cooldown count (uint16), always 0
type InitialSpells struct {
	Spells []SpellButton
}

// Opcode returns OpcodeInitialSpells.
func (p *InitialSpells) Opcode() uint16 { return OpcodeInitialSpells }

// Write serializes the payload.
func (p *InitialSpells) Write() ([]byte, error) {
	if len(p.Spells) > math.MaxUint16 {
		return nil, fmt.Errorf("initial spells: %d entries do not fit", len(p.Spells))
	}
	w := packet.NewWriter(5 + 4*len(p.Spells))
	w.WriteUint8(0)
	w.WriteUint16(uint16(len(p.Spells)))
	for _, s := range p.Spells {
		w.WriteInt16(s.SpellID)
		w.WriteInt16(s.Button)
	}
	w.WriteUint16(0)
	return w.Bytes(), nil
}
