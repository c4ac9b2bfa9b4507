package serverpackets

import "github.com/udisondev/spellcore/internal/gameserver/packet"

// Channel opcodes (MSG_*: same opcode both directions).
const (
	OpcodeChannelStart  uint16 = 0x139
	OpcodeChannelUpdate uint16 = 0x13A
)

// ChannelStart opens the channel bar: spell ID (uint32), duration ms (uint32).
type ChannelStart struct {
	SpellID    uint32
	DurationMs uint32
}

// Opcode returns OpcodeChannelStart.
func (p *ChannelStart) Opcode() uint16 { return OpcodeChannelStart }

// Write serializes the payload.
func (p *ChannelStart) Write() ([]byte, error) {
	w := packet.NewWriter(8)
	w.WriteUint32(p.SpellID)
	w.WriteUint32(p.DurationMs)
	return w.Bytes(), nil
}

// ChannelUpdate moves the channel bar: remaining ms (uint32). Zero closes it.
type ChannelUpdate struct {
	RemainingMs uint32
}

// Opcode returns OpcodeChannelUpdate.
func (p *ChannelUpdate) Opcode() uint16 { return OpcodeChannelUpdate }

// Write serializes the payload.
func (p *ChannelUpdate) Write() ([]byte, error) {
	w := packet.NewWriter(4)
	w.WriteUint32(p.RemainingMs)
	return w.Bytes(), nil
}
