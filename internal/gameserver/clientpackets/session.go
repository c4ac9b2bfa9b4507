package clientpackets

import (
	"fmt"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

// Session opcodes.
const (
	OpcodePlayerLogin uint16 = 0x03D
	OpcodeUseItem     uint16 = 0x0AB
)

// BackpackBag is the bag id of the character's own backpack.
const BackpackBag uint8 = 0xFF

// PlayerLogin enters the world with a character (CMSG_PLAYER_LOGIN).
//
// Packet structure: character GUID (uint64).
type PlayerLogin struct {
	GUID uint64
}

// ParsePlayerLogin parses PlayerLogin from the payload (opcode already stripped).
func ParsePlayerLogin(data []byte) (*PlayerLogin, error) {
	guid, err := packet.NewReader(data).ReadUint64()
	if err != nil {
		return nil, fmt.Errorf("player login: %w", ErrShortPacket)
	}
	return &PlayerLogin{GUID: guid}, nil
}

// UseItem activates the on-use spells of an item (CMSG_USE_ITEM).
//
// Packet structure:
//   - bag (uint8), 0xFF for the backpack
//   - slot (uint8)
type UseItem struct {
	Bag  uint8
	Slot uint8
}

// ParseUseItem parses UseItem from the payload (opcode already stripped).
func ParseUseItem(data []byte) (*UseItem, error) {
	r := packet.NewReader(data)
	bag, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("use item: bag: %w", ErrShortPacket)
	}
	slot, err := r.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("use item: slot: %w", ErrShortPacket)
	}
	return &UseItem{Bag: bag, Slot: slot}, nil
}
