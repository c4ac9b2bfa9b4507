package clientpackets

import (
	"fmt"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

// Movement and duel opcodes.
const (
	OpcodeMoveHeartbeat uint16 = 0x0EE
	OpcodeDuelAccepted  uint16 = 0x16C
	OpcodeDuelCancelled uint16 = 0x16D
)

// MoveHeartbeat reports the client position (MSG_MOVE_HEARTBEAT).
//
// Packet structure:
//   - movement flags (uint32)
//   - client time in ms (uint32)
//   - X, Y, Z, orientation (4×float32)
type MoveHeartbeat struct {
	Flags      uint32
	Time       uint32
	X, Y, Z, O float32
}

// ParseMoveHeartbeat parses MoveHeartbeat from the payload (opcode already stripped).
func ParseMoveHeartbeat(data []byte) (*MoveHeartbeat, error) {
	r := packet.NewReader(data)
	p := &MoveHeartbeat{}

	var err error
	if p.Flags, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("move heartbeat: flags: %w", ErrShortPacket)
	}
	if p.Time, err = r.ReadUint32(); err != nil {
		return nil, fmt.Errorf("move heartbeat: time: %w", ErrShortPacket)
	}
	for _, f := range []*float32{&p.X, &p.Y, &p.Z, &p.O} {
		if *f, err = r.ReadFloat32(); err != nil {
			return nil, fmt.Errorf("move heartbeat: position: %w", ErrShortPacket)
		}
	}
	return p, nil
}

// DuelResponse answers a duel challenge (CMSG_DUEL_ACCEPTED / CMSG_DUEL_CANCELLED).
//
// Packet structure: duel flag GUID (uint64). The server ignores it and
// looks the duel up by player.
type DuelResponse struct {
	FlagGUID uint64
}

// ParseDuelResponse parses DuelResponse from the payload (opcode already stripped).
func ParseDuelResponse(data []byte) (*DuelResponse, error) {
	guid, err := packet.NewReader(data).ReadUint64()
	if err != nil {
		return nil, fmt.Errorf("duel response: %w", ErrShortPacket)
	}
	return &DuelResponse{FlagGUID: guid}, nil
}
