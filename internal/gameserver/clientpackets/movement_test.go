package clientpackets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/gameserver/packet"
)

func TestParseMoveHeartbeat(t *testing.T) {
	w := packet.NewWriter(24)
	w.WriteUint32(0x1)
	w.WriteUint32(5000)
	w.WriteFloat32(10.5)
	w.WriteFloat32(-20)
	w.WriteFloat32(3)
	w.WriteFloat32(1.5)

	p, err := ParseMoveHeartbeat(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, MoveHeartbeat{Flags: 1, Time: 5000, X: 10.5, Y: -20, Z: 3, O: 1.5}, *p)

	for n := range len(w.Bytes()) {
		_, err := ParseMoveHeartbeat(w.Bytes()[:n])
		assert.ErrorIs(t, err, ErrShortPacket, "truncated to %d bytes", n)
	}
}

func TestParseDuelResponse(t *testing.T) {
	w := packet.NewWriter(8)
	w.WriteUint64(0xF110_0000_0000_0001)

	p, err := ParseDuelResponse(w.Bytes())
	require.NoError(t, err)
	assert.Equal(t, uint64(0xF110_0000_0000_0001), p.FlagGUID)

	_, err = ParseDuelResponse(nil)
	assert.ErrorIs(t, err, ErrShortPacket)
}
