package gameserver

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/udisondev/spellcore/internal/gameserver/serverpackets"
)

// Frame headers.
//
// Server → client: size (uint16, big-endian, counts opcode + payload), opcode (uint16, LE).
// Client → server: size (uint16, big-endian, counts opcode + payload), opcode (uint32, LE).
const (
	ServerHeaderSize = 4
	ClientHeaderSize = 6

	MaxFrameSize = 0x7FFF
)

// ErrFrameTooLarge is returned for frames over MaxFrameSize.
var ErrFrameTooLarge = errors.New("frame too large")

// EncodeFrame serializes p with its server header.
func EncodeFrame(p serverpackets.Packet) ([]byte, error) {
	payload, err := p.Write()
	if err != nil {
		return nil, fmt.Errorf("writing packet 0x%03X: %w", p.Opcode(), err)
	}
	size := len(payload) + 2
	if size > MaxFrameSize {
		return nil, fmt.Errorf("packet 0x%03X: %d bytes: %w", p.Opcode(), size, ErrFrameTooLarge)
	}

	frame := make([]byte, ServerHeaderSize+len(payload))
	binary.BigEndian.PutUint16(frame[0:], uint16(size))
	binary.LittleEndian.PutUint16(frame[2:], p.Opcode())
	copy(frame[ServerHeaderSize:], payload)
	return frame, nil
}

// ReadClientFrame reads one client frame and returns its opcode and payload.
func ReadClientFrame(r io.Reader) (uint16, []byte, error) {
	var header [ClientHeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return 0, nil, err
	}

	size := int(binary.BigEndian.Uint16(header[0:]))
	if size < 4 {
		return 0, nil, fmt.Errorf("client frame: size %d below opcode size", size)
	}
	if size > MaxFrameSize {
		return 0, nil, fmt.Errorf("client frame: %d bytes: %w", size, ErrFrameTooLarge)
	}
	opcode := binary.LittleEndian.Uint32(header[2:])

	payload := make([]byte, size-4)
	if _, err := io.ReadFull(r, payload); err != nil {
		return 0, nil, fmt.Errorf("client frame 0x%03X: reading payload: %w", opcode, err)
	}
	return uint16(opcode), payload, nil
}

// WriteClientFrame writes a client frame. Used by test clients and tools.
func WriteClientFrame(w io.Writer, opcode uint16, payload []byte) error {
	frame := make([]byte, ClientHeaderSize+len(payload))
	binary.BigEndian.PutUint16(frame[0:], uint16(len(payload)+4))
	binary.LittleEndian.PutUint32(frame[2:], uint32(opcode))
	copy(frame[ClientHeaderSize:], payload)
	_, err := w.Write(frame)
	return err
}
