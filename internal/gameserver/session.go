package gameserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/udisondev/spellcore/internal/gameserver/serverpackets"
)

// Default write queue / timeout constants.
// Overridden by config values when available.
const (
	defaultSendQueueSize = 256
	defaultWriteTimeout  = 5 * time.Second
	defaultReadTimeout   = 120 * time.Second
)

var (
	// ErrSendQueueFull is returned when a slow client cannot keep up.
	ErrSendQueueFull = errors.New("send queue full")
	// ErrSessionClosed is returned by Send after Close.
	ErrSessionClosed = errors.New("session closed")
)

// Session is one connected player.
// Frames are queued by Send and written by the write pump (Run).
type Session struct {
	conn net.Conn
	guid uint64

	sendCh    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool

	writeTimeout time.Duration
}

// NewSession creates a session for guid over conn.
func NewSession(conn net.Conn, guid uint64, sendQueueSize int, writeTimeout time.Duration) *Session {
	if sendQueueSize <= 0 {
		sendQueueSize = defaultSendQueueSize
	}
	if writeTimeout <= 0 {
		writeTimeout = defaultWriteTimeout
	}
	return &Session{
		conn:         conn,
		guid:         guid,
		sendCh:       make(chan []byte, sendQueueSize),
		closeCh:      make(chan struct{}),
		writeTimeout: writeTimeout,
	}
}

// GUID returns the GUID of the player behind the session.
func (s *Session) GUID() uint64 {
	return s.guid
}

// Send encodes p and queues it for delivery.
func (s *Session) Send(p serverpackets.Packet) error {
	frame, err := EncodeFrame(p)
	if err != nil {
		return err
	}
	return s.SendFrame(frame)
}

// SendFrame queues an encoded frame. Non-blocking: a full queue closes the
// session (slow client). The frame may be shared between sessions; it is never modified.
func (s *Session) SendFrame(frame []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	select {
	case s.sendCh <- frame:
		return nil
	default:
		slog.Warn("send queue full, disconnecting slow client", "player", s.guid)
		s.Close()
		return fmt.Errorf("player %d: %w", s.guid, ErrSendQueueFull)
	}
}

// Run writes queued frames to the connection until Close or a write error.
// Frames queued together are written with one writev.
func (s *Session) Run() {
	bufs := make(net.Buffers, 0, 64)

	for {
		select {
		case frame := <-s.sendCh:
			if err := s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout)); err != nil {
				slog.Warn("set write deadline failed", "player", s.guid, "error", err)
				return
			}

			bufs = append(bufs[:0], frame)
			for range len(s.sendCh) {
				bufs = append(bufs, <-s.sendCh)
			}
			if _, err := bufs.WriteTo(s.conn); err != nil {
				slog.Warn("write failed", "player", s.guid, "error", err)
				s.Close()
				return
			}

		case <-s.closeCh:
			return
		}
	}
}

// Close stops the write pump and closes the connection, which ends the read loop.
// Safe to call multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		close(s.closeCh)
		if err := s.conn.Close(); err != nil {
			slog.Debug("closing connection", "player", s.guid, "error", err)
		}
	})
}

// Closed reports whether the session was closed.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
