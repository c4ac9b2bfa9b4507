package gameserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/udisondev/spellcore/internal/config"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/gameserver/clientpackets"
)

const keepAlivePeriod = 30 * time.Second

// Server accepts player connections and bridges them to the World.
type Server struct {
	cfg      config.WorldServer
	world    World
	sessions *SessionManager
	notifier *PacketNotifier
	handler  *Handler

	listener net.Listener
	mu       sync.Mutex
}

// NewServer creates a server. notifier must share sessions.
func NewServer(cfg config.WorldServer, world World, sessions *SessionManager, notifier *PacketNotifier) *Server {
	return &Server{
		cfg:      cfg,
		world:    world,
		sessions: sessions,
		notifier: notifier,
		handler:  NewHandler(world),
	}
}

// Addr returns the listener address, or nil before Run.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.BindAddress, s.cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then waits for
// every connection to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	stop := context.AfterFunc(ctx, func() {
		ln.Close()
	})
	defer stop()

	slog.Info("world server started", "address", ln.Addr())

	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			slog.Error("failed to accept new connection", "error", err)
			continue
		}

		if tcpConn, ok := conn.(*net.TCPConn); ok {
			if err := tcpConn.SetKeepAlive(true); err != nil {
				slog.Warn("set keepalive failed", "error", err)
			}
			if err := tcpConn.SetKeepAlivePeriod(keepAlivePeriod); err != nil {
				slog.Warn("set keepalive period failed", "error", err)
			}
		}

		wg.Go(func() {
			s.handleConnection(ctx, conn)
		})
	}
}

func (s *Server) readTimeout() time.Duration {
	if s.cfg.ReadTimeout <= 0 {
		return defaultReadTimeout
	}
	return s.cfg.ReadTimeout
}

func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	remote := conn.RemoteAddr().String()
	slog.Info("new world client connection", "remote", remote)

	guid, err := s.login(conn)
	if err != nil {
		slog.Warn("login failed", "remote", remote, "error", err)
		return
	}

	sess := NewSession(conn, guid, s.cfg.SendQueueSize, s.cfg.WriteTimeout)
	if err := s.sessions.Register(sess); err != nil {
		slog.Warn("login refused", "remote", remote, "error", err)
		return
	}
	go sess.Run()
	defer func() {
		s.world.LeaveWorld(guid)
		s.sessions.Unregister(sess)
		sess.Close()
		slog.Info("player left world", "player", guid)
	}()

	if err := s.world.EnterWorld(ctx, guid); err != nil {
		slog.Error("entering world", "player", guid, "error", err)
		return
	}
	err = s.world.Submit(guid, func(c spell.SpellCaster) {
		s.notifier.SendInitialSpells(guid, c.SpellManager().InitialSpells())
	})
	if err != nil {
		slog.Error("sending initial spells", "player", guid, "error", err)
		return
	}
	slog.Info("player entered world", "player", guid, "remote", remote)

	for {
		if err := s.handleFrame(conn, guid); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) || sess.Closed() || ctx.Err() != nil {
				slog.Info("client disconnected", "player", guid)
			} else {
				slog.Error("packet handling error", "player", guid, "error", err)
			}
			return
		}
	}
}

// login waits for the first frame, which must name the character entering the world.
func (s *Server) login(conn net.Conn) (uint64, error) {
	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout())); err != nil {
		return 0, fmt.Errorf("setting read deadline: %w", err)
	}
	opcode, payload, err := ReadClientFrame(conn)
	if err != nil {
		return 0, fmt.Errorf("reading login: %w", err)
	}
	if opcode != clientpackets.OpcodePlayerLogin {
		return 0, fmt.Errorf("expected login, got opcode 0x%03X", opcode)
	}
	req, err := clientpackets.ParsePlayerLogin(payload)
	if err != nil {
		return 0, err
	}
	return req.GUID, nil
}

func (s *Server) handleFrame(conn net.Conn, guid uint64) error {
	if err := conn.SetReadDeadline(time.Now().Add(s.readTimeout())); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}
	opcode, payload, err := ReadClientFrame(conn)
	if err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}
	if err := s.handler.HandlePacket(guid, opcode, payload); err != nil {
		return fmt.Errorf("handling opcode 0x%03X: %w", opcode, err)
	}
	return nil
}
