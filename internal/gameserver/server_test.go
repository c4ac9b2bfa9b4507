package gameserver

import (
	"context"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/config"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/gameserver/clientpackets"
	"github.com/udisondev/spellcore/internal/gameserver/packet"
	"github.com/udisondev/spellcore/internal/gameserver/serverpackets"
)

type serverFixture struct {
	world    *fakeWorld
	sessions *SessionManager
	addr     string
}

func startServer(t *testing.T, w *fakeWorld) *serverFixture {
	t.Helper()

	sm := NewSessionManager()
	notifier := NewPacketNotifier(sm, w, 0)
	w.notifier = notifier

	cfg := config.DefaultWorldServer()
	cfg.ReadTimeout = 5 * time.Second
	srv := NewServer(cfg, w, sm, notifier)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Go(func() {
		assert.NoError(t, srv.Serve(ctx, ln))
	})
	t.Cleanup(func() {
		cancel()
		wg.Wait()
	})

	require.Eventually(t, func() bool { return srv.Addr() != nil }, time.Second, 10*time.Millisecond)
	return &serverFixture{world: w, sessions: sm, addr: ln.Addr().String()}
}

func (f *serverFixture) dial(t *testing.T) net.Conn {
	t.Helper()
	conn, err := net.DialTimeout("tcp", f.addr, time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func loginPayload(guid uint64) []byte {
	w := packet.NewWriter(8)
	w.WriteUint64(guid)
	return w.Bytes()
}

// readUntil reads server frames until one with opcode arrives.
func readUntil(t *testing.T, conn net.Conn, opcode uint16) []byte {
	t.Helper()
	for range 16 {
		op, payload := readServerFrame(t, conn)
		if op == opcode {
			return payload
		}
	}
	t.Fatalf("opcode 0x%03X not received", opcode)
	return nil
}

func TestServer_LoginCastLeave(t *testing.T) {
	w := newFakeWorld(t, selfHeal())
	f := startServer(t, w)
	w.player(1, 1, at(0, 0))
	require.NoError(t, w.Submit(1, func(c spell.SpellCaster) {
		require.True(t, c.SpellManager().LearnSpell(spellSelfHeal))
	}))

	conn := f.dial(t)
	require.NoError(t, WriteClientFrame(conn, clientpackets.OpcodePlayerLogin, loginPayload(1)))

	spells := readUntil(t, conn, serverpackets.OpcodeInitialSpells)
	assert.Equal(t, []byte{0, 1, 0, byte(spellSelfHeal), 0, 0, 0, 0, 0}, spells)
	assert.True(t, w.isOnline(1))

	require.NoError(t, WriteClientFrame(conn, clientpackets.OpcodeCastSpell, castSpellPayload(spellSelfHeal, spell.TargetMaskSelf, 0)))
	readUntil(t, conn, serverpackets.OpcodeSpellGo)
	readUntil(t, conn, serverpackets.OpcodeSpellCooldown)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool {
		return !w.isOnline(1) && f.sessions.Count() == 0
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []uint64{1}, w.leftGUIDs())
}

func TestServer_RejectsBadLogin(t *testing.T) {
	w := newFakeWorld(t)
	f := startServer(t, w)

	conn := f.dial(t)
	require.NoError(t, WriteClientFrame(conn, clientpackets.OpcodeCastSpell, castSpellPayload(1, spell.TargetMaskSelf, 0)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	assert.Zero(t, f.sessions.Count())
}

func TestServer_UnknownCharacter(t *testing.T) {
	w := newFakeWorld(t)
	f := startServer(t, w)

	conn := f.dial(t)
	require.NoError(t, WriteClientFrame(conn, clientpackets.OpcodePlayerLogin, loginPayload(7)))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, err := conn.Read(make([]byte, 1))
	assert.ErrorIs(t, err, io.EOF)
	require.Eventually(t, func() bool { return f.sessions.Count() == 0 }, time.Second, 10*time.Millisecond)
}
