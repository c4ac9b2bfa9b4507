package gameserver

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/model"
)

var errNotInWorld = errors.New("not in world")

type testPlayer struct {
	*model.Player
	mgr *spell.Manager
}

func (p *testPlayer) Inventory() spell.Inventory   { return p.Player.Items() }
func (p *testPlayer) SpellManager() *spell.Manager { return p.mgr }

type testCreature struct {
	*model.Creature
	mgr *spell.Manager
}

func (c *testCreature) SpellManager() *spell.Manager { return c.mgr }

// fakeWorld runs submitted commands synchronously, one at a time.
type fakeWorld struct {
	cmdMu sync.Mutex

	mu      sync.Mutex
	casters map[uint64]spell.SpellCaster
	objects map[uint64]spell.Usable
	online  map[uint64]bool
	left    []uint64

	duelAnswers []duelAnswer

	tables   *data.Tables
	notifier spell.Notifier
}

func newFakeWorld(t *testing.T, spells ...data.Spell) *fakeWorld {
	t.Helper()
	tables, err := data.NewTables(spells, []data.Item{
		{Entry: 159, Name: "Refreshing Spring Water", MaxStack: 20, Spells: []data.ItemSpell{{SpellID: spellSelfHeal}}},
	}, nil)
	require.NoError(t, err)
	return &fakeWorld{
		casters: make(map[uint64]spell.SpellCaster),
		objects: make(map[uint64]spell.Usable),
		online:  make(map[uint64]bool),
		tables:  tables,
	}
}

func (w *fakeWorld) deps() spell.Deps {
	return spell.Deps{
		Tables:   w.tables,
		Notifier: w.notifier,
		Spatial:  w,
		Clock:    func() time.Time { return epoch },
	}
}

func (w *fakeWorld) player(guid uint64, faction uint32, loc model.Location) *testPlayer {
	p := &testPlayer{Player: model.NewPlayer(guid, fmt.Sprintf("Player%d", guid), 0, loc, model.UnitStats{
		Level:     20,
		Faction:   faction,
		Health:    500,
		PowerType: data.PowerMana,
		Power:     300,
	})}
	p.mgr = spell.NewManager(p, w.deps())
	w.mu.Lock()
	w.casters[guid] = p
	w.mu.Unlock()
	return p
}

func (w *fakeWorld) creature(guid uint64, faction uint32, loc model.Location) *testCreature {
	tmpl := &data.Creature{Entry: 1, Name: "Kobold", Level: 5, Health: 100, Mana: 50}
	c := &testCreature{Creature: model.NewCreature(guid, tmpl, 0, loc, faction)}
	c.mgr = spell.NewManager(c, w.deps())
	w.mu.Lock()
	w.casters[guid] = c
	w.mu.Unlock()
	return c
}

func (w *fakeWorld) EnterWorld(_ context.Context, guid uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.casters[guid]; !ok {
		return fmt.Errorf("character %d: %w", guid, errNotInWorld)
	}
	w.online[guid] = true
	return nil
}

func (w *fakeWorld) LeaveWorld(guid uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.online, guid)
	w.left = append(w.left, guid)
}

func (w *fakeWorld) Submit(guid uint64, fn func(spell.SpellCaster)) error {
	w.mu.Lock()
	c, ok := w.casters[guid]
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("player %d: %w", guid, errNotInWorld)
	}
	w.cmdMu.Lock()
	defer w.cmdMu.Unlock()
	fn(c)
	return nil
}

func (w *fakeWorld) FindUnit(guid uint64) (spell.Unit, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	c, ok := w.casters[guid]
	return c, ok
}

func (w *fakeWorld) FindObject(guid uint64) (spell.Usable, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	o, ok := w.objects[guid]
	return o, ok
}

func (w *fakeWorld) UnitsInRadius(mapID uint32, center model.Location, radius float32) []spell.Unit {
	w.mu.Lock()
	defer w.mu.Unlock()
	var out []spell.Unit
	for _, c := range w.casters {
		if c.MapID() == mapID && center.IsInRange(c.Location(), radius) {
			out = append(out, c)
		}
	}
	return out
}

func (w *fakeWorld) isOnline(guid uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.online[guid]
}

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

const (
	spellSelfHeal uint32 = 100 + iota
	spellFireball
)

func selfHeal() data.Spell {
	return data.Spell{
		ID:           spellSelfHeal,
		Name:         "Lesser Heal",
		RecoveryTime: 1000,
		Effects:      []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 10, ImplicitTargetA: data.TargetSelf}},
	}
}

func fireball() data.Spell {
	return data.Spell{
		ID:        spellFireball,
		Name:      "Fireball",
		School:    data.SchoolFire,
		PowerType: data.PowerMana,
		ManaCost:  30,
		CastTime:  data.CastTime{Base: 3000},
		Range:     data.Range{Max: 35},
		Effects:   []data.EffectDef{{Kind: data.EffectSchoolDamage, BasePoints: 50, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func at(x, y float32) model.Location {
	return model.NewLocation(x, y, 0, 0)
}

// pipeSession returns a session over one end of a pipe and the client end.
func pipeSession(t *testing.T, guid uint64, queue int) (*Session, net.Conn) {
	t.Helper()
	server, client := net.Pipe()
	t.Cleanup(func() {
		server.Close()
		client.Close()
	})
	return NewSession(server, guid, queue, time.Second), client
}

// queued drains the frames waiting in the session's send queue.
func queued(s *Session) [][]byte {
	var out [][]byte
	for {
		select {
		case f := <-s.sendCh:
			out = append(out, f)
		default:
			return out
		}
	}
}

// frameOpcode returns the opcode of an encoded server frame.
func frameOpcode(frame []byte) uint16 {
	return binary.LittleEndian.Uint16(frame[2:])
}

// framePayload returns the payload of an encoded server frame.
func framePayload(frame []byte) []byte {
	return frame[ServerHeaderSize:]
}

func (w *fakeWorld) leftGUIDs() []uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]uint64(nil), w.left...)
}

func (w *fakeWorld) Move(guid uint64, loc model.Location) error {
	return w.Submit(guid, func(c spell.SpellCaster) {
		c.Teleport(c.MapID(), loc)
		c.SpellManager().FlagAsMoved()
	})
}

func (w *fakeWorld) answers() []duelAnswer {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]duelAnswer(nil), w.duelAnswers...)
}

func (w *fakeWorld) RespondDuel(guid uint64, accept bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.casters[guid]; !ok {
		return fmt.Errorf("player %d: %w", guid, errNotInWorld)
	}
	w.duelAnswers = append(w.duelAnswers, duelAnswer{guid: guid, accept: accept})
	return nil
}

type duelAnswer struct {
	guid   uint64
	accept bool
}
