package sim

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/config"
	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/spell"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

const tick = 100 * time.Millisecond

const (
	spellSelfHeal uint32 = 100 + iota
	spellFireball
	spellTotem
	spellTotemPulse
	spellDuel
	spellSearingTotem
	spellSearingBolt
	spellHeroicStrike
)

const (
	creatureTotem        uint32 = 2523
	creatureSearingTotem uint32 = 2524
)

// testClock is a manual clock shared by the world and the test.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

type memLoader struct {
	spells map[uint64][]spell.KnownSpell
	err    error
}

func (l *memLoader) KnownSpells(_ context.Context, owner uint64) ([]spell.KnownSpell, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.spells[owner], nil
}

type memStore struct {
	mu    sync.Mutex
	saved []uint32
}

func (s *memStore) SaveSpell(_ uint64, spellID uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, spellID)
}

var errStorage = errors.New("storage down")

type fixture struct {
	w      *World
	clock  *testClock
	loader *memLoader
	store  *memStore
}

func newFixture(t *testing.T, queue int) *fixture {
	t.Helper()

	tables, err := data.NewTables(testSpells(), nil, []data.Creature{
		{Entry: creatureTotem, Name: "Healing Totem", Level: 10, Health: 5, Spells: []uint32{spellTotemPulse}},
		{Entry: creatureSearingTotem, Name: "Searing Totem", Level: 10, Health: 5, Spells: []uint32{spellSearingBolt}},
		{Entry: 6, Name: "Kobold Vermin", Level: 2, Health: 100},
	})
	require.NoError(t, err)

	f := &fixture{
		clock:  &testClock{now: epoch},
		loader: &memLoader{spells: make(map[uint64][]spell.KnownSpell)},
		store:  &memStore{},
	}
	f.w = New(Config{
		TickInterval: tick,
		CommandQueue: queue,
		NewCharacter: config.NewCharacter{
			Level:   10,
			Faction: 1,
			Health:  200,
			Mana:    100,
			Spells:  []uint32{spellSelfHeal},
		},
	}, Deps{
		Tables: tables,
		Store:  f.store,
		Loader: f.loader,
		Clock:  f.clock.Now,
	})
	return f
}

// enter puts the player guid into the world and returns it.
func (f *fixture) enter(t *testing.T, guid uint64) *Player {
	t.Helper()
	require.NoError(t, f.w.EnterWorld(context.Background(), guid))
	a, ok := f.w.actor(guid)
	require.True(t, ok)
	p, ok := a.(*Player)
	require.True(t, ok)
	return p
}

// step advances the clock by one tick and runs it.
func (f *fixture) step() {
	f.w.Tick(f.clock.advance(tick), tick)
}

func (f *fixture) stepFor(d time.Duration) {
	for range int(d / tick) {
		f.step()
	}
}

func testSpells() []data.Spell {
	return []data.Spell{
		{
			ID:           spellSelfHeal,
			Name:         "Lesser Heal",
			RecoveryTime: 1000,
			Effects:      []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 10, ImplicitTargetA: data.TargetSelf}},
		},
		{
			ID:        spellFireball,
			Name:      "Fireball",
			School:    data.SchoolFire,
			PowerType: data.PowerMana,
			ManaCost:  30,
			CastTime:  data.CastTime{Base: 1000},
			Range:     data.Range{Max: 35},
			Effects:   []data.EffectDef{{Kind: data.EffectSchoolDamage, BasePoints: 50, ImplicitTargetA: data.TargetUnitEnemy}},
		},
		{
			ID:      spellTotem,
			Name:    "Healing Stream Totem",
			Effects: []data.EffectDef{{Kind: data.EffectSummonTotem, MiscValue: int32(creatureTotem), ImplicitTargetA: data.TargetSelf}},
		},
		{
			ID:      spellTotemPulse,
			Name:    "Healing Stream",
			Effects: []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 1, ImplicitTargetA: data.TargetSelf}},
		},
		{
			ID:      spellDuel,
			Name:    "Duel",
			Effects: []data.EffectDef{{Kind: data.EffectDuel, MiscValue: 21680, ImplicitTargetA: data.TargetDuelOpponent}},
		},
		{
			ID:         spellHeroicStrike,
			Name:       "Heroic Strike",
			Attributes: data.AttrOnNextSwing,
			Effects:    []data.EffectDef{{Kind: data.EffectWeaponDamage, BasePoints: 10, ImplicitTargetA: data.TargetUnitEnemy}},
		},
		{
			ID:      spellSearingTotem,
			Name:    "Searing Totem",
			Effects: []data.EffectDef{{Kind: data.EffectSummonTotem, MiscValue: int32(creatureSearingTotem), ImplicitTargetA: data.TargetSelf}},
		},
		{
			ID:           spellSearingBolt,
			Name:         "Attack",
			School:       data.SchoolFire,
			RecoveryTime: 2000,
			Range:        data.Range{Max: 20},
			Effects: []data.EffectDef{{
				Kind:            data.EffectSchoolDamage,
				BasePoints:      5,
				ImplicitTargetA: data.TargetEnemiesAroundCaster,
				Radius:          20,
			}},
		},
	}
}
