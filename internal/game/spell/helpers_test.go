package spell

import (
	"time"

	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

const (
	factionAlliance uint32 = 1
	factionHorde    uint32 = 2
)

type testPlayer struct {
	*model.Player
	mgr *Manager
}

func (p *testPlayer) Inventory() Inventory   { return p.Player.Items() }
func (p *testPlayer) SpellManager() *Manager { return p.mgr }

type testCreature struct {
	*model.Creature
	mgr *Manager
}

func (c *testCreature) SpellManager() *Manager { return c.mgr }

type event struct {
	kind   string
	spell  uint32
	result CastResult
	length time.Duration
}

type recorder struct {
	events []event
}

func (r *recorder) CastStart(c *Cast) {
	r.events = append(r.events, event{kind: "start", spell: c.SpellID()})
}

func (r *recorder) CastGo(c *Cast) {
	r.events = append(r.events, event{kind: "go", spell: c.SpellID()})
}

func (r *recorder) CastResult(_ Unit, spellID uint32, result CastResult) {
	r.events = append(r.events, event{kind: "result", spell: spellID, result: result})
}

func (r *recorder) CooldownSet(_ Unit, spellID uint32, length time.Duration) {
	r.events = append(r.events, event{kind: "cooldown", spell: spellID, length: length})
}

func (r *recorder) CooldownCleared(_ Unit, spellID uint32) {
	r.events = append(r.events, event{kind: "cleared", spell: spellID})
}

func (r *recorder) ChannelStart(_ Unit, spellID uint32, d time.Duration) {
	r.events = append(r.events, event{kind: "channel_start", spell: spellID, length: d})
}

func (r *recorder) ChannelUpdate(_ Unit, remaining time.Duration) {
	r.events = append(r.events, event{kind: "channel_update", length: remaining})
}

func (r *recorder) LearnedSpell(_ Unit, spellID uint32) {
	r.events = append(r.events, event{kind: "learned", spell: spellID})
}

func (r *recorder) EquipError(Unit, model.InventoryError) {
	r.events = append(r.events, event{kind: "equip_error"})
}

func (r *recorder) count(kind string) int {
	n := 0
	for _, e := range r.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// results returns the reported cast results in order.
func (r *recorder) results() []CastResult {
	var out []CastResult
	for _, e := range r.events {
		if e.kind == "result" {
			out = append(out, e.result)
		}
	}
	return out
}

func (r *recorder) lastResult() CastResult {
	res := r.results()
	if len(res) == 0 {
		return CastResult(255)
	}
	return res[len(res)-1]
}

func (r *recorder) reset() {
	r.events = nil
}

type memStore struct {
	saved []uint32
}

func (s *memStore) SaveSpell(_ uint64, spellID uint32) {
	s.saved = append(s.saved, spellID)
}

type testingT interface {
	require.TestingT
	Helper()
}

// fixture is a tiny world: units, their managers and a controllable clock.
type fixture struct {
	t        testingT
	now      time.Time
	tables   *data.Tables
	rec      *recorder
	store    *memStore
	units    []Unit
	managers []*Manager
	duel     DuelOutcome
	nextGUID uint64
}

func newFixture(t testingT, spells ...data.Spell) *fixture {
	t.Helper()
	tables, err := data.NewTables(spells, testItems(), testCreatures())
	require.NoError(t, err)
	return &fixture{
		t:        t,
		now:      epoch,
		tables:   tables,
		rec:      &recorder{},
		store:    &memStore{},
		nextGUID: 1,
	}
}

func (f *fixture) deps() Deps {
	return Deps{
		Tables:   f.tables,
		Notifier: f.rec,
		Spatial:  f,
		Summoner: f,
		Duels:    f,
		Store:    f.store,
		Clock:    func() time.Time { return f.now },
	}
}

func (f *fixture) guid() uint64 {
	g := f.nextGUID
	f.nextGUID++
	return g
}

func (f *fixture) player(faction uint32, loc model.Location) *testPlayer {
	p := &testPlayer{Player: model.NewPlayer(f.guid(), "Player", 0, loc, model.UnitStats{
		Level:     20,
		Faction:   faction,
		Health:    500,
		PowerType: data.PowerMana,
		Power:     300,
	})}
	p.mgr = NewManager(p, f.deps())
	p.OnAuraRemoved(p.mgr.OnAuraRemoved)
	f.units = append(f.units, p)
	f.managers = append(f.managers, p.mgr)
	return p
}

func (f *fixture) creature(faction uint32, loc model.Location) *testCreature {
	tmpl := &data.Creature{Entry: 1, Name: "Kobold", Level: 5, Health: 100, Mana: 50}
	return f.spawn(tmpl, faction, loc)
}

func (f *fixture) spawn(tmpl *data.Creature, faction uint32, loc model.Location) *testCreature {
	c := &testCreature{Creature: model.NewCreature(f.guid(), tmpl, 0, loc, faction)}
	c.mgr = NewManager(c, f.deps())
	c.OnAuraRemoved(c.mgr.OnAuraRemoved)
	f.units = append(f.units, c)
	f.managers = append(f.managers, c.mgr)
	return c
}

// tick advances the clock and updates every manager and aura holder.
func (f *fixture) tick(d time.Duration) {
	f.now = f.now.Add(d)
	for _, m := range f.managers {
		m.Update(f.now, d)
	}
	for _, u := range f.units {
		u.Auras().Update(f.now, d)
	}
}

func (f *fixture) FindUnit(guid uint64) (Unit, bool) {
	for _, u := range f.units {
		if u.GUID() == guid {
			return u, true
		}
	}
	return nil, false
}

func (f *fixture) UnitsInRadius(mapID uint32, center model.Location, radius float32) []Unit {
	var out []Unit
	for _, u := range f.units {
		if u.MapID() == mapID && center.IsInRange(u.Location(), radius) {
			out = append(out, u)
		}
	}
	return out
}

func (f *fixture) SummonCreature(tmpl *data.Creature, summoner Unit, _ uint32, at model.Location) (SpellCaster, error) {
	return f.spawn(tmpl, summoner.Faction(), at), nil
}

func (f *fixture) RequestDuel(Unit, Unit, int32) DuelOutcome {
	return f.duel
}

// learn teaches p the given spells and forgets the notifications it caused.
func (f *fixture) learn(p *testPlayer, ids ...uint32) {
	f.t.Helper()
	for _, id := range ids {
		require.True(f.t, p.mgr.LearnSpell(id))
	}
	f.rec.reset()
	f.store.saved = nil
}

func at(x, y float32) model.Location {
	return model.NewLocation(x, y, 0, 0)
}

const (
	itemWater      uint32 = 159
	itemRuneOfTel  uint32 = 17031
	itemBlessedRod uint32 = 5175
	itemWand       uint32 = 5240

	creatureTotem    uint32 = 2523
	creatureStallion uint32 = 308
)

func testItems() []data.Item {
	return []data.Item{
		{Entry: itemWater, Name: "Refreshing Spring Water", MaxStack: 20, Spells: []data.ItemSpell{{SpellID: spellDrink, Charges: -1}}},
		{Entry: itemRuneOfTel, Name: "Rune of Teleportation", MaxStack: 20},
		{Entry: itemBlessedRod, Name: "Blessed Rod", MaxStack: 1},
		{Entry: itemWand, Name: "Wand", MaxStack: 1, Spells: []data.ItemSpell{{SpellID: spellWandBolt, Charges: 2, CostOverride: 1}}},
	}
}

func testCreatures() []data.Creature {
	return []data.Creature{
		{Entry: creatureTotem, Name: "Healing Totem", Level: 10, Health: 5, Spells: []uint32{spellTotemPulse}},
		{Entry: creatureStallion, Name: "Black Stallion", Level: 1, Health: 1, DisplayID: 100, MountDisplayID: 2402},
	}
}

const (
	spellSelfHeal uint32 = 100 + iota
	spellFireball
	spellQuickShot
	spellCategoryA
	spellCategoryB
	spellArrow
	spellHeroicStrike
	spellCleave
	spellEviscerate
	spellSinisterStrike
	spellBlizzard
	spellLifeTap
	spellConjureWater
	spellTeleportOther
	spellStealth
	spellRecall
	spellBlink
	spellTotem
	spellTotemPulse
	spellMount
	spellEnergize
	spellDuel
	spellLearn
	spellUnknownEffect
	spellOpenLock
	spellDrink
	spellWandBolt
	spellInstakill
	spellResurrect
	spellHealingAura
	spellCreateStack
	spellRage
)

func selfHeal() data.Spell {
	return data.Spell{
		ID:      spellSelfHeal,
		Name:    "Lesser Heal",
		Effects: []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 10, ImplicitTargetA: data.TargetSelf}},
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

func quickShot() data.Spell {
	return data.Spell{
		ID:           spellQuickShot,
		Name:         "Quick Shot",
		RecoveryTime: 1500,
		Effects:      []data.EffectDef{{Kind: data.EffectSchoolDamage, BasePoints: 5, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func categorySpell(id uint32) data.Spell {
	return data.Spell{
		ID:                   id,
		Name:                 "Trinket",
		Category:             7,
		CategoryRecoveryTime: 10000,
		Effects:              []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 1, ImplicitTargetA: data.TargetSelf}},
	}
}

func arrow() data.Spell {
	return data.Spell{
		ID:        spellArrow,
		Name:      "Arcane Shot",
		PowerType: data.PowerMana,
		ManaCost:  10,
		Speed:     20,
		Range:     data.Range{Max: 40},
		Effects:   []data.EffectDef{{Kind: data.EffectSchoolDamage, BasePoints: 20, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func onSwing(id uint32, name string) data.Spell {
	return data.Spell{
		ID:         id,
		Name:       name,
		Attributes: data.AttrOnNextSwing,
		Effects:    []data.EffectDef{{Kind: data.EffectWeaponDamage, BasePoints: 10, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func eviscerate() data.Spell {
	return data.Spell{
		ID:           spellEviscerate,
		Name:         "Eviscerate",
		AttributesEx: data.AttrExReqComboPoints,
		Effects:      []data.EffectDef{{Kind: data.EffectWeaponDamagePlus, BasePoints: 10, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func sinisterStrike() data.Spell {
	return data.Spell{
		ID:   spellSinisterStrike,
		Name: "Sinister Strike",
		Effects: []data.EffectDef{
			{Kind: data.EffectWeaponDamagePlus, BasePoints: 3, ImplicitTargetA: data.TargetUnitEnemy},
			{Kind: data.EffectAddComboPoints, BasePoints: 1, ImplicitTargetA: data.TargetUnitEnemy},
		},
	}
}

func blizzard() data.Spell {
	return data.Spell{
		ID:           spellBlizzard,
		Name:         "Blizzard",
		School:       data.SchoolFrost,
		PowerType:    data.PowerMana,
		ManaCost:     50,
		Duration:     4000,
		Range:        data.Range{Max: 30},
		AttributesEx: data.AttrExChanneled,
		Effects: []data.EffectDef{{
			Kind:            data.EffectPersistentAreaAura,
			ImplicitTargetA: data.TargetEnemiesAroundDest,
			Radius:          8,
			Aura:            &data.AuraDef{Type: data.AuraPeriodicDamage, Amount: 5, Period: 1000, Duration: 4000},
		}},
	}
}

func lifeTap() data.Spell {
	return data.Spell{
		ID:        spellLifeTap,
		Name:      "Life Tap",
		PowerType: data.PowerHealth,
		ManaCost:  600,
		Effects:   []data.EffectDef{{Kind: data.EffectEnergize, BasePoints: 50, MiscValue: int32(data.PowerMana), ImplicitTargetA: data.TargetSelf}},
	}
}

func conjureWater() data.Spell {
	return data.Spell{
		ID:       spellConjureWater,
		Name:     "Conjure Water",
		Reagents: []data.Reagent{{Item: itemRuneOfTel, Count: 1}},
		Totems:   []uint32{itemBlessedRod},
		Effects:  []data.EffectDef{{Kind: data.EffectCreateItem, BasePoints: 2, ItemType: itemWater, ImplicitTargetA: data.TargetSelf}},
	}
}

func stealth() data.Spell {
	return data.Spell{
		ID:           spellStealth,
		Name:         "Stealth",
		Attributes:   data.AttrDisabledWhileActive,
		RecoveryTime: 10000,
		Effects: []data.EffectDef{{
			Kind:            data.EffectApplyAura,
			ImplicitTargetA: data.TargetSelf,
			Aura:            &data.AuraDef{Type: data.AuraModStealth, Duration: -1, Interrupt: data.InterruptOnDamage},
		}},
	}
}

func recall() data.Spell {
	return data.Spell{
		ID:   spellRecall,
		Name: "Word of Recall",
		Effects: []data.EffectDef{{
			Kind:            data.EffectTeleportUnits,
			ImplicitTargetA: data.TargetSelf,
			ImplicitTargetB: data.TargetDatabaseLocation,
			Dest:            &data.Destination{Map: 1, X: 100, Y: 200, Z: 10},
		}},
	}
}

func blink() data.Spell {
	return data.Spell{
		ID:      spellBlink,
		Name:    "Blink",
		Range:   data.Range{Max: 20},
		Effects: []data.EffectDef{{Kind: data.EffectLeap, ImplicitTargetA: data.TargetDestLocation}},
	}
}

func totemSpells() []data.Spell {
	return []data.Spell{
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
	}
}

func mount() data.Spell {
	return data.Spell{
		ID:      spellMount,
		Name:    "Black Stallion Bridle",
		Effects: []data.EffectDef{{Kind: data.EffectSummonMount, MiscValue: int32(creatureStallion), ImplicitTargetA: data.TargetSelf}},
	}
}

func energize() data.Spell {
	return data.Spell{
		ID:      spellEnergize,
		Name:    "Innervate",
		Effects: []data.EffectDef{{Kind: data.EffectEnergize, BasePoints: 40, MiscValue: int32(data.PowerMana), ImplicitTargetA: data.TargetAnyUnit}},
	}
}

func rage() data.Spell {
	return data.Spell{
		ID:      spellRage,
		Name:    "Bloodrage",
		Effects: []data.EffectDef{{Kind: data.EffectEnergize, BasePoints: 40, MiscValue: int32(data.PowerRage), ImplicitTargetA: data.TargetSelf}},
	}
}

func duel() data.Spell {
	return data.Spell{
		ID:      spellDuel,
		Name:    "Duel",
		Effects: []data.EffectDef{{Kind: data.EffectDuel, MiscValue: 21680, ImplicitTargetA: data.TargetDuelOpponent}},
	}
}

func learn() data.Spell {
	return data.Spell{
		ID:      spellLearn,
		Name:    "Teach Fireball",
		Effects: []data.EffectDef{{Kind: data.EffectLearnSpell, TriggerSpell: spellFireball, ImplicitTargetA: data.TargetAnyUnit}},
	}
}

func unknownEffect() data.Spell {
	return data.Spell{
		ID:   spellUnknownEffect,
		Name: "Half Implemented",
		Effects: []data.EffectDef{
			{Kind: data.EffectKind(140), ImplicitTargetA: data.TargetSelf},
			{Kind: data.EffectHeal, BasePoints: 25, ImplicitTargetA: data.TargetSelf},
		},
	}
}

func openLock() data.Spell {
	return data.Spell{
		ID:      spellOpenLock,
		Name:    "Opening",
		Effects: []data.EffectDef{{Kind: data.EffectOpenLock, ImplicitTargetA: data.TargetGameObject}},
	}
}

func drink() data.Spell {
	return data.Spell{
		ID:           spellDrink,
		Name:         "Drink",
		AttributesEx: data.AttrExRefreshment,
		Effects: []data.EffectDef{{
			Kind:            data.EffectApplyAura,
			ImplicitTargetA: data.TargetSelf,
			Aura:            &data.AuraDef{Type: data.AuraModPowerRegen, Amount: 10, Duration: 18000},
		}},
	}
}

func wandBolt() data.Spell {
	return data.Spell{
		ID:        spellWandBolt,
		Name:      "Wand Bolt",
		PowerType: data.PowerMana,
		ManaCost:  100,
		Effects:   []data.EffectDef{{Kind: data.EffectHeal, BasePoints: 5, ImplicitTargetA: data.TargetSelf}},
	}
}

func instakill() data.Spell {
	return data.Spell{
		ID:      spellInstakill,
		Name:    "Kill",
		Effects: []data.EffectDef{{Kind: data.EffectInstakill, ImplicitTargetA: data.TargetUnitEnemy}},
	}
}

func resurrect() data.Spell {
	return data.Spell{
		ID:      spellResurrect,
		Name:    "Resurrection",
		Effects: []data.EffectDef{{Kind: data.EffectResurrect, BasePoints: 70, ImplicitTargetA: data.TargetUnitFriend}},
	}
}

// healingAura is a non-channeled area aura around the caster.
func healingAura() data.Spell {
	return data.Spell{
		ID:   spellHealingAura,
		Name: "Healing Aura",
		Effects: []data.EffectDef{{
			Kind:            data.EffectApplyAreaAura,
			ImplicitTargetA: data.TargetFriendsAroundCaster,
			Radius:          10,
			Aura:            &data.AuraDef{Type: data.AuraPeriodicHeal, Amount: 3, Period: 1000, Duration: 3000},
		}},
	}
}

func allSpells() []data.Spell {
	spells := []data.Spell{
		selfHeal(), fireball(), quickShot(), categorySpell(spellCategoryA), categorySpell(spellCategoryB),
		arrow(), onSwing(spellHeroicStrike, "Heroic Strike"), onSwing(spellCleave, "Cleave"),
		eviscerate(), sinisterStrike(), blizzard(), lifeTap(), conjureWater(), stealth(), recall(),
		blink(), mount(), energize(), rage(), duel(), learn(), unknownEffect(), openLock(), drink(),
		wandBolt(), instakill(), resurrect(), healingAura(),
	}
	return append(spells, totemSpells()...)
}
