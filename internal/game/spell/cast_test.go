package spell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

func TestNewCast_InitialTarget(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	enemy := f.creature(factionHorde, at(5, 0))
	chest := model.NewGameObject(900, 1, "Chest", 0, at(2, 2))
	s, _ := f.tables.Spell(spellFireball)

	tests := []struct {
		name   string
		target Target
		mask   TargetMask
		want   TargetKind
		guid   uint64
	}{
		{"self mask ignores request", UnitTarget(enemy), TargetMaskSelf, TargetUnit, caster.GUID()},
		{"unit", UnitTarget(enemy), TargetMaskUnit, TargetUnit, enemy.GUID()},
		{"corpse", UnitTarget(enemy), TargetMaskCorpse, TargetUnit, enemy.GUID()},
		{"game object", ObjectTarget(chest), TargetMaskGameObject, TargetObject, chest.GUID()},
		{"destination", PointTarget(at(10, 10)), TargetMaskDestLocation, TargetPoint, 0},
		{"mask mismatch", UnitTarget(enemy), TargetMaskGameObject, TargetNone, 0},
		{"point without location mask", PointTarget(at(1, 1)), TargetMaskUnit, TargetNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCast(s, caster, tt.target, tt.mask, nil, f.now)
			assert.Equal(t, tt.want, c.InitialTarget.Kind)
			assert.Equal(t, tt.guid, c.InitialTarget.GUID())
		})
	}
}

func TestNewCast_Timing(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))

	fb, _ := f.tables.Spell(spellFireball)
	c := NewCast(fb, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	assert.False(t, c.IsInstant())
	assert.Equal(t, f.now.Add(c.CastTime()), c.CastEnd)
	assert.Len(t, c.Effects, 1)
	assert.Equal(t, StateCasting, c.State)

	heal, _ := f.tables.Spell(spellSelfHeal)
	assert.True(t, NewCast(heal, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now).IsInstant())
}

func TestNewCast_Predicates(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))

	cast := func(id uint32) *Cast {
		s, ok := f.tables.Spell(id)
		require.True(t, ok)
		return NewCast(s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	}

	assert.True(t, cast(spellBlizzard).IsChanneled())
	assert.True(t, cast(spellHeroicStrike).CastsOnSwing())
	assert.True(t, cast(spellEviscerate).RequiresComboPoints())
	assert.True(t, cast(spellDrink).IsRefreshment())
	assert.True(t, cast(spellStealth).TriggersCooldownOnAuraRemove())
	assert.True(t, cast(spellResurrect).IsResurrection())
	assert.False(t, cast(spellFireball).IsChanneled())
	assert.NotNil(t, cast(spellFireball).Player())
}

func TestCast_AmmoDefaults(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	s := data.Spell{ID: 75, Name: "Auto Shot", Attributes: data.AttrRanged}

	c := NewCast(&s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	assert.Zero(t, c.Flags&CastFlagHasAmmo)
	assert.Equal(t, uint32(DefaultAmmoDisplayID), c.Ammo().DisplayID)
	assert.Equal(t, data.InventoryTypeAmmo, c.Ammo().InventoryType)

	caster.SetAmmo(&model.Ammo{DisplayID: 4000, InventoryType: 26})
	c = NewCast(&s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	assert.NotZero(t, c.Flags&CastFlagHasAmmo)
	assert.Equal(t, model.Ammo{DisplayID: 4000, InventoryType: 26}, c.Ammo())
}

func TestCast_ResourceCostOverride(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	s, _ := f.tables.Spell(spellWandBolt)
	tmpl, _ := f.tables.Item(itemWand)
	wand := model.NewItem(model.NextItemGUID(), tmpl, 1)

	assert.Equal(t, int32(100), NewCast(s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now).ResourceCost())
	assert.Equal(t, int32(1), NewCast(s, caster, UnitTarget(caster), TargetMaskSelf, wand, f.now).ResourceCost())
}

func TestCast_ReagentsAndTools(t *testing.T) {
	s := data.Spell{
		ID:       1,
		Reagents: []data.Reagent{{Item: 10, Count: 2}, {Item: 0, Count: 1}, {Item: 11, Count: 1}},
		Totems:   []uint32{20, 0, 21},
		Effects: []data.EffectDef{
			{Kind: data.EffectCreateItem, ItemType: 30, BasePoints: 0},
			{Kind: data.EffectCreateItem, ItemType: 0, BasePoints: 5},
		},
	}
	c := NewCast(&s, model.NewPlayer(1, "p", 0, at(0, 0), model.UnitStats{}).Unit, Target{}, 0, nil, epoch)

	assert.Equal(t, []data.Reagent{{Item: 10, Count: 2}}, c.Reagents())
	assert.Equal(t, []uint32{20}, c.RequiredTools())
	assert.Equal(t, []ConjuredItem{{Entry: 30, Count: 1}}, c.ConjuredItems())
}

func TestEffect_Points(t *testing.T) {
	tests := []struct {
		name     string
		def      data.EffectDef
		level    int32
		minValue int32
		maxValue int32
	}{
		{"flat", data.EffectDef{BasePoints: 10}, 20, 10, 10},
		{"one side die", data.EffectDef{BasePoints: 10, DieSides: 1}, 20, 11, 11},
		{"die", data.EffectDef{BasePoints: 10, DieSides: 6}, 20, 11, 16},
		{"per level", data.EffectDef{BasePoints: 10, PointsPerLevel: 1.5}, 14, 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEffect(&tt.def, 0)
			for range 50 {
				p := e.Points(tt.level, 4)
				assert.GreaterOrEqual(t, p, tt.minValue)
				assert.LessOrEqual(t, p, tt.maxValue)
			}
			assert.Equal(t, tt.minValue, e.MinPoints(tt.level, 4))
		})
	}
}

func TestTargetResults_Groups(t *testing.T) {
	f := newFixture(t)
	a := f.creature(factionHorde, at(0, 0))
	b := f.creature(factionHorde, at(1, 0))
	c := f.creature(factionHorde, at(2, 0))
	d := f.creature(factionHorde, at(3, 0))

	r := newTargetResults()
	r.Add(a, MissDodge)
	r.Add(b, MissNone)
	r.Add(c, MissDodge)
	r.Add(d, MissParry)
	assert.Equal(t, MissDodge, r.Add(a, MissNone), "first outcome wins")

	groups := r.Groups()
	require.Len(t, groups, 3)
	assert.Equal(t, ResultGroup{Reason: MissNone, GUIDs: []uint64{b.GUID()}}, groups[0])
	assert.Equal(t, ResultGroup{Reason: MissDodge, GUIDs: []uint64{a.GUID(), c.GUID()}}, groups[1])
	assert.Equal(t, ResultGroup{Reason: MissParry, GUIDs: []uint64{d.GUID()}}, groups[2])
	assert.Equal(t, 3, r.MissCount())
	assert.Equal(t, 4, r.Len())
}

func TestTargetResults_HitGroupAlwaysFirst(t *testing.T) {
	f := newFixture(t)
	r := newTargetResults()
	r.Add(f.creature(factionHorde, at(0, 0)), MissEvade)

	groups := r.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, MissNone, groups[0].Reason)
	assert.Empty(t, groups[0].GUIDs)
}

func TestResolveEffectTargets_Area(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	near := f.creature(factionHorde, at(22, 0))
	f.creature(factionHorde, at(40, 0))
	f.player(factionAlliance, at(20, 0))
	dead := f.creature(factionHorde, at(20, 1))
	dead.Die(0)

	s, _ := f.tables.Spell(spellBlizzard)
	c := NewCast(s, caster, PointTarget(at(20, 0)), TargetMaskDestLocation, nil, f.now)
	c.ResolveEffectTargets(f, flatTerrain{})

	units := c.Effects[0].Targets.Units()
	require.Len(t, units, 1)
	assert.Equal(t, near.GUID(), units[0].GUID())
}

func TestResolveEffectTargets_FriendlyAreaIncludesCaster(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	friend := f.player(factionAlliance, at(5, 0))
	f.creature(factionHorde, at(3, 0))

	s, _ := f.tables.Spell(spellHealingAura)
	c := NewCast(s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	c.ResolveEffectTargets(f, flatTerrain{})

	var guids []uint64
	for _, u := range c.Effects[0].Targets.Units() {
		guids = append(guids, u.GUID())
	}
	assert.ElementsMatch(t, []uint64{caster.GUID(), friend.GUID()}, guids)
}

func TestResolveEffectTargets_DatabaseLocation(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	s, _ := f.tables.Spell(spellRecall)

	c := NewCast(s, caster, UnitTarget(caster), TargetMaskSelf, nil, f.now)
	c.ResolveEffectTargets(f, flatTerrain{})

	e := c.Effects[0]
	require.Len(t, e.Targets.A.Units, 1)
	require.Len(t, e.Targets.B.Points, 1)
	assert.Equal(t, uint32(1), e.Targets.B.Points[0].MapID)
	assert.Equal(t, model.NewLocation(100, 200, 10, 0), e.Targets.B.Points[0].Location)
}

func TestResolveEffectTargets_MissRolledOnce(t *testing.T) {
	f := newFixture(t, allSpells()...)
	caster := f.player(factionAlliance, at(0, 0))
	enemy := f.creature(factionHorde, at(5, 0))

	rolls := 0
	s, _ := f.tables.Spell(spellFireball)
	c := NewCast(s, caster, UnitTarget(enemy), TargetMaskUnit, nil, f.now)
	c.miss = func(Unit, Unit, *data.Spell) MissReason {
		rolls++
		return MissResist
	}

	c.ResolveEffectTargets(f, flatTerrain{})
	c.ResolveEffectTargets(f, flatTerrain{})

	assert.Equal(t, 1, rolls)
	info, ok := c.Results.Get(enemy.GUID())
	require.True(t, ok)
	assert.Equal(t, MissResist, info.Result)
}
