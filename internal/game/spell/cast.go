package spell

import (
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

// Cast is one attempt to use an ability.
// The identity fields are fixed at construction; the rest is runtime state
// owned by the Manager whose live set holds the cast.
type Cast struct {
	Spell      *data.Spell
	Caster     Unit
	SourceItem *model.Item
	TargetMask TargetMask
	Requested  Target

	InitialTarget  Target
	Effects        []*Effect
	Results        *TargetResults
	Flags          CastFlags
	AttackType     model.AttackType
	EffectiveLevel int32

	State      State
	CastEnd    time.Time
	DelayEnd   time.Time
	ChannelEnd time.Time

	castTime       time.Duration
	player         Player
	miss           MissRoller
	channelStarted bool
	consumed       bool
	comboPoints    int32
}

// NewCast builds a cast candidate. It never fails; legality is checked separately.
func NewCast(s *data.Spell, caster Unit, target Target, mask TargetMask, sourceItem *model.Item, now time.Time) *Cast {
	c := &Cast{
		Spell:          s,
		Caster:         caster,
		SourceItem:     sourceItem,
		TargetMask:     mask,
		Requested:      target,
		Results:        newTargetResults(),
		EffectiveLevel: s.EffectiveLevel(caster.Level()),
		miss:           AlwaysHit,
	}
	if p, ok := caster.(Player); ok {
		c.player = p
	}

	c.castTime = s.CastTime.At(c.EffectiveLevel)
	c.CastEnd = now.Add(c.castTime)

	c.Effects = make([]*Effect, len(s.Effects))
	for i := range s.Effects {
		c.Effects[i] = newEffect(&s.Effects[i], i)
	}

	if s.HasAttribute(data.AttrRanged) {
		if _, ok := caster.Ammo(); ok {
			c.Flags |= CastFlagHasAmmo
		}
	}

	c.ResolveInitialTargets()
	return c
}

// ResolveInitialTargets picks the initial target allowed by the target mask.
// Nothing legal leaves InitialTarget empty.
func (c *Cast) ResolveInitialTargets() {
	req := c.Requested
	switch {
	case c.TargetMask == TargetMaskSelf:
		c.InitialTarget = UnitTarget(c.Caster)
	case c.TargetMask.Has(TargetMaskUnit|TargetMaskCorpse) && req.Kind == TargetUnit:
		c.InitialTarget = req
	case c.TargetMask.Has(TargetMaskGameObject) && req.Kind == TargetObject:
		c.InitialTarget = req
	case c.TargetMask.Has(TargetMaskItem) && req.Kind == TargetItem:
		c.InitialTarget = req
	case c.TargetMask.Has(TargetMaskLocation) && req.Kind == TargetPoint:
		c.InitialTarget = req
	default:
		c.InitialTarget = Target{}
	}
}

// SpellID returns the ability id.
func (c *Cast) SpellID() uint32 {
	return c.Spell.ID
}

// CastTime returns the base cast time.
func (c *Cast) CastTime() time.Duration {
	return c.castTime
}

// Player returns the caster as a Player, or nil for creatures.
func (c *Cast) Player() Player {
	return c.player
}

// Ammo returns the ammunition shown in cast notifications.
func (c *Cast) Ammo() model.Ammo {
	a, _ := c.Caster.Ammo()
	if a.DisplayID == 0 {
		a.DisplayID = DefaultAmmoDisplayID
	}
	if a.InventoryType == 0 {
		a.InventoryType = data.InventoryTypeAmmo
	}
	return a
}

// InitialTargetIsUnit reports whether the cast aims at a unit.
func (c *Cast) InitialTargetIsUnit() bool {
	return c.InitialTarget.Kind == TargetUnit
}

// IsInstant reports whether the cast completes without a cast bar.
func (c *Cast) IsInstant() bool {
	return c.castTime <= 0
}

// IsChanneled reports whether the ability is channeled.
func (c *Cast) IsChanneled() bool {
	return c.Spell.HasAttributeEx(data.AttrExChanneled)
}

// CastsOnSwing reports whether the ability waits for the next melee swing.
func (c *Cast) CastsOnSwing() bool {
	return c.Spell.HasAttribute(data.AttrOnNextSwing)
}

// ComboPoints returns the combo points held when the cast went off.
// Only finishing moves record them.
func (c *Cast) ComboPoints() int32 {
	return c.comboPoints
}

// RequiresComboPoints reports whether the ability is a finishing move.
func (c *Cast) RequiresComboPoints() bool {
	return c.Spell.HasAttributeEx(data.AttrExReqComboPoints)
}

// IsRefreshment reports whether the ability is food or drink.
func (c *Cast) IsRefreshment() bool {
	return c.Spell.HasAttributeEx(data.AttrExRefreshment)
}

// TriggersCooldownOnAuraRemove reports whether the cooldown starts only
// once the ability's aura is gone.
func (c *Cast) TriggersCooldownOnAuraRemove() bool {
	return c.Spell.HasAttribute(data.AttrDisabledWhileActive)
}

// IsResurrection reports whether the ability targets the dead.
func (c *Cast) IsResurrection() bool {
	return c.Spell.HasEffect(data.EffectResurrect)
}

// ItemSpellStats returns the on-use entry of the source item for this ability.
func (c *Cast) ItemSpellStats() (data.ItemSpell, int, bool) {
	if c.SourceItem == nil {
		return data.ItemSpell{}, 0, false
	}
	i, ok := c.SourceItem.SpellIndex(c.Spell.ID)
	if !ok {
		return data.ItemSpell{}, 0, false
	}
	return c.SourceItem.Template().Spells[i], i, true
}

// ResourceCost returns the power cost, honouring the source item's override.
func (c *Cast) ResourceCost() int32 {
	if stats, _, ok := c.ItemSpellStats(); ok && stats.CostOverride > 0 {
		return stats.CostOverride
	}
	return c.Spell.ManaCost
}

// Reagents returns the consumed items.
func (c *Cast) Reagents() []data.Reagent {
	out := make([]data.Reagent, 0, len(c.Spell.Reagents))
	for _, r := range c.Spell.Reagents {
		if r.Item == 0 {
			break
		}
		out = append(out, r)
	}
	return out
}

// RequiredTools returns the items that must be carried.
func (c *Cast) RequiredTools() []uint32 {
	out := make([]uint32, 0, len(c.Spell.Totems))
	for _, t := range c.Spell.Totems {
		if t == 0 {
			break
		}
		out = append(out, t)
	}
	return out
}

// ConjuredItem is an item a cast creates.
type ConjuredItem struct {
	Entry uint32
	Count int32
}

// ConjuredItems returns the items the cast would create.
func (c *Cast) ConjuredItems() []ConjuredItem {
	var out []ConjuredItem
	for _, e := range c.Effects {
		if e.Kind() != data.EffectCreateItem || e.Def.ItemType == 0 {
			continue
		}
		out = append(out, ConjuredItem{
			Entry: e.Def.ItemType,
			Count: max(e.MinPoints(c.EffectiveLevel, c.Spell.SpellLevel), 1),
		})
	}
	return out
}

// Points rolls the magnitude of e for this cast.
func (c *Cast) Points(e *Effect) int32 {
	return e.Points(c.EffectiveLevel, c.Spell.SpellLevel)
}
