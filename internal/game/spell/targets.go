package spell

import (
	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

// EffectTargets holds the two resolved target sets of an effect.
// Applied tracks the units currently holding the effect's area aura.
type EffectTargets struct {
	A       TargetSet
	B       TargetSet
	Applied []Unit
}

// Units returns the unit targets of both sets, A first.
func (t *EffectTargets) Units() []Unit {
	if len(t.B.Units) == 0 {
		return t.A.Units
	}
	out := make([]Unit, 0, len(t.A.Units)+len(t.B.Units))
	out = append(out, t.A.Units...)
	for _, u := range t.B.Units {
		if !containsUnit(out, u) {
			out = append(out, u)
		}
	}
	return out
}

// Objects returns the object targets of both sets.
func (t *EffectTargets) Objects() []Usable {
	return append(t.A.Objects[:len(t.A.Objects):len(t.A.Objects)], t.B.Objects...)
}

// Points returns the point targets of both sets.
func (t *EffectTargets) Points() []Point {
	return append(t.A.Points[:len(t.A.Points):len(t.A.Points)], t.B.Points...)
}

func containsUnit(units []Unit, u Unit) bool {
	for _, have := range units {
		if have.GUID() == u.GUID() {
			return true
		}
	}
	return false
}

// ResolveEffectTargets resolves the target sets of every effect.
// Area effects call it again on each update to follow movement in and out of range.
func (c *Cast) ResolveEffectTargets(world Spatial, terrain Terrain) {
	for _, e := range c.Effects {
		c.ResolveEffect(e, world, terrain)
	}
}

// ResolveEffect resolves the target sets of one effect.
func (c *Cast) ResolveEffect(e *Effect, world Spatial, terrain Terrain) {
	e.Targets.A.reset()
	e.Targets.B.reset()

	implicitA := e.Def.ImplicitTargetA
	if implicitA == data.TargetNone {
		c.resolveInitial(&e.Targets.A)
	} else {
		c.resolveImplicit(&e.Targets.A, e, implicitA, world, terrain)
	}
	if e.Def.ImplicitTargetB != data.TargetNone {
		c.resolveImplicit(&e.Targets.B, e, e.Def.ImplicitTargetB, world, terrain)
	}
}

func (c *Cast) resolveInitial(set *TargetSet) {
	t := c.InitialTarget
	switch t.Kind {
	case TargetUnit:
		c.addUnit(set, t.Unit)
	case TargetObject:
		set.Objects = append(set.Objects, t.Object)
	case TargetPoint:
		set.Points = append(set.Points, Point{MapID: c.Caster.MapID(), Location: t.Point})
	}
}

func (c *Cast) resolveImplicit(set *TargetSet, e *Effect, implicit data.ImplicitTarget, world Spatial, terrain Terrain) {
	switch implicit {
	case data.TargetSelf:
		c.addUnit(set, c.Caster)

	case data.TargetUnitEnemy, data.TargetAnyUnit, data.TargetDuelOpponent:
		if c.InitialTargetIsUnit() {
			c.addUnit(set, c.InitialTarget.Unit)
		}

	case data.TargetUnitFriend:
		if c.InitialTargetIsUnit() && c.isFriendly(c.InitialTarget.Unit) {
			c.addUnit(set, c.InitialTarget.Unit)
		}

	case data.TargetEnemiesAroundCaster:
		c.addArea(set, world, terrain, c.Caster.Location(), e.Def.Radius, false)

	case data.TargetFriendsAroundCaster:
		c.addArea(set, world, terrain, c.Caster.Location(), e.Def.Radius, true)

	case data.TargetEnemiesAroundSource:
		center := c.Caster.Location()
		if c.InitialTarget.Kind == TargetPoint && c.TargetMask.Has(TargetMaskSourceLocation) {
			center = c.InitialTarget.Point
		}
		c.addArea(set, world, terrain, center, e.Def.Radius, false)

	case data.TargetEnemiesAroundDest:
		c.addArea(set, world, terrain, c.destination(), e.Def.Radius, false)

	case data.TargetDatabaseLocation:
		if d := e.Def.Dest; d != nil {
			set.Points = append(set.Points, Point{
				MapID:    d.Map,
				Location: model.NewLocation(d.X, d.Y, d.Z, d.O),
			})
		}

	case data.TargetDestLocation:
		if c.InitialTarget.Kind == TargetPoint {
			set.Points = append(set.Points, Point{MapID: c.Caster.MapID(), Location: c.InitialTarget.Point})
		}

	case data.TargetGameObject:
		if c.InitialTarget.Kind == TargetObject {
			set.Objects = append(set.Objects, c.InitialTarget.Object)
		}
	}
}

// destination returns the centre of a destination-based area.
func (c *Cast) destination() model.Location {
	switch c.InitialTarget.Kind {
	case TargetPoint:
		return c.InitialTarget.Point
	case TargetUnit:
		return c.InitialTarget.Unit.Location()
	case TargetObject:
		return c.InitialTarget.Object.Location()
	default:
		return c.Caster.Location()
	}
}

func (c *Cast) addArea(set *TargetSet, world Spatial, terrain Terrain, center model.Location, radius float32, friendly bool) {
	mapID := c.Caster.MapID()
	for _, u := range world.UnitsInRadius(mapID, center, radius) {
		if !u.IsAlive() || u.MapID() != mapID {
			continue
		}
		if c.isFriendly(u) != friendly {
			continue
		}
		if !friendly && u.GUID() == c.Caster.GUID() {
			continue
		}
		if !terrain.CanSee(mapID, center, u.Location()) {
			continue
		}
		c.addUnit(set, u)
	}
}

func (c *Cast) isFriendly(u Unit) bool {
	return u.GUID() == c.Caster.GUID() || u.Faction() == c.Caster.Faction()
}

// addUnit adds u to set and records its outcome on first sight.
// Friendly targets are never missed.
func (c *Cast) addUnit(set *TargetSet, u Unit) {
	set.addUnit(u)
	if c.isFriendly(u) {
		c.Results.Add(u, MissNone)
		return
	}
	if _, ok := c.Results.Get(u.GUID()); !ok {
		c.Results.Add(u, c.miss(c.Caster, u, c.Spell))
	}
}
