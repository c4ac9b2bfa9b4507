package spell

import (
	"log/slog"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

func handleSchoolDamage(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	ctx.Target.TakeDamage(ctx.Points(), ctx.Caster.GUID())
	return ResultOK
}

func handleHeal(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	ctx.Target.Heal(ctx.Points())
	return ResultOK
}

func handleWeaponDamage(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	damage := ctx.Caster.MeleeDamage(ctx.Cast.AttackType) + ctx.Points()
	ctx.Target.TakeDamage(damage, ctx.Caster.GUID())
	return ResultOK
}

// handleWeaponDamagePlus scales the flat bonus of finishing moves by the
// combo points recorded when the cast went off, before they were consumed.
func handleWeaponDamagePlus(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	bonus := ctx.Points()
	if _, ok := ctx.Caster.(Player); ok && ctx.Cast.RequiresComboPoints() {
		bonus *= ctx.Cast.ComboPoints()
	}
	damage := ctx.Caster.MeleeDamage(ctx.Cast.AttackType) + bonus
	ctx.Target.TakeDamage(damage, ctx.Caster.GUID())
	return ResultOK
}

func handleAddComboPoints(ctx *EffectContext) CastResult {
	p, ok := ctx.Caster.(Player)
	if !ok || ctx.Target == nil {
		return ResultOK
	}
	p.AddComboPoints(ctx.Target.GUID(), ctx.Points())
	return ResultOK
}

func handleDuel(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	switch ctx.Manager.duels.RequestDuel(ctx.Caster, ctx.Target, ctx.Effect.Def.MiscValue) {
	case DuelRequested:
		return ResultOK
	case DuelTargetBusy:
		return ResultTargetDueling
	default:
		return ResultDontReport
	}
}

func handleApplyAura(ctx *EffectContext) CastResult {
	if ctx.Target == nil || ctx.Effect.Aura == nil {
		return ResultOK
	}
	ctx.Target.Auras().Add(ctx.Effect.Aura.Instance(ctx.Cast.SpellID(), ctx.Caster.GUID()))
	return ResultOK
}

// handleEnergize restores power only when the target uses that power type.
func handleEnergize(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	pt := data.PowerType(ctx.Effect.Def.MiscValue)
	if pt != ctx.Target.PowerType() {
		return ResultOK
	}
	ctx.Target.SetPower(pt, ctx.Target.Power(pt)+ctx.Points())
	return ResultOK
}

// handleSummonMount mounts the target, or dismounts it cleanly when it
// already rides something.
func handleSummonMount(ctx *EffectContext) CastResult {
	target := ctx.Target
	if target == nil {
		return ResultOK
	}

	if target.IsMounted() {
		target.Auras().RemoveByType(data.AuraMounted)
		target.Auras().RemoveByType(data.AuraModIncreaseMountedSpeed)
		if target.IsMounted() {
			target.Unmount()
		}
		return ResultOK
	}

	entry := uint32(ctx.Effect.Def.MiscValue)
	tmpl, ok := ctx.Manager.tables.Creature(entry)
	if !ok {
		slog.Error("summon mount: creature template not found", "entry", entry, "spell", ctx.Cast.SpellID())
		return ResultOK
	}
	display := tmpl.MountDisplayID
	if display == 0 {
		display = tmpl.DisplayID
	}
	target.Mount(display)
	return ResultOK
}

func handleInstakill(ctx *EffectContext) CastResult {
	if ctx.Target == nil {
		return ResultOK
	}
	ctx.Target.Die(ctx.Caster.GUID())
	return ResultOK
}

func handleCreateItem(ctx *EffectContext) CastResult {
	p, ok := ctx.Target.(Player)
	if !ok {
		return ResultOK
	}
	entry := ctx.Effect.Def.ItemType
	tmpl, ok := ctx.Manager.tables.Item(entry)
	if !ok {
		slog.Warn("create item: item template not found", "entry", entry, "spell", ctx.Cast.SpellID())
		return ResultOK
	}
	if err := p.Inventory().AddItem(tmpl, max(ctx.Points(), 1)); err != nil {
		slog.Debug("create item failed", "player", p.GUID(), "entry", entry, "error", err)
	}
	return ResultOK
}

// handleTeleportUnits moves the target to the first point of target set B.
func handleTeleportUnits(ctx *EffectContext) CastResult {
	if ctx.Target == nil || len(ctx.Effect.Targets.B.Points) == 0 {
		return ResultOK
	}
	dest := ctx.Effect.Targets.B.Points[0]
	ctx.Target.Teleport(dest.MapID, dest.Location)
	return ResultOK
}

func handleOpenLock(ctx *EffectContext) CastResult {
	if ctx.Object == nil {
		return ResultOK
	}
	ctx.Object.Use(ctx.Caster.GUID())
	return ResultOK
}

func handleLearnSpell(ctx *EffectContext) CastResult {
	sc, ok := ctx.Target.(SpellCaster)
	if !ok {
		return ResultOK
	}
	sc.SpellManager().LearnSpell(ctx.Effect.Def.TriggerSpell)
	return ResultOK
}

// handleLeap moves the caster to the target point, stopping at the ability's
// maximum range along the same line when the point is farther.
func handleLeap(ctx *EffectContext) CastResult {
	if ctx.Cast.InitialTarget.Kind != TargetPoint {
		return ResultOK
	}
	from := ctx.Caster.Location()
	to := ctx.Cast.InitialTarget.Point.WithOrientation(from.O)
	maxRange := ctx.Cast.Spell.Range.Max

	dist := from.Distance(to)
	if dist <= maxRange {
		ctx.Caster.Teleport(ctx.Caster.MapID(), to)
		return ResultOK
	}

	x := from.X - maxRange*(from.X-to.X)/dist
	y := from.Y - maxRange*(from.Y-to.Y)/dist
	z := ctx.Manager.terrain.Height(ctx.Caster.MapID(), x, y, to.Z)
	ctx.Caster.Teleport(ctx.Caster.MapID(), model.NewLocation(x, y, z, from.O))
	return ResultOK
}

// handleSummonTotem spawns the totem creature and makes it cast its spells.
func handleSummonTotem(ctx *EffectContext) CastResult {
	entry := uint32(ctx.Effect.Def.MiscValue)
	tmpl, ok := ctx.Manager.tables.Creature(entry)
	if !ok {
		slog.Error("summon totem: creature template not found", "entry", entry, "spell", ctx.Cast.SpellID())
		return ResultOK
	}

	at := ctx.Caster.Location()
	switch {
	case ctx.Point != nil:
		at = ctx.Point.Location
	case ctx.Target != nil:
		at = ctx.Target.Location()
	}

	totem, err := ctx.Manager.summoner.SummonCreature(tmpl, ctx.Caster, ctx.Caster.MapID(), at)
	if err != nil {
		slog.Error("summon totem failed", "entry", entry, "error", err)
		return ResultOK
	}

	for _, id := range tmpl.Spells {
		if id == 0 {
			break
		}
		totem.SpellManager().HandleCastAttempt(id, UnitTarget(totem), TargetMaskSelf)
	}
	return ResultOK
}

func handleResurrect(ctx *EffectContext) CastResult {
	if ctx.Target == nil || ctx.Target.IsAlive() {
		return ResultOK
	}
	ctx.Target.Revive(ctx.Points(), 0)
	return ResultOK
}

// handlePersistentAreaAura is the ground-targeted variant of an area aura.
func handlePersistentAreaAura(ctx *EffectContext) CastResult {
	if ctx.Target != nil {
		return ResultOK
	}
	return handleApplyAreaAura(ctx)
}

// handleApplyAreaAura diffs the holders of the effect's aura against the
// freshly resolved set A: newcomers get their own copy, leavers lose it.
// It also advances the effect's own tick schedule once per call.
func handleApplyAreaAura(ctx *EffectContext) CastResult {
	ea := ctx.Effect.Aura
	if ea == nil {
		return ResultOK
	}
	ctx.Cast.State = StateActive

	targets := &ctx.Effect.Targets
	current := targets.A.Units
	spellID := ctx.Cast.SpellID()
	caster := ctx.Caster.GUID()

	var left []Unit
	kept := targets.Applied[:0]
	for _, u := range targets.Applied {
		if containsUnit(current, u) {
			kept = append(kept, u)
			continue
		}
		left = append(left, u)
	}
	targets.Applied = kept

	for _, u := range current {
		if containsUnit(targets.Applied, u) {
			continue
		}
		u.Auras().Add(ea.Instance(spellID, caster))
		targets.Applied = append(targets.Applied, u)
	}

	if ea.IsPastNextTick(ctx.Now) {
		ea.PopTick()
	}

	for _, u := range left {
		u.Auras().CancelBySpellFrom(spellID, caster)
	}
	return ResultOK
}
