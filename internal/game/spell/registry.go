package spell

import (
	"log/slog"
	"time"

	"github.com/udisondev/spellcore/internal/data"
)

// EffectContext is what a handler sees when applying one effect to one target.
// Target, Object and Point are set according to the kind of target resolved;
// area effects get none of them and read the effect's target sets instead.
type EffectContext struct {
	Manager *Manager
	Cast    *Cast
	Effect  *Effect
	Caster  Unit
	Target  Unit
	Object  Usable
	Point   *Point
	Now     time.Time
}

// Points rolls the effect magnitude.
func (ctx *EffectContext) Points() int32 {
	return ctx.Cast.Points(ctx.Effect)
}

// Handler applies one effect. Game-rule rejections are returned as a CastResult.
type Handler func(ctx *EffectContext) CastResult

type registryEntry struct {
	handle Handler
	area   bool
}

// Registry maps effect kinds to their handlers.
type Registry struct {
	handlers map[data.EffectKind]registryEntry
}

// NewRegistry returns a registry with the default handler set.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[data.EffectKind]registryEntry, 24)}

	r.Register(data.EffectSchoolDamage, handleSchoolDamage)
	r.Register(data.EffectHeal, handleHeal)
	r.Register(data.EffectWeaponDamage, handleWeaponDamage)
	r.Register(data.EffectWeaponDamagePlus, handleWeaponDamagePlus)
	r.Register(data.EffectAddComboPoints, handleAddComboPoints)
	r.Register(data.EffectDuel, handleDuel)
	r.Register(data.EffectApplyAura, handleApplyAura)
	r.Register(data.EffectEnergize, handleEnergize)
	r.Register(data.EffectSummonMount, handleSummonMount)
	r.Register(data.EffectInstakill, handleInstakill)
	r.Register(data.EffectCreateItem, handleCreateItem)
	r.Register(data.EffectTeleportUnits, handleTeleportUnits)
	r.Register(data.EffectOpenLock, handleOpenLock)
	r.Register(data.EffectLearnSpell, handleLearnSpell)
	r.Register(data.EffectLeap, handleLeap)
	r.Register(data.EffectSummonTotem, handleSummonTotem)
	r.Register(data.EffectResurrect, handleResurrect)
	r.RegisterArea(data.EffectPersistentAreaAura, handlePersistentAreaAura)
	r.RegisterArea(data.EffectApplyAreaAura, handleApplyAreaAura)

	return r
}

// Register sets the handler applied per resolved target of kind.
func (r *Registry) Register(kind data.EffectKind, h Handler) {
	r.handlers[kind] = registryEntry{handle: h}
}

// RegisterArea sets a handler that resolves its own targets.
// It is called once per application with no target and again on every update of an active cast.
func (r *Registry) RegisterArea(kind data.EffectKind, h Handler) {
	r.handlers[kind] = registryEntry{handle: h, area: true}
}

// IsArea reports whether kind is handled as an area effect.
func (r *Registry) IsArea(kind data.EffectKind) bool {
	return r.handlers[kind].area
}

// Has reports whether kind has a handler.
func (r *Registry) Has(kind data.EffectKind) bool {
	_, ok := r.handlers[kind]
	return ok
}

// Dispatch runs the handler of ctx.Effect. Unknown kinds are a logged no-op.
func (r *Registry) Dispatch(ctx *EffectContext) CastResult {
	entry, ok := r.handlers[ctx.Effect.Kind()]
	if !ok {
		slog.Debug("unimplemented effect",
			"spell", ctx.Cast.SpellID(),
			"effect", ctx.Effect.Kind(),
			"index", ctx.Effect.Index)
		return ResultOK
	}
	return entry.handle(ctx)
}
