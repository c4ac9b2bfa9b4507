package spell

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/aura"
)

// Effect is the runtime copy of one effect slot of a cast.
type Effect struct {
	Def     *data.EffectDef
	Index   int
	Targets EffectTargets
	Aura    *EffectAura
}

func newEffect(def *data.EffectDef, index int) *Effect {
	e := &Effect{Def: def, Index: index}
	if def.Aura != nil {
		e.Aura = &EffectAura{Def: def.Aura}
	}
	return e
}

// Kind returns the effect kind.
func (e *Effect) Kind() data.EffectKind {
	return e.Def.Kind
}

// Points rolls the effect magnitude for a caster of the given effective level.
func (e *Effect) Points(level, spellLevel int32) int32 {
	return e.basePoints(level, spellLevel) + roll(e.Def.DieSides)
}

// MinPoints returns the smallest magnitude Points can roll.
func (e *Effect) MinPoints(level, spellLevel int32) int32 {
	return e.basePoints(level, spellLevel) + min(max(e.Def.DieSides, 0), 1)
}

func (e *Effect) basePoints(level, spellLevel int32) int32 {
	return e.Def.BasePoints + int32(e.Def.PointsPerLevel*float32(level-spellLevel))
}

func roll(dieSides int32) int32 {
	switch {
	case dieSides <= 0:
		return 0
	case dieSides == 1:
		return 1
	default:
		return 1 + rand.Int32N(dieSides)
	}
}

// EffectAura is the status effect an effect hands out, with its own tick schedule.
// Area effects keep the schedule here and give every new holder a copy of it.
type EffectAura struct {
	Def        *data.AuraDef
	Timestamps []time.Time
	Remaining  time.Duration

	initialized bool
}

// Initialize schedules the periodic ticks from now. Later calls are no-ops.
func (ea *EffectAura) Initialize(now time.Time) {
	if ea.initialized {
		return
	}
	ea.initialized = true
	ea.Remaining = ea.Def.DurationTime()
	ea.Timestamps = aura.Schedule(now, ea.Def.PeriodDuration(), ea.Remaining)
}

// IsPastNextTick reports whether the next scheduled tick is due.
func (ea *EffectAura) IsPastNextTick(now time.Time) bool {
	return len(ea.Timestamps) > 0 && !now.Before(ea.Timestamps[0])
}

// PopTick drops the next scheduled tick. Permanent auras schedule the following one.
func (ea *EffectAura) PopTick() {
	if len(ea.Timestamps) == 0 {
		return
	}
	last := ea.Timestamps[0]
	ea.Timestamps = ea.Timestamps[1:]
	if ea.Remaining < 0 && len(ea.Timestamps) == 0 {
		ea.Timestamps = append(ea.Timestamps, last.Add(ea.Def.PeriodDuration()))
	}
}

// Age advances the remaining duration.
func (ea *EffectAura) Age(elapsed time.Duration) {
	if ea.Remaining >= 0 {
		ea.Remaining = max(ea.Remaining-elapsed, 0)
	}
}

// IsExpired reports whether a timed aura ran out.
func (ea *EffectAura) IsExpired() bool {
	return ea.initialized && ea.Remaining == 0
}

// Instance builds the aura given to one holder.
// The holder gets its own copy of the pending ticks.
func (ea *EffectAura) Instance(spellID uint32, caster uint64) *aura.Aura {
	return &aura.Aura{
		SpellID:    spellID,
		CasterGUID: caster,
		Type:       ea.Def.Type,
		Amount:     ea.Def.Amount,
		Period:     ea.Def.PeriodDuration(),
		Remaining:  ea.Remaining,
		Interrupt:  ea.Def.Interrupt,
		Timestamps: slices.Clone(ea.Timestamps),
	}
}
