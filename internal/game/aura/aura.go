package aura

import (
	"slices"
	"time"

	"github.com/udisondev/spellcore/internal/data"
)

// Aura is one status effect held by a unit.
// Timestamps holds the absolute times of the periodic ticks that have not fired yet.
type Aura struct {
	SpellID    uint32
	CasterGUID uint64
	Type       data.AuraType
	Amount     int32
	Period     time.Duration
	Remaining  time.Duration // negative = until cancelled
	Interrupt  data.AuraInterrupt
	Timestamps []time.Time
}

// New builds an aura from its template starting at now.
func New(spellID uint32, caster uint64, def *data.AuraDef, now time.Time) *Aura {
	a := &Aura{
		SpellID:    spellID,
		CasterGUID: caster,
		Type:       def.Type,
		Amount:     def.Amount,
		Period:     def.PeriodDuration(),
		Remaining:  def.DurationTime(),
		Interrupt:  def.Interrupt,
	}
	a.Timestamps = Schedule(now, a.Period, a.Remaining)
	return a
}

// Schedule returns the tick times of a periodic aura lasting duration from start.
// A permanent aura gets only its first tick; later ones are appended as ticks fire.
func Schedule(start time.Time, period, duration time.Duration) []time.Time {
	if period <= 0 {
		return nil
	}
	if duration < 0 {
		return []time.Time{start.Add(period)}
	}
	n := int(duration / period)
	ts := make([]time.Time, 0, n)
	for i := 1; i <= n; i++ {
		ts = append(ts, start.Add(time.Duration(i)*period))
	}
	return ts
}

// Clone returns a copy that shares no state with a.
func (a *Aura) Clone() *Aura {
	c := *a
	c.Timestamps = slices.Clone(a.Timestamps)
	return &c
}

// IsPermanent reports whether the aura lasts until cancelled.
func (a *Aura) IsPermanent() bool {
	return a.Remaining < 0
}

// IsExpired reports whether a timed aura ran out.
func (a *Aura) IsExpired() bool {
	return !a.IsPermanent() && a.Remaining <= 0
}

// IsPastNextTick reports whether the next periodic tick is due at now.
func (a *Aura) IsPastNextTick(now time.Time) bool {
	return len(a.Timestamps) > 0 && !now.Before(a.Timestamps[0])
}

// PopTick drops the next pending tick.
func (a *Aura) PopTick() {
	if len(a.Timestamps) == 0 {
		return
	}
	last := a.Timestamps[0]
	a.Timestamps = a.Timestamps[1:]
	if a.IsPermanent() && a.Period > 0 && len(a.Timestamps) == 0 {
		a.Timestamps = append(a.Timestamps, last.Add(a.Period))
	}
}

// Age advances the remaining duration by elapsed.
func (a *Aura) Age(elapsed time.Duration) {
	if a.IsPermanent() {
		return
	}
	a.Remaining -= elapsed
}
