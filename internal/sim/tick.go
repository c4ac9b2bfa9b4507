package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/spellcore/internal/game/spell"
)

// Run drives Tick every TickInterval until ctx is cancelled.
func (w *World) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.TickInterval)
	defer ticker.Stop()

	slog.Info("world tick loop started", "interval", w.cfg.TickInterval)

	last := w.clock()
	for {
		select {
		case <-ctx.Done():
			slog.Info("world tick loop stopping", "ticks", w.ticks)
			return ctx.Err()

		case <-ticker.C:
			now := w.clock()
			start := time.Now()
			w.Tick(now, now.Sub(last))
			last = now

			if took := time.Since(start); took > w.cfg.TickInterval {
				slog.Warn("slow tick", "took", took, "interval", w.cfg.TickInterval)
			}
		}
	}
}

// Tick advances the world by elapsed to now:
// leavers are torn down, queued commands run, summons think, casts
// progress in GUID order, auras age, moved units are re-indexed and duels
// are decided.
func (w *World) Tick(now time.Time, elapsed time.Duration) {
	w.ticks++

	w.teardownLeavers()
	w.runCommands()
	w.ai.TickAll(now)

	actors := w.snapshot()
	for _, a := range actors {
		a.SpellManager().Update(now, elapsed)
	}
	for _, a := range actors {
		a.Auras().Update(now, elapsed)
	}

	w.units.Sync()
	w.duels.Update(now)
}

// Ticks returns the number of ticks run so far.
func (w *World) Ticks() uint64 {
	return w.ticks
}

func (w *World) teardownLeavers() {
	w.mu.Lock()
	leaving := w.leaving
	w.leaving = nil
	w.mu.Unlock()

	for _, a := range leaving {
		a.SpellManager().InterruptAll(spell.ResultInterrupted)
		w.duels.Leave(a.GUID())

		if _, isPlayer := a.(*Player); !isPlayer {
			continue
		}
		for _, guid := range w.summonsOf(a.GUID()) {
			w.Despawn(guid)
		}
	}
}
