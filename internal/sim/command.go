package sim

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/model"
)

// Submit queues fn to run with the actor guid on the next tick.
// Never blocks: a full queue is reported as ErrCommandQueueFull.
func (w *World) Submit(guid uint64, fn func(spell.SpellCaster)) error {
	return w.submit(guid, func(a actor) { fn(a) })
}

func (w *World) submit(guid uint64, fn func(actor)) error {
	if !w.isPresent(guid) {
		return fmt.Errorf("player %d: %w", guid, ErrNotInWorld)
	}
	select {
	case w.commands <- command{guid: guid, fn: fn}:
		return nil
	default:
		slog.Warn("command queue full", "player", guid, "capacity", cap(w.commands))
		return fmt.Errorf("player %d: %w", guid, ErrCommandQueueFull)
	}
}

// Move updates the position reported by the client.
// A change of coordinates breaks casts in progress; turning in place does not.
func (w *World) Move(guid uint64, loc model.Location) error {
	return w.submit(guid, func(a actor) {
		cur := a.Location()
		a.SetLocation(loc)
		if cur.X == loc.X && cur.Y == loc.Y && cur.Z == loc.Z {
			return
		}
		a.SpellManager().FlagAsMoved()
		w.units.Relocate(a.GUID())
	})
}

// Swing reports a landed melee swing of guid: the queued on-swing ability,
// if any, goes off with it.
func (w *World) Swing(guid uint64, attack model.AttackType) error {
	return w.submit(guid, func(a actor) {
		a.SpellManager().CastQueuedMeleeAbility(attack)
	})
}

// RespondDuel answers the duel challenge of guid. Declining a running duel
// is a surrender.
func (w *World) RespondDuel(guid uint64, accept bool) error {
	return w.submit(guid, func(a actor) {
		var err error
		if accept {
			err = w.duels.Accept(guid, w.clock())
		} else {
			err = w.duels.Surrender(guid)
		}
		if err != nil {
			slog.Debug("duel response ignored", "player", guid, "accept", accept, "error", err)
		}
	})
}

// runCommands runs the commands queued before the tick started.
func (w *World) runCommands() int {
	n := len(w.commands)
	for range n {
		cmd := <-w.commands
		a, ok := w.actor(cmd.guid)
		if !ok {
			continue
		}
		cmd.fn(a)
	}
	return n
}
