package sim

import (
	"fmt"
	"log/slog"

	"github.com/udisondev/spellcore/internal/ai"
	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/model"
)

// SpawnCreature places a world creature of entry at loc.
func (w *World) SpawnCreature(entry uint32, mapID uint32, loc model.Location, faction uint32) (*Creature, error) {
	tmpl, ok := w.tables.Creature(entry)
	if !ok {
		return nil, fmt.Errorf("spawning creature %d: %w", entry, ErrUnknownCreature)
	}
	return w.spawnCreature(tmpl, mapID, loc, faction, 0)
}

// SummonCreature spawns tmpl next to summoner, on its side.
// Called from effect handlers on the tick goroutine.
func (w *World) SummonCreature(tmpl *data.Creature, summoner spell.Unit, mapID uint32, at model.Location) (spell.SpellCaster, error) {
	at.Z = w.height(mapID, at)
	c, err := w.spawnCreature(tmpl, mapID, at, summoner.Faction(), summoner.GUID())
	if err != nil {
		return nil, fmt.Errorf("summoning %d for %d: %w", tmpl.Entry, summoner.GUID(), err)
	}
	return c, nil
}

func (w *World) spawnCreature(tmpl *data.Creature, mapID uint32, loc model.Location, faction uint32, owner uint64) (*Creature, error) {
	c := &Creature{
		Creature: model.NewCreature(w.guids.NextCreature(), tmpl, mapID, loc, faction),
		owner:    owner,
	}
	c.mgr = spell.NewManager(c, w.managerDeps())
	c.OnAuraRemoved(c.mgr.OnAuraRemoved)

	if err := w.publish(c); err != nil {
		return nil, err
	}
	if owner != 0 {
		if brain := ai.NewTotemAI(c, tmpl.Spells, w.tables, w); brain.Repeats() {
			w.ai.Register(c.GUID(), brain)
		}
	}

	slog.Debug("creature spawned",
		"guid", c.GUID(),
		"entry", tmpl.Entry,
		"owner", owner,
		"map", mapID)
	return c, nil
}

// Despawn removes a creature from the world; its casts end on the next tick.
func (w *World) Despawn(guid uint64) bool {
	a, ok := w.actor(guid)
	if !ok {
		return false
	}
	if _, isCreature := a.(*Creature); !isCreature {
		return false
	}
	return w.unpublish(guid)
}

// SpawnObject places a usable game object of entry at loc.
func (w *World) SpawnObject(entry uint32, name string, mapID uint32, loc model.Location) (*model.GameObject, error) {
	obj := model.NewGameObject(w.guids.NextGameObject(), entry, name, mapID, loc)
	if err := w.objects.Add(obj); err != nil {
		return nil, fmt.Errorf("spawning object %d: %w", entry, err)
	}
	return obj, nil
}

// RemoveObject takes a game object out of the world.
func (w *World) RemoveObject(guid uint64) bool {
	return w.objects.Remove(guid)
}

// summonsOf returns the creatures summoned by owner.
func (w *World) summonsOf(owner uint64) []uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	var out []uint64
	for guid, a := range w.actors {
		if c, ok := a.(*Creature); ok && c.owner == owner {
			out = append(out, guid)
		}
	}
	return out
}

func (w *World) height(mapID uint32, at model.Location) float32 {
	if w.terrain == nil {
		return at.Z
	}
	return w.terrain.Height(mapID, at.X, at.Y, at.Z)
}
