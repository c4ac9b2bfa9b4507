package model

import "github.com/udisondev/spellcore/internal/data"

// Creature — NPC, созданный из шаблона (тотем, призванное существо).
type Creature struct {
	*Unit
	template *data.Creature
}

// NewCreature spawns a creature of tmpl at loc with the given faction.
func NewCreature(guid uint64, tmpl *data.Creature, mapID uint32, loc Location, faction uint32) *Creature {
	return &Creature{
		Unit: NewUnit(guid, tmpl.Name, mapID, loc, UnitStats{
			Level:     tmpl.Level,
			Faction:   faction,
			Health:    tmpl.Health,
			PowerType: data.PowerMana,
			Power:     tmpl.Mana,
		}),
		template: tmpl,
	}
}

// Entry возвращает ID шаблона.
func (c *Creature) Entry() uint32 {
	return c.template.Entry
}

// Template возвращает шаблон существа.
func (c *Creature) Template() *data.Creature {
	return c.template
}

// SpawnSpells returns the abilities the creature casts once spawned.
// A zero id ends the list.
func (c *Creature) SpawnSpells() []uint32 {
	for i, id := range c.template.Spells {
		if id == 0 {
			return c.template.Spells[:i]
		}
	}
	return c.template.Spells
}
