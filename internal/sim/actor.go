package sim

import (
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/model"
)

// actor is an in-world unit driven by the tick loop.
type actor interface {
	spell.SpellCaster
	SetLocation(loc model.Location)
}

// Player — персонаж в мире вместе со своим SpellManager.
type Player struct {
	*model.Player
	mgr *spell.Manager
}

// Inventory возвращает сумку игрока.
func (p *Player) Inventory() spell.Inventory {
	return p.Player.Items()
}

// SpellManager возвращает оркестратор кастов игрока.
func (p *Player) SpellManager() *spell.Manager {
	return p.mgr
}

// Creature — NPC в мире. Призванные существа помнят хозяина.
type Creature struct {
	*model.Creature
	mgr   *spell.Manager
	owner uint64
}

// SpellManager возвращает оркестратор кастов существа.
func (c *Creature) SpellManager() *spell.Manager {
	return c.mgr
}

// Owner returns the GUID of the summoner, 0 for world spawns.
func (c *Creature) Owner() uint64 {
	return c.owner
}

var (
	_ spell.Player = (*Player)(nil)
	_ actor        = (*Player)(nil)
	_ actor        = (*Creature)(nil)
)
