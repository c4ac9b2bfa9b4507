package spell

import (
	"context"
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/aura"
	"github.com/udisondev/spellcore/internal/model"
)

// Object is anything placed in the world.
type Object interface {
	GUID() uint64
	MapID() uint32
	Location() model.Location
}

// Unit is the capability surface of an actor that casts or is affected by casts.
type Unit interface {
	Object
	Name() string
	Level() int32
	Faction() uint32
	IsAlive() bool

	StandState() model.StandState
	SetStandState(s model.StandState)

	Health() int32
	SetHealth(hp int32)
	TakeDamage(amount int32, attacker uint64)
	Heal(amount int32)
	Die(killer uint64)
	Revive(health, power int32)

	PowerType() data.PowerType
	Power(pt data.PowerType) int32
	SetPower(pt data.PowerType, value int32)

	MeleeDamage(attack model.AttackType) int32
	Ammo() (model.Ammo, bool)
	Teleport(mapID uint32, loc model.Location)

	IsMounted() bool
	Mount(displayID uint32)
	Unmount()

	SetChannel(object uint64, spellID uint32)
	Channel() (uint64, uint32)

	Auras() *aura.Manager
}

// Player is a Unit with combo points and an inventory.
type Player interface {
	Unit
	ComboPoints() (int32, uint64)
	AddComboPoints(target uint64, n int32)
	ClearComboPoints()
	Inventory() Inventory
}

// Inventory is the part of a player's bag the engine reads and mutates.
type Inventory interface {
	ItemCount(entry uint32) int32
	FirstItemByEntry(entry uint32) *model.Item
	RemoveItems(entry uint32, count int32) int32
	AddItem(tmpl *data.Item, count int32) error
	CanStore(tmpl *data.Item, count int32) model.InventoryError
}

// SpellCaster is a Unit that owns a cast orchestrator.
type SpellCaster interface {
	Unit
	SpellManager() *Manager
}

// Usable is a world object that reacts to being used (chests, doors).
type Usable interface {
	Object
	Use(user uint64)
}

// Spatial answers "who is near whom" questions.
type Spatial interface {
	FindUnit(guid uint64) (Unit, bool)
	UnitsInRadius(mapID uint32, center model.Location, radius float32) []Unit
}

// Terrain provides ground height and line of sight.
type Terrain interface {
	// Height returns the ground height at x, y or currentZ when it is unknown.
	Height(mapID uint32, x, y, currentZ float32) float32
	CanSee(mapID uint32, from, to model.Location) bool
}

// Summoner spawns creatures on behalf of a caster.
type Summoner interface {
	SummonCreature(tmpl *data.Creature, summoner Unit, mapID uint32, at model.Location) (SpellCaster, error)
}

// DuelOutcome is the answer of a DuelArbiter.
type DuelOutcome uint8

const (
	DuelRequested DuelOutcome = iota
	DuelTargetBusy
	DuelDenied
)

// DuelArbiter registers duel challenges.
type DuelArbiter interface {
	RequestDuel(challenger, target Unit, flagEntry int32) DuelOutcome
}

// Notifier carries the engine's outbound notifications to observers.
// Player-only notifications are sent by the manager only for player casters.
type Notifier interface {
	CastStart(c *Cast)
	CastGo(c *Cast)
	CastResult(caster Unit, spellID uint32, result CastResult)
	CooldownSet(caster Unit, spellID uint32, length time.Duration)
	CooldownCleared(caster Unit, spellID uint32)
	ChannelStart(caster Unit, spellID uint32, duration time.Duration)
	ChannelUpdate(caster Unit, remaining time.Duration)
	LearnedSpell(caster Unit, spellID uint32)
	EquipError(caster Unit, code model.InventoryError)
}

// KnownSpell is one entry of a player's spellbook.
type KnownSpell struct {
	SpellID uint32
	Button  int16
}

// SpellStore persists learned spells. SaveSpell must not block the tick.
type SpellStore interface {
	SaveSpell(owner uint64, spellID uint32)
}

// SpellLoader reads a player's spellbook.
type SpellLoader interface {
	KnownSpells(ctx context.Context, owner uint64) ([]KnownSpell, error)
}

// MissRoller decides the per-target outcome of a cast.
type MissRoller func(caster, target Unit, s *data.Spell) MissReason
