package spell

import (
	"errors"
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

// ErrNoSummoner is returned when a summon is attempted without a Summoner.
var ErrNoSummoner = errors.New("no summoner configured")

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) CastStart(*Cast)                          {}
func (NopNotifier) CastGo(*Cast)                             {}
func (NopNotifier) CastResult(Unit, uint32, CastResult)      {}
func (NopNotifier) CooldownSet(Unit, uint32, time.Duration)  {}
func (NopNotifier) CooldownCleared(Unit, uint32)             {}
func (NopNotifier) ChannelStart(Unit, uint32, time.Duration) {}
func (NopNotifier) ChannelUpdate(Unit, time.Duration)        {}
func (NopNotifier) LearnedSpell(Unit, uint32)                {}
func (NopNotifier) EquipError(Unit, model.InventoryError)    {}

type noSpatial struct{}

func (noSpatial) FindUnit(uint64) (Unit, bool) { return nil, false }

func (noSpatial) UnitsInRadius(uint32, model.Location, float32) []Unit { return nil }

type flatTerrain struct{}

func (flatTerrain) Height(_ uint32, _, _, currentZ float32) float32 { return currentZ }

func (flatTerrain) CanSee(uint32, model.Location, model.Location) bool { return true }

type noSummoner struct{}

func (noSummoner) SummonCreature(*data.Creature, Unit, uint32, model.Location) (SpellCaster, error) {
	return nil, ErrNoSummoner
}

type noDuels struct{}

func (noDuels) RequestDuel(Unit, Unit, int32) DuelOutcome { return DuelDenied }

type noStore struct{}

func (noStore) SaveSpell(uint64, uint32) {}

// AlwaysHit is the default MissRoller.
func AlwaysHit(Unit, Unit, *data.Spell) MissReason { return MissNone }
