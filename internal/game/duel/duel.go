// Package duel implements one-on-one duels requested by the duel spell effect.
// Lifecycle: request → countdown → fighting → result. Driven by the simulation tick.
package duel

import (
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/spell"
)

// State is the phase of a duel.
type State uint8

const (
	StateRequested State = iota // waiting for the target to answer
	StateCountdown              // accepted, fight starts at StartAt
	StateFighting
)

// Result represents the outcome of a duel.
type Result uint8

const (
	ResultContinue            Result = iota // Duel continues
	ResultChallengerWin                     // Target defeated
	ResultTargetWin                         // Challenger defeated
	ResultChallengerSurrender               // Challenger gave up
	ResultTargetSurrender                   // Target gave up
	ResultDeclined                          // Target refused the challenge
	ResultCanceled                          // Participants too far apart, left the map or the world
	ResultTimeout                           // Nobody answered or nobody won in time
)

var resultNames = [...]string{
	ResultContinue:            "continue",
	ResultChallengerWin:       "challenger_win",
	ResultTargetWin:           "target_win",
	ResultChallengerSurrender: "challenger_surrender",
	ResultTargetSurrender:     "target_surrender",
	ResultDeclined:            "declined",
	ResultCanceled:            "canceled",
	ResultTimeout:             "timeout",
}

func (r Result) String() string {
	if int(r) < len(resultNames) {
		return resultNames[r]
	}
	return "unknown"
}

// Duel timing and distance limits.
const (
	RequestTimeout    = 60 * time.Second
	CountdownDuration = 3 * time.Second
	FightDuration     = 120 * time.Second

	MaxDistance float32 = 100 // yards between participants
)

// Condition is a participant's state saved when the fight starts.
type Condition struct {
	Health    int32
	PowerType data.PowerType
	Power     int32
}

// Duel is a challenge between two units.
type Duel struct {
	id         int32
	challenger spell.Unit
	target     spell.Unit
	flagEntry  int32

	state       State
	requestedAt time.Time
	startAt     time.Time
	endAt       time.Time
	surrendered uint64 // GUID of the participant who gave up

	conditions map[uint64]Condition
}

func newDuel(id int32, challenger, target spell.Unit, flagEntry int32, now time.Time) *Duel {
	return &Duel{
		id:          id,
		challenger:  challenger,
		target:      target,
		flagEntry:   flagEntry,
		state:       StateRequested,
		requestedAt: now,
		conditions:  make(map[uint64]Condition, 2),
	}
}

// ID returns the duel identifier.
func (d *Duel) ID() int32 { return d.id }

// Challenger returns the unit that issued the challenge.
func (d *Duel) Challenger() spell.Unit { return d.challenger }

// Target returns the challenged unit.
func (d *Duel) Target() spell.Unit { return d.target }

// FlagEntry returns the game object entry of the duel flag.
func (d *Duel) FlagEntry() int32 { return d.flagEntry }

// State returns the current phase.
func (d *Duel) State() State { return d.state }

// StartAt returns when the fight begins (zero before acceptance).
func (d *Duel) StartAt() time.Time { return d.startAt }

// Opponent returns the other participant of guid.
func (d *Duel) Opponent(guid uint64) spell.Unit {
	if guid == d.challenger.GUID() {
		return d.target
	}
	return d.challenger
}

// IsParticipant reports whether guid takes part in the duel.
func (d *Duel) IsParticipant(guid uint64) bool {
	return guid == d.challenger.GUID() || guid == d.target.GUID()
}

// saveConditions remembers health and power of both participants.
func (d *Duel) saveConditions() {
	for _, u := range []spell.Unit{d.challenger, d.target} {
		pt := u.PowerType()
		d.conditions[u.GUID()] = Condition{Health: u.Health(), PowerType: pt, Power: u.Power(pt)}
	}
}

// Condition returns the saved state of guid.
func (d *Duel) Condition(guid uint64) (Condition, bool) {
	c, ok := d.conditions[guid]
	return c, ok
}

// CheckEndCondition checks whether the duel should end at now.
func (d *Duel) CheckEndCondition(now time.Time) Result {
	if d.state == StateRequested {
		if !now.Before(d.requestedAt.Add(RequestTimeout)) {
			return ResultTimeout
		}
		return ResultContinue
	}

	// Surrender check
	switch d.surrendered {
	case 0:
	case d.challenger.GUID():
		return ResultChallengerSurrender
	default:
		return ResultTargetSurrender
	}

	if d.state == StateFighting {
		switch {
		case !d.target.IsAlive():
			return ResultChallengerWin
		case !d.challenger.IsAlive():
			return ResultTargetWin
		}
	}

	// Distance check
	if d.challenger.MapID() != d.target.MapID() ||
		!d.challenger.Location().IsInRange(d.target.Location(), MaxDistance) {
		return ResultCanceled
	}

	if d.state == StateFighting && !now.Before(d.endAt) {
		return ResultTimeout
	}
	return ResultContinue
}

// loser returns the defeated participant of result, or nil for results without one.
func (d *Duel) loser(r Result) spell.Unit {
	switch r {
	case ResultChallengerWin, ResultTargetSurrender:
		return d.target
	case ResultTargetWin, ResultChallengerSurrender:
		return d.challenger
	default:
		return nil
	}
}

// restoreLoser revives a participant defeated in a fight with its saved condition.
// Duels are not lethal.
func (d *Duel) restoreLoser(r Result) {
	u := d.loser(r)
	if u == nil || u.IsAlive() {
		return
	}
	c, ok := d.conditions[u.GUID()]
	if !ok {
		return
	}
	u.Revive(c.Health, c.Power)
}
