package spell

// CastResult is the outcome of a legality check or an effect handler.
// Every non-OK value is reported to the caster as the reason byte of a failed cast.
type CastResult uint8

const (
	ResultOK CastResult = iota
	ResultBadTargets
	ResultCasterDead
	ResultDontReport
	ResultInterrupted
	ResultItemNotFound
	ResultMoving
	ResultNoChargesRemain
	ResultNoComboPoints
	ResultNoPower
	ResultNotKnown
	ResultNotReady
	ResultNotStanding
	ResultReagents
	ResultTargetDueling
	ResultTargetsDead
	ResultTotems
)

var castResultNames = map[CastResult]string{
	ResultOK:              "ok",
	ResultBadTargets:      "bad_targets",
	ResultCasterDead:      "caster_dead",
	ResultDontReport:      "dont_report",
	ResultInterrupted:     "interrupted",
	ResultItemNotFound:    "item_not_found",
	ResultMoving:          "moving",
	ResultNoChargesRemain: "no_charges_remain",
	ResultNoComboPoints:   "no_combo_points",
	ResultNoPower:         "no_power",
	ResultNotKnown:        "not_known",
	ResultNotReady:        "not_ready",
	ResultNotStanding:     "not_standing",
	ResultReagents:        "reagents",
	ResultTargetDueling:   "target_dueling",
	ResultTargetsDead:     "targets_dead",
	ResultTotems:          "totems",
}

func (r CastResult) String() string {
	if n, ok := castResultNames[r]; ok {
		return n
	}
	return "unknown"
}

// CastStatus is the status byte of a cast-result notification.
type CastStatus uint8

const (
	CastSuccess CastStatus = 0
	CastFailed  CastStatus = 2
)

// MissReason is the per-target outcome of a cast.
type MissReason uint8

const (
	MissNone MissReason = iota
	MissMiss
	MissResist
	MissDodge
	MissParry
	MissBlock
	MissEvade
	MissImmune
	MissImmune2
	MissDeflect
	MissAbsorb
	MissReflect
)

// TargetMask tells which kind of target a cast request carries.
type TargetMask uint16

const (
	TargetMaskSelf           TargetMask = 0x0000
	TargetMaskUnit           TargetMask = 0x0002
	TargetMaskItem           TargetMask = 0x0010
	TargetMaskSourceLocation TargetMask = 0x0020
	TargetMaskDestLocation   TargetMask = 0x0040
	TargetMaskGameObject     TargetMask = 0x0800
	TargetMaskCorpse         TargetMask = 0x8000

	TargetMaskGUID     = TargetMaskUnit | TargetMaskItem | TargetMaskGameObject | TargetMaskCorpse
	TargetMaskLocation = TargetMaskSourceLocation | TargetMaskDestLocation
)

// Has reports whether any bit of flag is set.
func (m TargetMask) Has(flag TargetMask) bool {
	return m&flag != 0
}

// CastFlags are the presentation flags of cast notifications.
type CastFlags uint16

const (
	CastFlagNone    CastFlags = 0x00
	CastFlagHasAmmo CastFlags = 0x20
)

// DefaultAmmoDisplayID is shown when the caster's ammo has no display id.
const DefaultAmmoDisplayID uint32 = 5996

// State is the lifecycle state of a live cast.
type State uint8

const (
	StateCasting State = iota
	StateDelayedSwing
	StateDelayedImpact
	StateActive
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateCasting:
		return "casting"
	case StateDelayedSwing:
		return "delayed_swing"
	case StateDelayedImpact:
		return "delayed_impact"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
