package data

import "time"

// MaxEffects is the number of effect slots on an ability.
const MaxEffects = 3

// Spell is the immutable definition of one ability.
// Built once by the loader and shared by reference; never mutated afterwards.
type Spell struct {
	ID        uint32    `yaml:"id"`
	Name      string    `yaml:"name"`
	Rank      int32     `yaml:"rank"`
	School    School    `yaml:"school"`
	PowerType PowerType `yaml:"power_type"`
	ManaCost  int32     `yaml:"mana_cost"`

	CastTime CastTime `yaml:"cast_time"`
	Range    Range    `yaml:"range"`
	Speed    float32  `yaml:"speed"` // yards per second, 0 = no travel

	RecoveryTime         int32  `yaml:"recovery_time"`          // ms
	CategoryRecoveryTime int32  `yaml:"category_recovery_time"` // ms
	Category             uint32 `yaml:"category"`
	Duration             int32  `yaml:"duration"` // channel duration, ms

	BaseLevel  int32 `yaml:"base_level"`
	MaxLevel   int32 `yaml:"max_level"`
	SpellLevel int32 `yaml:"spell_level"`

	Attributes   uint32 `yaml:"attributes"`
	AttributesEx uint32 `yaml:"attributes_ex"`

	Reagents []Reagent   `yaml:"reagents"`
	Totems   []uint32    `yaml:"totems"` // required tool item entries
	Effects  []EffectDef `yaml:"effects"`
}

// CastTime is the cast-time formula of an ability, in milliseconds.
type CastTime struct {
	Base     int32 `yaml:"base"`
	PerLevel int32 `yaml:"per_level"`
	Min      int32 `yaml:"min"`
}

// At returns the cast time for a caster of the given effective level.
func (c CastTime) At(level int32) time.Duration {
	ms := c.Base + c.PerLevel*level
	if ms < c.Min {
		ms = c.Min
	}
	if ms < 0 {
		ms = 0
	}
	return time.Duration(ms) * time.Millisecond
}

// Range holds min/max distance in yards.
type Range struct {
	Min float32 `yaml:"min"`
	Max float32 `yaml:"max"`
}

// Reagent is an item consumed by a cast.
type Reagent struct {
	Item  uint32 `yaml:"item"`
	Count int32  `yaml:"count"`
}

// EffectDef is the static description of one ability effect.
type EffectDef struct {
	Kind            EffectKind     `yaml:"kind"`
	BasePoints      int32          `yaml:"base_points"`
	DieSides        int32          `yaml:"die_sides"`
	PointsPerLevel  float32        `yaml:"points_per_level"`
	ImplicitTargetA ImplicitTarget `yaml:"target_a"`
	ImplicitTargetB ImplicitTarget `yaml:"target_b"`
	Radius          float32        `yaml:"radius"`
	MiscValue       int32          `yaml:"misc_value"`
	TriggerSpell    uint32         `yaml:"trigger_spell"`
	ItemType        uint32         `yaml:"item_type"`
	Aura            *AuraDef       `yaml:"aura"`
	Dest            *Destination   `yaml:"dest"`
}

// AuraDef describes the status effect an effect attaches to its targets.
type AuraDef struct {
	Type      AuraType      `yaml:"type"`
	Amount    int32         `yaml:"amount"`
	Period    int32         `yaml:"period"`   // ms, 0 = not periodic
	Duration  int32         `yaml:"duration"` // ms, -1 = until cancelled
	Interrupt AuraInterrupt `yaml:"interrupt"`
}

// PeriodDuration returns the tick period.
func (a *AuraDef) PeriodDuration() time.Duration {
	return time.Duration(a.Period) * time.Millisecond
}

// DurationTime returns the aura lifetime; negative means permanent.
func (a *AuraDef) DurationTime() time.Duration {
	if a.Duration < 0 {
		return -1
	}
	return time.Duration(a.Duration) * time.Millisecond
}

// Destination is a fixed teleport point.
type Destination struct {
	Map uint32  `yaml:"map"`
	X   float32 `yaml:"x"`
	Y   float32 `yaml:"y"`
	Z   float32 `yaml:"z"`
	O   float32 `yaml:"o"`
}

// HasAttribute reports whether all bits of attr are set in Attributes.
func (s *Spell) HasAttribute(attr uint32) bool {
	return s.Attributes&attr == attr
}

// HasAttributeEx reports whether all bits of attr are set in AttributesEx.
func (s *Spell) HasAttributeEx(attr uint32) bool {
	return s.AttributesEx&attr == attr
}

// HasEffect reports whether any effect slot has the given kind.
func (s *Spell) HasEffect(kind EffectKind) bool {
	for i := range s.Effects {
		if s.Effects[i].Kind == kind {
			return true
		}
	}
	return false
}

// Recovery returns the spell recovery time.
func (s *Spell) Recovery() time.Duration {
	return time.Duration(s.RecoveryTime) * time.Millisecond
}

// CategoryRecovery returns the category recovery time.
func (s *Spell) CategoryRecovery() time.Duration {
	return time.Duration(s.CategoryRecoveryTime) * time.Millisecond
}

// ChannelDuration returns the channel duration.
func (s *Spell) ChannelDuration() time.Duration {
	return time.Duration(s.Duration) * time.Millisecond
}

// EffectiveLevel clamps a caster level to the ability's level window.
// MaxLevel 0 means no upper bound.
func (s *Spell) EffectiveLevel(casterLevel int32) int32 {
	level := casterLevel
	if s.MaxLevel > 0 && level > s.MaxLevel {
		level = s.MaxLevel
	}
	if level < s.BaseLevel {
		level = s.BaseLevel
	}
	return level
}

// TalentCost returns the talent points needed for a talent of the given rank.
// Rank 1 costs 10 points, every next rank 5 more.
func TalentCost(rank int32) int32 {
	if rank < 1 {
		rank = 1
	}
	return 10 + (rank-1)*5
}
