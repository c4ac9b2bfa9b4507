package data

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// PowerType identifies the resource a unit spends on abilities.
type PowerType int8

const (
	PowerHealth PowerType = -2
	PowerMana   PowerType = 0
	PowerRage   PowerType = 1
	PowerFocus  PowerType = 2
	PowerEnergy PowerType = 3
)

var powerTypeNames = map[string]PowerType{
	"health": PowerHealth,
	"mana":   PowerMana,
	"rage":   PowerRage,
	"focus":  PowerFocus,
	"energy": PowerEnergy,
}

func (p PowerType) String() string {
	for name, v := range powerTypeNames {
		if v == p {
			return name
		}
	}
	return fmt.Sprintf("power(%d)", int8(p))
}

// UnmarshalYAML accepts either a power name or its numeric value.
func (p *PowerType) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNamed(node, powerTypeNames)
	if err != nil {
		return fmt.Errorf("power type: %w", err)
	}
	*p = v
	return nil
}

// School is the magic school of an ability.
type School uint8

const (
	SchoolNormal School = iota
	SchoolHoly
	SchoolFire
	SchoolNature
	SchoolFrost
	SchoolShadow
	SchoolArcane
)

var schoolNames = map[string]School{
	"normal": SchoolNormal,
	"holy":   SchoolHoly,
	"fire":   SchoolFire,
	"nature": SchoolNature,
	"frost":  SchoolFrost,
	"shadow": SchoolShadow,
	"arcane": SchoolArcane,
}

// UnmarshalYAML accepts either a school name or its numeric value.
func (s *School) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNamed(node, schoolNames)
	if err != nil {
		return fmt.Errorf("school: %w", err)
	}
	*s = v
	return nil
}

// EffectKind tags the behaviour of one ability effect.
// Values follow the client effect table so template data can be exchanged as is.
type EffectKind uint16

const (
	EffectNone               EffectKind = 0
	EffectInstakill          EffectKind = 1
	EffectSchoolDamage       EffectKind = 2
	EffectDummy              EffectKind = 3
	EffectTeleportUnits      EffectKind = 5
	EffectApplyAura          EffectKind = 6
	EffectHeal               EffectKind = 10
	EffectWeaponDamagePlus   EffectKind = 17
	EffectResurrect          EffectKind = 18
	EffectCreateItem         EffectKind = 24
	EffectPersistentAreaAura EffectKind = 27
	EffectLeap               EffectKind = 29
	EffectEnergize           EffectKind = 30
	EffectOpenLock           EffectKind = 33
	EffectApplyAreaAura      EffectKind = 35
	EffectLearnSpell         EffectKind = 36
	EffectSummonMount        EffectKind = 51
	EffectWeaponDamage       EffectKind = 58
	EffectAddComboPoints     EffectKind = 80
	EffectDuel               EffectKind = 83
	EffectSummonTotem        EffectKind = 87
)

var effectKindNames = map[string]EffectKind{
	"none":                 EffectNone,
	"instakill":            EffectInstakill,
	"school_damage":        EffectSchoolDamage,
	"dummy":                EffectDummy,
	"teleport_units":       EffectTeleportUnits,
	"apply_aura":           EffectApplyAura,
	"heal":                 EffectHeal,
	"weapon_damage_plus":   EffectWeaponDamagePlus,
	"resurrect":            EffectResurrect,
	"create_item":          EffectCreateItem,
	"persistent_area_aura": EffectPersistentAreaAura,
	"leap":                 EffectLeap,
	"energize":             EffectEnergize,
	"open_lock":            EffectOpenLock,
	"apply_area_aura":      EffectApplyAreaAura,
	"learn_spell":          EffectLearnSpell,
	"summon_mount":         EffectSummonMount,
	"weapon_damage":        EffectWeaponDamage,
	"add_combo_points":     EffectAddComboPoints,
	"duel":                 EffectDuel,
	"summon_totem":         EffectSummonTotem,
}

func (k EffectKind) String() string {
	for name, v := range effectKindNames {
		if v == k {
			return name
		}
	}
	return fmt.Sprintf("effect(%d)", uint16(k))
}

// UnmarshalYAML accepts either an effect name or its numeric value.
// Unknown numeric values are kept so the dispatcher can report them.
func (k *EffectKind) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNamed(node, effectKindNames)
	if err != nil {
		return fmt.Errorf("effect kind: %w", err)
	}
	*k = v
	return nil
}

// AuraType tags the behaviour of a status effect.
type AuraType uint16

const (
	AuraNone                    AuraType = 0
	AuraPeriodicDamage          AuraType = 3
	AuraDummy                   AuraType = 4
	AuraPeriodicHeal            AuraType = 8
	AuraModStealth              AuraType = 16
	AuraPeriodicEnergize        AuraType = 24
	AuraModIncreaseSpeed        AuraType = 31
	AuraModIncreaseMountedSpeed AuraType = 32
	AuraMounted                 AuraType = 78
	AuraModRegen                AuraType = 84
	AuraModPowerRegen           AuraType = 85
)

var auraTypeNames = map[string]AuraType{
	"none":                       AuraNone,
	"periodic_damage":            AuraPeriodicDamage,
	"dummy":                      AuraDummy,
	"periodic_heal":              AuraPeriodicHeal,
	"mod_stealth":                AuraModStealth,
	"periodic_energize":          AuraPeriodicEnergize,
	"mod_increase_speed":         AuraModIncreaseSpeed,
	"mod_increase_mounted_speed": AuraModIncreaseMountedSpeed,
	"mounted":                    AuraMounted,
	"mod_regen":                  AuraModRegen,
	"mod_power_regen":            AuraModPowerRegen,
}

// UnmarshalYAML accepts either an aura name or its numeric value.
func (a *AuraType) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNamed(node, auraTypeNames)
	if err != nil {
		return fmt.Errorf("aura type: %w", err)
	}
	*a = v
	return nil
}

// AuraInterrupt is a set of events that remove an aura from its holder.
type AuraInterrupt uint32

const (
	InterruptOnMove AuraInterrupt = 1 << iota
	InterruptOnCast
	InterruptOnDamage
)

// Attribute flags of an ability.
const (
	AttrRanged               uint32 = 0x00000002
	AttrOnNextSwing          uint32 = 0x00000004
	AttrDisabledWhileActive  uint32 = 0x00008000
	AttrAllowCastWhileDead   uint32 = 0x00800000
	AttrCastableWhileSitting uint32 = 0x08000000
	AttrExChanneled          uint32 = 0x00000004
	AttrExReqComboPoints     uint32 = 0x00100000
	AttrExRefreshment        uint32 = 0x00000010
)

// ImplicitTarget describes how an effect picks its targets.
type ImplicitTarget uint16

const (
	TargetNone                ImplicitTarget = 0
	TargetSelf                ImplicitTarget = 1
	TargetUnitEnemy           ImplicitTarget = 6
	TargetEnemiesAroundSource ImplicitTarget = 15
	TargetEnemiesAroundDest   ImplicitTarget = 16
	TargetDatabaseLocation    ImplicitTarget = 17
	TargetDestLocation        ImplicitTarget = 18
	TargetFriendsAroundCaster ImplicitTarget = 20
	TargetUnitFriend          ImplicitTarget = 21
	TargetEnemiesAroundCaster ImplicitTarget = 22
	TargetGameObject          ImplicitTarget = 23
	TargetDuelOpponent        ImplicitTarget = 25
	TargetAnyUnit             ImplicitTarget = 28
)

var implicitTargetNames = map[string]ImplicitTarget{
	"none":                  TargetNone,
	"self":                  TargetSelf,
	"unit_enemy":            TargetUnitEnemy,
	"enemies_around_source": TargetEnemiesAroundSource,
	"enemies_around_dest":   TargetEnemiesAroundDest,
	"database_location":     TargetDatabaseLocation,
	"dest_location":         TargetDestLocation,
	"friends_around_caster": TargetFriendsAroundCaster,
	"unit_friend":           TargetUnitFriend,
	"enemies_around_caster": TargetEnemiesAroundCaster,
	"game_object":           TargetGameObject,
	"duel_opponent":         TargetDuelOpponent,
	"any_unit":              TargetAnyUnit,
}

// UnmarshalYAML accepts either a target name or its numeric value.
func (t *ImplicitTarget) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeNamed(node, implicitTargetNames)
	if err != nil {
		return fmt.Errorf("implicit target: %w", err)
	}
	*t = v
	return nil
}

// decodeNamed decodes a scalar that holds either a symbolic name from names
// or a plain integer.
func decodeNamed[T ~int8 | ~uint8 | ~uint16](node *yaml.Node, names map[string]T) (T, error) {
	if node.Kind != yaml.ScalarNode {
		return 0, fmt.Errorf("line %d: expected scalar", node.Line)
	}
	if v, ok := names[node.Value]; ok {
		return v, nil
	}
	var n int64
	if err := node.Decode(&n); err != nil {
		return 0, fmt.Errorf("line %d: unknown value %q", node.Line, node.Value)
	}
	return T(n), nil
}
