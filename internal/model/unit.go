package model

import (
	"math/rand/v2"
	"sync"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/aura"
)

// StandState is the posture of a unit.
type StandState uint8

const (
	StandStateStand StandState = 0
	StandStateSit   StandState = 1
	StandStateSleep StandState = 3
	StandStateDead  StandState = 7
	StandStateKneel StandState = 8
)

// AttackType selects the weapon used by a melee swing.
type AttackType uint8

const (
	AttackMainHand AttackType = iota
	AttackOffHand
	AttackRanged
)

// WeaponDamage is the damage range of an equipped weapon.
type WeaponDamage struct {
	Min int32
	Max int32
}

// Ammo describes the projectile shown for ranged casts.
type Ammo struct {
	DisplayID     uint32
	InventoryType uint32
}

// UnitStats are the initial attributes of a unit.
type UnitStats struct {
	Level     int32
	Faction   uint32
	Health    int32
	PowerType data.PowerType
	Power     int32
}

const powerSlots = 4

// Unit — живое существо в мире: игрок или NPC.
// Общая поверхность для здоровья, ресурсов, позы, маунта, канала и аур.
type Unit struct {
	*WorldObject

	mu         sync.RWMutex
	level      int32
	faction    uint32
	health     int32
	maxHealth  int32
	powerType  data.PowerType
	power      [powerSlots]int32
	maxPower   [powerSlots]int32
	standState StandState
	alive      bool
	killer     uint64

	mountDisplayID uint32
	channelObject  uint64
	channelSpell   uint32

	weapons [3]WeaponDamage
	ammo    *Ammo

	auras         *aura.Manager
	auraListeners []func(spellID uint32, caster uint64)
}

// NewUnit creates a living unit with full health and power.
func NewUnit(guid uint64, name string, mapID uint32, loc Location, stats UnitStats) *Unit {
	u := &Unit{
		WorldObject: NewWorldObject(guid, name, mapID, loc),
		level:       max(stats.Level, 1),
		faction:     stats.Faction,
		health:      max(stats.Health, 1),
		maxHealth:   max(stats.Health, 1),
		powerType:   stats.PowerType,
		alive:       true,
		auras:       aura.NewManager(),
	}
	if slot, ok := powerSlot(stats.PowerType); ok {
		u.power[slot] = stats.Power
		u.maxPower[slot] = stats.Power
	}

	u.auras.OnTick(u.onAuraTick)
	u.auras.OnRemove(u.onAuraRemove)
	return u
}

func powerSlot(pt data.PowerType) (int, bool) {
	if pt < data.PowerMana || int(pt) >= powerSlots {
		return 0, false
	}
	return int(pt), true
}

// Level возвращает уровень.
func (u *Unit) Level() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.level
}

// SetLevel устанавливает уровень.
func (u *Unit) SetLevel(level int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.level = level
}

// Faction возвращает фракцию. Юниты одной фракции дружественны.
func (u *Unit) Faction() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.faction
}

// SetFaction устанавливает фракцию.
func (u *Unit) SetFaction(faction uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.faction = faction
}

// IsFriendlyTo reports whether other shares this unit's faction.
func (u *Unit) IsFriendlyTo(faction uint32) bool {
	return u.Faction() == faction
}

// IsAlive возвращает true, если юнит жив.
func (u *Unit) IsAlive() bool {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.alive
}

// Killer returns the GUID of whoever killed the unit last.
func (u *Unit) Killer() uint64 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.killer
}

// Health возвращает текущее здоровье.
func (u *Unit) Health() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.health
}

// MaxHealth возвращает максимальное здоровье.
func (u *Unit) MaxHealth() int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.maxHealth
}

// SetHealth устанавливает здоровье с clamp [0, max]. Ноль убивает юнита.
func (u *Unit) SetHealth(hp int32) {
	u.mu.Lock()
	u.health = min(max(hp, 0), u.maxHealth)
	dead := u.health == 0 && u.alive
	u.mu.Unlock()

	if dead {
		u.Die(0)
	}
}

// TakeDamage снимает здоровье; при нуле юнит умирает.
func (u *Unit) TakeDamage(amount int32, attacker uint64) {
	if amount <= 0 {
		return
	}
	u.mu.Lock()
	if !u.alive {
		u.mu.Unlock()
		return
	}
	u.health = max(u.health-amount, 0)
	dead := u.health == 0
	u.mu.Unlock()

	if dead {
		u.Die(attacker)
		return
	}
	u.auras.Interrupt(data.InterruptOnDamage)
}

// Heal восстанавливает здоровье живому юниту.
func (u *Unit) Heal(amount int32) {
	if amount <= 0 {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.alive {
		return
	}
	u.health = min(u.health+amount, u.maxHealth)
}

// Die убивает юнита: здоровье в ноль, канал и ауры сброшены.
func (u *Unit) Die(killer uint64) {
	u.mu.Lock()
	if !u.alive {
		u.mu.Unlock()
		return
	}
	u.alive = false
	u.killer = killer
	u.health = 0
	u.standState = StandStateDead
	u.channelObject = 0
	u.channelSpell = 0
	u.mu.Unlock()

	u.auras.Clear()
}

// Revive возвращает юнита к жизни с указанным здоровьем и ресурсом.
func (u *Unit) Revive(health, power int32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.alive {
		return
	}
	u.alive = true
	u.killer = 0
	u.health = min(max(health, 1), u.maxHealth)
	u.standState = StandStateStand
	if slot, ok := powerSlot(u.powerType); ok {
		u.power[slot] = min(max(power, 0), u.maxPower[slot])
	}
}

// PowerType возвращает основной тип ресурса.
func (u *Unit) PowerType() data.PowerType {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.powerType
}

// Power возвращает значение ресурса; PowerHealth читает здоровье.
func (u *Unit) Power(pt data.PowerType) int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if pt == data.PowerHealth {
		return u.health
	}
	slot, ok := powerSlot(pt)
	if !ok {
		return 0
	}
	return u.power[slot]
}

// MaxPower возвращает максимум ресурса.
func (u *Unit) MaxPower(pt data.PowerType) int32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if pt == data.PowerHealth {
		return u.maxHealth
	}
	slot, ok := powerSlot(pt)
	if !ok {
		return 0
	}
	return u.maxPower[slot]
}

// SetPower устанавливает ресурс с clamp [0, max]; PowerHealth пишет здоровье.
func (u *Unit) SetPower(pt data.PowerType, value int32) {
	if pt == data.PowerHealth {
		u.SetHealth(value)
		return
	}
	slot, ok := powerSlot(pt)
	if !ok {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.power[slot] = min(max(value, 0), u.maxPower[slot])
}

// SetMaxPower задаёт максимум ресурса (например, rage = 100).
func (u *Unit) SetMaxPower(pt data.PowerType, value int32) {
	slot, ok := powerSlot(pt)
	if !ok {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.maxPower[slot] = value
	u.power[slot] = min(u.power[slot], value)
}

// StandState возвращает текущую позу.
func (u *Unit) StandState() StandState {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.standState
}

// SetStandState меняет позу.
func (u *Unit) SetStandState(s StandState) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.standState = s
}

// IsMounted возвращает true, если юнит верхом.
func (u *Unit) IsMounted() bool {
	return u.MountDisplayID() > 0
}

// MountDisplayID возвращает модель маунта (0 = пеший).
func (u *Unit) MountDisplayID() uint32 {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.mountDisplayID
}

// Mount сажает юнита на маунта.
func (u *Unit) Mount(displayID uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mountDisplayID = displayID
}

// Unmount спешивает юнита.
func (u *Unit) Unmount() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.mountDisplayID = 0
}

// Channel returns the channel markers: object GUID and spell id.
func (u *Unit) Channel() (uint64, uint32) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.channelObject, u.channelSpell
}

// SetChannel sets the channel markers; zeros clear them.
func (u *Unit) SetChannel(object uint64, spellID uint32) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.channelObject = object
	u.channelSpell = spellID
}

// SetWeaponDamage задаёт урон оружия для типа атаки.
func (u *Unit) SetWeaponDamage(attack AttackType, dmg WeaponDamage) {
	if int(attack) >= len(u.weapons) {
		return
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.weapons[attack] = dmg
}

// MeleeDamage rolls the weapon damage of one swing.
func (u *Unit) MeleeDamage(attack AttackType) int32 {
	if int(attack) >= len(u.weapons) {
		return 0
	}
	u.mu.RLock()
	w := u.weapons[attack]
	u.mu.RUnlock()

	if w.Max <= w.Min {
		return max(w.Min, 0)
	}
	return w.Min + rand.Int32N(w.Max-w.Min+1)
}

// Ammo returns the ammunition shown for ranged casts.
func (u *Unit) Ammo() (Ammo, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	if u.ammo == nil {
		return Ammo{}, false
	}
	return *u.ammo, true
}

// SetAmmo equips ammunition; nil removes it.
func (u *Unit) SetAmmo(a *Ammo) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.ammo = a
}

// Teleport перемещает юнита в точку на карте.
func (u *Unit) Teleport(mapID uint32, loc Location) {
	u.SetPosition(mapID, loc)
}

// Auras возвращает менеджер аур юнита.
func (u *Unit) Auras() *aura.Manager {
	return u.auras
}

func (u *Unit) onAuraTick(a *aura.Aura) {
	switch a.Type {
	case data.AuraPeriodicDamage:
		u.TakeDamage(a.Amount, a.CasterGUID)
	case data.AuraPeriodicHeal:
		u.Heal(a.Amount)
	case data.AuraPeriodicEnergize:
		pt := u.PowerType()
		u.SetPower(pt, u.Power(pt)+a.Amount)
	}
}

// OnAuraRemoved registers fn to be called whenever an aura leaves the unit.
// Listeners are expected to be registered while the unit is being set up.
func (u *Unit) OnAuraRemoved(fn func(spellID uint32, caster uint64)) {
	u.auraListeners = append(u.auraListeners, fn)
}

func (u *Unit) onAuraRemove(a *aura.Aura, _ bool) {
	if a.Type == data.AuraMounted {
		u.Unmount()
	}
	for _, fn := range u.auraListeners {
		fn(a.SpellID, a.CasterGUID)
	}
}
