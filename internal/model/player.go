package model

import "sync"

// MaxComboPoints caps the combo points a player can hold.
const MaxComboPoints = 5

// Player — персонаж игрока: Unit плюс комбо-очки и сумка.
type Player struct {
	*Unit

	items *Inventory

	comboMu     sync.Mutex
	comboPoints int32
	comboTarget uint64
}

// NewPlayer создаёт игрока с пустой сумкой.
func NewPlayer(guid uint64, name string, mapID uint32, loc Location, stats UnitStats) *Player {
	return &Player{
		Unit:  NewUnit(guid, name, mapID, loc, stats),
		items: NewInventory(guid, BackpackSlots),
	}
}

// Items возвращает сумку игрока.
func (p *Player) Items() *Inventory {
	return p.items
}

// ComboPoints returns the current combo points and the unit they are on.
func (p *Player) ComboPoints() (int32, uint64) {
	p.comboMu.Lock()
	defer p.comboMu.Unlock()
	return p.comboPoints, p.comboTarget
}

// AddComboPoints adds n points on target.
// Points on a different target are discarded first.
func (p *Player) AddComboPoints(target uint64, n int32) {
	p.comboMu.Lock()
	defer p.comboMu.Unlock()

	if p.comboTarget != target {
		p.comboTarget = target
		p.comboPoints = 0
	}
	p.comboPoints = min(max(p.comboPoints+n, 0), MaxComboPoints)
}

// ClearComboPoints сбрасывает комбо-очки.
func (p *Player) ClearComboPoints() {
	p.comboMu.Lock()
	defer p.comboMu.Unlock()
	p.comboPoints = 0
	p.comboTarget = 0
}
