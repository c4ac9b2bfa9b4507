package model

import (
	"sync"
	"sync/atomic"

	"github.com/udisondev/spellcore/internal/data"
)

// itemGUIDBase is the high part of item GUIDs.
const itemGUIDBase uint64 = 0x4000_0000 << 32

var itemGUIDSeq atomic.Uint64

// NextItemGUID returns a fresh item GUID.
func NextItemGUID() uint64 {
	return itemGUIDBase | itemGUIDSeq.Add(1)
}

// Item — экземпляр предмета в инвентаре.
// Хранит текущий размер стака и оставшиеся заряды каждого on-use спелла.
type Item struct {
	guid     uint64
	template *data.Item

	mu      sync.RWMutex
	count   int32
	charges []int32
}

// NewItem создаёт предмет из шаблона; заряды берутся из шаблона.
func NewItem(guid uint64, tmpl *data.Item, count int32) *Item {
	charges := make([]int32, len(tmpl.Spells))
	for i, s := range tmpl.Spells {
		charges[i] = s.Charges
	}
	return &Item{
		guid:     guid,
		template: tmpl,
		count:    min(max(count, 1), tmpl.StackSize()),
		charges:  charges,
	}
}

// GUID возвращает GUID предмета.
func (it *Item) GUID() uint64 {
	return it.guid
}

// Entry возвращает ID шаблона.
func (it *Item) Entry() uint32 {
	return it.template.Entry
}

// Template возвращает шаблон (read-only).
func (it *Item) Template() *data.Item {
	return it.template
}

// Count возвращает размер стака.
func (it *Item) Count() int32 {
	it.mu.RLock()
	defer it.mu.RUnlock()
	return it.count
}

// SetCount устанавливает размер стака.
func (it *Item) SetCount(count int32) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.count = count
}

// SpellIndex returns the slot of spellID among the item's on-use spells.
func (it *Item) SpellIndex(spellID uint32) (int, bool) {
	for i, s := range it.template.Spells {
		if s.SpellID == spellID {
			return i, true
		}
	}
	return 0, false
}

// Charges returns the remaining charges of the on-use spell in slot i.
func (it *Item) Charges(i int) int32 {
	it.mu.RLock()
	defer it.mu.RUnlock()
	if i < 0 || i >= len(it.charges) {
		return 0
	}
	return it.charges[i]
}

// UseCharge spends one limited charge of slot i.
// Unlimited (0) and consumable (negative) slots are left untouched.
func (it *Item) UseCharge(i int) {
	it.mu.Lock()
	defer it.mu.Unlock()
	if i < 0 || i >= len(it.charges) {
		return
	}
	if it.charges[i] > 0 {
		it.charges[i]--
	}
}
