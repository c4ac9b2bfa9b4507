package model

import (
	"errors"
	"sync"

	"github.com/udisondev/spellcore/internal/data"
)

// BackpackSlots is the number of item slots of a fresh inventory.
const BackpackSlots = 16

// InventoryError is the client-visible code of a failed inventory operation.
type InventoryError uint8

const (
	InventoryOK           InventoryError = 0
	InventoryItemNotFound InventoryError = 0x17
	InventoryFull         InventoryError = 0x32
)

// ErrInventoryFull is returned by AddItem when the items do not fit.
var ErrInventoryFull = errors.New("inventory full")

// Inventory — сумка игрока: фиксированное число слотов со стаками предметов.
type Inventory struct {
	owner uint64

	mu    sync.RWMutex
	slots []*Item
}

// NewInventory создаёт пустую сумку владельца.
func NewInventory(owner uint64, size int) *Inventory {
	if size <= 0 {
		size = BackpackSlots
	}
	return &Inventory{
		owner: owner,
		slots: make([]*Item, size),
	}
}

// Owner возвращает GUID владельца.
func (inv *Inventory) Owner() uint64 {
	return inv.owner
}

// ItemCount returns the total number of items of entry.
func (inv *Inventory) ItemCount(entry uint32) int32 {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	var total int32
	for _, it := range inv.slots {
		if it != nil && it.Entry() == entry {
			total += it.Count()
		}
	}
	return total
}

// FirstItemByEntry returns the first stack of entry or nil.
func (inv *Inventory) FirstItemByEntry(entry uint32) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, it := range inv.slots {
		if it != nil && it.Entry() == entry {
			return it
		}
	}
	return nil
}

// Items returns the occupied slots in slot order.
func (inv *Inventory) Items() []*Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	out := make([]*Item, 0, len(inv.slots))
	for _, it := range inv.slots {
		if it != nil {
			out = append(out, it)
		}
	}
	return out
}

// CanStore reports whether count items of tmpl fit into the bag.
func (inv *Inventory) CanStore(tmpl *data.Item, count int32) InventoryError {
	if tmpl == nil {
		return InventoryItemNotFound
	}
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	if inv.freeCapacityLocked(tmpl) < count {
		return InventoryFull
	}
	return InventoryOK
}

func (inv *Inventory) freeCapacityLocked(tmpl *data.Item) int32 {
	stack := tmpl.StackSize()
	var room int32
	for _, it := range inv.slots {
		switch {
		case it == nil:
			room += stack
		case it.Entry() == tmpl.Entry:
			room += max(stack-it.Count(), 0)
		}
	}
	return room
}

// AddItem кладёт count предметов: сначала дополняет стаки, затем занимает пустые слоты.
// Ничего не добавляет, если предметы не помещаются целиком.
func (inv *Inventory) AddItem(tmpl *data.Item, count int32) error {
	if count <= 0 {
		return nil
	}
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.freeCapacityLocked(tmpl) < count {
		return ErrInventoryFull
	}

	stack := tmpl.StackSize()
	left := count
	for _, it := range inv.slots {
		if left == 0 {
			break
		}
		if it == nil || it.Entry() != tmpl.Entry {
			continue
		}
		n := min(stack-it.Count(), left)
		if n > 0 {
			it.SetCount(it.Count() + n)
			left -= n
		}
	}
	for i := range inv.slots {
		if left == 0 {
			break
		}
		if inv.slots[i] != nil {
			continue
		}
		n := min(stack, left)
		inv.slots[i] = NewItem(NextItemGUID(), tmpl, n)
		left -= n
	}
	return nil
}

// RemoveItems удаляет до count предметов entry, опустошённые слоты освобождаются.
// Возвращает число удалённых предметов.
func (inv *Inventory) RemoveItems(entry uint32, count int32) int32 {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var removed int32
	for i, it := range inv.slots {
		if removed == count {
			break
		}
		if it == nil || it.Entry() != entry {
			continue
		}
		n := min(it.Count(), count-removed)
		removed += n
		if it.Count() == n {
			inv.slots[i] = nil
			continue
		}
		it.SetCount(it.Count() - n)
	}
	return removed
}

// Put places an existing item into the first free slot.
func (inv *Inventory) Put(it *Item) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	for i := range inv.slots {
		if inv.slots[i] == nil {
			inv.slots[i] = it
			return nil
		}
	}
	return ErrInventoryFull
}

// ItemAt returns the item in slot or nil.
func (inv *Inventory) ItemAt(slot int) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	if slot < 0 || slot >= len(inv.slots) {
		return nil
	}
	return inv.slots[slot]
}

// ItemByGUID returns the item with guid or nil.
func (inv *Inventory) ItemByGUID(guid uint64) *Item {
	inv.mu.RLock()
	defer inv.mu.RUnlock()

	for _, it := range inv.slots {
		if it != nil && it.GUID() == guid {
			return it
		}
	}
	return nil
}
