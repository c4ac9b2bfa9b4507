package data

// InventoryTypeAmmo is the inventory type reported for ammunition.
const InventoryTypeAmmo uint32 = 24

// Item — шаблон предмета (immutable после загрузки).
type Item struct {
	Entry         uint32      `yaml:"entry"`
	Name          string      `yaml:"name"`
	DisplayID     uint32      `yaml:"display_id"`
	InventoryType uint32      `yaml:"inventory_type"`
	MaxStack      int32       `yaml:"max_stack"`
	Spells        []ItemSpell `yaml:"spells"`
}

// ItemSpell links an item to an ability it casts on use.
// Charges < 0 consumes the item on use, 0 allows unlimited uses and
// a positive value limits the number of uses per item.
type ItemSpell struct {
	SpellID      uint32 `yaml:"spell_id"`
	Charges      int32  `yaml:"charges"`
	CostOverride int32  `yaml:"cost_override"` // 0 = ability cost
}

// StackSize returns the max stack, treating 0 as 1.
func (i *Item) StackSize() int32 {
	return max(i.MaxStack, 1)
}
