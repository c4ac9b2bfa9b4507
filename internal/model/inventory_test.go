package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/spellcore/internal/data"
)

var (
	waterTemplate = &data.Item{
		Entry:    159,
		Name:     "Refreshing Spring Water",
		MaxStack: 20,
		Spells:   []data.ItemSpell{{SpellID: 430, Charges: -1}},
	}
	wandTemplate = &data.Item{
		Entry:    5240,
		Name:     "Torchlight Wand",
		MaxStack: 1,
		Spells:   []data.ItemSpell{{SpellID: 133, Charges: 3}},
	}
)

func TestInventory_AddItemStacks(t *testing.T) {
	inv := NewInventory(1, 2)

	require.NoError(t, inv.AddItem(waterTemplate, 15))
	require.NoError(t, inv.AddItem(waterTemplate, 10))

	assert.Equal(t, int32(25), inv.ItemCount(159))
	items := inv.Items()
	require.Len(t, items, 2)
	assert.Equal(t, int32(20), items[0].Count())
	assert.Equal(t, int32(5), items[1].Count())
}

func TestInventory_AddItemFull(t *testing.T) {
	inv := NewInventory(1, 1)
	require.NoError(t, inv.AddItem(wandTemplate, 1))

	assert.Equal(t, InventoryFull, inv.CanStore(wandTemplate, 1))
	assert.ErrorIs(t, inv.AddItem(wandTemplate, 1), ErrInventoryFull)
	assert.Equal(t, int32(1), inv.ItemCount(5240), "failed add must not change the bag")
	assert.Equal(t, InventoryItemNotFound, inv.CanStore(nil, 1))
}

func TestInventory_RemoveItems(t *testing.T) {
	inv := NewInventory(1, 4)
	require.NoError(t, inv.AddItem(waterTemplate, 25))

	assert.Equal(t, int32(22), inv.RemoveItems(159, 22))
	assert.Equal(t, int32(3), inv.ItemCount(159))
	assert.Len(t, inv.Items(), 1)

	assert.Equal(t, int32(3), inv.RemoveItems(159, 10))
	assert.Nil(t, inv.FirstItemByEntry(159))
}

func TestItem_Charges(t *testing.T) {
	wand := NewItem(NextItemGUID(), wandTemplate, 1)
	idx, ok := wand.SpellIndex(133)
	require.True(t, ok)

	wand.UseCharge(idx)
	wand.UseCharge(idx)
	assert.Equal(t, int32(1), wand.Charges(idx))

	water := NewItem(NextItemGUID(), waterTemplate, 5)
	water.UseCharge(0)
	assert.Equal(t, int32(-1), water.Charges(0), "consumable charges are not counted down")

	_, ok = wand.SpellIndex(1)
	assert.False(t, ok)
}

func TestPlayer_ComboPoints(t *testing.T) {
	p := NewPlayer(1, "Rogue", 0, NewLocation(0, 0, 0, 0), UnitStats{Level: 10, Health: 100, PowerType: data.PowerEnergy, Power: 100})

	p.AddComboPoints(2, 3)
	p.AddComboPoints(2, 4)
	points, target := p.ComboPoints()
	assert.Equal(t, int32(MaxComboPoints), points)
	assert.Equal(t, uint64(2), target)

	p.AddComboPoints(3, 1)
	points, target = p.ComboPoints()
	assert.Equal(t, int32(1), points, "switching target resets points")
	assert.Equal(t, uint64(3), target)

	p.ClearComboPoints()
	points, _ = p.ComboPoints()
	assert.Zero(t, points)
	assert.NotNil(t, p.Items())
}

func TestInventory_Lookup(t *testing.T) {
	inv := NewInventory(1, 4)
	require.NoError(t, inv.AddItem(waterTemplate, 5))
	require.NoError(t, inv.AddItem(wandTemplate, 1))

	wand := inv.ItemAt(1)
	require.NotNil(t, wand)
	assert.Equal(t, uint32(5240), wand.Entry())
	assert.Same(t, wand, inv.ItemByGUID(wand.GUID()))

	assert.Nil(t, inv.ItemAt(2))
	assert.Nil(t, inv.ItemAt(-1))
	assert.Nil(t, inv.ItemAt(4))
	assert.Nil(t, inv.ItemByGUID(0xDEAD))
}
