package spell

import (
	"log/slog"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

// ValidateCast runs the legality checks in order and reports the first failure
// to the caster. It is run when a cast is requested and again when its cast bar ends.
func (m *Manager) ValidateCast(c *Cast) bool {
	if result := m.checkCast(c); result != ResultOK {
		m.sendCastResult(c.SpellID(), result)
		return false
	}
	return m.MeetsCastingRequisites(c)
}

func (m *Manager) checkCast(c *Cast) CastResult {
	s := c.Spell

	if m.cooldowns.IsOnCooldown(s, m.clock()) {
		return ResultNotReady
	}
	if c.SourceItem == nil && m.player != nil && !m.Knows(s.ID) {
		return ResultNotKnown
	}
	if !m.unit.IsAlive() && !s.HasAttribute(data.AttrAllowCastWhileDead) {
		return ResultCasterDead
	}
	if c.InitialTarget.IsZero() {
		return ResultBadTargets
	}
	if c.InitialTargetIsUnit() && !c.InitialTarget.Unit.IsAlive() && !c.IsResurrection() {
		return ResultTargetsDead
	}
	if !s.HasAttribute(data.AttrCastableWhileSitting) && m.unit.StandState() != model.StandStateStand {
		return ResultNotStanding
	}
	return ResultOK
}

// MeetsCastingRequisites checks the resources a cast needs: power, combo points,
// reagents, item charges, tools and bag space for created items.
//
// An ability paid with health that the caster cannot afford is reported as a
// success: the client has already shown the cost and expects no error.
func (m *Manager) MeetsCastingRequisites(c *Cast) bool {
	s := c.Spell
	healthCost := s.PowerType == data.PowerHealth

	if !healthCost && s.PowerType != m.unit.PowerType() && s.ManaCost != 0 {
		m.sendCastResult(s.ID, ResultNoPower)
		return false
	}

	current := m.unit.Power(s.PowerType)
	if c.ResourceCost() > current {
		if healthCost {
			m.sendCastResult(s.ID, ResultOK)
		} else {
			m.sendCastResult(s.ID, ResultNoPower)
		}
		return false
	}

	if m.player == nil {
		return true
	}

	if result := m.checkPlayerRequisites(c); result != ResultOK {
		m.sendCastResult(s.ID, result)
		return false
	}
	return true
}

func (m *Manager) checkPlayerRequisites(c *Cast) CastResult {
	inv := m.player.Inventory()

	if c.RequiresComboPoints() {
		points, target := m.player.ComboPoints()
		if points == 0 || c.InitialTarget.GUID() != target {
			return ResultNoComboPoints
		}
	}

	for _, r := range c.Reagents() {
		if inv.ItemCount(r.Item) < r.Count {
			return ResultReagents
		}
	}

	if c.SourceItem != nil {
		stats, i, ok := c.ItemSpellStats()
		switch {
		case !ok:
			return ResultItemNotFound
		case stats.Charges > 0 && c.SourceItem.Charges(i) == 0:
			return ResultNoChargesRemain
		case stats.Charges < 0 && inv.ItemCount(c.SourceItem.Entry()) < 1:
			return ResultItemNotFound
		}
	}

	for _, tool := range c.RequiredTools() {
		if inv.FirstItemByEntry(tool) == nil {
			return ResultTotems
		}
	}

	for _, ci := range c.ConjuredItems() {
		tmpl, ok := m.tables.Item(ci.Entry)
		if !ok {
			slog.Warn("conjured item template not found", "entry", ci.Entry, "spell", c.SpellID())
			continue
		}
		if code := inv.CanStore(tmpl, ci.Count); code != model.InventoryOK {
			m.notifier.EquipError(m.unit, code)
			return ResultDontReport
		}
	}
	return ResultOK
}

// consume pays for c exactly once: power or health first, then combo points,
// reagents and item charges.
func (m *Manager) consume(c *Cast) {
	if c.consumed {
		return
	}
	c.consumed = true

	s := c.Spell
	if cost := c.ResourceCost(); cost != 0 {
		if s.PowerType == data.PowerHealth {
			m.unit.SetHealth(m.unit.Health() - cost)
		} else {
			m.unit.SetPower(s.PowerType, m.unit.Power(s.PowerType)-cost)
		}
	}

	if m.player == nil {
		return
	}

	if c.RequiresComboPoints() {
		m.player.ClearComboPoints()
	}

	inv := m.player.Inventory()
	for _, r := range c.Reagents() {
		inv.RemoveItems(r.Item, r.Count)
	}

	if stats, i, ok := c.ItemSpellStats(); ok {
		switch {
		case stats.Charges < 0:
			inv.RemoveItems(c.SourceItem.Entry(), 1)
		case stats.Charges > 0:
			c.SourceItem.UseCharge(i)
		}
	}
}
