package spell

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// Knows reports whether spellID is in the actor's spellbook.
func (m *Manager) Knows(spellID uint32) bool {
	_, ok := m.known[spellID]
	return ok
}

// LearnSpell adds spellID to a player's spellbook, persists it and tells the client.
// Creatures, unknown abilities and already known ones are refused.
func (m *Manager) LearnSpell(spellID uint32) bool {
	if m.player == nil {
		return false
	}
	if _, ok := m.tables.Spell(spellID); !ok {
		return false
	}
	if m.Knows(spellID) {
		return false
	}

	m.known[spellID] = KnownSpell{SpellID: spellID}
	m.store.SaveSpell(m.unit.GUID(), spellID)
	m.notifier.LearnedSpell(m.unit, spellID)

	slog.Debug("spell learned", "player", m.unit.GUID(), "spell", spellID)
	return true
}

// LoadSpells fills the spellbook from storage.
func (m *Manager) LoadSpells(ctx context.Context, loader SpellLoader) error {
	spells, err := loader.KnownSpells(ctx, m.unit.GUID())
	if err != nil {
		return fmt.Errorf("loading spells of %d: %w", m.unit.GUID(), err)
	}
	for _, ks := range spells {
		m.known[ks.SpellID] = ks
	}
	return nil
}

// InitialSpells returns the spellbook ordered by spell id.
func (m *Manager) InitialSpells() []KnownSpell {
	out := make([]KnownSpell, 0, len(m.known))
	for _, ks := range m.known {
		out = append(out, ks)
	}
	slices.SortFunc(out, func(a, b KnownSpell) int {
		return cmp.Compare(a.SpellID, b.SpellID)
	})
	return out
}
