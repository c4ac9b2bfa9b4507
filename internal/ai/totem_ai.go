package ai

import (
	"log/slog"
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/spell"
)

// TotemAI keeps a totem casting its spells.
// Spells without recovery are cast once on spawn and never repeated; ranged
// spells wait for an enemy in range.
type TotemAI struct {
	totem   spell.SpellCaster
	spells  []*data.Spell
	spatial spell.Spatial
}

// NewTotemAI creates the controller of totem. Unknown spell ids are skipped.
func NewTotemAI(totem spell.SpellCaster, spellIDs []uint32, tables *data.Tables, spatial spell.Spatial) *TotemAI {
	ai := &TotemAI{totem: totem, spatial: spatial}
	for _, id := range spellIDs {
		if id == 0 {
			break
		}
		s, ok := tables.Spell(id)
		if !ok {
			slog.Warn("totem spell not found", "totem", totem.GUID(), "spell", id)
			continue
		}
		ai.spells = append(ai.spells, s)
	}
	return ai
}

// Repeats reports whether the totem has anything to cast after spawning.
func (ai *TotemAI) Repeats() bool {
	for _, s := range ai.spells {
		if repeats(s) {
			return true
		}
	}
	return false
}

func repeats(s *data.Spell) bool {
	return s.RecoveryTime > 0 || s.CategoryRecoveryTime > 0
}

// Think casts the first ready spell.
func (ai *TotemAI) Think(_ time.Time) {
	mgr := ai.totem.SpellManager()
	if !ai.totem.IsAlive() || mgr.IsCasting() {
		return
	}

	for _, s := range ai.spells {
		if !repeats(s) || mgr.IsOnCooldown(s) {
			continue
		}
		if s.Range.Max > 0 && !ai.enemyInRange(s.Range.Max) {
			continue
		}

		if IsDebugEnabled() {
			slog.Debug("totem casts", "totem", ai.totem.GUID(), "spell", s.ID)
		}
		mgr.HandleCastAttempt(s.ID, spell.UnitTarget(ai.totem), spell.TargetMaskSelf)
		return
	}
}

func (ai *TotemAI) enemyInRange(radius float32) bool {
	for _, u := range ai.spatial.UnitsInRadius(ai.totem.MapID(), ai.totem.Location(), radius) {
		if u.GUID() != ai.totem.GUID() && u.IsAlive() && u.Faction() != ai.totem.Faction() {
			return true
		}
	}
	return false
}
