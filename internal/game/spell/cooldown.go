package spell

import (
	"slices"
	"time"

	"github.com/udisondev/spellcore/internal/data"
)

// CooldownEntry is one running cooldown.
// Recovery blocks the ability itself, CategoryRecovery every ability of its category.
type CooldownEntry struct {
	SpellID          uint32
	Category         uint32
	Start            time.Time
	Recovery         time.Duration
	CategoryRecovery time.Duration
}

// NewCooldownEntry starts the cooldown of s at now.
func NewCooldownEntry(s *data.Spell, now time.Time) CooldownEntry {
	return CooldownEntry{
		SpellID:          s.ID,
		Category:         s.Category,
		Start:            now,
		Recovery:         s.Recovery(),
		CategoryRecovery: s.CategoryRecovery(),
	}
}

// Length returns the time until the entry expires entirely.
func (e CooldownEntry) Length() time.Duration {
	return max(e.Recovery, e.CategoryRecovery)
}

// IsValid reports whether the entry is still running at now.
func (e CooldownEntry) IsValid(now time.Time) bool {
	return now.Before(e.Start.Add(e.Length()))
}

// Matches reports whether the entry blocks s at now.
func (e CooldownEntry) Matches(s *data.Spell, now time.Time) bool {
	if s.ID == e.SpellID && now.Before(e.Start.Add(e.Recovery)) {
		return true
	}
	return e.Category != 0 && s.Category == e.Category && now.Before(e.Start.Add(e.CategoryRecovery))
}

// Cooldowns is the cooldown ledger of one actor.
type Cooldowns struct {
	entries []CooldownEntry
}

// Start records the cooldown of s. Abilities without recovery create no entry.
func (l *Cooldowns) Start(s *data.Spell, now time.Time) (CooldownEntry, bool) {
	if s.RecoveryTime == 0 && s.CategoryRecoveryTime == 0 {
		return CooldownEntry{}, false
	}
	e := NewCooldownEntry(s, now)
	l.entries = append(l.entries, e)
	return e, true
}

// IsOnCooldown reports whether any running entry blocks s.
func (l *Cooldowns) IsOnCooldown(s *data.Spell, now time.Time) bool {
	for _, e := range l.entries {
		if e.Matches(s, now) {
			return true
		}
	}
	return false
}

// Expire removes and returns the entries that ran out by now.
func (l *Cooldowns) Expire(now time.Time) []CooldownEntry {
	var expired []CooldownEntry
	l.entries = slices.DeleteFunc(l.entries, func(e CooldownEntry) bool {
		if e.IsValid(now) {
			return false
		}
		expired = append(expired, e)
		return true
	})
	return expired
}

// Len returns the number of entries, expired ones included.
func (l *Cooldowns) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the entries.
func (l *Cooldowns) Entries() []CooldownEntry {
	return slices.Clone(l.entries)
}
