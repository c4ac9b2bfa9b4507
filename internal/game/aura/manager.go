package aura

import (
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/spellcore/internal/data"
)

// maxAuras caps the auras a single unit may hold.
const maxAuras = 48

// Manager tracks the auras held by one unit.
//
// Hooks run outside the lock, so they may call back into the manager.
// Thread-safe: all methods are protected by sync.RWMutex.
type Manager struct {
	mu    sync.RWMutex
	auras []*Aura

	onTick   func(a *Aura)
	onRemove func(a *Aura, cancelled bool)
}

// NewManager creates an empty aura manager.
func NewManager() *Manager {
	return &Manager{
		auras: make([]*Aura, 0, 8),
	}
}

// OnTick sets the hook called for every periodic tick.
func (m *Manager) OnTick(fn func(a *Aura)) {
	m.mu.Lock()
	m.onTick = fn
	m.mu.Unlock()
}

// OnRemove sets the hook called when an aura leaves the holder.
// cancelled is false when the aura simply ran out.
func (m *Manager) OnRemove(fn func(a *Aura, cancelled bool)) {
	m.mu.Lock()
	m.onRemove = fn
	m.mu.Unlock()
}

// Add stores a private copy of a.
// An aura from the same spell and caster is replaced instead of stacked.
func (m *Manager) Add(a *Aura) {
	own := a.Clone()

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.auras {
		if existing.SpellID == own.SpellID && existing.CasterGUID == own.CasterGUID {
			m.auras[i] = own
			return
		}
	}

	if len(m.auras) >= maxAuras {
		slog.Debug("aura limit reached, dropping oldest",
			"removedSpell", m.auras[0].SpellID,
			"spell", own.SpellID)
		m.auras = m.auras[1:]
	}
	m.auras = append(m.auras, own)
}

// CancelBySpell removes every aura created by spellID.
func (m *Manager) CancelBySpell(spellID uint32) int {
	return m.removeWhere(func(a *Aura) bool { return a.SpellID == spellID }, true)
}

// CancelBySpellFrom removes the auras created by spellID and cast by caster.
func (m *Manager) CancelBySpellFrom(spellID uint32, caster uint64) int {
	return m.removeWhere(func(a *Aura) bool {
		return a.SpellID == spellID && a.CasterGUID == caster
	}, true)
}

// RemoveByType removes every aura of the given type.
func (m *Manager) RemoveByType(t data.AuraType) int {
	return m.removeWhere(func(a *Aura) bool { return a.Type == t }, true)
}

// Interrupt removes the auras that break on any of the given events.
func (m *Manager) Interrupt(events data.AuraInterrupt) int {
	return m.removeWhere(func(a *Aura) bool { return a.Interrupt&events != 0 }, true)
}

// Clear removes all auras.
func (m *Manager) Clear() int {
	return m.removeWhere(func(*Aura) bool { return true }, true)
}

// HasType reports whether any aura of type t is held.
func (m *Manager) HasType(t data.AuraType) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.auras {
		if a.Type == t {
			return true
		}
	}
	return false
}

// Has reports whether any aura from spellID is held.
func (m *Manager) Has(spellID uint32) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.auras {
		if a.SpellID == spellID {
			return true
		}
	}
	return false
}

// Get returns a copy of the aura from spellID cast by caster.
func (m *Manager) Get(spellID uint32, caster uint64) (*Aura, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.auras {
		if a.SpellID == spellID && a.CasterGUID == caster {
			return a.Clone(), true
		}
	}
	return nil, false
}

// Len returns the number of held auras.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.auras)
}

// Snapshot returns copies of all held auras.
func (m *Manager) Snapshot() []*Aura {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Aura, len(m.auras))
	for i, a := range m.auras {
		out[i] = a.Clone()
	}
	return out
}

// Update fires due periodic ticks and drops expired auras.
func (m *Manager) Update(now time.Time, elapsed time.Duration) {
	m.mu.Lock()
	var ticks []*Aura
	var expired []*Aura
	kept := m.auras[:0]
	for _, a := range m.auras {
		for a.IsPastNextTick(now) {
			a.PopTick()
			ticks = append(ticks, a.Clone())
		}
		a.Age(elapsed)
		if a.IsExpired() {
			expired = append(expired, a)
			continue
		}
		kept = append(kept, a)
	}
	clear(m.auras[len(kept):])
	m.auras = kept
	onTick, onRemove := m.onTick, m.onRemove
	m.mu.Unlock()

	if onTick != nil {
		for _, a := range ticks {
			onTick(a)
		}
	}
	if onRemove != nil {
		for _, a := range expired {
			onRemove(a, false)
		}
	}
}

func (m *Manager) removeWhere(match func(*Aura) bool, cancelled bool) int {
	m.mu.Lock()
	var removed []*Aura
	kept := m.auras[:0]
	for _, a := range m.auras {
		if match(a) {
			removed = append(removed, a)
			continue
		}
		kept = append(kept, a)
	}
	clear(m.auras[len(kept):])
	m.auras = kept
	onRemove := m.onRemove
	m.mu.Unlock()

	if onRemove != nil {
		for _, a := range removed {
			onRemove(a, cancelled)
		}
	}
	return len(removed)
}
