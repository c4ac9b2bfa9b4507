package ai

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// TickManager holds the AI controllers of every creature.
// Controllers are run by the world tick, in GUID order.
type TickManager struct {
	controllers     sync.Map // map[uint64]Controller
	controllerCount atomic.Int32
}

// NewTickManager creates new AI tick manager
func NewTickManager() *TickManager {
	return &TickManager{}
}

// Register registers the controller of creature guid.
func (m *TickManager) Register(guid uint64, c Controller) {
	if _, loaded := m.controllers.Swap(guid, c); !loaded {
		m.controllerCount.Add(1)
	}

	if IsDebugEnabled() {
		slog.Debug("AI controller registered", "guid", guid)
	}
}

// Unregister drops the controller of guid.
func (m *TickManager) Unregister(guid uint64) {
	if _, ok := m.controllers.LoadAndDelete(guid); !ok {
		return
	}
	m.controllerCount.Add(-1)

	if IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "guid", guid)
	}
}

// TickAll runs every controller once.
func (m *TickManager) TickAll(now time.Time) {
	type entry struct {
		guid uint64
		c    Controller
	}
	var all []entry
	m.controllers.Range(func(key, value any) bool {
		all = append(all, entry{guid: key.(uint64), c: value.(Controller)})
		return true
	})
	slices.SortFunc(all, func(a, b entry) int { return cmp.Compare(a.guid, b.guid) })

	for _, e := range all {
		e.c.Think(now)
	}

	if len(all) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(all))
	}
}

// Count returns number of registered controllers.
func (m *TickManager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller of guid.
func (m *TickManager) GetController(guid uint64) (Controller, error) {
	value, ok := m.controllers.Load(guid)
	if !ok {
		return nil, fmt.Errorf("controller not found for guid %d", guid)
	}
	return value.(Controller), nil
}
