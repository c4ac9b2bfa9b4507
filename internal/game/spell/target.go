package spell

import (
	"github.com/udisondev/spellcore/internal/model"
)

// TargetKind tags the variant held by a Target.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetUnit
	TargetObject
	TargetItem
	TargetPoint
)

// Target is the initial target of a cast: a unit, a world object, an item or a point.
type Target struct {
	Kind   TargetKind
	Unit   Unit
	Object Usable
	Item   *model.Item
	Point  model.Location
}

// UnitTarget targets u.
func UnitTarget(u Unit) Target {
	if u == nil {
		return Target{}
	}
	return Target{Kind: TargetUnit, Unit: u}
}

// ObjectTarget targets a world object.
func ObjectTarget(o Usable) Target {
	if o == nil {
		return Target{}
	}
	return Target{Kind: TargetObject, Object: o}
}

// ItemTarget targets an item.
func ItemTarget(it *model.Item) Target {
	if it == nil {
		return Target{}
	}
	return Target{Kind: TargetItem, Item: it}
}

// PointTarget targets a location.
func PointTarget(loc model.Location) Target {
	return Target{Kind: TargetPoint, Point: loc}
}

// IsZero reports whether the target is empty.
func (t Target) IsZero() bool {
	return t.Kind == TargetNone
}

// GUID returns the GUID of a unit, object or item target, 0 otherwise.
func (t Target) GUID() uint64 {
	switch t.Kind {
	case TargetUnit:
		return t.Unit.GUID()
	case TargetObject:
		return t.Object.GUID()
	case TargetItem:
		return t.Item.GUID()
	default:
		return 0
	}
}

// Point is a location on a map.
type Point struct {
	MapID    uint32
	Location model.Location
}

// TargetSet is one resolved target list of an effect.
type TargetSet struct {
	Units   []Unit
	Objects []Usable
	Points  []Point
}

// IsEmpty reports whether nothing was resolved.
func (s *TargetSet) IsEmpty() bool {
	return len(s.Units) == 0 && len(s.Objects) == 0 && len(s.Points) == 0
}

func (s *TargetSet) reset() {
	s.Units = s.Units[:0]
	s.Objects = s.Objects[:0]
	s.Points = s.Points[:0]
}

func (s *TargetSet) addUnit(u Unit) {
	for _, have := range s.Units {
		if have.GUID() == u.GUID() {
			return
		}
	}
	s.Units = append(s.Units, u)
}

// TargetInfo is the outcome of a cast against one unit.
type TargetInfo struct {
	Unit   Unit
	Result MissReason
}

// ResultGroup is a run of targets sharing one outcome.
type ResultGroup struct {
	Reason MissReason
	GUIDs  []uint64
}

// TargetResults maps target GUIDs to their outcome in insertion order.
type TargetResults struct {
	order  []uint64
	byGUID map[uint64]TargetInfo
}

func newTargetResults() *TargetResults {
	return &TargetResults{byGUID: make(map[uint64]TargetInfo)}
}

// Add records the outcome for u unless one is already recorded.
// Returns the outcome in effect.
func (r *TargetResults) Add(u Unit, result MissReason) MissReason {
	if info, ok := r.byGUID[u.GUID()]; ok {
		return info.Result
	}
	r.order = append(r.order, u.GUID())
	r.byGUID[u.GUID()] = TargetInfo{Unit: u, Result: result}
	return result
}

// Get returns the outcome for guid.
func (r *TargetResults) Get(guid uint64) (TargetInfo, bool) {
	info, ok := r.byGUID[guid]
	return info, ok
}

// Len returns the number of recorded targets.
func (r *TargetResults) Len() int {
	return len(r.order)
}

// All returns the outcomes in insertion order.
func (r *TargetResults) All() []TargetInfo {
	out := make([]TargetInfo, 0, len(r.order))
	for _, guid := range r.order {
		out = append(out, r.byGUID[guid])
	}
	return out
}

// Groups returns the targets grouped by outcome.
// The hit group always comes first, even when empty; miss groups follow
// in the order their reason first appeared.
func (r *TargetResults) Groups() []ResultGroup {
	groups := []ResultGroup{{Reason: MissNone}}
	index := map[MissReason]int{MissNone: 0}
	for _, guid := range r.order {
		reason := r.byGUID[guid].Result
		i, ok := index[reason]
		if !ok {
			i = len(groups)
			index[reason] = i
			groups = append(groups, ResultGroup{Reason: reason})
		}
		groups[i].GUIDs = append(groups[i].GUIDs, guid)
	}
	return groups
}

// MissCount returns the number of targets that were not hit.
func (r *TargetResults) MissCount() int {
	n := 0
	for _, info := range r.byGUID {
		if info.Result != MissNone {
			n++
		}
	}
	return n
}
