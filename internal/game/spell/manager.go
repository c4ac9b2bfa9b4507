package spell

import (
	"log/slog"
	"slices"
	"time"

	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/model"
)

// Deps are the collaborators of a Manager. Nil fields get inert defaults.
type Deps struct {
	Tables   *data.Tables
	Registry *Registry
	Notifier Notifier
	Spatial  Spatial
	Terrain  Terrain
	Summoner Summoner
	Duels    DuelArbiter
	Store    SpellStore
	Miss     MissRoller
	Clock    func() time.Time
}

// Manager orchestrates the casts of one actor.
//
// It is driven by Update once per simulation tick and never blocks: cast
// times, projectile travel and channels are stored as absolute timestamps.
// A Manager must be used by one goroutine at a time.
type Manager struct {
	unit   Unit
	player Player

	tables   *data.Tables
	registry *Registry
	notifier Notifier
	spatial  Spatial
	terrain  Terrain
	summoner Summoner
	duels    DuelArbiter
	store    SpellStore
	miss     MissRoller
	clock    func() time.Time

	known     map[uint32]KnownSpell
	casts     []*Cast
	cooldowns Cooldowns
	moved     bool
}

// NewManager creates the orchestrator of unit.
// Whether unit is a player is decided once here.
func NewManager(unit Unit, deps Deps) *Manager {
	m := &Manager{
		unit:     unit,
		tables:   deps.Tables,
		registry: deps.Registry,
		notifier: deps.Notifier,
		spatial:  deps.Spatial,
		terrain:  deps.Terrain,
		summoner: deps.Summoner,
		duels:    deps.Duels,
		store:    deps.Store,
		miss:     deps.Miss,
		clock:    deps.Clock,
		known:    make(map[uint32]KnownSpell),
	}
	if p, ok := unit.(Player); ok {
		m.player = p
	}

	if m.tables == nil {
		m.tables, _ = data.NewTables(nil, nil, nil)
	}
	if m.registry == nil {
		m.registry = NewRegistry()
	}
	if m.notifier == nil {
		m.notifier = NopNotifier{}
	}
	if m.spatial == nil {
		m.spatial = noSpatial{}
	}
	if m.terrain == nil {
		m.terrain = flatTerrain{}
	}
	if m.summoner == nil {
		m.summoner = noSummoner{}
	}
	if m.duels == nil {
		m.duels = noDuels{}
	}
	if m.store == nil {
		m.store = noStore{}
	}
	if m.miss == nil {
		m.miss = AlwaysHit
	}
	if m.clock == nil {
		m.clock = time.Now
	}
	return m
}

// Unit returns the owning actor.
func (m *Manager) Unit() Unit {
	return m.unit
}

// IsPlayer reports whether the owning actor is a player.
func (m *Manager) IsPlayer() bool {
	return m.player != nil
}

// Casts returns a snapshot of the live set.
func (m *Manager) Casts() []*Cast {
	return slices.Clone(m.casts)
}

// Cooldowns returns a snapshot of the cooldown ledger.
func (m *Manager) Cooldowns() []CooldownEntry {
	return m.cooldowns.Entries()
}

// IsOnCooldown reports whether s is blocked by a running cooldown.
func (m *Manager) IsOnCooldown(s *data.Spell) bool {
	return m.cooldowns.IsOnCooldown(s, m.clock())
}

// IsCasting reports whether a cast bar is running.
func (m *Manager) IsCasting() bool {
	for _, c := range m.casts {
		if c.State == StateCasting {
			return true
		}
	}
	return false
}

// HandleCastAttempt starts a cast requested by the actor.
func (m *Manager) HandleCastAttempt(spellID uint32, target Target, mask TargetMask) {
	s, ok := m.tables.Spell(spellID)
	if !ok || target.IsZero() {
		slog.Debug("cast attempt ignored",
			"caster", m.unit.GUID(),
			"spell", spellID,
			"known", ok)
		return
	}
	m.StartCast(s, target, mask, nil)
}

// HandleItemCastAttempt casts every on-use ability of item on the actor.
// Food and drink make the actor sit.
func (m *Manager) HandleItemCastAttempt(item *model.Item) {
	for _, is := range item.Template().Spells {
		if is.SpellID == 0 {
			break
		}
		s, ok := m.tables.Spell(is.SpellID)
		if !ok {
			slog.Warn("item spell not found",
				"spell", is.SpellID,
				"item", item.Entry(),
				"itemName", item.Template().Name)
			continue
		}

		c := m.newCast(s, UnitTarget(m.unit), TargetMaskSelf, item)
		if !m.ValidateCast(c) {
			continue
		}
		if c.IsRefreshment() {
			m.unit.SetStandState(model.StandStateSit)
		}
		m.start(c)
	}
}

// StartCast validates and starts a cast of s.
func (m *Manager) StartCast(s *data.Spell, target Target, mask TargetMask, item *model.Item) {
	c := m.newCast(s, target, mask, item)
	if !m.ValidateCast(c) {
		return
	}
	m.start(c)
}

func (m *Manager) newCast(s *data.Spell, target Target, mask TargetMask, item *model.Item) *Cast {
	c := NewCast(s, m.unit, target, mask, item, m.clock())
	c.miss = m.miss
	return c
}

func (m *Manager) start(c *Cast) {
	if c.CastsOnSwing() {
		if queued := m.QueuedMeleeAbility(); queued != nil {
			m.RemoveCast(queued, ResultDontReport)
		}
		c.State = StateDelayedSwing
		m.casts = append(m.casts, c)
		return
	}

	c.State = StateCasting
	m.casts = append(m.casts, c)

	if !c.IsInstant() {
		slog.Debug("cast started",
			"caster", m.unit.GUID(),
			"spell", c.SpellID(),
			"castTime", c.CastTime())
		m.notifier.CastStart(c)
		return
	}
	m.perform(c, m.clock(), false)
}

// perform completes the cast bar: effects, cooldown and consumption,
// or launch of a projectile that is paid now and applies its effects on impact.
func (m *Manager) perform(c *Cast, now time.Time, validate bool) {
	if validate && !m.ValidateCast(c) {
		m.RemoveCast(c, ResultOK)
		return
	}

	c.ResolveEffectTargets(m.spatial, m.terrain)
	if m.player != nil && c.RequiresComboPoints() {
		c.comboPoints, _ = m.player.ComboPoints()
	}

	m.sendCastResult(c.SpellID(), ResultOK)
	m.notifier.CastGo(c)
	m.unit.Auras().Interrupt(data.InterruptOnCast)

	if travel := m.timeToImpact(c); travel > 0 {
		c.State = StateDelayedImpact
		c.DelayEnd = now.Add(travel)
		if !c.TriggersCooldownOnAuraRemove() {
			m.setOnCooldown(c.Spell, now)
		}
		m.consume(c)
		return
	}

	c.State = StateFinished
	if c.IsChanneled() {
		m.startChannel(c, now)
	} else {
		m.applyEffects(c, now)
		if c.State != StateActive {
			m.RemoveCast(c, ResultOK)
		}
	}

	if !c.TriggersCooldownOnAuraRemove() {
		m.setOnCooldown(c.Spell, now)
	}
	m.consume(c)
}

// impact applies a projectile's effects once it arrives.
func (m *Manager) impact(c *Cast, now time.Time) {
	c.State = StateFinished
	if c.IsChanneled() {
		m.startChannel(c, now)
	} else {
		m.applyEffects(c, now)
	}
	if c.State != StateActive {
		m.RemoveCast(c, ResultOK)
	}
}

// applyEffects dispatches every effect of c against its resolved targets.
// Unit targets take precedence over objects and points of the same effect.
func (m *Manager) applyEffects(c *Cast, now time.Time) {
	for _, e := range c.Effects {
		if e.Aura != nil {
			e.Aura.Initialize(now)
		}

		if m.registry.IsArea(e.Kind()) {
			m.dispatch(c, e, now, m.unit, nil)
			continue
		}

		if units := e.Targets.Units(); len(units) > 0 {
			for _, u := range units {
				info, ok := c.Results.Get(u.GUID())
				if !ok {
					continue
				}
				switch info.Result {
				case MissNone:
					m.dispatch(c, e, now, m.unit, info.Unit)
				case MissDeflect:
					m.dispatch(c, e, now, info.Unit, m.unit)
				}
			}
			continue
		}

		for _, o := range e.Targets.Objects() {
			m.dispatchContext(&EffectContext{Manager: m, Cast: c, Effect: e, Caster: m.unit, Object: o, Now: now})
		}
		for _, p := range e.Targets.Points() {
			m.dispatchContext(&EffectContext{Manager: m, Cast: c, Effect: e, Caster: m.unit, Point: &p, Now: now})
		}
	}
}

// applyAreaEffects re-applies only the area effects of an active cast.
func (m *Manager) applyAreaEffects(c *Cast, now time.Time) {
	for _, e := range c.Effects {
		if m.registry.IsArea(e.Kind()) {
			m.dispatch(c, e, now, m.unit, nil)
		}
	}
}

func (m *Manager) dispatch(c *Cast, e *Effect, now time.Time, caster, target Unit) {
	m.dispatchContext(&EffectContext{
		Manager: m,
		Cast:    c,
		Effect:  e,
		Caster:  caster,
		Target:  target,
		Now:     now,
	})
}

func (m *Manager) dispatchContext(ctx *EffectContext) {
	if result := m.registry.Dispatch(ctx); result != ResultOK {
		m.sendCastResult(ctx.Cast.SpellID(), result)
	}
}

// CastQueuedMeleeAbility promotes the queued on-swing ability when a swing lands.
func (m *Manager) CastQueuedMeleeAbility(attack model.AttackType) bool {
	queued := m.QueuedMeleeAbility()
	if queued == nil {
		return false
	}
	if !m.ValidateCast(queued) {
		m.RemoveCast(queued, ResultOK)
		return false
	}

	queued.AttackType = attack
	queued.State = StateCasting
	m.perform(queued, m.clock(), false)
	return true
}

// QueuedMeleeAbility returns the cast waiting for the next swing, if any.
func (m *Manager) QueuedMeleeAbility() *Cast {
	for _, c := range m.casts {
		if c.CastsOnSwing() && c.State == StateDelayedSwing {
			return c
		}
	}
	return nil
}

// FlagAsMoved records that the actor moved since the last update.
func (m *Manager) FlagAsMoved() {
	m.unit.Auras().Interrupt(data.InterruptOnMove)
	if len(m.casts) == 0 {
		return
	}
	m.moved = true
}

// Update advances every live cast. Cooldowns expire first, then casts
// progress in the order they were started.
func (m *Manager) Update(now time.Time, elapsed time.Duration) {
	moved := m.moved
	m.moved = false

	m.expireCooldowns(now)

	for _, c := range slices.Clone(m.casts) {
		if !m.isLive(c) {
			continue
		}

		switch c.State {
		case StateActive:
			if c.IsChanneled() && (moved || !now.Before(c.ChannelEnd)) {
				result := ResultOK
				if moved {
					result = ResultMoving
				}
				m.RemoveCast(c, result)
				continue
			}
			m.updateActive(c, now, elapsed)

		case StateCasting:
			if c.IsInstant() {
				continue
			}
			if !now.Before(c.CastEnd) {
				m.perform(c, now, true)
				continue
			}
			if moved {
				m.RemoveCast(c, ResultMoving)
			}

		case StateDelayedImpact:
			if !now.Before(c.DelayEnd) {
				m.impact(c, now)
			}
		}
	}
}

// updateActive refreshes area targets of an active cast and re-applies its area effects.
// A non-channeled active cast ends once all of its area auras have run out.
func (m *Manager) updateActive(c *Cast, now time.Time, elapsed time.Duration) {
	expired := true
	for _, e := range c.Effects {
		if e.Aura == nil || !m.registry.IsArea(e.Kind()) {
			continue
		}
		e.Aura.Age(elapsed)
		if !e.Aura.IsExpired() {
			expired = false
		}
		c.ResolveEffect(e, m.spatial, m.terrain)

		if c.IsChanneled() && e.Aura.IsPastNextTick(now) {
			m.notifier.CastGo(c)
		}
	}

	if !c.IsChanneled() && expired {
		m.RemoveCast(c, ResultOK)
		return
	}
	m.applyAreaEffects(c, now)
}

// RemoveCast drops c from the live set. Removing a cast that is not live is a no-op.
// A non-OK result is reported to the caster and counts as an interruption.
func (m *Manager) RemoveCast(c *Cast, result CastResult) {
	i := slices.Index(m.casts, c)
	if i < 0 {
		return
	}
	m.casts = slices.Delete(m.casts, i, i+1)

	if c.IsChanneled() {
		m.endChannel(c, result != ResultOK)
	}
	if result != ResultOK {
		slog.Debug("cast removed",
			"caster", m.unit.GUID(),
			"spell", c.SpellID(),
			"state", c.State,
			"result", result)
		m.sendCastResult(c.SpellID(), result)
	}
}

// CancelCast interrupts the running cast of spellID at the actor's request.
func (m *Manager) CancelCast(spellID uint32) {
	for _, c := range slices.Clone(m.casts) {
		if c.SpellID() != spellID {
			continue
		}
		if c.State == StateCasting || (c.State == StateActive && c.IsChanneled()) {
			m.RemoveCast(c, ResultInterrupted)
		}
	}
}

// InterruptAll removes every live cast with result.
func (m *Manager) InterruptAll(result CastResult) {
	for _, c := range slices.Clone(m.casts) {
		m.RemoveCast(c, result)
	}
}

func (m *Manager) isLive(c *Cast) bool {
	return slices.Contains(m.casts, c)
}

// timeToImpact returns the projectile travel time of c.
func (m *Manager) timeToImpact(c *Cast) time.Duration {
	if c.Spell.Speed <= 0 {
		return 0
	}
	distance := c.Spell.Range.Max
	if c.InitialTargetIsUnit() {
		distance = m.unit.Location().Distance(c.InitialTarget.Unit.Location())
	}
	return time.Duration(float64(distance) / float64(c.Spell.Speed) * float64(time.Second))
}

func (m *Manager) startChannel(c *Cast, now time.Time) {
	c.ChannelEnd = now.Add(c.Spell.ChannelDuration())
	c.CastEnd = c.ChannelEnd
	c.State = StateActive

	m.unit.SetChannel(c.InitialTarget.GUID(), c.SpellID())
	c.channelStarted = true

	m.applyEffects(c, now)

	if m.player != nil {
		m.notifier.ChannelStart(m.unit, c.SpellID(), c.Spell.ChannelDuration())
	}
}

// endChannel clears the channel markers exactly once per cast.
// Auras the channel applied are cancelled only when it was interrupted,
// so a channel that runs out keeps its final tick.
func (m *Manager) endChannel(c *Cast, interrupted bool) {
	if !c.channelStarted {
		return
	}
	c.channelStarted = false

	if interrupted {
		for _, info := range c.Results.All() {
			info.Unit.Auras().CancelBySpellFrom(c.SpellID(), m.unit.GUID())
		}
	}

	m.unit.SetChannel(0, 0)

	if m.player != nil {
		m.notifier.ChannelUpdate(m.unit, 0)
		m.notifier.CastGo(c)
	}
}

func (m *Manager) setOnCooldown(s *data.Spell, now time.Time) {
	entry, ok := m.cooldowns.Start(s, now)
	if !ok || m.player == nil {
		return
	}
	m.notifier.CooldownSet(m.unit, s.ID, entry.Length())
}

func (m *Manager) expireCooldowns(now time.Time) {
	for _, e := range m.cooldowns.Expire(now) {
		if m.player != nil {
			m.notifier.CooldownCleared(m.unit, e.SpellID)
		}
	}
}

// OnAuraRemoved starts the cooldown that the ability deferred until its aura was gone.
func (m *Manager) OnAuraRemoved(spellID uint32, caster uint64) {
	if caster != m.unit.GUID() {
		return
	}
	s, ok := m.tables.Spell(spellID)
	if !ok || !s.HasAttribute(data.AttrDisabledWhileActive) {
		return
	}
	now := m.clock()
	if m.cooldowns.IsOnCooldown(s, now) {
		return
	}
	m.setOnCooldown(s, now)
}

func (m *Manager) sendCastResult(spellID uint32, result CastResult) {
	if m.player == nil {
		return
	}
	m.notifier.CastResult(m.unit, spellID, result)
}
