package duel

import (
	"cmp"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/udisondev/spellcore/internal/game/spell"
)

var (
	// ErrNoDuel is returned when the player has no duel.
	ErrNoDuel = errors.New("no duel")
	// ErrNotChallenged is returned when a challenger tries to answer its own challenge.
	ErrNotChallenged = errors.New("not the challenged player")
	// ErrAlreadyAccepted is returned when a running duel is accepted again.
	ErrAlreadyAccepted = errors.New("duel already accepted")
)

// Board tracks every duel of the world. It implements spell.DuelArbiter.
// Thread-safe for concurrent access.
type Board struct {
	mu       sync.Mutex
	duels    map[int32]*Duel
	byPlayer map[uint64]*Duel
	nextID   int32

	clock func() time.Time
	onEnd []func(d *Duel, r Result)
}

// NewBoard creates an empty board. clock stamps new requests; nil uses time.Now.
func NewBoard(clock func() time.Time) *Board {
	if clock == nil {
		clock = time.Now
	}
	return &Board{
		duels:    make(map[int32]*Duel, 16),
		byPlayer: make(map[uint64]*Duel, 32),
		clock:    clock,
	}
}

var _ spell.DuelArbiter = (*Board)(nil)

// OnEnd registers fn to be called for every finished duel.
func (b *Board) OnEnd(fn func(d *Duel, r Result)) {
	b.onEnd = append(b.onEnd, fn)
}

// RequestDuel registers a challenge. Busy participants are refused.
func (b *Board) RequestDuel(challenger, target spell.Unit, flagEntry int32) spell.DuelOutcome {
	if challenger.GUID() == target.GUID() || !target.IsAlive() {
		return spell.DuelDenied
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, busy := b.byPlayer[challenger.GUID()]; busy {
		return spell.DuelDenied
	}
	if _, busy := b.byPlayer[target.GUID()]; busy {
		return spell.DuelTargetBusy
	}

	b.nextID++
	d := newDuel(b.nextID, challenger, target, flagEntry, b.clock())
	b.duels[d.id] = d
	b.byPlayer[challenger.GUID()] = d
	b.byPlayer[target.GUID()] = d

	slog.Debug("duel requested",
		"duel", d.id,
		"challenger", challenger.GUID(),
		"target", target.GUID())
	return spell.DuelRequested
}

// Accept starts the countdown of the challenge addressed to guid.
func (b *Board) Accept(guid uint64, now time.Time) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	d, ok := b.byPlayer[guid]
	if !ok {
		return fmt.Errorf("player %d: %w", guid, ErrNoDuel)
	}
	if d.target.GUID() != guid {
		return fmt.Errorf("player %d: %w", guid, ErrNotChallenged)
	}
	if d.state != StateRequested {
		return fmt.Errorf("duel %d: %w", d.id, ErrAlreadyAccepted)
	}

	d.state = StateCountdown
	d.startAt = now.Add(CountdownDuration)
	return nil
}

// Decline refuses (or withdraws) the pending challenge of guid.
func (b *Board) Decline(guid uint64) error {
	return b.end(guid, func(*Duel) Result { return ResultDeclined })
}

// Surrender gives up the running duel of guid.
func (b *Board) Surrender(guid uint64) error {
	b.mu.Lock()
	d, ok := b.byPlayer[guid]
	pending := ok && d.state == StateRequested
	if ok && !pending {
		d.surrendered = guid
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("player %d: %w", guid, ErrNoDuel)
	}
	if pending {
		return b.Decline(guid)
	}
	return nil
}

// Leave cancels the duel of a player leaving the world.
func (b *Board) Leave(guid uint64) {
	if err := b.end(guid, func(*Duel) Result { return ResultCanceled }); err != nil && !errors.Is(err, ErrNoDuel) {
		slog.Warn("ending duel on leave", "player", guid, "error", err)
	}
}

func (b *Board) end(guid uint64, result func(*Duel) Result) error {
	b.mu.Lock()
	d, ok := b.byPlayer[guid]
	if ok {
		b.removeLocked(d)
	}
	b.mu.Unlock()

	if !ok {
		return fmt.Errorf("player %d: %w", guid, ErrNoDuel)
	}
	b.finish(d, result(d))
	return nil
}

// DuelOf returns the duel of guid.
func (b *Board) DuelOf(guid uint64) (*Duel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	d, ok := b.byPlayer[guid]
	return d, ok
}

// IsInDuel reports whether guid is challenged or duelling.
func (b *Board) IsInDuel(guid uint64) bool {
	_, ok := b.DuelOf(guid)
	return ok
}

// Count returns the number of duels, pending ones included.
func (b *Board) Count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.duels)
}

// Update advances every duel to now and finishes the decided ones.
func (b *Board) Update(now time.Time) {
	b.mu.Lock()
	duels := make([]*Duel, 0, len(b.duels))
	for _, d := range b.duels {
		duels = append(duels, d)
	}
	b.mu.Unlock()

	slices.SortFunc(duels, func(x, y *Duel) int { return cmp.Compare(x.id, y.id) })

	for _, d := range duels {
		if d.state == StateCountdown && !now.Before(d.startAt) {
			d.state = StateFighting
			d.endAt = now.Add(FightDuration)
			d.saveConditions()
			slog.Debug("duel started", "duel", d.id)
		}

		result := d.CheckEndCondition(now)
		if result == ResultContinue {
			continue
		}

		b.mu.Lock()
		b.removeLocked(d)
		b.mu.Unlock()
		b.finish(d, result)
	}
}

func (b *Board) removeLocked(d *Duel) {
	delete(b.duels, d.id)
	if b.byPlayer[d.challenger.GUID()] == d {
		delete(b.byPlayer, d.challenger.GUID())
	}
	if b.byPlayer[d.target.GUID()] == d {
		delete(b.byPlayer, d.target.GUID())
	}
}

func (b *Board) finish(d *Duel, r Result) {
	d.restoreLoser(r)

	slog.Info("duel finished",
		"duel", d.id,
		"challenger", d.challenger.GUID(),
		"target", d.target.GUID(),
		"result", r)

	for _, fn := range b.onEnd {
		fn(d, r)
	}
}
