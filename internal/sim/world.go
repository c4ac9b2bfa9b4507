package sim

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/udisondev/spellcore/internal/ai"
	"github.com/udisondev/spellcore/internal/config"
	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/game/duel"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/model"
	"github.com/udisondev/spellcore/internal/world"
)

var (
	// ErrNotInWorld is returned for commands addressed to an absent actor.
	ErrNotInWorld = errors.New("not in world")
	// ErrAlreadyInWorld is returned by EnterWorld for a character already playing.
	ErrAlreadyInWorld = errors.New("already in world")
	// ErrNotPlayerGUID is returned by EnterWorld for creature and object GUIDs.
	ErrNotPlayerGUID = errors.New("not a player guid")
	// ErrCommandQueueFull is returned by Submit when the tick loop lags behind.
	ErrCommandQueueFull = errors.New("command queue full")
	// ErrUnknownCreature is returned when spawning a creature without template.
	ErrUnknownCreature = errors.New("unknown creature")
)

// Config tunes the simulation.
type Config struct {
	TickInterval time.Duration
	CommandQueue int
	NewCharacter config.NewCharacter
}

// ConfigFrom extracts the simulation settings of the world server config.
func ConfigFrom(cfg config.WorldServer) Config {
	return Config{
		TickInterval: cfg.TickInterval,
		CommandQueue: cfg.CommandQueue,
		NewCharacter: cfg.NewCharacter,
	}
}

// Deps are the collaborators of the world. Nil fields get the defaults of spell.NewManager.
type Deps struct {
	Tables   *data.Tables
	Registry *spell.Registry
	Terrain  spell.Terrain
	Store    spell.SpellStore
	Loader   spell.SpellLoader
	Miss     spell.MissRoller
	Clock    func() time.Time
}

type command struct {
	guid uint64
	fn   func(actor)
}

// World owns every actor of the server and drives them from one tick loop.
//
// Actors are only touched on the tick goroutine: connections reach them
// through Submit. The spatial indexes are safe for concurrent queries.
type World struct {
	cfg Config

	tables   *data.Tables
	registry *spell.Registry
	terrain  spell.Terrain
	store    spell.SpellStore
	loader   spell.SpellLoader
	miss     spell.MissRoller
	clock    func() time.Time
	notifier spell.Notifier

	duels   *duel.Board
	ai      *ai.TickManager
	guids   *world.GUIDGenerator
	units   *world.World[spell.Unit]
	objects *world.World[spell.Usable]

	mu      sync.Mutex
	actors  map[uint64]actor
	leaving []actor

	commands chan command
	ticks    uint64
}

// New creates an empty world.
func New(cfg Config, deps Deps) *World {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 100 * time.Millisecond
	}
	if cfg.CommandQueue <= 0 {
		cfg.CommandQueue = 1024
	}
	if deps.Tables == nil {
		deps.Tables, _ = data.NewTables(nil, nil, nil)
	}
	if deps.Registry == nil {
		deps.Registry = spell.NewRegistry()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	return &World{
		cfg:      cfg,
		tables:   deps.Tables,
		registry: deps.Registry,
		terrain:  deps.Terrain,
		store:    deps.Store,
		loader:   deps.Loader,
		miss:     deps.Miss,
		clock:    deps.Clock,
		duels:    duel.NewBoard(deps.Clock),
		ai:       ai.NewTickManager(),
		guids:    world.NewGUIDGenerator(0),
		units:    world.New[spell.Unit](),
		objects:  world.New[spell.Usable](),
		actors:   make(map[uint64]actor, 64),
		commands: make(chan command, cfg.CommandQueue),
	}
}

// SetNotifier sets where cast notifications go.
// Must be called before the first actor is created.
func (w *World) SetNotifier(n spell.Notifier) {
	w.notifier = n
}

// Duels returns the duel board.
func (w *World) Duels() *duel.Board {
	return w.duels
}

func (w *World) managerDeps() spell.Deps {
	return spell.Deps{
		Tables:   w.tables,
		Registry: w.registry,
		Notifier: w.notifier,
		Spatial:  w,
		Terrain:  w.terrain,
		Summoner: w,
		Duels:    w.duels,
		Store:    w.store,
		Miss:     w.miss,
		Clock:    w.clock,
	}
}

// EnterWorld creates the character guid at the start position, fills its
// spellbook and publishes it to the tick loop.
func (w *World) EnterWorld(ctx context.Context, guid uint64) error {
	if world.HighGUID(guid) != world.HighGUIDPlayer {
		return fmt.Errorf("entering world with %#x: %w", guid, ErrNotPlayerGUID)
	}
	if w.isPresent(guid) {
		return fmt.Errorf("player %d: %w", guid, ErrAlreadyInWorld)
	}

	nc := w.cfg.NewCharacter
	p := &Player{Player: model.NewPlayer(guid, fmt.Sprintf("Player%d", guid), nc.Start.Map,
		model.NewLocation(nc.Start.X, nc.Start.Y, nc.Start.Z, nc.Start.O),
		model.UnitStats{
			Level:     nc.Level,
			Faction:   nc.Faction,
			Health:    nc.Health,
			PowerType: data.PowerMana,
			Power:     nc.Mana,
		})}
	p.mgr = spell.NewManager(p, w.managerDeps())
	p.OnAuraRemoved(p.mgr.OnAuraRemoved)

	if w.loader != nil {
		if err := p.mgr.LoadSpells(ctx, w.loader); err != nil {
			return fmt.Errorf("entering world: %w", err)
		}
	}
	for _, id := range nc.Spells {
		p.mgr.LearnSpell(id)
	}

	if err := w.publish(p); err != nil {
		return fmt.Errorf("entering world: %w", err)
	}

	slog.Info("player entered world",
		"player", guid,
		"map", p.MapID(),
		"spells", len(p.mgr.InitialSpells()))
	return nil
}

// LeaveWorld takes the player out of the indexes at once; its casts and duel
// are torn down on the next tick.
func (w *World) LeaveWorld(guid uint64) {
	if !w.unpublish(guid) {
		return
	}
	slog.Info("player left world", "player", guid)
}

func (w *World) publish(a actor) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.actors[a.GUID()]; ok {
		return fmt.Errorf("actor %d: %w", a.GUID(), ErrAlreadyInWorld)
	}
	if err := w.units.Add(a); err != nil {
		return err
	}
	w.actors[a.GUID()] = a
	return nil
}

func (w *World) unpublish(guid uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	a, ok := w.actors[guid]
	if !ok {
		return false
	}
	delete(w.actors, guid)
	w.units.Remove(guid)
	w.ai.Unregister(guid)
	w.leaving = append(w.leaving, a)
	return true
}

func (w *World) isPresent(guid uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.actors[guid]
	return ok
}

func (w *World) actor(guid uint64) (actor, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	a, ok := w.actors[guid]
	return a, ok
}

// snapshot returns the actors ordered by GUID.
func (w *World) snapshot() []actor {
	w.mu.Lock()
	out := make([]actor, 0, len(w.actors))
	for _, a := range w.actors {
		out = append(out, a)
	}
	w.mu.Unlock()

	slices.SortFunc(out, func(x, y actor) int { return cmp.Compare(x.GUID(), y.GUID()) })
	return out
}

// Thinking returns the number of summons driven by an AI controller.
func (w *World) Thinking() int {
	return w.ai.Count()
}

// PlayerCount returns the number of players in the world.
func (w *World) PlayerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	n := 0
	for _, a := range w.actors {
		if _, ok := a.(*Player); ok {
			n++
		}
	}
	return n
}

// FindUnit returns the in-world unit guid.
func (w *World) FindUnit(guid uint64) (spell.Unit, bool) {
	return w.units.Get(guid)
}

// FindObject returns the game object guid.
func (w *World) FindObject(guid uint64) (spell.Usable, bool) {
	return w.objects.Get(guid)
}

// UnitsInRadius returns the units on mapID within radius of center, ordered by GUID.
func (w *World) UnitsInRadius(mapID uint32, center model.Location, radius float32) []spell.Unit {
	return w.units.InRadius(mapID, center, radius)
}

var (
	_ spell.Spatial  = (*World)(nil)
	_ spell.Summoner = (*World)(nil)
)
