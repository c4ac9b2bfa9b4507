package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/udisondev/spellcore/internal/model"
	"github.com/udisondev/spellcore/internal/sim"
)

// ErrEmptySpawn is returned for spawns naming neither a creature nor an object.
var ErrEmptySpawn = errors.New("spawn has no creature or object")

// Repository loads spawn lists.
type Repository interface {
	LoadAll(ctx context.Context) ([]Spawn, error)
}

// Spawner places creatures and objects into the world.
type Spawner interface {
	SpawnCreature(entry uint32, mapID uint32, loc model.Location, faction uint32) (*sim.Creature, error)
	SpawnObject(entry uint32, name string, mapID uint32, loc model.Location) (*model.GameObject, error)
}

// Manager populates the world from a spawn list.
type Manager struct {
	repo    Repository
	spawner Spawner
	spawns  []Spawn
}

// NewManager creates new spawn manager
func NewManager(repo Repository, spawner Spawner) *Manager {
	return &Manager{repo: repo, spawner: spawner}
}

// LoadSpawns loads all spawns from the repository.
func (m *Manager) LoadSpawns(ctx context.Context) error {
	spawns, err := m.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}
	m.spawns = spawns

	slog.Info("spawns loaded", "count", len(spawns))
	return nil
}

// SpawnCount returns the number of loaded spawns.
func (m *Manager) SpawnCount() int {
	return len(m.spawns)
}

// SpawnAll places every loaded spawn. A failing spawn is logged and skipped;
// the errors are returned joined together with the number of placed objects.
func (m *Manager) SpawnAll() (int, error) {
	placed := 0
	var errs []error

	for i := range m.spawns {
		s := &m.spawns[i]
		for range s.Copies() {
			if err := m.DoSpawn(s); err != nil {
				slog.Error("failed to spawn",
					"spawnID", s.ID,
					"creature", s.Creature,
					"object", s.Object,
					"error", err)
				errs = append(errs, err)
				break
			}
			placed++
		}
	}

	slog.Info("world populated", "placed", placed, "failed", len(errs))
	return placed, errors.Join(errs...)
}

// DoSpawn places one copy of s.
func (m *Manager) DoSpawn(s *Spawn) error {
	switch {
	case s.IsCreature():
		if _, err := m.spawner.SpawnCreature(s.Creature, s.Map, s.Location(), s.Faction); err != nil {
			return fmt.Errorf("spawn %d: %w", s.ID, err)
		}
	case s.Object != 0:
		if _, err := m.spawner.SpawnObject(s.Object, s.Name, s.Map, s.Location()); err != nil {
			return fmt.Errorf("spawn %d: %w", s.ID, err)
		}
	default:
		return fmt.Errorf("spawn %d: %w", s.ID, ErrEmptySpawn)
	}
	return nil
}
