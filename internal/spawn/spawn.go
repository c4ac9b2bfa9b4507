package spawn

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/spellcore/internal/model"
)

// Spawn is one world placement: a creature or a game object.
type Spawn struct {
	ID       int64   `yaml:"id"`
	Creature uint32  `yaml:"creature"` // creature template entry
	Object   uint32  `yaml:"object"`   // game object entry, used when creature is 0
	Name     string  `yaml:"name"`     // game object name
	Map      uint32  `yaml:"map"`
	X        float32 `yaml:"x"`
	Y        float32 `yaml:"y"`
	Z        float32 `yaml:"z"`
	O        float32 `yaml:"o"`
	Faction  uint32  `yaml:"faction"`
	Count    int32   `yaml:"count"` // copies at the same point, default 1
}

// Location returns the spawn point.
func (s *Spawn) Location() model.Location {
	return model.NewLocation(s.X, s.Y, s.Z, s.O)
}

// IsCreature reports whether the spawn places a creature.
func (s *Spawn) IsCreature() bool {
	return s.Creature != 0
}

// Copies returns how many objects the spawn places.
func (s *Spawn) Copies() int32 {
	return max(s.Count, 1)
}

// FileRepo reads spawns from a YAML file. A missing file means no spawns.
type FileRepo struct {
	path string
}

// NewFileRepo creates a repository over path.
func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path}
}

// LoadAll reads every spawn of the file.
func (r *FileRepo) LoadAll(_ context.Context) ([]Spawn, error) {
	raw, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading spawns %s: %w", r.path, err)
	}

	var spawns []Spawn
	if err := yaml.Unmarshal(raw, &spawns); err != nil {
		return nil, fmt.Errorf("parsing spawns %s: %w", r.path, err)
	}
	return spawns, nil
}
