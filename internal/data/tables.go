package data

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Template file names inside the data directory.
const (
	SpellsFile    = "spells.yaml"
	ItemsFile     = "items.yaml"
	CreaturesFile = "creatures.yaml"
)

var (
	// ErrUnknownSpell is returned when a spell id is not in the table.
	ErrUnknownSpell = errors.New("unknown spell")
	// ErrDuplicateEntry is returned when two templates share an id.
	ErrDuplicateEntry = errors.New("duplicate template entry")
)

// Tables holds every read-only template table of the world.
// Built once at startup and passed by reference to the components that need it.
type Tables struct {
	spells    map[uint32]*Spell
	items     map[uint32]*Item
	creatures map[uint32]*Creature
}

// NewTables indexes the given templates.
func NewTables(spells []Spell, items []Item, creatures []Creature) (*Tables, error) {
	t := &Tables{
		spells:    make(map[uint32]*Spell, len(spells)),
		items:     make(map[uint32]*Item, len(items)),
		creatures: make(map[uint32]*Creature, len(creatures)),
	}

	for i := range spells {
		s := &spells[i]
		if _, ok := t.spells[s.ID]; ok {
			return nil, fmt.Errorf("spell %d: %w", s.ID, ErrDuplicateEntry)
		}
		if len(s.Effects) > MaxEffects {
			return nil, fmt.Errorf("spell %d: %d effects, max %d", s.ID, len(s.Effects), MaxEffects)
		}
		t.spells[s.ID] = s
	}
	for i := range items {
		it := &items[i]
		if _, ok := t.items[it.Entry]; ok {
			return nil, fmt.Errorf("item %d: %w", it.Entry, ErrDuplicateEntry)
		}
		t.items[it.Entry] = it
	}
	for i := range creatures {
		c := &creatures[i]
		if _, ok := t.creatures[c.Entry]; ok {
			return nil, fmt.Errorf("creature %d: %w", c.Entry, ErrDuplicateEntry)
		}
		t.creatures[c.Entry] = c
	}

	return t, nil
}

// LoadTables reads spells, items and creatures from YAML files in dir.
// Missing item or creature files yield empty tables; the spell file is required.
func LoadTables(dir string) (*Tables, error) {
	var spells []Spell
	if err := readYAML(filepath.Join(dir, SpellsFile), &spells, true); err != nil {
		return nil, err
	}
	var items []Item
	if err := readYAML(filepath.Join(dir, ItemsFile), &items, false); err != nil {
		return nil, err
	}
	var creatures []Creature
	if err := readYAML(filepath.Join(dir, CreaturesFile), &creatures, false); err != nil {
		return nil, err
	}

	t, err := NewTables(spells, items, creatures)
	if err != nil {
		return nil, fmt.Errorf("indexing templates from %s: %w", dir, err)
	}

	slog.Info("loaded templates",
		"spells", len(t.spells),
		"items", len(t.items),
		"creatures", len(t.creatures))
	return t, nil
}

func readYAML(path string, out any, required bool) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Spell returns the ability definition by id.
func (t *Tables) Spell(id uint32) (*Spell, bool) {
	s, ok := t.spells[id]
	return s, ok
}

// MustSpell returns the ability definition or ErrUnknownSpell.
func (t *Tables) MustSpell(id uint32) (*Spell, error) {
	s, ok := t.spells[id]
	if !ok {
		return nil, fmt.Errorf("spell %d: %w", id, ErrUnknownSpell)
	}
	return s, nil
}

// Item returns the item template by entry.
func (t *Tables) Item(entry uint32) (*Item, bool) {
	it, ok := t.items[entry]
	return it, ok
}

// Creature returns the creature template by entry.
func (t *Tables) Creature(entry uint32) (*Creature, bool) {
	c, ok := t.creatures[entry]
	return c, ok
}

// SpellCount returns the number of loaded abilities.
func (t *Tables) SpellCount() int {
	return len(t.spells)
}
