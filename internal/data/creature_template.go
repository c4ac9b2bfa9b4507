package data

// Creature — шаблон существа для призыва (тотемы, маунты).
type Creature struct {
	Entry          uint32   `yaml:"entry"`
	Name           string   `yaml:"name"`
	Level          int32    `yaml:"level"`
	Health         int32    `yaml:"health"`
	Mana           int32    `yaml:"mana"`
	DisplayID      uint32   `yaml:"display_id"`
	MountDisplayID uint32   `yaml:"mount_display_id"`
	Spells         []uint32 `yaml:"spells"` // cast on spawn, 0 terminates
}
