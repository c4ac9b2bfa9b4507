package config

import (
	"errors"
	"fmt"
	"time"
)

// Persistence controls the write-behind storage of learned spells.
type Persistence struct {
	Enabled       bool          `yaml:"enabled"`
	QueueSize     int           `yaml:"queue_size"`     // pending saves before SaveSpell drops
	BatchSize     int           `yaml:"batch_size"`     // rows per flush
	FlushInterval time.Duration `yaml:"flush_interval"` // max delay of a pending save
}

// StartPosition is where new characters enter the world.
type StartPosition struct {
	Map uint32  `yaml:"map"`
	X   float32 `yaml:"x"`
	Y   float32 `yaml:"y"`
	Z   float32 `yaml:"z"`
	O   float32 `yaml:"o"`
}

// NewCharacter holds the stats of characters entering the world.
type NewCharacter struct {
	Level   int32         `yaml:"level"`
	Faction uint32        `yaml:"faction"`
	Health  int32         `yaml:"health"`
	Mana    int32         `yaml:"mana"`
	Spells  []uint32      `yaml:"spells"` // known by every character
	Start   StartPosition `yaml:"start"`
}

// WorldServer holds all configuration for the world server.
type WorldServer struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	LogLevel string `yaml:"log_level"` // debug, info, warn, error

	// Write queue / timeouts
	WriteTimeout    time.Duration `yaml:"write_timeout"`    // per-write deadline (default: 5s)
	ReadTimeout     time.Duration `yaml:"read_timeout"`     // idle client disconnect (default: 120s)
	SendQueueSize   int           `yaml:"send_queue_size"`  // per-client outbox capacity (default: 256)
	VisibilityRange float32       `yaml:"visibility_range"` // cast broadcast radius, yards

	// Simulation
	TickInterval time.Duration `yaml:"tick_interval"`
	CommandQueue int           `yaml:"command_queue"` // pending client commands per tick loop

	// Static data
	DataDir    string `yaml:"data_dir"`    // spells.yaml, items.yaml, creatures.yaml
	TerrainDir string `yaml:"terrain_dir"` // <map>_<x>_<y>.tile height maps; empty = flat world

	Database    DatabaseConfig `yaml:"database"`
	Persistence Persistence    `yaml:"persistence"`

	NewCharacter NewCharacter `yaml:"new_character"`
}

// DefaultWorldServer returns WorldServer config with sensible defaults.
func DefaultWorldServer() WorldServer {
	return WorldServer{
		BindAddress:     "0.0.0.0",
		Port:            8085,
		LogLevel:        "info",
		WriteTimeout:    5 * time.Second,
		ReadTimeout:     120 * time.Second,
		SendQueueSize:   256,
		VisibilityRange: 100,
		TickInterval:    100 * time.Millisecond,
		CommandQueue:    1024,
		DataDir:         "data",
		TerrainDir:      "",
		Database:        DefaultDatabase(),
		Persistence: Persistence{
			Enabled:       true,
			QueueSize:     1024,
			BatchSize:     64,
			FlushInterval: time.Second,
		},
		NewCharacter: NewCharacter{
			Level:   1,
			Faction: 1,
			Health:  100,
			Mana:    100,
			Start:   StartPosition{Map: 0, X: -8949.95, Y: -132.493, Z: 83.5312},
		},
	}
}

// LoadWorldServer loads world server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadWorldServer(path string) (WorldServer, error) {
	cfg := DefaultWorldServer()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with.
func (c WorldServer) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if c.DataDir == "" {
		errs = append(errs, errors.New("data_dir is empty"))
	}
	if c.Persistence.Enabled && c.Persistence.FlushInterval <= 0 {
		errs = append(errs, fmt.Errorf("persistence.flush_interval must be positive, got %s", c.Persistence.FlushInterval))
	}
	return errors.Join(errs...)
}
