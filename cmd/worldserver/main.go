package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/spellcore/internal/ai"
	"github.com/udisondev/spellcore/internal/config"
	"github.com/udisondev/spellcore/internal/data"
	"github.com/udisondev/spellcore/internal/db"
	"github.com/udisondev/spellcore/internal/game/geo"
	"github.com/udisondev/spellcore/internal/game/spell"
	"github.com/udisondev/spellcore/internal/gameserver"
	"github.com/udisondev/spellcore/internal/sim"
	"github.com/udisondev/spellcore/internal/spawn"
)

const (
	ConfigPath = "config/worldserver.yaml"
	SpawnsFile = "spawns.yaml" // world spawn list inside the data directory
)

var _ gameserver.World = (*sim.World)(nil)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := config.ResolvePath(ConfigPath)
	cfg, err := config.LoadWorldServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	level := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))
	ai.EnableDebugLogging(level == slog.LevelDebug)

	slog.Info("spellcore world server starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick", cfg.TickInterval)

	tables, err := data.LoadTables(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("loading tables: %w", err)
	}
	slog.Info("templates loaded", "spells", tables.SpellCount(), "dir", cfg.DataDir)

	deps := sim.Deps{Tables: tables}

	if cfg.TerrainDir != "" {
		terrain := geo.NewEngine()
		if err := terrain.LoadDir(cfg.TerrainDir); err != nil {
			return fmt.Errorf("loading terrain: %w", err)
		}
		deps.Terrain = terrain
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Persistence.Enabled {
		database, err := db.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()
		slog.Info("database connected")

		if err := db.RunMigrationsPool(ctx, database.Pool()); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		slog.Info("database migrations applied")

		spells := db.NewSpellRepository(database.Pool())
		writer := db.NewSpellWriter(spells, db.WriterConfig{
			QueueSize:     cfg.Persistence.QueueSize,
			BatchSize:     cfg.Persistence.BatchSize,
			FlushInterval: cfg.Persistence.FlushInterval,
		})
		deps.Loader = spells
		deps.Store = writer

		g.Go(func() error {
			slog.Info("starting spell writer", "flush_interval", cfg.Persistence.FlushInterval)
			if err := writer.Run(gctx); err != nil {
				return fmt.Errorf("spell writer: %w", err)
			}
			slog.Info("spell writer stopped", "saved", writer.Saved(), "dropped", writer.Dropped())
			return nil
		})
	} else {
		slog.Warn("spell persistence disabled, spellbooks are not saved")
	}

	deps.Registry = spell.NewRegistry()
	world := sim.New(sim.ConfigFrom(cfg), deps)
	sessions := gameserver.NewSessionManager()
	notifier := gameserver.NewPacketNotifier(sessions, world, cfg.VisibilityRange)
	world.SetNotifier(notifier)

	spawnMgr := spawn.NewManager(spawn.NewFileRepo(filepath.Join(cfg.DataDir, SpawnsFile)), world)
	if err := spawnMgr.LoadSpawns(ctx); err != nil {
		return fmt.Errorf("loading spawns: %w", err)
	}
	if _, err := spawnMgr.SpawnAll(); err != nil {
		slog.Warn("world populated with errors", "error", err)
	}

	server := gameserver.NewServer(cfg, world, sessions, notifier)

	g.Go(func() error {
		if err := world.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("world tick loop: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		slog.Info("starting world server", "bind", cfg.BindAddress, "port", cfg.Port)
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("world server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("world server stopped")
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
