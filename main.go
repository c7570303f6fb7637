package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/config"
	"ebiten-floors/data"
	"ebiten-floors/dungeon"
	"ebiten-floors/generation"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
	"ebiten-floors/spawners"
	"ebiten-floors/viewer"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "floors: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.Parse("floors", args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}

	// The terminal inspector owns stdout, so logs only go to the file there
	fileCfg := logger.FileConfig{}
	if cfg.Logging.LogFile != "" {
		fileCfg = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, fileCfg, !cfg.Viewer.Terminal); err != nil {
		return err
	}
	defer logger.Sync()

	templates, err := loadTemplates(cfg.Generation.Tileset)
	if err != nil {
		return err
	}
	spawner := spawners.NewObjectSpawner(templates)
	generate, err := newGenerator(cfg.Generation, spawner)
	if err != nil {
		return err
	}

	seed := cfg.Generation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger.Info("starting inspector",
		zap.Int64("seed", seed),
		zap.String("branch", cfg.Generation.Branch),
		zap.Int("depth", cfg.Generation.Depth))

	viewport := geometry.C(cfg.Viewer.Width, cfg.Viewer.MapRows())
	session, err := viewer.NewSession(generate, spawner.Player(), seed, viewport)
	if err != nil {
		return err
	}

	if cfg.Viewer.Terminal {
		return viewer.RunTerminal(session, cfg.Viewer)
	}
	return viewer.RunWindow(session, cfg.Viewer)
}

// loadTemplates reads the embedded tileset, then overrides from path if set
func loadTemplates(path string) (*data.TemplateManager, error) {
	templates, err := data.LoadDefault()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := templates.LoadPath(path); err != nil {
			return nil, err
		}
	}
	return templates, nil
}

// newGenerator builds a linear branch of sector floors, populated from
// templates, with the configured start floor active
func newGenerator(cfg config.GenerationConfig, spawner *spawners.ObjectSpawner) (viewer.Generator, error) {
	palette, err := spawner.Palette()
	if err != nil {
		return nil, err
	}
	graph, err := generation.NewLinearDungeon(cfg.Branch, cfg.Depth)
	if err != nil {
		return nil, err
	}
	start := graph.Floors()[0]
	if cfg.StartFloor != "" {
		if start, err = generation.ParseFloorID(cfg.StartFloor); err != nil {
			return nil, err
		}
		if !slices.Contains(graph.Floors(), start) {
			return nil, fmt.Errorf("start floor %s is not part of the dungeon", start)
		}
	}
	populator := spawners.NewRoomPopulator(spawner)
	size := geometry.C(cfg.Width, cfg.Height)

	source := func(components.FloorID) (generation.FloorGenerator, geometry.Coord) {
		gen := generation.NewSectorGenerator(cfg.SectorColumns, cfg.SectorRows, palette)
		gen.Archetypes = populator.Archetypes()
		return gen, size
	}
	return func(seed int64) (*dungeon.Registry, error) {
		reg, err := graph.Generate(seed, source, spawner.Stairs)
		if err != nil {
			return nil, err
		}
		if err := reg.SetActive(start); err != nil {
			return nil, err
		}
		return reg, nil
	}, nil
}
