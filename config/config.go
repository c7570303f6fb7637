// Package config handles loading and validating the generator settings.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap/zapcore"
)

// Config holds all settings.
type Config struct {
	Generation GenerationConfig `yaml:"generation"`
	Viewer     ViewerConfig     `yaml:"viewer"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GenerationConfig holds dungeon generation settings.
type GenerationConfig struct {
	Seed          int64  `yaml:"seed"`           // 0 picks a seed from the clock
	Branch        string `yaml:"branch"`         // Name of the generated branch
	Depth         int    `yaml:"depth"`          // Number of floors
	Width         int    `yaml:"width"`          // Floor width in tiles
	Height        int    `yaml:"height"`         // Floor height in tiles
	SectorColumns int    `yaml:"sector_columns"` // Sector grid columns per floor
	SectorRows    int    `yaml:"sector_rows"`    // Sector grid rows per floor
	Tileset       string `yaml:"tileset"`        // YAML file or directory; empty uses the built-in tileset
	StartFloor    string `yaml:"start_floor"`    // branch:depth shown first; empty shows the first floor
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Generation: GenerationConfig{
			Seed:          0,
			Branch:        "main",
			Depth:         5,
			Width:         80,
			Height:        60,
			SectorColumns: 3,
			SectorRows:    2,
		},
		Viewer: ViewerConfig{
			TileSize: TileSize,
			Width:    ScreenWidth,
			Height:   ScreenHeight,
			ShowFOV:  true,
			LogLines: LogRows,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// minSectorSide is the smallest sector side, in tiles, that still fits a
// 4x4 grid of walled rooms
const minSectorSide = 12

// Validate reports every setting that cannot produce a dungeon.
func (c *Config) Validate() error {
	var errs []error
	g := c.Generation
	if g.Branch == "" {
		errs = append(errs, errors.New("generation.branch must not be empty"))
	}
	if g.Depth < 1 {
		errs = append(errs, fmt.Errorf("generation.depth %d must be at least 1", g.Depth))
	}
	if g.SectorColumns < 1 || g.SectorRows < 1 {
		errs = append(errs, fmt.Errorf("generation sector grid %dx%d must be at least 1x1", g.SectorColumns, g.SectorRows))
	} else {
		// Two tiles of margin on every side
		if g.Width-4 < g.SectorColumns*minSectorSide {
			errs = append(errs, fmt.Errorf("generation.width %d too small for %d sector columns", g.Width, g.SectorColumns))
		}
		if g.Height-4 < g.SectorRows*minSectorSide {
			errs = append(errs, fmt.Errorf("generation.height %d too small for %d sector rows", g.Height, g.SectorRows))
		}
	}

	v := c.Viewer
	if v.TileSize < 1 {
		errs = append(errs, fmt.Errorf("viewer.tile_size %d must be positive", v.TileSize))
	}
	if v.LogLines < 0 || v.MapRows() < 1 || v.Width < 1 {
		errs = append(errs, fmt.Errorf("viewer %dx%d tiles leaves no room for the map with %d log lines", v.Width, v.Height, v.LogLines))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errors.Join(errs...)
}
