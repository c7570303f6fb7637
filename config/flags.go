package config

import "flag"

// Flags holds command-line overrides. Zero values leave the config untouched.
type Flags struct {
	Config     string
	Debug      bool
	Seed       int64
	Depth      int
	Width      int
	Height     int
	Tileset    string
	StartFloor string
	Fullscreen bool
	Terminal   bool
	Sprites    string
	LogFile    string
}

// Bind registers the flags on fs
func (f *Flags) Bind(fs *flag.FlagSet) {
	fs.StringVar(&f.Config, "config", "", "Path to config file")
	fs.BoolVar(&f.Debug, "debug", false, "Enable debug logging")
	fs.Int64Var(&f.Seed, "seed", 0, "Dungeon seed")
	fs.IntVar(&f.Depth, "depth", 0, "Number of floors")
	fs.IntVar(&f.Width, "width", 0, "Floor width in tiles")
	fs.IntVar(&f.Height, "height", 0, "Floor height in tiles")
	fs.StringVar(&f.Tileset, "tileset", "", "Tileset YAML file or directory")
	fs.StringVar(&f.StartFloor, "floor", "", "Floor to show first, as branch:depth")
	fs.BoolVar(&f.Fullscreen, "fullscreen", false, "Run in fullscreen mode")
	fs.BoolVar(&f.Terminal, "terminal", false, "Use the terminal inspector")
	fs.StringVar(&f.Sprites, "sprites", "", "CP437 sprite sheet PNG for the window inspector")
	fs.StringVar(&f.LogFile, "log", "", "Log file path")
}

// Parse binds the flags on a new FlagSet and parses args
func Parse(name string, args []string) (*Flags, error) {
	f := &Flags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f.Bind(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

// apply applies CLI flag overrides to the config.
func (f *Flags) apply(cfg *Config) {
	if f.Debug {
		cfg.Logging.Level = "debug"
	}
	if f.Seed != 0 {
		cfg.Generation.Seed = f.Seed
	}
	if f.Depth > 0 {
		cfg.Generation.Depth = f.Depth
	}
	if f.Width > 0 {
		cfg.Generation.Width = f.Width
	}
	if f.Height > 0 {
		cfg.Generation.Height = f.Height
	}
	if f.Tileset != "" {
		cfg.Generation.Tileset = f.Tileset
	}
	if f.StartFloor != "" {
		cfg.Generation.StartFloor = f.StartFloor
	}
	if f.Fullscreen {
		cfg.Viewer.Fullscreen = true
	}
	if f.Terminal {
		cfg.Viewer.Terminal = true
	}
	if f.Sprites != "" {
		cfg.Viewer.SpriteSheet = f.Sprites
	}
	if f.LogFile != "" {
		cfg.Logging.LogFile = f.LogFile
	}
}
