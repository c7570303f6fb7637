package config

// Screen layout defaults
const (
	// Tile size in pixels
	TileSize = 16

	// Window dimensions in tiles
	ScreenWidth  = 64
	ScreenHeight = 48

	// Rows kept below the map for the message log
	LogRows = 6
)

// ViewerConfig holds the floor inspector's display settings
type ViewerConfig struct {
	TileSize    int    `yaml:"tile_size"`    // Pixels per tile side
	Width       int    `yaml:"width"`        // Window width in tiles
	Height      int    `yaml:"height"`       // Window height in tiles
	Fullscreen  bool   `yaml:"fullscreen"`   // Start in fullscreen
	Terminal    bool   `yaml:"terminal"`     // Use the terminal inspector instead of a window
	ShowFOV     bool   `yaml:"show_fov"`     // Shade tiles outside the player's view
	LogLines    int    `yaml:"log_lines"`    // Message log rows
	SpriteSheet string `yaml:"sprite_sheet"` // CP437 PNG sheet, 16 tiles across. Empty uses the debug font.
}

// MapRows returns the number of tile rows left for the map
func (v ViewerConfig) MapRows() int {
	return v.Height - v.LogLines
}

// WindowSize returns the window dimensions in pixels
func (v ViewerConfig) WindowSize() (width, height int) {
	return v.Width * v.TileSize, v.Height * v.TileSize
}
