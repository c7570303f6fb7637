package data

import (
	"errors"
	"fmt"
	"image/color"
	"unicode/utf8"
)

// ErrUnknownTemplate is returned when a template id is not loaded
var ErrUnknownTemplate = errors.New("unknown template")

// TileTemplate describes a terrain tile: its physics, looks and autotile variants
type TileTemplate struct {
	Name        string            `yaml:"name"`
	Glyph       string            `yaml:"glyph"`
	Color       string            `yaml:"color"`      // Foreground in hex format (e.g. "#00FF00")
	Background  string            `yaml:"background"` // Optional background
	Walkable    bool              `yaml:"walkable"`
	BlocksLight bool              `yaml:"blocks_light"`
	Variants    []VariantTemplate `yaml:"variants"`
}

// VariantTemplate swaps a tile's glyph when the 3x3 pattern around it matches.
// Pattern entries are tile names, "*" for anything and "!Name" for anything
// but Name.
type VariantTemplate struct {
	Precedence int          `yaml:"precedence"`
	Glyph      string       `yaml:"glyph"`
	Pattern    [][]string `yaml:"pattern"` // 3 rows of 3 entries
}

// FeatureTemplate describes a fixture such as a door or a stair
type FeatureTemplate struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Kind           string `yaml:"kind"` // "generic", "door", "upstairs" or "downstairs"
	Glyph          string `yaml:"glyph"`
	Color          string `yaml:"color"`
	BlocksMovement bool   `yaml:"blocks_movement"`
	BlocksLight    bool   `yaml:"blocks_light"`
	Open           bool   `yaml:"open"`
}

// ItemTemplate defines a template for creating items
type ItemTemplate struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	ItemType    string   `yaml:"item_type"` // "weapon", "armor", "potion", ...
	Glyph       string   `yaml:"glyph"`
	Color       string   `yaml:"color"`
	Value       int      `yaml:"value"`
	Weight      int      `yaml:"weight"`
	Tags        []string `yaml:"tags"`
	SpawnWeight int      `yaml:"spawn_weight"` // Relative chance in loot rolls
}

// EntityTemplate represents a template for creating actors (monsters, NPCs, etc.)
type EntityTemplate struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Description  string   `yaml:"description"`
	Glyph        string   `yaml:"glyph"`
	Color        string   `yaml:"color"`
	Flying       bool     `yaml:"flying"`
	OpensDoors   bool     `yaml:"opens_doors"`
	VisionRadius int      `yaml:"vision_radius"`
	Tags         []string `yaml:"tags"` // e.g. "enemy", "npc", "boss"
	SpawnWeight  int      `yaml:"spawn_weight"`
}

// Tileset is the on-disk layout of a template file. Every section is optional.
type Tileset struct {
	Tiles    []TileTemplate    `yaml:"tiles"`
	Features []FeatureTemplate `yaml:"features"`
	Items    []ItemTemplate    `yaml:"items"`
	Entities []EntityTemplate  `yaml:"entities"`
}

// ValidateTileTemplate ensures that the tile template has all required fields
func ValidateTileTemplate(t *TileTemplate) error {
	if t.Name == "" {
		return fmt.Errorf("tile template missing name")
	}
	if utf8.RuneCountInString(t.Glyph) != 1 {
		return fmt.Errorf("tile template '%s' glyph %q must be one character", t.Name, t.Glyph)
	}
	for i, v := range t.Variants {
		if utf8.RuneCountInString(v.Glyph) != 1 {
			return fmt.Errorf("tile template '%s' variant %d glyph %q must be one character", t.Name, i, v.Glyph)
		}
		if len(v.Pattern) != 3 {
			return fmt.Errorf("tile template '%s' variant %d pattern needs 3 rows", t.Name, i)
		}
		for _, row := range v.Pattern {
			if len(row) != 3 {
				return fmt.Errorf("tile template '%s' variant %d pattern rows need 3 entries", t.Name, i)
			}
		}
	}
	return nil
}

// ValidateFeatureTemplate ensures that the feature template has all required fields
func ValidateFeatureTemplate(t *FeatureTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("feature template missing ID")
	}
	switch t.Kind {
	case "", "generic", "door", "upstairs", "downstairs":
	default:
		return fmt.Errorf("feature template '%s' has unknown kind %q", t.ID, t.Kind)
	}
	if utf8.RuneCountInString(t.Glyph) != 1 {
		return fmt.Errorf("feature template '%s' glyph %q must be one character", t.ID, t.Glyph)
	}
	return nil
}

// ValidateItemTemplate ensures that the item template has all required fields
func ValidateItemTemplate(t *ItemTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("item template missing ID")
	}
	if t.Name == "" {
		return fmt.Errorf("item template '%s' missing name", t.ID)
	}
	if t.ItemType == "" {
		return fmt.Errorf("item template '%s' missing item_type", t.ID)
	}
	return nil
}

// ValidateEntityTemplate ensures that the entity template has all required fields
func ValidateEntityTemplate(t *EntityTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("entity template missing ID")
	}
	if t.Name == "" {
		return fmt.Errorf("entity template '%s' missing name", t.ID)
	}
	if utf8.RuneCountInString(t.Glyph) != 1 {
		return fmt.Errorf("entity template '%s' glyph %q must be one character", t.ID, t.Glyph)
	}
	return nil
}

// ParseHexColor converts a hex string to a color.RGBA
func ParseHexColor(hex string) (c color.RGBA) {
	c.A = 0xff

	if len(hex) < 7 {
		return
	}

	_, err := fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	if err != nil {
		return color.RGBA{255, 255, 255, 255} // Default white on error
	}

	return
}

// ParseGlyph returns the first character of s, or '?' when s is empty
func ParseGlyph(s string) rune {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return '?'
	}
	return r
}
