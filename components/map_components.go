package components

import (
	"image/color"

	"ebiten-floors/ecs"
)

// Tile is the ground layer of a map cell. Every cell owns exactly one tile.
type Tile struct {
	ID          ecs.EntityID
	Name        string        // Tile type name, matched by neighborhood rules
	Glyph       rune          // The character drawn for the tile
	FG          color.RGBA    // Foreground color
	BG          color.RGBA    // Background color
	Walkable    bool          // Whether actors can stand on the tile
	BlocksLight bool          // Whether the tile stops line of sight
	Variants    []VariantRule // Autotile rules, resolved once when the floor is built
}

// NewTile creates a new tile with a fresh entity id
func NewTile(name string, glyph rune, fg color.RGBA, walkable, blocksLight bool) *Tile {
	return &Tile{
		ID:          ecs.NewEntityID(),
		Name:        name,
		Glyph:       glyph,
		FG:          fg,
		Walkable:    walkable,
		BlocksLight: blocksLight,
	}
}

// Clone returns a copy of the tile with its own entity id. Variant rules are shared.
func (t *Tile) Clone() *Tile {
	c := *t
	c.ID = ecs.NewEntityID()
	return &c
}

// HasVariants reports whether the tile needs autotile resolution
func (t *Tile) HasVariants() bool {
	return len(t.Variants) > 0
}

// MaxPrecedence returns the highest precedence among the tile's variant rules
func (t *Tile) MaxPrecedence() int {
	best := 0
	for i, v := range t.Variants {
		if i == 0 || v.Precedence > best {
			best = v.Precedence
		}
	}
	return best
}

// FeatureKind tells generation and movement code what a feature is
type FeatureKind int

// Feature kinds
const (
	FeatureGeneric FeatureKind = iota
	FeatureDoor
	FeatureUpstairs
	FeatureDownstairs
)

// String returns a readable name for the kind
func (k FeatureKind) String() string {
	switch k {
	case FeatureDoor:
		return "door"
	case FeatureUpstairs:
		return "upstairs"
	case FeatureDownstairs:
		return "downstairs"
	}
	return "feature"
}

// Feature is a fixed object standing on a cell: doors, stairs, altars
type Feature struct {
	ID             ecs.EntityID
	Name           string
	Kind           FeatureKind
	Glyph          rune
	FG             color.RGBA
	BlocksMovement bool    // Solid unless Open (doors) or the mover can pass
	BlocksLight    bool    // Opaque unless Open
	Open           bool    // Only meaningful for doors
	Portal         *Portal // Set for stairs
}

// IsStair reports whether the feature links to another floor
func (f *Feature) IsStair() bool {
	return f.Kind == FeatureUpstairs || f.Kind == FeatureDownstairs
}

// Item is something lying on the floor that can be picked up
type Item struct {
	ID    ecs.EntityID
	Name  string
	Glyph rune
	FG    color.RGBA
}

// Actor is anything that moves around and sees: the player and monsters
type Actor struct {
	ID           ecs.EntityID
	Name         string
	Glyph        rune
	FG           color.RGBA
	Flying       bool
	OpensDoors   bool
	VisionRadius int
}
