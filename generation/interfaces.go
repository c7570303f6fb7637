package generation

import (
	"image/color"

	"ebiten-floors/components"
	"ebiten-floors/ecs"
	"ebiten-floors/geometry"
)

// FloorGenerator lays out one floor by declaring tiles and objects on the context.
// Implementations must draw every random choice from ctx.Rng.
type FloorGenerator interface {
	Generate(ctx *FloorGenerationContext) error
}

// FloorGeneratorFunc adapts a function to FloorGenerator
type FloorGeneratorFunc func(ctx *FloorGenerationContext) error

// Generate calls fn(ctx)
func (fn FloorGeneratorFunc) Generate(ctx *FloorGenerationContext) error {
	return fn(ctx)
}

// StairFactory builds the feature for one end of a stair link
type StairFactory func(pos geometry.Coord, portal *components.Portal, kind components.FeatureKind) *components.Feature

// Palette supplies the basic pieces layout code draws with
type Palette struct {
	Ground TileFactory
	Wall   TileFactory
	Door   ObjectFactory
	Stairs StairFactory
}

// Tile names used by the default palette and layout code
const (
	GroundName = "Ground"
	WallName   = "Wall"
)

// DefaultPalette returns plain ASCII tiles with no autotile variants
func DefaultPalette() Palette {
	return Palette{
		Ground: func(geometry.Coord) *components.Tile {
			return components.NewTile(GroundName, '.', color.RGBA{120, 120, 120, 255}, true, false)
		},
		Wall: func(geometry.Coord) *components.Tile {
			return components.NewTile(WallName, '#', color.RGBA{200, 200, 200, 255}, false, true)
		},
		Door: func(geometry.Coord) components.Object {
			return components.FeatureObject(&components.Feature{
				ID:             ecs.NewEntityID(),
				Name:           "door",
				Kind:           components.FeatureDoor,
				Glyph:          '+',
				FG:             color.RGBA{139, 69, 19, 255},
				BlocksMovement: true,
				BlocksLight:    true,
			})
		},
		Stairs: DefaultStairs,
	}
}

// DefaultStairs builds a bare stair feature
func DefaultStairs(pos geometry.Coord, portal *components.Portal, kind components.FeatureKind) *components.Feature {
	glyph := '<'
	if kind == components.FeatureDownstairs {
		glyph = '>'
	}
	return &components.Feature{
		ID:     ecs.NewEntityID(),
		Name:   kind.String(),
		Kind:   kind,
		Glyph:  glyph,
		FG:     color.RGBA{255, 255, 0, 255},
		Portal: portal,
	}
}

// groundDef declares a walkable ground tile
func (p Palette) groundDef(pos geometry.Coord) TileDef {
	return TileDef{Pos: pos, Name: GroundName, Walkable: true, Build: p.Ground}
}

// wallDef declares a wall tile
func (p Palette) wallDef(pos geometry.Coord) TileDef {
	return TileDef{Pos: pos, Name: WallName, Build: p.Wall}
}
