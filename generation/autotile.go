package generation

import (
	"slices"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
)

// resolveVariants picks the glyph of every tile that carries variant rules.
// Tiles are handled in ascending order of their highest rule precedence.
// Within a tile the rules are tried in ascending precedence and every match
// overrides the previous one, so the highest precedence match wins.
func resolveVariants(floor *dungeon.Floor, queue []placement) {
	slices.SortStableFunc(queue, func(a, b placement) int {
		return a.obj.Tile.MaxPrecedence() - b.obj.Tile.MaxPrecedence()
	})
	for _, p := range queue {
		applyVariant(p.obj.Tile, floor.TileNeighborhood(p.pos))
	}
}

// applyVariant sets the tile's glyph from the best matching rule. It
// returns false when no rule matched and the glyph was left alone.
func applyVariant(tile *components.Tile, around components.TileNeighborhood) bool {
	rules := slices.Clone(tile.Variants)
	slices.SortStableFunc(rules, func(a, b components.VariantRule) int {
		return a.Precedence - b.Precedence
	})
	matched := false
	for _, rule := range rules {
		if rule.Pattern.Matches(around) {
			tile.Glyph = rule.Glyph
			matched = true
		}
	}
	return matched
}
