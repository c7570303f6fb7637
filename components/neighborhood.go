package components

// TileRule constrains one position of a 3x3 neighborhood. An empty Name
// leaves the position unset, which matches anything.
type TileRule struct {
	Name      string
	Different bool // Match when the tile name is anything but Name
}

// IsSet reports whether the rule names a tile
func (r TileRule) IsSet() bool {
	return r.Name != ""
}

// TileNeighborhood is a 3x3 grid of rules indexed [y][x], with the tile
// itself at [1][1]
type TileNeighborhood [3][3]TileRule

// Matches compares two neighborhoods position by position. Positions unset
// on either side are wildcards. Where both are set the names must be equal,
// or must differ when either rule has Different set.
func (n TileNeighborhood) Matches(other TileNeighborhood) bool {
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			a, b := n[y][x], other[y][x]
			if !a.IsSet() || !b.IsSet() {
				continue
			}
			equal := a.Name == b.Name
			if a.Different || b.Different {
				if equal {
					return false
				}
			} else if !equal {
				return false
			}
		}
	}
	return true
}

// Center returns the rule for the tile itself
func (n TileNeighborhood) Center() TileRule {
	return n[1][1]
}

// VariantRule swaps a tile's glyph when its neighborhood matches Pattern.
// Rules are applied in ascending Precedence so the highest match wins.
type VariantRule struct {
	Pattern    TileNeighborhood
	Precedence int
	Glyph      rune
}
