package components

import "testing"

func centerOnly(rule TileRule) TileNeighborhood {
	var n TileNeighborhood
	n[1][1] = rule
	return n
}

func TestNeighborhoodCenterMismatch(t *testing.T) {
	rule := centerOnly(TileRule{Name: "Wall"})
	actual := centerOnly(TileRule{Name: "Ground"})
	if rule.Matches(actual) {
		t.Error("Wall rule should not match a Ground center")
	}
}

func TestNeighborhoodDifferent(t *testing.T) {
	rule := centerOnly(TileRule{Name: "Wall", Different: true})
	if !rule.Matches(centerOnly(TileRule{Name: "Ground"})) {
		t.Error("Different rule should match a differing tile")
	}
	if rule.Matches(centerOnly(TileRule{Name: "Wall"})) {
		t.Error("Different rule should reject an equal tile")
	}
}

func TestNeighborhoodWildcards(t *testing.T) {
	var rule TileNeighborhood
	rule[0][1] = TileRule{Name: "Wall"}
	rule[1][1] = TileRule{Name: "Wall"}

	var actual TileNeighborhood
	for y := 0; y < 3; y++ {
		for x := 0; x < 3; x++ {
			actual[y][x] = TileRule{Name: "Ground"}
		}
	}
	actual[0][1] = TileRule{Name: "Wall"}
	actual[1][1] = TileRule{Name: "Wall"}
	if !rule.Matches(actual) {
		t.Error("unset positions should act as wildcards")
	}

	// An unset actual position (out of bounds) never fails a rule
	actual[0][1] = TileRule{}
	if !rule.Matches(actual) {
		t.Error("unset actual position should act as a wildcard")
	}

	actual[0][1] = TileRule{Name: "Ground"}
	if rule.Matches(actual) {
		t.Error("north neighbor Ground should not match Wall")
	}
}

func TestMaxPrecedence(t *testing.T) {
	tile := &Tile{Variants: []VariantRule{{Precedence: 2}, {Precedence: 7}, {Precedence: -1}}}
	if got := tile.MaxPrecedence(); got != 7 {
		t.Errorf("MaxPrecedence = %d, want 7", got)
	}
	if (&Tile{}).MaxPrecedence() != 0 {
		t.Error("tile without variants should have precedence 0")
	}
}

func TestFloorConnectionOther(t *testing.T) {
	a := FloorID{Branch: "main", Depth: 1}
	b := FloorID{Branch: "main", Depth: 2}
	conn := NewFloorConnection(a, b)
	if conn.Other(a) != b || conn.Other(b) != a {
		t.Error("Other returned the wrong end")
	}
	if !conn.Touches(a) || conn.Touches(FloorID{Branch: "mines", Depth: 1}) {
		t.Error("Touches is wrong")
	}
	portal := NewPortal(conn, a)
	if portal.Destination != b || !portal.GoesDown(a) {
		t.Errorf("portal = %+v", portal)
	}
	if a.String() != "main:1" {
		t.Errorf("String = %q", a.String())
	}
}
