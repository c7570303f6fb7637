package generation

import (
	"math/rand"
	"testing"

	"ebiten-floors/components"
	"ebiten-floors/geometry"
)

var testFloor = components.FloorID{Branch: "test", Depth: 1}

func connector(a, b, normal geometry.Coord) *RoomConnector {
	return &RoomConnector{Edge: geometry.NewEdge(a, b), Normal: normal}
}

// along returns the point n steps from p following the wall with the given normal
func along(p, normal geometry.Coord, n int) geometry.Coord {
	d := geometry.Rotate90(normal)
	return geometry.C(p.X+d.X*n, p.Y+d.Y*n)
}

func assertOrthogonalPath(t *testing.T, c *Corridor) {
	t.Helper()
	pts := c.Points
	if pts[0] != c.Start.Midpoint() || pts[len(pts)-1] != c.End.Midpoint() {
		t.Fatalf("path %v does not join %v and %v", pts, c.Start.Midpoint(), c.End.Midpoint())
	}
	for i := 1; i < len(pts); i++ {
		if geometry.DistanceSquared(pts[i-1], pts[i]) != 1 {
			t.Fatalf("non orthogonal step %v -> %v in %v", pts[i-1], pts[i], pts)
		}
	}
}

func TestCorridorFacingWalls(t *testing.T) {
	// East wall of a left room, west wall of a right room at another height
	a := connector(geometry.C(5, 2), geometry.C(5, 6), geometry.C(1, 0))
	b := connector(geometry.C(15, 10), geometry.C(15, 14), geometry.C(-1, 0))
	c := NewCorridor(a, b)
	assertOrthogonalPath(t, c)
	if !a.IsUsed || !b.IsUsed {
		t.Error("connectors should be marked used")
	}
	// Turns halfway between the stubs
	turned := false
	for _, p := range c.Points {
		if p.X == 10 && p.Y == 8 {
			turned = true
		}
	}
	if !turned {
		t.Errorf("expected a vertical run at x=10, got %v", c.Points)
	}
}

func TestCorridorPerpendicularWalls(t *testing.T) {
	a := connector(geometry.C(5, 2), geometry.C(5, 4), geometry.C(1, 0))
	b := connector(geometry.C(10, 12), geometry.C(12, 12), geometry.C(0, -1))
	c := NewCorridor(a, b)
	assertOrthogonalPath(t, c)
	corner := geometry.C(11, 3)
	found := false
	for _, p := range c.Points {
		if p == corner {
			found = true
		}
	}
	if !found {
		t.Errorf("path %v should bend at %v", c.Points, corner)
	}
}

func TestCorridorSameFacing(t *testing.T) {
	a := connector(geometry.C(2, 5), geometry.C(4, 5), geometry.C(0, -1))
	b := connector(geometry.C(12, 2), geometry.C(14, 2), geometry.C(0, -1))
	c := NewCorridor(a, b)
	assertOrthogonalPath(t, c)
	for _, p := range c.Points {
		if p.Y > 5 {
			t.Errorf("corridor dips below its starting wall at %v", p)
		}
	}
}

func TestCorridorRoutesAreAlwaysOrthogonal(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		na := geometry.Cardinals[rng.Intn(4)]
		nb := geometry.Cardinals[rng.Intn(4)]
		pa := geometry.C(rng.Intn(40), rng.Intn(40))
		pb := geometry.C(rng.Intn(40), rng.Intn(40))
		if pa == pb {
			continue
		}
		a := connector(pa, along(pa, na, rng.Intn(4)), na)
		b := connector(pb, along(pb, nb, rng.Intn(4)), nb)
		assertOrthogonalPath(t, NewCorridor(a, b))
	}
}

func TestCorridorThickness(t *testing.T) {
	narrow := NewCorridor(
		connector(geometry.C(5, 2), geometry.C(5, 4), geometry.C(1, 0)),
		connector(geometry.C(15, 2), geometry.C(15, 12), geometry.C(-1, 0)))
	if narrow.Thickness != 1 {
		t.Errorf("thickness = %d, want 1", narrow.Thickness)
	}
	wide := NewCorridor(
		connector(geometry.C(5, 2), geometry.C(5, 9), geometry.C(1, 0)),
		connector(geometry.C(15, 2), geometry.C(15, 12), geometry.C(-1, 0)))
	if wide.Thickness != 2 {
		t.Errorf("thickness = %d, want 2", wide.Thickness)
	}
}

func TestCorridorDrawDoors(t *testing.T) {
	doors := 0
	ends := 0
	for seed := int64(0); seed < 300; seed++ {
		ctx := NewFloorGenerationContext(testFloor, geometry.C(30, 20), rand.New(rand.NewSource(seed)))
		c := NewCorridor(
			connector(geometry.C(5, 2), geometry.C(5, 4), geometry.C(1, 0)),
			connector(geometry.C(15, 8), geometry.C(15, 10), geometry.C(-1, 0)))
		if err := c.Draw(ctx, DefaultPalette()); err != nil {
			t.Fatal(err)
		}
		for _, p := range c.Points {
			if def, ok := ctx.TileAt(p); !ok || !def.Walkable {
				t.Fatalf("corridor point %v not carved", p)
			}
		}
		ends += 2
		doors += len(ctx.ObjectsAt(c.Start.Midpoint())) + len(ctx.ObjectsAt(c.End.Midpoint()))
	}
	ratio := float64(doors) / float64(ends)
	if ratio < 0.25 || ratio > 0.42 {
		t.Errorf("door ratio = %.2f, want about 1/3", ratio)
	}
}

func TestCorridorDoorSkipsOccupiedEnd(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		ctx := NewFloorGenerationContext(testFloor, geometry.C(30, 20), rand.New(rand.NewSource(seed)))
		a := connector(geometry.C(5, 2), geometry.C(5, 4), geometry.C(1, 0))
		b := connector(geometry.C(15, 8), geometry.C(15, 10), geometry.C(-1, 0))
		if err := ctx.AddObject(ObjectDef{Pos: a.Midpoint(), Name: "statue"}); err != nil {
			t.Fatal(err)
		}
		if err := NewCorridor(a, b).Draw(ctx, DefaultPalette()); err != nil {
			t.Fatal(err)
		}
		if n := len(ctx.ObjectsAt(a.Midpoint())); n != 1 {
			t.Fatalf("seed %d: %d objects on occupied end", seed, n)
		}
	}
}
