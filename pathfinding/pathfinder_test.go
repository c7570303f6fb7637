package pathfinding

import (
	"testing"

	"ebiten-floors/geometry"
)

// testCell is walkable when open, or always when the mover flies
type testCell struct {
	open  bool
	water bool
}

func (c testCell) IsWalkable(flying bool) bool {
	if c.water {
		return flying
	}
	return c.open
}

// gridFromRows builds a pathfinder from ASCII rows: '.' open, '#' wall, '~' water, ' ' no payload
func gridFromRows(rows ...string) *Pathfinder[testCell, bool] {
	pf := NewPathfinder[testCell, bool](len(rows[0]), len(rows))
	for y, row := range rows {
		for x, ch := range row {
			switch ch {
			case '.':
				pf.Update(geometry.C(x, y), testCell{open: true})
			case '#':
				pf.Update(geometry.C(x, y), testCell{})
			case '~':
				pf.Update(geometry.C(x, y), testCell{water: true})
			}
		}
	}
	return pf
}

func openGrid(w, h int) *Pathfinder[testCell, bool] {
	pf := NewPathfinder[testCell, bool](w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			pf.Update(geometry.C(x, y), testCell{open: true})
		}
	}
	return pf
}

func assertContinuous(t *testing.T, path *Path) {
	t.Helper()
	prev := path.Head
	for s := path.Head.Next; s != nil; s = s.Next {
		d := s.Pos.Sub(prev.Pos)
		if geometry.Abs(d.X) > 1 || geometry.Abs(d.Y) > 1 || (d.X == 0 && d.Y == 0) {
			t.Fatalf("invalid step %v -> %v", prev.Pos, s.Pos)
		}
		if s.Prev != prev {
			t.Fatalf("broken back link at %v", s.Pos)
		}
		prev = s
	}
	if prev != path.Tail {
		t.Fatal("tail does not match last step")
	}
}

func TestSearchOpenGridDiagonal(t *testing.T) {
	pf := openGrid(16, 16)
	path := pf.Search(geometry.C(0, 0), geometry.C(15, 15), false)
	if path == nil {
		t.Fatal("expected a path")
	}
	if path.Len() != 16 {
		t.Errorf("path length = %d, want 16", path.Len())
	}
	if path.Head.Pos != geometry.C(0, 0) || path.Tail.Pos != geometry.C(15, 15) {
		t.Errorf("endpoints %v -> %v", path.Head.Pos, path.Tail.Pos)
	}
	assertContinuous(t, path)
}

func TestSearchLengthIsChebyshev(t *testing.T) {
	pf := openGrid(20, 12)
	tests := []struct{ from, to geometry.Coord }{
		{geometry.C(0, 0), geometry.C(19, 0)},
		{geometry.C(3, 2), geometry.C(10, 11)},
		{geometry.C(19, 11), geometry.C(0, 5)},
	}
	for _, tt := range tests {
		path := pf.Search(tt.from, tt.to, false)
		d := tt.to.Sub(tt.from)
		want := max(geometry.Abs(d.X), geometry.Abs(d.Y)) + 1
		if path.Len() != want {
			t.Errorf("%v -> %v: length %d, want %d", tt.from, tt.to, path.Len(), want)
		}
	}
}

func TestSearchSameCell(t *testing.T) {
	pf := openGrid(4, 4)
	path := pf.Search(geometry.C(2, 2), geometry.C(2, 2), false)
	if path.Len() != 1 || path.Head != path.Tail {
		t.Errorf("expected single step path, got %v", path.Positions())
	}
}

func TestSearchAroundWall(t *testing.T) {
	pf := gridFromRows(
		".....",
		"####.",
		".....",
	)
	path := pf.Search(geometry.C(0, 0), geometry.C(0, 2), false)
	if path == nil {
		t.Fatal("expected a path around the wall")
	}
	for _, p := range path.Positions() {
		if p.Y == 1 && p.X < 4 {
			t.Fatalf("path crosses wall at %v", p)
		}
	}
	assertContinuous(t, path)
}

func TestSearchUnreachable(t *testing.T) {
	pf := gridFromRows(
		"..#..",
		"..#..",
		"..#..",
	)
	if path := pf.Search(geometry.C(0, 0), geometry.C(4, 2), false); path != nil {
		t.Errorf("expected nil path, got %v", path.Positions())
	}
	if path := pf.Search(geometry.C(0, 0), geometry.C(9, 9), false); path != nil {
		t.Error("expected nil path for out of bounds target")
	}
}

func TestSearchSkipsMissingPayload(t *testing.T) {
	pf := gridFromRows(
		"... ...",
	)
	if path := pf.Search(geometry.C(0, 0), geometry.C(6, 0), false); path != nil {
		t.Error("cells without payload should block")
	}
}

func TestSearchContextChangesWalkability(t *testing.T) {
	pf := gridFromRows(
		"..~..",
		"..~..",
		"..~..",
	)
	if pf.Search(geometry.C(0, 1), geometry.C(4, 1), false) != nil {
		t.Error("walker should not cross water")
	}
	path := pf.Search(geometry.C(0, 1), geometry.C(4, 1), true)
	if path == nil || path.Len() != 5 {
		t.Errorf("flyer should cross water in 5 steps, got %v", path.Positions())
	}
}

func TestUpdateReopensRoute(t *testing.T) {
	pf := gridFromRows(
		"..#..",
		"..#..",
		"..#..",
	)
	from, to := geometry.C(0, 1), geometry.C(4, 1)
	if pf.Search(from, to, false) != nil {
		t.Fatal("route should be closed")
	}
	pf.Update(geometry.C(2, 1), testCell{open: true})
	path := pf.Search(from, to, false)
	if path == nil {
		t.Fatal("route should open after update")
	}
	step := path.Head.Next.Next
	if payload, ok := pf.Payload(step.Index); !ok || !payload.open {
		t.Errorf("payload at %v = %+v", step.Pos, payload)
	}

	pf.Clear(geometry.C(2, 1))
	if pf.Search(from, to, false) != nil {
		t.Error("route should close after clear")
	}
}

func TestUpdateIsIdempotent(t *testing.T) {
	pf := openGrid(8, 8)
	pf.Search(geometry.C(0, 0), geometry.C(7, 7), false)

	pos := geometry.C(3, 3)
	before, _ := pf.Node(pos)
	pf.Update(pos, testCell{open: true})
	pf.Update(pos, testCell{open: true})
	after, _ := pf.Node(pos)

	if before.F != after.F || before.G != after.G || before.H != after.H {
		t.Errorf("scores changed: before %+v after %+v", before, after)
	}
	if !after.Present || !after.Payload.open {
		t.Errorf("payload lost: %+v", after)
	}
}

func TestSearchReusesArrays(t *testing.T) {
	pf := openGrid(10, 10)
	for i := 0; i < 5; i++ {
		path := pf.Search(geometry.C(0, 9), geometry.C(9, 0), false)
		if path.Len() != 10 {
			t.Fatalf("search %d: length %d", i, path.Len())
		}
	}
	if pf.Populated() != 100 {
		t.Errorf("Populated = %d", pf.Populated())
	}
}

func TestPathPopFront(t *testing.T) {
	var p Path
	p.PushFront(geometry.C(1, 0), 1)
	p.PushFront(geometry.C(0, 0), 0)
	if s := p.PopFront(); s.Pos != geometry.C(0, 0) {
		t.Errorf("PopFront = %v", s.Pos)
	}
	if p.Len() != 1 || p.Head != p.Tail || p.Head.Prev != nil {
		t.Error("list links broken after PopFront")
	}
	p.PopFront()
	if p.PopFront() != nil || p.Tail != nil {
		t.Error("empty path should return nil")
	}
}
