package dungeon

import (
	"errors"
	"testing"

	"ebiten-floors/components"
	"ebiten-floors/ecs"
	"ebiten-floors/geometry"
)

func TestSetTileThenGetCell(t *testing.T) {
	f := NewFloor(testFloorID, geometry.C(6, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 6; x++ {
			pos := geometry.C(x, y)
			tile := groundTile()
			if err := f.SetTile(pos, tile); err != nil {
				t.Fatalf("SetTile(%v): %v", pos, err)
			}
			cell, ok := f.TryGetCellAt(pos)
			if !ok || cell.Tile != tile || cell.Pos != pos {
				t.Fatalf("cell at %v = %+v, want tile %p", pos, cell, tile)
			}
		}
	}
}

func TestSetTileOutOfBounds(t *testing.T) {
	f := NewFloor(testFloorID, geometry.C(4, 4))
	for _, pos := range []geometry.Coord{geometry.C(-1, 0), geometry.C(4, 0), geometry.C(0, 4)} {
		if err := f.SetTile(pos, groundTile()); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("SetTile(%v) = %v, want ErrOutOfBounds", pos, err)
		}
	}
	if _, ok := f.TryGetCellAt(geometry.C(9, 9)); ok {
		t.Error("TryGetCellAt out of bounds should fail")
	}
}

func TestAddContentRequiresCell(t *testing.T) {
	f := NewFloor(testFloorID, geometry.C(4, 4))
	if err := f.AddItem(geometry.C(1, 1), &components.Item{Name: "coin"}); !errors.Is(err, ErrNoCell) {
		t.Errorf("AddItem on empty position = %v, want ErrNoCell", err)
	}
}

func TestTileEventCarriesOldAndNew(t *testing.T) {
	f := floorFromRows(t, "...")
	var got []TileChangedEvent
	f.Events().Subscribe(EventTileChanged, func(e ecs.Event) {
		got = append(got, e.(TileChangedEvent))
	})
	cell, _ := f.TryGetCellAt(geometry.C(1, 0))
	old := cell.Tile
	wall := wallTile()
	if err := f.SetTile(geometry.C(1, 0), wall); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Old != old || got[0].New != wall || got[0].Pos != geometry.C(1, 0) {
		t.Errorf("events = %+v", got)
	}
}

func TestActorLifecycleEvents(t *testing.T) {
	f := floorFromRows(t, "....")
	var types []ecs.EventType
	for _, et := range []ecs.EventType{EventActorAdded, EventActorMoved, EventActorRemoved} {
		f.Events().Subscribe(et, func(e ecs.Event) { types = append(types, e.Type()) })
	}

	hero := newActor("hero", 4)
	if err := f.AddActor(geometry.C(0, 0), hero); err != nil {
		t.Fatal(err)
	}
	if err := f.AddActor(geometry.C(1, 0), hero); !errors.Is(err, ErrAlreadyPlaced) {
		t.Errorf("second AddActor = %v", err)
	}
	if err := f.MoveActor(hero, geometry.C(3, 0)); err != nil {
		t.Fatal(err)
	}
	if got := f.GetActorsAt(geometry.C(3, 0)); len(got) != 1 || got[0] != hero {
		t.Errorf("actors at destination = %v", got)
	}
	if len(f.GetActorsAt(geometry.C(0, 0))) != 0 {
		t.Error("actor still at origin")
	}
	if err := f.RemoveActor(hero); err != nil {
		t.Fatal(err)
	}
	if len(f.GetAllActors()) != 0 {
		t.Error("actor still on floor")
	}
	if err := f.RemoveActor(hero); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveActor = %v", err)
	}

	want := []ecs.EventType{EventActorAdded, EventActorMoved, EventActorRemoved}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %s, want %s", i, types[i], want[i])
		}
	}
}

func TestItemsAndFeatures(t *testing.T) {
	f := floorFromRows(t, "...")
	coin := &components.Item{ID: ecs.NewEntityID(), Name: "coin"}
	pos := geometry.C(2, 0)
	if err := f.AddItem(pos, coin); err != nil {
		t.Fatal(err)
	}
	if items := f.GetItemsAt(pos); len(items) != 1 || items[0] != coin {
		t.Errorf("items = %v", items)
	}
	if err := f.RemoveItem(pos, coin); err != nil {
		t.Fatal(err)
	}
	if err := f.RemoveItem(pos, coin); !errors.Is(err, ErrNotFound) {
		t.Errorf("second RemoveItem = %v", err)
	}

	altar := &components.Feature{Name: "altar", BlocksMovement: true}
	if err := f.AddFeature(pos, altar); err != nil {
		t.Fatal(err)
	}
	cell, _ := f.TryGetCellAt(pos)
	if cell.IsWalkable(Mobility{}) {
		t.Error("blocking feature should make the cell unwalkable")
	}
	if err := f.RemoveFeature(pos, altar); err != nil {
		t.Fatal(err)
	}
	if !cell.IsWalkable(Mobility{}) {
		t.Error("cell should be walkable after removing the feature")
	}
}

func TestReentrantMutationRejected(t *testing.T) {
	f := floorFromRows(t, "...")
	var inner error
	f.Events().Subscribe(EventTileChanged, func(e ecs.Event) {
		inner = f.SetTile(geometry.C(0, 0), wallTile())
	})
	if err := f.SetTile(geometry.C(1, 0), wallTile()); err != nil {
		t.Fatal(err)
	}
	if !errors.Is(inner, ErrReentrantMutation) {
		t.Errorf("inner mutation = %v, want ErrReentrantMutation", inner)
	}
	cell, _ := f.TryGetCellAt(geometry.C(0, 0))
	if cell.Tile.Name != "Ground" {
		t.Error("re-entrant mutation should not apply")
	}
}

func TestPathfinderFollowsMutations(t *testing.T) {
	f := floorFromRows(t,
		"..#..",
		"..#..",
		"..#..",
	)
	from, to := geometry.C(0, 1), geometry.C(4, 1)
	if f.FindPath(from, to, Mobility{}) != nil {
		t.Fatal("wall should block")
	}

	door := closedDoor()
	if err := f.SetTile(geometry.C(2, 1), groundTile()); err != nil {
		t.Fatal(err)
	}
	if err := f.AddFeature(geometry.C(2, 1), door); err != nil {
		t.Fatal(err)
	}
	if f.FindPath(from, to, Mobility{}) != nil {
		t.Error("closed door should block walkers")
	}
	if f.FindPath(from, to, Mobility{OpensDoors: true}) == nil {
		t.Error("door opener should pass")
	}
	if err := f.SetDoorOpen(geometry.C(2, 1), door, true); err != nil {
		t.Fatal(err)
	}
	path := f.Pathfinder().Search(from, to, Mobility{})
	if path == nil || path.Head.Pos != from || path.Tail.Pos != to {
		t.Fatalf("open door path = %v", path.Positions())
	}
}

func TestFlyingCrossesWater(t *testing.T) {
	f := floorFromRows(t, "..~..")
	if f.FindPath(geometry.C(0, 0), geometry.C(4, 0), Mobility{}) != nil {
		t.Error("walker crossed water")
	}
	if f.FindPath(geometry.C(0, 0), geometry.C(4, 0), Mobility{Flying: true}) == nil {
		t.Error("flyer should cross water")
	}
}

func TestGetNeighborhood(t *testing.T) {
	f := floorFromRows(t,
		"#.",
		"..",
	)
	slots := f.GetNeighborhood(geometry.C(0, 0), 3, true)
	if len(slots) != 9 {
		t.Fatalf("len = %d, want 9", len(slots))
	}
	if slots[0].Pos != geometry.C(-1, -1) || slots[0].Cell != nil {
		t.Errorf("first slot = %+v", slots[0])
	}
	if slots[4].Cell == nil || slots[4].Cell.Tile.Name != "Wall" {
		t.Errorf("center slot = %+v", slots[4])
	}
	if got := len(f.GetNeighborhood(geometry.C(0, 0), 3, false)); got != 4 {
		t.Errorf("without nulls len = %d, want 4", got)
	}

	n := f.TileNeighborhood(geometry.C(0, 0))
	if n[1][1].Name != "Wall" || n[1][2].Name != "Ground" || n[0][0].IsSet() {
		t.Errorf("neighborhood = %+v", n)
	}
}

func TestTryGetClosestFreeTile(t *testing.T) {
	f := floorFromRows(t,
		"#####",
		"#...#",
		"#####",
	)
	blocker := newActor("blocker", 0)
	if err := f.AddActor(geometry.C(1, 1), blocker); err != nil {
		t.Fatal(err)
	}
	pos, ok := f.TryGetClosestFreeTile(geometry.C(1, 1), Mobility{})
	if !ok || pos != geometry.C(2, 1) {
		t.Errorf("closest free = %v, %v", pos, ok)
	}

	full := floorFromRows(t, "###")
	if _, ok := full.TryGetClosestFreeTile(geometry.C(1, 0), Mobility{}); ok {
		t.Error("expected no free tile")
	}
}

func TestReset(t *testing.T) {
	f := floorFromRows(t, "+..")
	hero := newActor("hero", 3)
	if err := f.AddActor(geometry.C(2, 0), hero); err != nil {
		t.Fatal(err)
	}
	if err := f.AddItem(geometry.C(1, 0), &components.Item{Name: "coin"}); err != nil {
		t.Fatal(err)
	}
	f.SpawnPoints = []geometry.Coord{geometry.C(1, 0)}

	removed := 0
	for _, et := range []ecs.EventType{EventActorRemoved, EventItemRemoved, EventFeatureRemoved} {
		f.Events().Subscribe(et, func(ecs.Event) { removed++ })
	}
	if err := f.Reset(); err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("removal events = %d, want 3", removed)
	}
	if len(f.GetAllActors()) != 0 || len(f.Features()) != 0 {
		t.Error("floor not empty after reset")
	}
	if len(f.SpawnPoints) != 1 || f.SpawnPoints[0] != geometry.C(1, 0) {
		t.Errorf("spawn points after reset = %v", f.SpawnPoints)
	}
	if cell, ok := f.TryGetCellAt(geometry.C(0, 0)); !ok || cell.Tile == nil {
		t.Error("tiles should survive reset")
	}
}
