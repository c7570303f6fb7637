package spawners

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"ebiten-floors/components"
	"ebiten-floors/data"
	"ebiten-floors/generation"
	"ebiten-floors/geometry"
)

func defaultSpawner(t *testing.T) *ObjectSpawner {
	t.Helper()
	templates, err := data.LoadDefault()
	if err != nil {
		t.Fatal(err)
	}
	return NewObjectSpawner(templates)
}

func TestNewTileParsesVariants(t *testing.T) {
	s := defaultSpawner(t)
	a, err := s.NewTile("Wall")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := s.NewTile("Wall")
	if a == b || a.ID == b.ID {
		t.Error("each call should build a distinct tile")
	}
	if !a.HasVariants() || a.MaxPrecedence() != 3 {
		t.Errorf("variants = %+v", a.Variants)
	}
	corner := a.Variants[2].Pattern
	if corner[0][1] != (components.TileRule{Name: "Wall", Different: true}) {
		t.Errorf("corner north rule = %+v", corner[0][1])
	}
	if corner[0][0].IsSet() {
		t.Error("'*' should leave the position unset")
	}
	if a.Glyph != '#' || a.Walkable || !a.BlocksLight {
		t.Errorf("wall tile = %+v", a)
	}
}

func TestParsePattern(t *testing.T) {
	n := ParsePattern([][]string{
		{"", "Ground", "*"},
		{"!Water"},
	})
	if n[0][1].Name != "Ground" || n[0][1].Different {
		t.Errorf("n[0][1] = %+v", n[0][1])
	}
	if n[1][0].Name != "Water" || !n[1][0].Different {
		t.Errorf("n[1][0] = %+v", n[1][0])
	}
	if n[0][0].IsSet() || n[0][2].IsSet() || n[2][2].IsSet() {
		t.Error("missing and wildcard entries should be unset")
	}
}

func TestUnknownTemplates(t *testing.T) {
	s := defaultSpawner(t)
	if _, err := s.NewTile("Lava"); !errors.Is(err, data.ErrUnknownTemplate) {
		t.Errorf("NewTile err = %v", err)
	}
	if _, err := s.ItemFactory("amulet"); !errors.Is(err, data.ErrUnknownTemplate) {
		t.Errorf("ItemFactory err = %v", err)
	}
	if _, err := s.ActorFactory("dragon"); !errors.Is(err, data.ErrUnknownTemplate) {
		t.Errorf("ActorFactory err = %v", err)
	}
	if _, err := NewObjectSpawner(data.NewTemplateManager()).Palette(); !errors.Is(err, data.ErrUnknownTemplate) {
		t.Errorf("Palette err = %v", err)
	}
}

func TestFactoriesBuildTheRightKind(t *testing.T) {
	s := defaultSpawner(t)
	door, _ := s.FeatureFactory("door")
	potion, _ := s.ItemFactory("health_potion")
	bat, _ := s.ActorFactory("bat")

	if obj := door(geometry.C(0, 0)); obj.Kind != components.ObjectFeature || obj.Feature.Kind != components.FeatureDoor || !obj.Feature.BlocksMovement {
		t.Errorf("door = %+v", obj)
	}
	if obj := potion(geometry.C(0, 0)); obj.Kind != components.ObjectItem || obj.Item.Glyph != '!' {
		t.Errorf("potion = %+v", obj)
	}
	if obj := bat(geometry.C(0, 0)); obj.Kind != components.ObjectActor || !obj.Actor.Flying {
		t.Errorf("bat = %+v", obj)
	}
}

func TestStairs(t *testing.T) {
	s := defaultSpawner(t)
	up := components.FloorID{Branch: "main", Depth: 1}
	down := components.FloorID{Branch: "main", Depth: 2}
	portal := components.NewPortal(components.NewFloorConnection(up, down), up)

	f := s.Stairs(geometry.C(1, 1), portal, components.FeatureDownstairs)
	if f.Glyph != '>' || f.Kind != components.FeatureDownstairs || f.Portal != portal {
		t.Errorf("stair = %+v", f)
	}

	bare := NewObjectSpawner(data.NewTemplateManager())
	if f := bare.Stairs(geometry.C(1, 1), portal, components.FeatureUpstairs); f.Glyph != '<' || f.Portal != portal {
		t.Errorf("fallback stair = %+v", f)
	}
}

func TestPlayer(t *testing.T) {
	if p := defaultSpawner(t).Player(); p.Glyph != '@' || !p.OpensDoors || p.VisionRadius != 8 {
		t.Errorf("player = %+v", p)
	}
	if p := NewObjectSpawner(data.NewTemplateManager()).Player(); p.Glyph != '@' {
		t.Errorf("fallback player = %+v", p)
	}
}

func TestLootTable(t *testing.T) {
	table := NewLootTable([]LootTableEntry{
		{TemplateID: "gold", Weight: 10, MinCount: 2, MaxCount: 4},
		{TemplateID: "never", Weight: 0, MinCount: 1, MaxCount: 1},
	})
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		ids := table.Roll(rng)
		if len(ids) < 2 || len(ids) > 4 {
			t.Fatalf("rolled %v", ids)
		}
		for _, id := range ids {
			if id != "gold" {
				t.Fatalf("rolled %q", id)
			}
		}
		if id, ok := table.Pick(rng); !ok || id != "gold" {
			t.Fatalf("Pick = %q, %v", id, ok)
		}
	}

	empty := NewLootTable(nil)
	if empty.Roll(rng) != nil {
		t.Error("empty table dropped something")
	}
	if _, ok := empty.Pick(rng); ok {
		t.Error("empty table picked something")
	}
}

func TestDefaultTables(t *testing.T) {
	s := defaultSpawner(t)
	var ids []string
	for _, e := range ItemLootTable(s.Templates()).Entries {
		ids = append(ids, e.TemplateID)
	}
	if strings.Join(ids, ",") != "gold,health_potion,scroll,short_sword" {
		t.Errorf("item table = %v", ids)
	}
	if n := len(MonsterTable(s.Templates()).Entries); n != 3 {
		t.Errorf("monster table has %d entries", n)
	}
}

func drawnRoom(t *testing.T, seed int64, rect geometry.Rect) (*generation.FloorGenerationContext, *generation.Room) {
	t.Helper()
	ctx := generation.NewFloorGenerationContext(components.FloorID{Branch: "test", Depth: 1},
		geometry.C(20, 20), rand.New(rand.NewSource(seed)))
	room := generation.NewRoom("test")
	room.AddRect(rect)
	if err := room.Draw(ctx, generation.DefaultPalette()); err != nil {
		t.Fatal(err)
	}
	return ctx, room
}

func TestLairStaysInsideRoom(t *testing.T) {
	p := NewRoomPopulator(defaultSpawner(t))
	for seed := int64(0); seed < 30; seed++ {
		ctx, room := drawnRoom(t, seed, geometry.NewRect(2, 2, 9, 8))
		if err := p.Lair(ctx, room); err != nil {
			t.Fatal(err)
		}
		objs := ctx.Objects()
		if len(objs) < 1 || len(objs) > p.MaxMonsters {
			t.Fatalf("seed %d: %d monsters", seed, len(objs))
		}
		for _, o := range objs {
			if !room.Contains(o.Pos) {
				t.Errorf("monster at %v outside the room", o.Pos)
			}
			if len(ctx.ObjectsAt(o.Pos)) != 1 {
				t.Errorf("monsters stacked at %v", o.Pos)
			}
			if obj := o.Build(o.Pos); obj.Kind != components.ObjectActor {
				t.Errorf("lair built a %v", obj.Kind)
			}
		}
	}
}

func TestStoreroomFitsTheRoom(t *testing.T) {
	p := NewRoomPopulator(defaultSpawner(t))
	p.Loot = NewLootTable([]LootTableEntry{{TemplateID: "gold", Weight: 1, MinCount: 50, MaxCount: 50}})
	ctx, room := drawnRoom(t, 1, geometry.NewRect(2, 2, 5, 7)) // 1x3 interior
	if err := p.Storeroom(ctx, room); err != nil {
		t.Fatal(err)
	}
	if n := len(ctx.Objects()); n != 3 {
		t.Errorf("placed %d items in a 3 tile room", n)
	}
}

func TestShrine(t *testing.T) {
	p := NewRoomPopulator(defaultSpawner(t))

	ctx, room := drawnRoom(t, 1, geometry.NewRect(2, 2, 7, 7))
	if err := p.Shrine(ctx, room); err != nil {
		t.Fatal(err)
	}
	objs := ctx.ObjectsAt(geometry.C(4, 4))
	if len(objs) != 1 || objs[0].Name != "fountain" {
		t.Errorf("objects at center = %+v", objs)
	}

	ctx, room = drawnRoom(t, 1, geometry.NewRect(2, 2, 6, 6))
	if err := p.Shrine(ctx, room); err != nil {
		t.Fatal(err)
	}
	if len(ctx.Objects()) != 0 {
		t.Error("a 2x2 room should get no fixture")
	}
}

func TestPopulatedDungeon(t *testing.T) {
	s := defaultSpawner(t)
	palette, err := s.Palette()
	if err != nil {
		t.Fatal(err)
	}
	populator := NewRoomPopulator(s)
	source := func(components.FloorID) (generation.FloorGenerator, geometry.Coord) {
		gen := generation.NewSectorGenerator(2, 2, palette)
		gen.Archetypes = populator.Archetypes()
		return gen, geometry.C(64, 48)
	}
	graph, err := generation.NewLinearDungeon("main", 2)
	if err != nil {
		t.Fatal(err)
	}
	reg, err := graph.Generate(99, source, s.Stairs)
	if err != nil {
		t.Fatal(err)
	}

	actors, stairs, styled := 0, 0, 0
	for _, id := range reg.IDs() {
		f, _ := reg.Floor(id)
		actors += len(f.GetAllActors())
		for _, pf := range f.Features() {
			if pf.Feature.IsStair() {
				stairs++
			}
		}
		for _, c := range f.Cells() {
			if c.Tile.Name == generation.WallName && c.Tile.Glyph != '#' {
				styled++
			}
			for range c.ActorList() {
				if !c.Tile.Walkable {
					t.Errorf("actor standing on %s at %v", c.Tile.Name, c.Pos)
				}
			}
		}
	}
	if stairs != 2 {
		t.Errorf("stairs = %d, want 2", stairs)
	}
	if styled == 0 {
		t.Error("no wall picked up a variant glyph")
	}
	if actors == 0 {
		t.Log("no lair rolled for this seed")
	}
}
