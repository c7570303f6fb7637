package spawners

import (
	"go.uber.org/zap"

	"ebiten-floors/generation"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// RoomPopulator scatters loot, monsters and fixtures over freshly drawn rooms
type RoomPopulator struct {
	Spawner     *ObjectSpawner
	Loot        *LootTable
	Monsters    *LootTable
	MaxMonsters int    // Upper bound of monsters per lair
	Fixture     string // Feature template placed in shrines
}

// NewRoomPopulator creates a populator using the spawner's item and monster tables
func NewRoomPopulator(spawner *ObjectSpawner) *RoomPopulator {
	return &RoomPopulator{
		Spawner:     spawner,
		Loot:        ItemLootTable(spawner.Templates()),
		Monsters:    MonsterTable(spawner.Templates()),
		MaxMonsters: 3,
		Fixture:     "fountain",
	}
}

// Archetypes returns the room kinds the populator knows how to furnish
func (p *RoomPopulator) Archetypes() []generation.RoomArchetype {
	return []generation.RoomArchetype{
		{Name: "plain", Weight: 5},
		{Name: "storeroom", Weight: 2, Decorate: p.Storeroom},
		{Name: "lair", Weight: 2, Decorate: p.Lair},
		{Name: "shrine", Weight: 1, Decorate: p.Shrine},
	}
}

// freeTiles returns the room's ground positions with nothing declared on
// them, shuffled with the context's rng
func freeTiles(ctx *generation.FloorGenerationContext, room *generation.Room) []geometry.Coord {
	var free []geometry.Coord
	for _, pos := range room.Interior() {
		def, ok := ctx.TileAt(pos)
		if ok && def.Walkable && !ctx.HasObjectAt(pos) {
			free = append(free, pos)
		}
	}
	ctx.Rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	return free
}

// Storeroom drops a loot roll on free tiles of the room
func (p *RoomPopulator) Storeroom(ctx *generation.FloorGenerationContext, room *generation.Room) error {
	free := freeTiles(ctx, room)
	placed := 0
	for _, id := range p.Loot.Roll(ctx.Rng) {
		if placed == len(free) {
			break
		}
		build, err := p.Spawner.ItemFactory(id)
		if err != nil {
			return err
		}
		if err := ctx.AddObject(generation.ObjectDef{Pos: free[placed], Name: id, Build: build}); err != nil {
			return err
		}
		placed++
	}
	logger.Debug("storeroom stocked", zap.Stringer("floor", ctx.ID), zap.Int("items", placed))
	return nil
}

// Lair puts one to MaxMonsters monsters on free tiles of the room
func (p *RoomPopulator) Lair(ctx *generation.FloorGenerationContext, room *generation.Room) error {
	free := freeTiles(ctx, room)
	count := min(1+ctx.Rng.Intn(max(p.MaxMonsters, 1)), len(free))
	for i := 0; i < count; i++ {
		id, ok := p.Monsters.Pick(ctx.Rng)
		if !ok {
			return nil
		}
		build, err := p.Spawner.ActorFactory(id)
		if err != nil {
			return err
		}
		if err := ctx.AddObject(generation.ObjectDef{Pos: free[i], Name: id, Build: build}); err != nil {
			return err
		}
	}
	logger.Debug("lair filled", zap.Stringer("floor", ctx.ID), zap.Int("monsters", count))
	return nil
}

// Shrine places the fixture in the middle of single-rect rooms at least
// three tiles wide and tall, so it never blocks the way through
func (p *RoomPopulator) Shrine(ctx *generation.FloorGenerationContext, room *generation.Room) error {
	if len(room.Rects) != 1 {
		return nil
	}
	interior := geometry.Inset(room.Rects[0], 1)
	size := interior.Size()
	if size.X < 3 || size.Y < 3 {
		return nil
	}
	center := geometry.C(interior.Min.X+size.X/2, interior.Min.Y+size.Y/2)
	if ctx.HasObjectAt(center) {
		return nil
	}
	build, err := p.Spawner.FeatureFactory(p.Fixture)
	if err != nil {
		return err
	}
	return ctx.AddObject(generation.ObjectDef{Pos: center, Name: p.Fixture, Build: build})
}
