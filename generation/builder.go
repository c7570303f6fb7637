package generation

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// Step is one stage of floor generation
type Step func(ctx *FloorGenerationContext) error

type namedStep struct {
	name string
	run  Step
}

// FloorBuilder runs generation steps against a fresh context and resolves
// the result into a Floor
type FloorBuilder struct {
	Stairs StairFactory

	rng   *rand.Rand
	steps []namedStep
}

// NewFloorBuilder creates a builder drawing every random choice from rng
func NewFloorBuilder(rng *rand.Rand) *FloorBuilder {
	return &FloorBuilder{
		Stairs: DefaultStairs,
		rng:    rng,
	}
}

// AddStep appends a generation step. Steps run in the order added.
func (b *FloorBuilder) AddStep(name string, step Step) *FloorBuilder {
	b.steps = append(b.steps, namedStep{name: name, run: step})
	return b
}

// AddGenerator appends a FloorGenerator as a step
func (b *FloorBuilder) AddGenerator(name string, gen FloorGenerator) *FloorBuilder {
	return b.AddStep(name, gen.Generate)
}

// placement is an object waiting for its cell to exist
type placement struct {
	pos geometry.Coord
	obj components.Object
}

// Build runs all steps and resolves the declared content into a new floor.
// Any error aborts the floor: a partially built floor is never returned.
func (b *FloorBuilder) Build(id components.FloorID, size geometry.Coord) (*dungeon.Floor, error) {
	start := time.Now()
	log := logger.Named("builder").With(zap.Stringer("floor", id))

	ctx := NewFloorGenerationContext(id, size, b.rng)
	for _, step := range b.steps {
		if err := step.run(ctx); err != nil {
			return nil, fmt.Errorf("floor %s: step %q: %w", id, step.name, err)
		}
	}

	floor := dungeon.NewFloor(id, size)
	covered := make([]bool, size.X*size.Y)
	var autotile []placement
	var features, items, actors []placement
	hints := make(map[components.FloorConnection]geometry.Coord)

	// Objects first, so object-built tiles win over declared ones
	for _, def := range ctx.Objects() {
		if def.Stair != nil {
			if _, dup := hints[*def.Stair]; !dup {
				hints[*def.Stair] = def.Pos
			}
			continue
		}
		if def.Build == nil {
			continue
		}
		obj := def.Build(def.Pos)
		switch obj.Kind {
		case components.ObjectTile:
			if err := floor.SetTile(def.Pos, obj.Tile); err != nil {
				return nil, fmt.Errorf("floor %s: %w", id, err)
			}
			covered[def.Pos.Y*size.X+def.Pos.X] = true
			if obj.Tile.HasVariants() {
				autotile = append(autotile, placement{pos: def.Pos, obj: obj})
			}
		case components.ObjectFeature:
			features = append(features, placement{pos: def.Pos, obj: obj})
		case components.ObjectItem:
			items = append(items, placement{pos: def.Pos, obj: obj})
		case components.ObjectActor:
			actors = append(actors, placement{pos: def.Pos, obj: obj})
		default:
			log.Warn("object factory built nothing", zap.String("object", def.Name), logger.Pos("pos", def.Pos))
		}
	}

	for _, pos := range ctx.FilterTiles(nil) {
		if covered[pos.Y*size.X+pos.X] {
			continue
		}
		def, _ := ctx.TileAt(pos)
		if def.Build == nil {
			continue
		}
		tile := def.Build(pos)
		if err := floor.SetTile(pos, tile); err != nil {
			return nil, fmt.Errorf("floor %s: %w", id, err)
		}
		if tile.HasVariants() {
			autotile = append(autotile, placement{pos: pos, obj: components.TileObject(tile)})
		}
	}

	for _, p := range features {
		if err := floor.AddFeature(p.pos, p.obj.Feature); err != nil {
			return nil, fmt.Errorf("floor %s: feature %q: %w", id, p.obj.Feature.Name, err)
		}
	}

	resolveVariants(floor, autotile)

	stairs, err := b.placeStairs(ctx, floor, hints)
	if err != nil {
		return nil, err
	}

	for _, p := range items {
		if err := floor.AddItem(p.pos, p.obj.Item); err != nil {
			return nil, fmt.Errorf("floor %s: item %q: %w", id, p.obj.Item.Name, err)
		}
	}
	for _, p := range actors {
		if err := floor.AddActor(p.pos, p.obj.Actor); err != nil {
			return nil, fmt.Errorf("floor %s: actor %q: %w", id, p.obj.Actor.Name, err)
		}
	}
	floor.SpawnPoints = append(floor.SpawnPoints, ctx.SpawnPoints()...)

	floor.SyncPathfinder()

	log.Info("floor built",
		zap.Int("rooms", len(ctx.Rooms)),
		zap.Int("corridors", len(ctx.Corridors)),
		zap.Int("stairs", stairs),
		zap.Int("features", len(features)),
		zap.Int("items", len(items)),
		zap.Int("actors", len(actors)),
		zap.Int("autotiled", len(autotile)),
		zap.Duration("took", time.Since(start)))
	return floor, nil
}
