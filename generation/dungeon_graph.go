package generation

import (
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"

	"github.com/katalvlaran/lvlath/core"
	"go.uber.org/zap"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// DungeonGraph declares the floors of a dungeon and the stairs between them.
// Floors are vertices of a graph keyed by FloorID.String().
type DungeonGraph struct {
	graph       *core.Graph
	floors      map[string]components.FloorID
	connections []components.FloorConnection
}

// NewDungeonGraph creates an empty dungeon graph
func NewDungeonGraph() *DungeonGraph {
	return &DungeonGraph{
		graph:  core.NewGraph(),
		floors: make(map[string]components.FloorID),
	}
}

// NewLinearDungeon declares floors 1..depth of a branch, each connected to the next
func NewLinearDungeon(branch string, depth int) (*DungeonGraph, error) {
	g := NewDungeonGraph()
	for d := 1; d <= depth; d++ {
		if err := g.AddFloor(components.FloorID{Branch: branch, Depth: d}); err != nil {
			return nil, err
		}
		if d > 1 {
			from := components.FloorID{Branch: branch, Depth: d - 1}
			to := components.FloorID{Branch: branch, Depth: d}
			if err := g.Connect(from, to); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

// AddFloor declares a floor. Adding the same floor twice is a no-op.
func (g *DungeonGraph) AddFloor(id components.FloorID) error {
	key := id.String()
	if _, ok := g.floors[key]; ok {
		return nil
	}
	if err := g.graph.AddVertex(key); err != nil {
		return fmt.Errorf("add floor %s: %w", id, err)
	}
	g.floors[key] = id
	return nil
}

// Connect declares a stair between two floors, adding them if needed. Two
// floors are linked by at most one stair.
func (g *DungeonGraph) Connect(from, to components.FloorID) error {
	if from == to {
		return fmt.Errorf("cannot connect floor %s to itself", from)
	}
	if g.HasConnection(from, to) {
		return fmt.Errorf("%s and %s are already connected", from, to)
	}
	for _, id := range []components.FloorID{from, to} {
		if err := g.AddFloor(id); err != nil {
			return err
		}
	}
	if _, err := g.graph.AddEdge(from.String(), to.String(), 0); err != nil {
		return fmt.Errorf("connect %s to %s: %w", from, to, err)
	}
	g.connections = append(g.connections, components.NewFloorConnection(from, to))
	return nil
}

// HasConnection reports whether the two floors are linked in either direction
func (g *DungeonGraph) HasConnection(a, b components.FloorID) bool {
	return g.graph.HasEdge(a.String(), b.String()) || g.graph.HasEdge(b.String(), a.String())
}

// Floors returns the declared floors ordered by branch then depth
func (g *DungeonGraph) Floors() []components.FloorID {
	ids := make([]components.FloorID, 0, len(g.floors))
	for _, key := range g.graph.Vertices() {
		if id, ok := g.floors[key]; ok {
			ids = append(ids, id)
		}
	}
	slices.SortFunc(ids, dungeon.CompareFloorIDs)
	return ids
}

// Connections returns every declared stair link in declaration order
func (g *DungeonGraph) Connections() []components.FloorConnection {
	return g.connections
}

// ConnectionsOf returns the links touching a floor in declaration order
func (g *DungeonGraph) ConnectionsOf(id components.FloorID) []components.FloorConnection {
	var out []components.FloorConnection
	for _, c := range g.connections {
		if c.Touches(id) {
			out = append(out, c)
		}
	}
	return out
}

// GeneratorSource returns the generator and size for one floor
type GeneratorSource func(id components.FloorID) (FloorGenerator, geometry.Coord)

// Generate builds every floor of the graph and registers it. Each floor
// gets its own seed drawn from a master generator in floor order, so a
// floor's layout depends only on the master seed and its position.
func (g *DungeonGraph) Generate(seed int64, source GeneratorSource, stairs StairFactory) (*dungeon.Registry, error) {
	master := rand.New(rand.NewSource(seed))
	registry := dungeon.NewRegistry()

	for _, id := range g.Floors() {
		floorSeed := master.Int63()
		gen, size := source(id)

		builder := NewFloorBuilder(rand.New(rand.NewSource(floorSeed)))
		if stairs != nil {
			builder.Stairs = stairs
		}
		conns := g.ConnectionsOf(id)
		builder.AddStep("connections", func(ctx *FloorGenerationContext) error {
			for _, c := range conns {
				ctx.AddConnection(c)
			}
			return nil
		})
		builder.AddGenerator("layout", gen)

		floor, err := builder.Build(id, size)
		if err != nil {
			return nil, fmt.Errorf("generate dungeon (seed %d): %w", seed, err)
		}
		registry.Register(floor)
		logger.Debug("floor generated", zap.Stringer("floor", id), zap.Int64("seed", floorSeed))
	}
	return registry, nil
}

// ParseFloorID parses "branch:depth"
func ParseFloorID(s string) (components.FloorID, error) {
	branch, depth, ok := strings.Cut(s, ":")
	if !ok {
		return components.FloorID{}, fmt.Errorf("floor id %q: want branch:depth", s)
	}
	d, err := strconv.Atoi(depth)
	if err != nil {
		return components.FloorID{}, fmt.Errorf("floor id %q: %w", s, err)
	}
	return components.FloorID{Branch: branch, Depth: d}, nil
}
