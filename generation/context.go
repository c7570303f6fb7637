package generation

import (
	"errors"
	"fmt"
	"math/rand"

	"ebiten-floors/components"
	"ebiten-floors/dungeon"
	"ebiten-floors/geometry"
)

var (
	// ErrOutOfBounds is returned when a definition is written outside the floor
	ErrOutOfBounds = dungeon.ErrOutOfBounds
	// ErrNoValidTile is returned when a random tile is requested and none qualifies
	ErrNoValidTile = errors.New("no valid tile")
)

// TileFactory builds the tile for one position
type TileFactory func(pos geometry.Coord) *components.Tile

// ObjectFactory builds an object for one position. What it builds is up to
// the caller; the builder only looks at the Kind of the result.
type ObjectFactory func(pos geometry.Coord) components.Object

// TileDef declares which tile goes where. Build is called once when the
// floor is resolved.
type TileDef struct {
	Pos      geometry.Coord
	Name     string
	Walkable bool
	Build    TileFactory
}

// ObjectDef declares an object to build at a position. When Stair is set
// the def is only a hint marking where that connection's stair goes, and
// Build is ignored.
type ObjectDef struct {
	Pos   geometry.Coord
	Name  string
	Stair *components.FloorConnection
	Build ObjectFactory
}

// FloorGenerationContext collects everything the generation steps declare
// for one floor. It is discarded once the floor is built.
type FloorGenerationContext struct {
	ID   components.FloorID
	Size geometry.Coord
	Rng  *rand.Rand

	Rooms     []*Room
	Corridors []*Corridor

	tiles       []TileDef
	hasTile     []bool
	objects     [][]ObjectDef
	connections []components.FloorConnection
	spawnPoints []geometry.Coord
}

// NewFloorGenerationContext creates an empty context
func NewFloorGenerationContext(id components.FloorID, size geometry.Coord, rng *rand.Rand) *FloorGenerationContext {
	n := size.X * size.Y
	return &FloorGenerationContext{
		ID:      id,
		Size:    size,
		Rng:     rng,
		tiles:   make([]TileDef, n),
		hasTile: make([]bool, n),
		objects: make([][]ObjectDef, n),
	}
}

// Bounds returns the floor rectangle
func (c *FloorGenerationContext) Bounds() geometry.Rect {
	return geometry.NewRect(0, 0, c.Size.X, c.Size.Y)
}

// InBounds reports whether pos lies on the floor
func (c *FloorGenerationContext) InBounds(pos geometry.Coord) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < c.Size.X && pos.Y < c.Size.Y
}

func (c *FloorGenerationContext) index(pos geometry.Coord) int {
	return pos.Y*c.Size.X + pos.X
}

func (c *FloorGenerationContext) pos(index int) geometry.Coord {
	return geometry.C(index%c.Size.X, index/c.Size.X)
}

func (c *FloorGenerationContext) outOfBounds(pos geometry.Coord) error {
	return fmt.Errorf("%w: %v on %s (size %v)", ErrOutOfBounds, pos, c.ID, c.Size)
}

// SetTile declares the tile at def.Pos. A later write to the same position replaces it.
func (c *FloorGenerationContext) SetTile(def TileDef) error {
	if !c.InBounds(def.Pos) {
		return c.outOfBounds(def.Pos)
	}
	idx := c.index(def.Pos)
	c.tiles[idx] = def
	c.hasTile[idx] = true
	return nil
}

// FillRect declares the same kind of tile over a whole rectangle
func (c *FloorGenerationContext) FillRect(r geometry.Rect, name string, walkable bool, build TileFactory) error {
	for _, p := range geometry.Points(r) {
		if err := c.SetTile(TileDef{Pos: p, Name: name, Walkable: walkable, Build: build}); err != nil {
			return err
		}
	}
	return nil
}

// TileAt returns the tile declared at pos
func (c *FloorGenerationContext) TileAt(pos geometry.Coord) (TileDef, bool) {
	if !c.InBounds(pos) {
		return TileDef{}, false
	}
	idx := c.index(pos)
	return c.tiles[idx], c.hasTile[idx]
}

// AddObject declares an object at def.Pos. Several objects may share a position.
func (c *FloorGenerationContext) AddObject(def ObjectDef) error {
	if !c.InBounds(def.Pos) {
		return c.outOfBounds(def.Pos)
	}
	idx := c.index(def.Pos)
	c.objects[idx] = append(c.objects[idx], def)
	return nil
}

// AddStairHint marks where the stair for conn should be placed
func (c *FloorGenerationContext) AddStairHint(pos geometry.Coord, conn components.FloorConnection) error {
	return c.AddObject(ObjectDef{Pos: pos, Name: "stair hint", Stair: &conn})
}

// ObjectsAt returns the objects declared at pos
func (c *FloorGenerationContext) ObjectsAt(pos geometry.Coord) []ObjectDef {
	if !c.InBounds(pos) {
		return nil
	}
	return c.objects[c.index(pos)]
}

// HasObjectAt reports whether anything has been declared at pos
func (c *FloorGenerationContext) HasObjectAt(pos geometry.Coord) bool {
	return len(c.ObjectsAt(pos)) > 0
}

// Objects returns every declared object in row-major order
func (c *FloorGenerationContext) Objects() []ObjectDef {
	var out []ObjectDef
	for _, defs := range c.objects {
		out = append(out, defs...)
	}
	return out
}

// AddConnection declares a stair link touching this floor
func (c *FloorGenerationContext) AddConnection(conn components.FloorConnection) {
	c.connections = append(c.connections, conn)
}

// Connections returns the declared stair links
func (c *FloorGenerationContext) Connections() []components.FloorConnection {
	return c.connections
}

// AddSpawnPoint registers a position where actors may enter the floor
func (c *FloorGenerationContext) AddSpawnPoint(pos geometry.Coord) error {
	if !c.InBounds(pos) {
		return c.outOfBounds(pos)
	}
	c.spawnPoints = append(c.spawnPoints, pos)
	return nil
}

// SpawnPoints returns the registered spawn points
func (c *FloorGenerationContext) SpawnPoints() []geometry.Coord {
	return c.spawnPoints
}

// FilterTiles returns the positions, in row-major order, of declared tiles accepted by keep
func (c *FloorGenerationContext) FilterTiles(keep func(TileDef) bool) []geometry.Coord {
	var out []geometry.Coord
	for i, ok := range c.hasTile {
		if ok && (keep == nil || keep(c.tiles[i])) {
			out = append(out, c.pos(i))
		}
	}
	return out
}

// ShuffledTiles returns FilterTiles in a random order drawn from the context's rng
func (c *FloorGenerationContext) ShuffledTiles(keep func(TileDef) bool) []geometry.Coord {
	out := c.FilterTiles(keep)
	c.Rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// RandomTile picks one declared tile accepted by keep
func (c *FloorGenerationContext) RandomTile(keep func(TileDef) bool) (geometry.Coord, error) {
	candidates := c.FilterTiles(keep)
	if len(candidates) == 0 {
		return geometry.Coord{}, fmt.Errorf("%w on %s", ErrNoValidTile, c.ID)
	}
	return candidates[c.Rng.Intn(len(candidates))], nil
}

// FreeGround accepts walkable tiles with nothing declared on them
func (c *FloorGenerationContext) FreeGround() func(TileDef) bool {
	return func(def TileDef) bool {
		return def.Walkable && !c.HasObjectAt(def.Pos)
	}
}
