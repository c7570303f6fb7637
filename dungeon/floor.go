// Package dungeon holds the runtime map: floors made of cells, the events
// they raise when they change, and the registry of floors in a dungeon.
package dungeon

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"

	"codeberg.org/anaseto/gruid/paths"
	"codeberg.org/anaseto/gruid/rl"
	"github.com/zyedidia/generic/mapset"

	"ebiten-floors/components"
	"ebiten-floors/ecs"
	"ebiten-floors/geometry"
	"ebiten-floors/pathfinding"
)

var (
	// ErrOutOfBounds is returned when a position lies outside the floor
	ErrOutOfBounds = errors.New("position out of floor bounds")
	// ErrNoCell is returned when content is added where no tile has been set
	ErrNoCell = errors.New("no cell at position")
	// ErrNotFound is returned when removing something that is not there
	ErrNotFound = errors.New("not found on floor")
	// ErrAlreadyPlaced is returned when adding an actor that is already on the floor
	ErrAlreadyPlaced = errors.New("actor already on floor")
	// ErrReentrantMutation is returned when an event handler mutates the floor it is handling
	ErrReentrantMutation = errors.New("floor mutated from inside its own event handler")
)

// Pathfinder is the search space type backing every floor
type Pathfinder = pathfinding.Pathfinder[*MapCell, Mobility]

// Floor is one level of the dungeon: a bounded grid of cells. It is not
// safe for concurrent use; the game loop is the single writer.
type Floor struct {
	ID          components.FloorID
	SpawnPoints []geometry.Coord

	size       geometry.Coord
	cells      []*MapCell // indexed y*width+x, nil until a tile is set
	pathfinder *Pathfinder
	events     *ecs.EventManager
	actors     map[*components.Actor]geometry.Coord
	visible    map[*components.Actor]mapset.Set[geometry.Coord]
	fov        *rl.FOV
	mutating   bool
}

// NewFloor creates an empty floor of the given size
func NewFloor(id components.FloorID, size geometry.Coord) *Floor {
	return &Floor{
		ID:         id,
		size:       size,
		cells:      make([]*MapCell, size.X*size.Y),
		pathfinder: pathfinding.NewPathfinder[*MapCell, Mobility](size.X, size.Y),
		events:     ecs.NewEventManager(),
		actors:     make(map[*components.Actor]geometry.Coord),
		visible:    make(map[*components.Actor]mapset.Set[geometry.Coord]),
		fov:        rl.NewFOV(geometry.NewRect(0, 0, size.X, size.Y)),
	}
}

// Size returns the floor dimensions
func (f *Floor) Size() geometry.Coord {
	return f.size
}

// Bounds returns the floor rectangle
func (f *Floor) Bounds() geometry.Rect {
	return geometry.NewRect(0, 0, f.size.X, f.size.Y)
}

// InBounds reports whether pos lies on the floor
func (f *Floor) InBounds(pos geometry.Coord) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < f.size.X && pos.Y < f.size.Y
}

// Events returns the floor's event manager
func (f *Floor) Events() *ecs.EventManager {
	return f.events
}

// Pathfinder returns the search space kept in sync with the cells
func (f *Floor) Pathfinder() *Pathfinder {
	return f.pathfinder
}

// SyncPathfinder pushes every cell into the search space. Mutations keep
// it current on their own; this is for a freshly built floor.
func (f *Floor) SyncPathfinder() {
	for _, c := range f.cells {
		if c != nil {
			f.pathfinder.Update(c.Pos, c)
		}
	}
}

// FindPath searches a route for a mover, or returns nil when there is none
func (f *Floor) FindPath(from, to geometry.Coord, m Mobility) *pathfinding.Path {
	return f.pathfinder.Search(from, to, m)
}

func (f *Floor) index(pos geometry.Coord) int {
	return pos.Y*f.size.X + pos.X
}

// begin guards against event handlers that mutate the floor re-entrantly
func (f *Floor) begin(pos geometry.Coord) error {
	if f.mutating {
		return ErrReentrantMutation
	}
	if !f.InBounds(pos) {
		return fmt.Errorf("%w: %v on %s", ErrOutOfBounds, pos, f.ID)
	}
	f.mutating = true
	return nil
}

func (f *Floor) end() {
	f.mutating = false
}

// cellFor returns the existing cell at an in-bounds position or ErrNoCell
func (f *Floor) cellFor(pos geometry.Coord) (*MapCell, error) {
	cell := f.cells[f.index(pos)]
	if cell == nil {
		return nil, fmt.Errorf("%w: %v on %s", ErrNoCell, pos, f.ID)
	}
	return cell, nil
}

// SetTile replaces the tile at pos, creating the cell on first use
func (f *Floor) SetTile(pos geometry.Coord, tile *components.Tile) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	idx := f.index(pos)
	cell := f.cells[idx]
	if cell == nil {
		cell = newMapCell(pos)
		f.cells[idx] = cell
	}
	old := cell.Tile
	cell.Tile = tile
	f.pathfinder.Update(pos, cell)

	f.events.Emit(TileChangedEvent{Floor: f.ID, Pos: pos, Old: old, New: tile})
	return nil
}

// AddActor places an actor on the floor
func (f *Floor) AddActor(pos geometry.Coord, actor *components.Actor) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	if _, ok := f.actors[actor]; ok {
		return ErrAlreadyPlaced
	}
	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	cell.Actors.Put(actor)
	f.actors[actor] = pos

	f.events.Emit(ActorEvent{Floor: f.ID, Pos: pos, Actor: actor})
	return nil
}

// RemoveActor takes an actor off the floor
func (f *Floor) RemoveActor(actor *components.Actor) error {
	pos, ok := f.actors[actor]
	if !ok {
		return ErrNotFound
	}
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	f.cells[f.index(pos)].Actors.Remove(actor)
	delete(f.actors, actor)
	delete(f.visible, actor)

	f.events.Emit(ActorEvent{Floor: f.ID, Pos: pos, Actor: actor, Removed: true})
	return nil
}

// MoveActor moves an actor that is already on the floor to another cell
func (f *Floor) MoveActor(actor *components.Actor, to geometry.Coord) error {
	from, ok := f.actors[actor]
	if !ok {
		return ErrNotFound
	}
	if err := f.begin(to); err != nil {
		return err
	}
	defer f.end()

	dest, err := f.cellFor(to)
	if err != nil {
		return err
	}
	f.cells[f.index(from)].Actors.Remove(actor)
	dest.Actors.Put(actor)
	f.actors[actor] = to

	f.events.Emit(ActorMovedEvent{Floor: f.ID, Actor: actor, From: from, To: to})
	return nil
}

// AddItem drops an item on a cell
func (f *Floor) AddItem(pos geometry.Coord, item *components.Item) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	cell.Items.Put(item)

	f.events.Emit(ItemEvent{Floor: f.ID, Pos: pos, Item: item})
	return nil
}

// RemoveItem takes an item from a cell
func (f *Floor) RemoveItem(pos geometry.Coord, item *components.Item) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	if !cell.Items.Has(item) {
		return ErrNotFound
	}
	cell.Items.Remove(item)

	f.events.Emit(ItemEvent{Floor: f.ID, Pos: pos, Item: item, Removed: true})
	return nil
}

// AddFeature places a feature on a cell
func (f *Floor) AddFeature(pos geometry.Coord, feature *components.Feature) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	cell.Features.Put(feature)
	f.pathfinder.Update(pos, cell)

	f.events.Emit(FeatureEvent{Floor: f.ID, Pos: pos, Feature: feature})
	return nil
}

// RemoveFeature takes a feature off a cell
func (f *Floor) RemoveFeature(pos geometry.Coord, feature *components.Feature) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	if !cell.Features.Has(feature) {
		return ErrNotFound
	}
	cell.Features.Remove(feature)
	f.pathfinder.Update(pos, cell)

	f.events.Emit(FeatureEvent{Floor: f.ID, Pos: pos, Feature: feature, Removed: true})
	return nil
}

// SetDoorOpen opens or closes a door feature
func (f *Floor) SetDoorOpen(pos geometry.Coord, door *components.Feature, open bool) error {
	if err := f.begin(pos); err != nil {
		return err
	}
	defer f.end()

	cell, err := f.cellFor(pos)
	if err != nil {
		return err
	}
	if !cell.Features.Has(door) {
		return ErrNotFound
	}
	if door.Open == open {
		return nil
	}
	door.Open = open
	f.pathfinder.Update(pos, cell)

	f.events.Emit(FeatureEvent{Floor: f.ID, Pos: pos, Feature: door, Changed: true})
	return nil
}

// TryGetCellAt returns the cell at pos. It returns false for positions
// outside the floor or where no tile has been set.
func (f *Floor) TryGetCellAt(pos geometry.Coord) (*MapCell, bool) {
	if !f.InBounds(pos) {
		return nil, false
	}
	cell := f.cells[f.index(pos)]
	return cell, cell != nil
}

// GetActorsAt returns the actors standing at pos
func (f *Floor) GetActorsAt(pos geometry.Coord) []*components.Actor {
	if cell, ok := f.TryGetCellAt(pos); ok {
		return cell.ActorList()
	}
	return nil
}

// GetItemsAt returns the items lying at pos
func (f *Floor) GetItemsAt(pos geometry.Coord) []*components.Item {
	if cell, ok := f.TryGetCellAt(pos); ok {
		return cell.ItemList()
	}
	return nil
}

// GetFeaturesAt returns the features at pos
func (f *Floor) GetFeaturesAt(pos geometry.Coord) []*components.Feature {
	if cell, ok := f.TryGetCellAt(pos); ok {
		return cell.FeatureList()
	}
	return nil
}

// GetAllActors returns every actor on the floor ordered by id
func (f *Floor) GetAllActors() []*components.Actor {
	out := make([]*components.Actor, 0, len(f.actors))
	for a := range f.actors {
		out = append(out, a)
	}
	slices.SortFunc(out, func(a, b *components.Actor) int { return int(a.ID) - int(b.ID) })
	return out
}

// ActorPosition returns where an actor stands
func (f *Floor) ActorPosition(actor *components.Actor) (geometry.Coord, bool) {
	pos, ok := f.actors[actor]
	return pos, ok
}

// Cells returns every existing cell in row-major order
func (f *Floor) Cells() []*MapCell {
	out := make([]*MapCell, 0, len(f.cells))
	for _, c := range f.cells {
		if c != nil {
			out = append(out, c)
		}
	}
	return out
}

// Features returns every feature on the floor with its position, in row-major order
func (f *Floor) Features() []PlacedFeature {
	var out []PlacedFeature
	for _, c := range f.cells {
		if c == nil {
			continue
		}
		for _, feat := range c.FeatureList() {
			out = append(out, PlacedFeature{Pos: c.Pos, Feature: feat})
		}
	}
	return out
}

// PlacedFeature pairs a feature with its position
type PlacedFeature struct {
	Pos     geometry.Coord
	Feature *components.Feature
}

// StairsTo returns the stair on this floor leading to dest
func (f *Floor) StairsTo(dest components.FloorID) (PlacedFeature, bool) {
	for _, pf := range f.Features() {
		if pf.Feature.Portal != nil && pf.Feature.Portal.Destination == dest {
			return pf, true
		}
	}
	return PlacedFeature{}, false
}

// StairFor returns the stair on this floor created for a connection
func (f *Floor) StairFor(conn components.FloorConnection) (PlacedFeature, bool) {
	for _, pf := range f.Features() {
		if pf.Feature.Portal != nil && pf.Feature.Portal.Connection == conn {
			return pf, true
		}
	}
	return PlacedFeature{}, false
}

// NeighborSlot is one position of a neighborhood window. Cell is nil for
// positions off the floor or without a tile.
type NeighborSlot struct {
	Pos  geometry.Coord
	Cell *MapCell
}

// GetNeighborhood returns the size×size window centered on pos in row-major
// order. When yieldNull is set, positions without a cell are included with
// a nil Cell so the window always has size² slots.
func (f *Floor) GetNeighborhood(pos geometry.Coord, size int, yieldNull bool) []NeighborSlot {
	half := size / 2
	out := make([]NeighborSlot, 0, size*size)
	for dy := -half; dy < size-half; dy++ {
		for dx := -half; dx < size-half; dx++ {
			p := pos.Add(geometry.C(dx, dy))
			cell, ok := f.TryGetCellAt(p)
			if !ok && !yieldNull {
				continue
			}
			out = append(out, NeighborSlot{Pos: p, Cell: cell})
		}
	}
	return out
}

// TileNeighborhood snapshots the names of the tiles around pos. Positions
// without a tile are left unset and act as wildcards when matching.
func (f *Floor) TileNeighborhood(pos geometry.Coord) components.TileNeighborhood {
	var n components.TileNeighborhood
	for i, slot := range f.GetNeighborhood(pos, 3, true) {
		if slot.Cell != nil && slot.Cell.Tile != nil {
			n[i/3][i%3] = components.TileRule{Name: slot.Cell.Tile.Name}
		}
	}
	return n
}

// TryGetClosestFreeTile finds the nearest free cell to pos by breadth-first
// search over cells the mover can enter
func (f *Floor) TryGetClosestFreeTile(pos geometry.Coord, m Mobility) (geometry.Coord, bool) {
	if !f.InBounds(pos) {
		return geometry.Coord{}, false
	}
	var nb paths.Neighbors
	seen := make([]bool, len(f.cells))
	seen[f.index(pos)] = true
	queue := []geometry.Coord{pos}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if cell, ok := f.TryGetCellAt(p); ok && cell.IsFree(m) {
			return p, true
		}
		for _, q := range nb.All(p, f.InBounds) {
			idx := f.index(q)
			if seen[idx] {
				continue
			}
			seen[idx] = true
			// Expand through anything a mover could cross, plus the start
			if cell, ok := f.TryGetCellAt(q); ok && cell.IsWalkable(Mobility{Flying: m.Flying, OpensDoors: true}) {
				queue = append(queue, q)
			}
		}
	}
	return geometry.Coord{}, false
}

// RandomFreeTile picks a uniformly random free cell
func (f *Floor) RandomFreeTile(rng *rand.Rand, m Mobility) (geometry.Coord, bool) {
	var free []geometry.Coord
	for _, c := range f.cells {
		if c != nil && c.IsFree(m) {
			free = append(free, c.Pos)
		}
	}
	if len(free) == 0 {
		return geometry.Coord{}, false
	}
	return free[rng.Intn(len(free))], true
}

// Reset empties every cell and drops all actors. Tiles and spawn points are kept.
// Removal events fire for everything taken off the floor.
func (f *Floor) Reset() error {
	if f.mutating {
		return ErrReentrantMutation
	}
	f.mutating = true
	defer f.end()

	for _, cell := range f.cells {
		if cell == nil {
			continue
		}
		actors, items, features := cell.ActorList(), cell.ItemList(), cell.FeatureList()
		cell.Actors = mapset.New[*components.Actor]()
		cell.Items = mapset.New[*components.Item]()
		cell.Features = mapset.New[*components.Feature]()
		f.pathfinder.Update(cell.Pos, cell)

		for _, a := range actors {
			f.events.Emit(ActorEvent{Floor: f.ID, Pos: cell.Pos, Actor: a, Removed: true})
		}
		for _, it := range items {
			f.events.Emit(ItemEvent{Floor: f.ID, Pos: cell.Pos, Item: it, Removed: true})
		}
		for _, feat := range features {
			f.events.Emit(FeatureEvent{Floor: f.ID, Pos: cell.Pos, Feature: feat, Removed: true})
		}
	}
	clear(f.actors)
	clear(f.visible)
	return nil
}
