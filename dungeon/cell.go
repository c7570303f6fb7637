package dungeon

import (
	"slices"

	"github.com/zyedidia/generic/mapset"

	"ebiten-floors/components"
	"ebiten-floors/geometry"
)

// Mobility describes how a mover interacts with the map. It is the
// walkability context handed to the pathfinder.
type Mobility struct {
	Flying      bool // Crosses unwalkable tiles that don't block light, e.g. water
	OpensDoors  bool // Treats closed doors as passable
	AvoidActors bool // Treats cells occupied by actors as blocked
}

// MobilityOf returns the movement rules of an actor
func MobilityOf(a *components.Actor) Mobility {
	return Mobility{Flying: a.Flying, OpensDoors: a.OpensDoors}
}

// MapCell is one grid cell: exactly one tile plus what stands on it
type MapCell struct {
	Pos      geometry.Coord
	Tile     *components.Tile
	Actors   mapset.Set[*components.Actor]
	Items    mapset.Set[*components.Item]
	Features mapset.Set[*components.Feature]
}

func newMapCell(pos geometry.Coord) *MapCell {
	return &MapCell{
		Pos:      pos,
		Actors:   mapset.New[*components.Actor](),
		Items:    mapset.New[*components.Item](),
		Features: mapset.New[*components.Feature](),
	}
}

// IsWalkable combines tile physics with feature flags for the given mover
func (c *MapCell) IsWalkable(m Mobility) bool {
	if c == nil || c.Tile == nil {
		return false
	}
	if !c.Tile.Walkable && !(m.Flying && !c.Tile.BlocksLight) {
		return false
	}
	if m.AvoidActors && c.Actors.Size() > 0 {
		return false
	}
	blocked := false
	c.Features.Each(func(f *components.Feature) {
		if !f.BlocksMovement || f.Open {
			return
		}
		if f.Kind == components.FeatureDoor && m.OpensDoors {
			return
		}
		blocked = true
	})
	return !blocked
}

// IsLightBlocking reports whether the cell stops line of sight
func (c *MapCell) IsLightBlocking() bool {
	if c == nil || c.Tile == nil {
		return true
	}
	if c.Tile.BlocksLight {
		return true
	}
	blocking := false
	c.Features.Each(func(f *components.Feature) {
		if f.BlocksLight && !f.Open {
			blocking = true
		}
	})
	return blocking
}

// IsFree reports whether the cell can be walked on and nothing stands on it
func (c *MapCell) IsFree(m Mobility) bool {
	return c.IsWalkable(m) && c.Actors.Size() == 0 && c.Features.Size() == 0
}

// ActorList returns the actors on the cell ordered by id
func (c *MapCell) ActorList() []*components.Actor {
	out := make([]*components.Actor, 0, c.Actors.Size())
	c.Actors.Each(func(a *components.Actor) { out = append(out, a) })
	slices.SortFunc(out, func(a, b *components.Actor) int { return int(a.ID) - int(b.ID) })
	return out
}

// ItemList returns the items on the cell ordered by id
func (c *MapCell) ItemList() []*components.Item {
	out := make([]*components.Item, 0, c.Items.Size())
	c.Items.Each(func(i *components.Item) { out = append(out, i) })
	slices.SortFunc(out, func(a, b *components.Item) int { return int(a.ID) - int(b.ID) })
	return out
}

// FeatureList returns the features on the cell ordered by id
func (c *MapCell) FeatureList() []*components.Feature {
	out := make([]*components.Feature, 0, c.Features.Size())
	c.Features.Each(func(f *components.Feature) { out = append(out, f) })
	slices.SortFunc(out, func(a, b *components.Feature) int { return int(a.ID) - int(b.ID) })
	return out
}
