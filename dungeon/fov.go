package dungeon

import (
	"github.com/zyedidia/generic/mapset"

	"ebiten-floors/components"
	"ebiten-floors/geometry"
)

// CalculateFov returns the positions visible from center within radius.
// Visibility uses symmetric shadow casting over light-blocking cells, and
// only positions within radius² squared distance are kept. Blocking cells
// at the edge of vision are visible themselves.
func (f *Floor) CalculateFov(center geometry.Coord, radius int) mapset.Set[geometry.Coord] {
	visible := mapset.New[geometry.Coord]()
	if !f.InBounds(center) || radius < 0 {
		return visible
	}
	visible.Put(center)

	passable := func(p geometry.Coord) bool {
		cell, ok := f.TryGetCellAt(p)
		return ok && !cell.IsLightBlocking()
	}
	r2 := radius * radius
	for _, p := range f.fov.SSCVisionMap(center, radius, passable, true) {
		if geometry.DistanceSquared(center, p) <= r2 {
			visible.Put(p)
		}
	}
	return visible
}

// RecalculateFov refreshes and stores what an actor can see from where it stands
func (f *Floor) RecalculateFov(actor *components.Actor) mapset.Set[geometry.Coord] {
	pos, ok := f.actors[actor]
	if !ok {
		return mapset.New[geometry.Coord]()
	}
	visible := f.CalculateFov(pos, actor.VisionRadius)
	f.visible[actor] = visible
	return visible
}

// Visible returns the field of view last computed for an actor
func (f *Floor) Visible(actor *components.Actor) (mapset.Set[geometry.Coord], bool) {
	v, ok := f.visible[actor]
	return v, ok
}

// CanSee reports whether an actor's last computed field of view contains pos
func (f *Floor) CanSee(actor *components.Actor, pos geometry.Coord) bool {
	v, ok := f.visible[actor]
	return ok && v.Has(pos)
}

// IsLineOfSightBlocked walks the straight line between two points and
// reports whether any cell strictly between them blocks light
func (f *Floor) IsLineOfSightBlocked(from, to geometry.Coord) bool {
	points := geometry.Bresenham(from, to)
	for i := 1; i < len(points)-1; i++ {
		cell, ok := f.TryGetCellAt(points[i])
		if !ok || cell.IsLightBlocking() {
			return true
		}
	}
	return false
}
