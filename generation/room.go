package generation

import (
	"math/rand"

	"ebiten-floors/geometry"
)

// RoomConnector is an open wall segment of a room where a corridor may attach
type RoomConnector struct {
	Edge     geometry.Edge
	Normal   geometry.Coord // Unit vector pointing out of the room
	Room     *Room
	IsUsed   bool // A corridor starts or ends here
	IsShared bool // The corridor leads to another sector
}

// Midpoint returns the middle tile of the connector
func (c *RoomConnector) Midpoint() geometry.Coord {
	return c.Edge.Midpoint()
}

// Len returns the number of wall tiles the connector spans
func (c *RoomConnector) Len() int {
	return c.Edge.Len()
}

// WallLine returns the line the connector's wall runs along
func (c *RoomConnector) WallLine() geometry.Line {
	return geometry.LineAlong(c.Edge.A, geometry.Rotate90(c.Normal))
}

// IsParallel reports whether two connectors lie on parallel walls
func (c *RoomConnector) IsParallel(o *RoomConnector) bool {
	return c.WallLine().IsParallel(o.WallLine())
}

// DrawnHandler runs once when a room has been drawn. Generation policies use
// it to scatter content over the room.
type DrawnHandler func(ctx *FloorGenerationContext, room *Room) error

// Room is a group of rectangles carved as one open area. Each rectangle
// includes its wall ring; sides shared with another rectangle of the same
// room are opened up.
type Room struct {
	Archetype  string
	Rects      []geometry.Rect
	Connectors []*RoomConnector

	handlers []DrawnHandler
	drawn    bool
}

// RoomFactory creates an empty room, typically picking an archetype
type RoomFactory func(rng *rand.Rand) *Room

// NewRoom creates an empty room
func NewRoom(archetype string) *Room {
	return &Room{Archetype: archetype}
}

// OnDrawn registers a handler fired by Draw
func (r *Room) OnDrawn(h DrawnHandler) {
	r.handlers = append(r.handlers, h)
}

// AddRect adds a rectangle and recomputes the connectors
func (r *Room) AddRect(rect geometry.Rect) {
	r.Rects = append(r.Rects, rect)
	r.computeConnectors()
}

// IsDrawn reports whether Draw has run
func (r *Room) IsDrawn() bool {
	return r.drawn
}

// side indices, matching geometry.Cardinals
const (
	sideNorth = iota
	sideEast
	sideSouth
	sideWest
)

// shared reports whether another rect of the room touches side s of rect i
func (r *Room) shared(i, s int) bool {
	a := r.Rects[i]
	for j, b := range r.Rects {
		if j == i {
			continue
		}
		overlapX := a.Min.X < b.Max.X && b.Min.X < a.Max.X
		overlapY := a.Min.Y < b.Max.Y && b.Min.Y < a.Max.Y
		switch s {
		case sideNorth:
			if b.Max.Y == a.Min.Y && overlapX {
				return true
			}
		case sideSouth:
			if b.Min.Y == a.Max.Y && overlapX {
				return true
			}
		case sideWest:
			if b.Max.X == a.Min.X && overlapY {
				return true
			}
		case sideEast:
			if b.Min.X == a.Max.X && overlapY {
				return true
			}
		}
	}
	return false
}

// interior returns the ground area of rect i: inset by one on open sides,
// flush on shared sides
func (r *Room) interior(i int) geometry.Rect {
	a := r.Rects[i]
	in := a
	if !r.shared(i, sideWest) {
		in.Min.X++
	}
	if !r.shared(i, sideNorth) {
		in.Min.Y++
	}
	if !r.shared(i, sideEast) {
		in.Max.X--
	}
	if !r.shared(i, sideSouth) {
		in.Max.Y--
	}
	return in
}

// computeConnectors rebuilds the connector list from the rects. Each open
// side yields the wall segment alongside the interior. Order follows the
// rects, then north, east, south, west; duplicates are dropped.
func (r *Room) computeConnectors() {
	r.Connectors = r.Connectors[:0]
	seen := make(map[geometry.Edge]bool)
	for i, rect := range r.Rects {
		in := r.interior(i)
		if in.Max.X <= in.Min.X || in.Max.Y <= in.Min.Y {
			continue
		}
		for s, normal := range geometry.Cardinals {
			if r.shared(i, s) {
				continue
			}
			var edge geometry.Edge
			switch s {
			case sideNorth:
				edge = geometry.NewEdge(geometry.C(in.Min.X, rect.Min.Y), geometry.C(in.Max.X-1, rect.Min.Y))
			case sideSouth:
				edge = geometry.NewEdge(geometry.C(in.Min.X, rect.Max.Y-1), geometry.C(in.Max.X-1, rect.Max.Y-1))
			case sideWest:
				edge = geometry.NewEdge(geometry.C(rect.Min.X, in.Min.Y), geometry.C(rect.Min.X, in.Max.Y-1))
			case sideEast:
				edge = geometry.NewEdge(geometry.C(rect.Max.X-1, in.Min.Y), geometry.C(rect.Max.X-1, in.Max.Y-1))
			}
			if seen[edge] {
				continue
			}
			seen[edge] = true
			r.Connectors = append(r.Connectors, &RoomConnector{Edge: edge, Normal: normal, Room: r})
		}
	}
}

// Interior returns every ground position of the room in rect order
func (r *Room) Interior() []geometry.Coord {
	var out []geometry.Coord
	seen := make(map[geometry.Coord]bool)
	for i := range r.Rects {
		for _, p := range geometry.Points(r.interior(i)) {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	return out
}

// Contains reports whether pos is part of the room's ground
func (r *Room) Contains(pos geometry.Coord) bool {
	for i := range r.Rects {
		if geometry.Contains(r.interior(i), pos) {
			return true
		}
	}
	return false
}

// Draw declares the room's ground tiles and fires the drawn handlers.
// Only the first call has any effect.
func (r *Room) Draw(ctx *FloorGenerationContext, palette Palette) error {
	if r.drawn {
		return nil
	}
	r.drawn = true
	for _, p := range r.Interior() {
		if err := ctx.SetTile(palette.groundDef(p)); err != nil {
			return err
		}
	}
	for _, h := range r.handlers {
		if err := h(ctx, r); err != nil {
			return err
		}
	}
	return nil
}
