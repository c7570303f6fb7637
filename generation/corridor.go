package generation

import (
	"ebiten-floors/geometry"
)

// Corridor is a fixed path between two room connectors. The path starts on
// Start's midpoint and ends on End's midpoint; consecutive points are one
// orthogonal step apart.
type Corridor struct {
	Start     *RoomConnector
	End       *RoomConnector
	Points    []geometry.Coord
	Thickness int
}

// wideConnector is the connector length from which corridors get two tiles wide
const wideConnector = 6

// NewCorridor routes a corridor between two connectors and marks both used
func NewCorridor(start, end *RoomConnector) *Corridor {
	c := &Corridor{
		Start:     start,
		End:       end,
		Points:    route(start, end),
		Thickness: 1,
	}
	if min(start.Len(), end.Len()) >= wideConnector {
		c.Thickness = 2
	}
	start.IsUsed = true
	end.IsUsed = true
	return c
}

// route builds the corridor polyline. Each end leaves its wall with a stub
// along its normal. Stubs that cross meet at their intersection. Parallel
// stubs run to a shared turning column (or row) and are joined by one
// straight segment.
func route(a, b *RoomConnector) []geometry.Coord {
	ma, mb := a.Midpoint(), b.Midpoint()
	sa, sb := ma.Add(a.Normal), mb.Add(b.Normal)

	var ea, eb geometry.Coord
	if corner, ok := geometry.LineAlong(sa, a.Normal).Intersect(geometry.LineAlong(sb, b.Normal)); ok {
		ea, eb = corner, corner
	} else {
		turn := turningPoint(sa, sb, a.Normal, b.Normal)
		ea = stubEnd(sa, a.Normal, turn)
		eb = stubEnd(sb, b.Normal, turn)
	}

	pts := []geometry.Coord{ma}
	pts = appendRun(pts, geometry.Segment(sa, ea))
	pts = appendRun(pts, geometry.Segment(ea, eb))
	pts = appendRun(pts, geometry.Segment(eb, sb))
	pts = appendRun(pts, []geometry.Coord{mb})
	return pts
}

// turningPoint picks where parallel stubs turn. Stubs facing each other (or
// away) turn halfway; stubs facing the same way turn level with the one
// that reaches further out.
func turningPoint(sa, sb, na, nb geometry.Coord) geometry.Coord {
	if na != nb {
		return geometry.C((sa.X+sb.X)/2, (sa.Y+sb.Y)/2)
	}
	if dot(sb, na) > dot(sa, na) {
		return sb
	}
	return sa
}

// stubEnd extends a stub from s along its normal until it is level with turn
func stubEnd(s, normal, turn geometry.Coord) geometry.Coord {
	switch geometry.Angle(normal) {
	case 0, 180:
		return geometry.C(turn.X, s.Y)
	default:
		return geometry.C(s.X, turn.Y)
	}
}

// appendRun adds a run of points, skipping any that repeat the last point
func appendRun(pts, run []geometry.Coord) []geometry.Coord {
	for _, p := range run {
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	return pts
}

func dot(a, b geometry.Coord) int {
	return a.X*b.X + a.Y*b.Y
}

// doorChance is the one-in-N chance of a door at each corridor end
const doorChance = 3

// Draw declares ground along the corridor and, with a one in three chance at
// each end, a door on the connector midpoint unless something is already
// declared there
func (c *Corridor) Draw(ctx *FloorGenerationContext, palette Palette) error {
	for _, p := range c.Points {
		for dy := 0; dy < c.Thickness; dy++ {
			for dx := 0; dx < c.Thickness; dx++ {
				q := p.Add(geometry.C(dx, dy))
				if !ctx.InBounds(q) {
					continue
				}
				if err := ctx.SetTile(palette.groundDef(q)); err != nil {
					return err
				}
			}
		}
	}

	for _, m := range []geometry.Coord{c.Start.Midpoint(), c.End.Midpoint()} {
		roll := ctx.Rng.Intn(doorChance)
		if roll != 0 || ctx.HasObjectAt(m) || palette.Door == nil {
			continue
		}
		if err := ctx.AddObject(ObjectDef{Pos: m, Name: "door", Build: palette.Door}); err != nil {
			return err
		}
	}
	return nil
}
