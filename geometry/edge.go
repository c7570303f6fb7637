package geometry

// Edge is an unordered pair of points. Use NewEdge so that two edges with
// the same end points compare equal regardless of argument order.
type Edge struct {
	A, B Coord
}

// NewEdge returns the normalised edge between a and b
func NewEdge(a, b Coord) Edge {
	if b.Y < a.Y || (b.Y == a.Y && b.X < a.X) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Midpoint returns the integer midpoint of the edge
func (e Edge) Midpoint() Coord {
	return Coord{X: (e.A.X + e.B.X) / 2, Y: (e.A.Y + e.B.Y) / 2}
}

// Direction returns the clamped unit vector from A to B
func (e Edge) Direction() Coord {
	return Clamp(e.B.Sub(e.A))
}

// Len returns the number of tiles the edge covers
func (e Edge) Len() int {
	d := e.B.Sub(e.A)
	return max(Abs(d.X), Abs(d.Y)) + 1
}

// IsHorizontal reports whether the edge runs along the X axis. Single tile
// edges are neither horizontal nor vertical.
func (e Edge) IsHorizontal() bool {
	return e.A.Y == e.B.Y && e.A.X != e.B.X
}

// IsVertical reports whether the edge runs along the Y axis
func (e Edge) IsVertical() bool {
	return e.A.X == e.B.X && e.A.Y != e.B.Y
}

// Points returns every tile covered by the edge
func (e Edge) Points() []Coord {
	return Segment(e.A, e.B)
}
