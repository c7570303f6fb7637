package geometry

import "math"

// Line is an infinite line in implicit form A*x + B*y = C
type Line struct {
	A, B, C int
}

// LineThrough returns the line through two distinct points
func LineThrough(p, q Coord) Line {
	a := q.Y - p.Y
	b := p.X - q.X
	return Line{A: a, B: b, C: a*p.X + b*p.Y}
}

// LineAlong returns the line through p running in direction dir
func LineAlong(p, dir Coord) Line {
	return LineThrough(p, p.Add(dir))
}

// IsParallel reports whether the two lines never cross (or coincide)
func (l Line) IsParallel(o Line) bool {
	return l.A*o.B-o.A*l.B == 0
}

// IsPerpendicular reports whether the two lines cross at a right angle
func (l Line) IsPerpendicular(o Line) bool {
	return l.A*o.A+l.B*o.B == 0
}

// Contains reports whether p lies exactly on the line
func (l Line) Contains(p Coord) bool {
	return l.A*p.X+l.B*p.Y == l.C
}

// Intersect solves both line equations with Cramer's rule. The crossing
// point is rounded to the nearest Coord. It returns false for parallel lines.
func (l Line) Intersect(o Line) (Coord, bool) {
	det := l.A*o.B - o.A*l.B
	if det == 0 {
		return Coord{}, false
	}
	x := float64(l.C*o.B-l.B*o.C) / float64(det)
	y := float64(l.A*o.C-o.A*l.C) / float64(det)
	return Coord{X: int(math.Round(x)), Y: int(math.Round(y))}, true
}
