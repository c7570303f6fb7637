package geometry

import (
	"math"

	"codeberg.org/anaseto/gruid"
)

// Coord is an integer grid position, size or offset
type Coord = gruid.Point

// Rect is a half-open rectangle: Min is inclusive, Max is exclusive
type Rect = gruid.Range

// C is shorthand for building a Coord
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// NewRect returns the rectangle spanning [x0,x1) × [y0,y1)
func NewRect(x0, y0, x1, y1 int) Rect {
	return gruid.NewRange(x0, y0, x1, y1)
}

// Cardinal directions in the order north, east, south, west
var Cardinals = [4]Coord{{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0}}

// Sign returns -1, 0 or 1 according to the sign of v
func Sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

// Abs returns the absolute value of v
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Clamp limits a vector to unit components, e.g. (5,-3) becomes (1,-1)
func Clamp(v Coord) Coord {
	return Coord{X: Sign(v.X), Y: Sign(v.Y)}
}

// Rotate90 rotates a vector a quarter turn
func Rotate90(v Coord) Coord {
	return Coord{X: -v.Y, Y: v.X}
}

// DistanceSquared returns the squared Euclidean distance between two points
func DistanceSquared(a, b Coord) int {
	d := a.Sub(b)
	return d.X*d.X + d.Y*d.Y
}

// Angle returns the direction of v in degrees, normalised to 0, 90, 180 or 270.
// Screen coordinates are used, so (0,1) points south at 90 degrees.
func Angle(v Coord) int {
	deg := math.Atan2(float64(v.Y), float64(v.X)) * 180 / math.Pi
	a := int(math.Round(deg/90)) * 90
	if a < 0 {
		a += 360
	}
	return a % 360
}

// Inset shrinks a rectangle by n tiles on every side. The result is empty
// when the rectangle is too small.
func Inset(r Rect, n int) Rect {
	out := Rect{Min: Coord{X: r.Min.X + n, Y: r.Min.Y + n}, Max: Coord{X: r.Max.X - n, Y: r.Max.Y - n}}
	if out.Max.X < out.Min.X {
		out.Max.X = out.Min.X
	}
	if out.Max.Y < out.Min.Y {
		out.Max.Y = out.Min.Y
	}
	return out
}

// Contains reports whether p lies inside r
func Contains(r Rect, p Coord) bool {
	return p.X >= r.Min.X && p.Y >= r.Min.Y && p.X < r.Max.X && p.Y < r.Max.Y
}

// Points returns every point of r in row-major order
func Points(r Rect) []Coord {
	size := r.Size()
	if size.X <= 0 || size.Y <= 0 {
		return nil
	}
	pts := make([]Coord, 0, size.X*size.Y)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			pts = append(pts, Coord{X: x, Y: y})
		}
	}
	return pts
}

// Segment returns the axis-aligned run of points from a to b, both inclusive.
// When a and b differ on both axes the run moves along X first.
func Segment(a, b Coord) []Coord {
	pts := []Coord{a}
	cur := a
	for cur.X != b.X {
		cur.X += Sign(b.X - cur.X)
		pts = append(pts, cur)
	}
	for cur.Y != b.Y {
		cur.Y += Sign(b.Y - cur.Y)
		pts = append(pts, cur)
	}
	return pts
}

// Bresenham returns the points of the straight line from a to b
func Bresenham(a, b Coord) []Coord {
	var points []Coord

	dx := Abs(b.X - a.X)
	dy := -Abs(b.Y - a.Y)
	sx := Sign(b.X - a.X)
	sy := Sign(b.Y - a.Y)
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	err := dx + dy

	x, y := a.X, a.Y
	for {
		points = append(points, Coord{X: x, Y: y})
		if x == b.X && y == b.Y {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
	return points
}
