package viewer

import "ebiten-floors/geometry"

// Camera is the window of map tiles currently on screen
type Camera struct {
	X, Y          int // Top-left world position
	Width, Height int // Viewport size in tiles
}

// NewCamera creates a camera with the given viewport size
func NewCamera(width, height int) *Camera {
	return &Camera{Width: width, Height: height}
}

// CenterOn puts target in the middle of the viewport, keeping the viewport
// inside a map of the given size. Maps smaller than the viewport stay at 0.
func (c *Camera) CenterOn(target, mapSize geometry.Coord) {
	c.X = clampView(target.X-c.Width/2, mapSize.X-c.Width)
	c.Y = clampView(target.Y-c.Height/2, mapSize.Y-c.Height)
}

// Move scrolls the camera by a delta, staying inside the map
func (c *Camera) Move(dx, dy int, mapSize geometry.Coord) {
	c.X = clampView(c.X+dx, mapSize.X-c.Width)
	c.Y = clampView(c.Y+dy, mapSize.Y-c.Height)
}

func clampView(v, limit int) int {
	if v > limit {
		v = limit
	}
	if v < 0 {
		v = 0
	}
	return v
}

// WorldToScreen converts a world position to viewport tile coordinates
func (c *Camera) WorldToScreen(p geometry.Coord) geometry.Coord {
	return geometry.Coord{X: p.X - c.X, Y: p.Y - c.Y}
}

// ScreenToWorld converts viewport tile coordinates to a world position
func (c *Camera) ScreenToWorld(p geometry.Coord) geometry.Coord {
	return geometry.Coord{X: p.X + c.X, Y: p.Y + c.Y}
}

// IsVisible reports whether a world position is inside the viewport
func (c *Camera) IsVisible(p geometry.Coord) bool {
	return p.X >= c.X && p.X < c.X+c.Width &&
		p.Y >= c.Y && p.Y < c.Y+c.Height
}
