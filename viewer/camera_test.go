package viewer

import (
	"testing"

	"ebiten-floors/geometry"
)

func TestCameraCenterOn(t *testing.T) {
	mapSize := geometry.C(40, 30)
	tests := []struct {
		name   string
		target geometry.Coord
		wantX  int
		wantY  int
	}{
		{"middle", geometry.C(20, 15), 15, 11},
		{"top left corner", geometry.C(1, 1), 0, 0},
		{"bottom right corner", geometry.C(39, 29), 30, 22},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCamera(10, 8)
			c.CenterOn(tt.target, mapSize)
			if c.X != tt.wantX || c.Y != tt.wantY {
				t.Errorf("camera at %d,%d, want %d,%d", c.X, c.Y, tt.wantX, tt.wantY)
			}
			if !c.IsVisible(tt.target) {
				t.Error("target not visible")
			}
		})
	}
}

func TestCameraSmallMapStaysAtOrigin(t *testing.T) {
	c := NewCamera(20, 20)
	c.CenterOn(geometry.C(8, 8), geometry.C(10, 10))
	if c.X != 0 || c.Y != 0 {
		t.Errorf("camera at %d,%d", c.X, c.Y)
	}
}

func TestCameraMoveAndConvert(t *testing.T) {
	c := NewCamera(10, 8)
	mapSize := geometry.C(40, 30)

	c.Move(5, 3, mapSize)
	if c.X != 5 || c.Y != 3 {
		t.Fatalf("camera at %d,%d", c.X, c.Y)
	}
	c.Move(100, -100, mapSize)
	if c.X != 30 || c.Y != 0 {
		t.Fatalf("camera at %d,%d after clamping", c.X, c.Y)
	}

	world := geometry.C(33, 4)
	screen := c.WorldToScreen(world)
	if screen != geometry.C(3, 4) {
		t.Errorf("WorldToScreen = %v", screen)
	}
	if back := c.ScreenToWorld(screen); back != world {
		t.Errorf("ScreenToWorld = %v", back)
	}
	if c.IsVisible(geometry.C(29, 4)) || c.IsVisible(geometry.C(33, 8)) {
		t.Error("positions outside the viewport reported visible")
	}
}
