package dungeon

import (
	"image/color"
	"testing"

	"ebiten-floors/components"
	"ebiten-floors/geometry"
)

var testFloorID = components.FloorID{Branch: "main", Depth: 1}

func groundTile() *components.Tile {
	return components.NewTile("Ground", '.', color.RGBA{128, 128, 128, 255}, true, false)
}

func wallTile() *components.Tile {
	return components.NewTile("Wall", '#', color.RGBA{200, 200, 200, 255}, false, true)
}

func waterTile() *components.Tile {
	return components.NewTile("Water", '~', color.RGBA{0, 0, 255, 255}, false, false)
}

// floorFromRows builds a floor from ASCII rows: '.' ground, '#' wall, '~' water, '+' closed door on ground, ' ' no cell
func floorFromRows(t *testing.T, rows ...string) *Floor {
	t.Helper()
	f := NewFloor(testFloorID, geometry.C(len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, ch := range row {
			pos := geometry.C(x, y)
			var err error
			switch ch {
			case '.':
				err = f.SetTile(pos, groundTile())
			case '#':
				err = f.SetTile(pos, wallTile())
			case '~':
				err = f.SetTile(pos, waterTile())
			case '+':
				if err = f.SetTile(pos, groundTile()); err == nil {
					err = f.AddFeature(pos, closedDoor())
				}
			}
			if err != nil {
				t.Fatalf("building floor at %v: %v", pos, err)
			}
		}
	}
	return f
}

func closedDoor() *components.Feature {
	return &components.Feature{Name: "door", Kind: components.FeatureDoor, Glyph: '+', BlocksMovement: true, BlocksLight: true}
}

func newActor(name string, radius int) *components.Actor {
	return &components.Actor{Name: name, VisionRadius: radius}
}
