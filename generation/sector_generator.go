package generation

import (
	"fmt"
	"math/rand"

	"go.uber.org/zap"

	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// RoomArchetype is a kind of room the sector generator can create. Decorate,
// when set, runs after the room is drawn.
type RoomArchetype struct {
	Name     string
	Weight   int
	Decorate DrawnHandler
}

// SectorGenerator lays out a floor as a grid of room sectors joined by corridors
type SectorGenerator struct {
	Columns    int
	Rows       int
	Margin     int // Solid border kept around the sector area
	Palette    Palette
	Archetypes []RoomArchetype
}

// NewSectorGenerator creates a generator with a columns×rows sector grid
func NewSectorGenerator(columns, rows int, palette Palette) *SectorGenerator {
	return &SectorGenerator{
		Columns: columns,
		Rows:    rows,
		Margin:  2,
		Palette: palette,
	}
}

// roomFactory returns a factory picking archetypes by weight
func (g *SectorGenerator) roomFactory() RoomFactory {
	total := 0
	for _, a := range g.Archetypes {
		total += max(a.Weight, 0)
	}
	return func(rng *rand.Rand) *Room {
		if total == 0 {
			return NewRoom("plain")
		}
		roll := rng.Intn(total)
		for _, a := range g.Archetypes {
			w := max(a.Weight, 0)
			if roll < w {
				room := NewRoom(a.Name)
				if a.Decorate != nil {
					room.OnDrawn(a.Decorate)
				}
				return room
			}
			roll -= w
		}
		return NewRoom("plain")
	}
}

// Generate fills the floor with wall, carves the sectors' rooms and
// corridors, adds a spawn point in the first room and hints stairs up into
// the first room and stairs down into the last
func (g *SectorGenerator) Generate(ctx *FloorGenerationContext) error {
	if g.Columns < 1 || g.Rows < 1 {
		return fmt.Errorf("sector grid %dx%d must be at least 1x1", g.Columns, g.Rows)
	}
	for _, p := range geometry.Points(ctx.Bounds()) {
		if err := ctx.SetTile(g.Palette.wallDef(p)); err != nil {
			return err
		}
	}

	area := geometry.Inset(ctx.Bounds(), g.Margin)
	size := area.Size()
	if size.X < g.Columns*sectorGrid*3 || size.Y < g.Rows*sectorGrid*3 {
		return fmt.Errorf("floor %s: %v is too small for %dx%d sectors", ctx.ID, ctx.Size, g.Columns, g.Rows)
	}

	factory := g.roomFactory()
	grid := make([][]*RoomSector, g.Rows)
	for r := range grid {
		grid[r] = make([]*RoomSector, g.Columns)
		for c := range grid[r] {
			bounds := geometry.NewRect(
				area.Min.X+c*size.X/g.Columns,
				area.Min.Y+r*size.Y/g.Rows,
				area.Min.X+(c+1)*size.X/g.Columns,
				area.Min.Y+(r+1)*size.Y/g.Rows,
			)
			sector := CreateRoomSector(ctx.Rng, bounds, factory)
			grid[r][c] = sector
			ctx.Rooms = append(ctx.Rooms, sector.Rooms...)
			ctx.Corridors = append(ctx.Corridors, sector.Corridors...)
		}
	}
	ctx.Corridors = append(ctx.Corridors, ConnectSectors(ctx.Rng, grid)...)

	for _, room := range ctx.Rooms {
		if err := room.Draw(ctx, g.Palette); err != nil {
			return err
		}
	}
	for _, corridor := range ctx.Corridors {
		if err := corridor.Draw(ctx, g.Palette); err != nil {
			return err
		}
	}

	if len(ctx.Rooms) == 0 {
		return nil
	}
	first, last := ctx.Rooms[0], ctx.Rooms[len(ctx.Rooms)-1]
	if pos, ok := middleSpot(ctx, first); ok {
		if err := ctx.AddSpawnPoint(pos); err != nil {
			return err
		}
	}
	for _, conn := range ctx.Connections() {
		room := last
		if conn.Other(ctx.ID).Depth < ctx.ID.Depth {
			room = first
		}
		if pos, ok := g.freeSpot(ctx, room); ok {
			if err := ctx.AddStairHint(pos, conn); err != nil {
				return err
			}
		}
	}

	logger.Debug("sectors generated",
		zap.Stringer("floor", ctx.ID),
		zap.Int("sectors", g.Columns*g.Rows),
		zap.Int("rooms", len(ctx.Rooms)),
		zap.Int("corridors", len(ctx.Corridors)))
	return nil
}

// middleSpot returns the free ground position closest to the middle of the
// room's interior list
func middleSpot(ctx *FloorGenerationContext, room *Room) (geometry.Coord, bool) {
	interior := room.Interior()
	for i := range interior {
		p := interior[(len(interior)/2+i)%len(interior)]
		if def, ok := ctx.TileAt(p); ok && def.Walkable && !ctx.HasObjectAt(p) {
			return p, true
		}
	}
	return geometry.Coord{}, false
}

// freeSpot picks a random ground position of the room with nothing declared on it
func (g *SectorGenerator) freeSpot(ctx *FloorGenerationContext, room *Room) (geometry.Coord, bool) {
	var free []geometry.Coord
	for _, p := range room.Interior() {
		def, ok := ctx.TileAt(p)
		if ok && def.Walkable && !ctx.HasObjectAt(p) {
			free = append(free, p)
		}
	}
	if len(free) == 0 {
		return geometry.Coord{}, false
	}
	return free[ctx.Rng.Intn(len(free))], true
}
