package generation

import (
	"math/rand"

	"go.uber.org/zap"

	"ebiten-floors/geometry"
	"ebiten-floors/logger"
)

// sectorGrid is the number of sub-cells along each side of a sector
const sectorGrid = 4

// RoomSector is one rectangular block of a floor, split into a 4x4 grid of
// sub-cells. Some sub-cells are occupied and grouped into rooms, which are
// chained together by corridors.
type RoomSector struct {
	Bounds    geometry.Rect
	Occupied  [sectorGrid][sectorGrid]bool // indexed [y][x]
	Accepted  []int                        // sub-cell indices in acceptance order
	Rooms     []*Room
	Corridors []*Corridor
}

// cellCoord maps a sub-cell index to its grid position
func cellCoord(index int) geometry.Coord {
	return geometry.C(index%sectorGrid, index/sectorGrid)
}

// CreateRoomSector picks 3 to 5 sub-cells of bounds, none diagonally next
// to another, groups cardinal neighbors into rooms and links consecutive
// rooms with corridors
func CreateRoomSector(rng *rand.Rand, bounds geometry.Rect, factory RoomFactory) *RoomSector {
	s := &RoomSector{Bounds: bounds}
	target := 3 + rng.Intn(3)

	for _, candidate := range rng.Perm(sectorGrid * sectorGrid) {
		if len(s.Accepted) == target {
			break
		}
		if s.touchesDiagonally(candidate) {
			continue
		}
		s.Accepted = append(s.Accepted, candidate)
		c := cellCoord(candidate)
		s.Occupied[c.Y][c.X] = true
	}

	for _, group := range s.groups() {
		room := factory(rng)
		for _, idx := range group {
			room.AddRect(s.CellRect(idx))
		}
		s.Rooms = append(s.Rooms, room)
	}

	for i := 1; i < len(s.Rooms); i++ {
		corridor, ok := connectRooms(s.Rooms[i:i+1], s.Rooms[i-1:i])
		if !ok {
			logger.Warn("no parallel connectors between rooms, skipping corridor",
				logger.Pos("sector", bounds.Min), zap.Int("room", i))
			continue
		}
		s.Corridors = append(s.Corridors, corridor)
	}
	return s
}

// touchesDiagonally reports whether a candidate sits diagonally next to an accepted sub-cell
func (s *RoomSector) touchesDiagonally(candidate int) bool {
	c := cellCoord(candidate)
	for _, idx := range s.Accepted {
		if geometry.DistanceSquared(c, cellCoord(idx)) == 2 {
			return true
		}
	}
	return false
}

// groups splits the accepted sub-cells into cardinally connected components,
// ordered by their smallest index
func (s *RoomSector) groups() [][]int {
	var out [][]int
	var visited [sectorGrid * sectorGrid]bool
	for idx := 0; idx < sectorGrid*sectorGrid; idx++ {
		c := cellCoord(idx)
		if !s.Occupied[c.Y][c.X] || visited[idx] {
			continue
		}
		var group []int
		stack := []int{idx}
		visited[idx] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			group = append(group, cur)
			cc := cellCoord(cur)
			for _, d := range geometry.Cardinals {
				n := cc.Add(d)
				if n.X < 0 || n.Y < 0 || n.X >= sectorGrid || n.Y >= sectorGrid {
					continue
				}
				ni := n.Y*sectorGrid + n.X
				if s.Occupied[n.Y][n.X] && !visited[ni] {
					visited[ni] = true
					stack = append(stack, ni)
				}
			}
		}
		out = append(out, group)
	}
	return out
}

// CellRect returns the rectangle of one sub-cell
func (s *RoomSector) CellRect(index int) geometry.Rect {
	c := cellCoord(index)
	size := s.Bounds.Size()
	origin := s.Bounds.Min
	return geometry.NewRect(
		origin.X+c.X*size.X/sectorGrid,
		origin.Y+c.Y*size.Y/sectorGrid,
		origin.X+(c.X+1)*size.X/sectorGrid,
		origin.Y+(c.Y+1)*size.Y/sectorGrid,
	)
}

// connectRooms picks a pair of parallel connectors between two groups of
// rooms and routes a corridor between them. Pairs with fewer connectors
// already anchoring a corridor win, then the closest midpoints. Ties keep
// the first pair found.
func connectRooms(from, to []*Room) (*Corridor, bool) {
	var bestA, bestB *RoomConnector
	bestUsed, bestDist := 0, 0
	for _, ra := range from {
		for _, ca := range ra.Connectors {
			for _, rb := range to {
				for _, cb := range rb.Connectors {
					if !ca.IsParallel(cb) {
						continue
					}
					used := usedCount(ca) + usedCount(cb)
					dist := geometry.DistanceSquared(ca.Midpoint(), cb.Midpoint())
					if bestA == nil || used < bestUsed || (used == bestUsed && dist < bestDist) {
						bestA, bestB, bestUsed, bestDist = ca, cb, used, dist
					}
				}
			}
		}
	}
	if bestA == nil {
		return nil, false
	}
	return NewCorridor(bestA, bestB), true
}

func usedCount(c *RoomConnector) int {
	if c.IsUsed {
		return 1
	}
	return 0
}

// ConnectSectors links every sector to one to three random cardinal
// neighbors, then adds links until all sectors with rooms are connected.
// grid is indexed [row][column]. Connectors used by these corridors are
// marked shared.
func ConnectSectors(rng *rand.Rand, grid [][]*RoomSector) []*Corridor {
	rows := len(grid)
	if rows == 0 {
		return nil
	}
	cols := len(grid[0])
	id := func(row, col int) int { return row*cols + col }

	parent := make([]int, rows*cols)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	linked := make(map[[2]int]bool)
	var corridors []*Corridor
	link := func(r1, c1, r2, c2 int) {
		a, b := id(r1, c1), id(r2, c2)
		key := [2]int{min(a, b), max(a, b)}
		if linked[key] {
			return
		}
		linked[key] = true
		corridor, ok := connectRooms(grid[r1][c1].Rooms, grid[r2][c2].Rooms)
		if !ok {
			logger.Warn("no parallel connectors between sectors, skipping corridor",
				logger.Pos("from", grid[r1][c1].Bounds.Min), logger.Pos("to", grid[r2][c2].Bounds.Min))
			return
		}
		corridor.Start.IsShared = true
		corridor.End.IsShared = true
		corridors = append(corridors, corridor)
		parent[find(a)] = find(b)
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			var neighbors []geometry.Coord
			for _, d := range geometry.Cardinals {
				nr, nc := r+d.Y, c+d.X
				if nr >= 0 && nc >= 0 && nr < rows && nc < cols {
					neighbors = append(neighbors, geometry.C(nc, nr))
				}
			}
			rng.Shuffle(len(neighbors), func(i, j int) { neighbors[i], neighbors[j] = neighbors[j], neighbors[i] })
			count := min(1+rng.Intn(3), len(neighbors))
			for _, n := range neighbors[:count] {
				link(r, c, n.Y, n.X)
			}
		}
	}

	// Random picks can leave islands; join them through any remaining neighbor pair
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c+1 < cols && find(id(r, c)) != find(id(r, c+1)) {
				delete(linked, [2]int{id(r, c), id(r, c+1)})
				link(r, c, r, c+1)
			}
			if r+1 < rows && find(id(r, c)) != find(id(r+1, c)) {
				delete(linked, [2]int{id(r, c), id(r+1, c)})
				link(r, c, r+1, c)
			}
		}
	}
	return corridors
}
