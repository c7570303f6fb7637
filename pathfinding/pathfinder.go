// Package pathfinding implements an A* search over a fixed-size grid whose
// cells can be updated in place between searches.
package pathfinding

import (
	"container/heap"
	"math"

	"ebiten-floors/geometry"
)

// Walkable is implemented by grid payloads. The context lets callers with
// different movement rules share one search space.
type Walkable[C any] interface {
	IsWalkable(ctx C) bool
}

// PathNode is a snapshot of one cell of the search space
type PathNode[T any] struct {
	Pos     geometry.Coord
	Payload T
	Present bool
	G, H, F float64
}

// nodeState holds the scores of the last search that touched the node.
// The stamp fields tell whether the node was opened or closed during the
// current search, so nothing has to be cleared between searches.
type nodeState struct {
	g, h, f     float64
	parent      int
	heapIndex   int
	openStamp   uint32
	closedStamp uint32
}

// Pathfinder owns the search space for one grid. It is not safe for
// concurrent use: searches reuse internal arrays.
type Pathfinder[T Walkable[C], C any] struct {
	width, height int
	payloads      []T
	present       []bool
	nodes         []nodeState
	open          openSet
	stamp         uint32
}

var neighborOffsets = [8]geometry.Coord{
	{X: 0, Y: -1}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: -1, Y: 0},
	{X: 1, Y: -1}, {X: 1, Y: 1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

// NewPathfinder creates an empty search space of the given size. Every cell
// starts without payload and is treated as blocked until Update is called.
func NewPathfinder[T Walkable[C], C any](width, height int) *Pathfinder[T, C] {
	n := width * height
	pf := &Pathfinder[T, C]{
		width:    width,
		height:   height,
		payloads: make([]T, n),
		present:  make([]bool, n),
		nodes:    make([]nodeState, n),
	}
	pf.open.nodes = pf.nodes
	return pf
}

// Size returns the grid dimensions. They never change after construction.
func (pf *Pathfinder[T, C]) Size() geometry.Coord {
	return geometry.Coord{X: pf.width, Y: pf.height}
}

// InBounds reports whether pos lies on the grid
func (pf *Pathfinder[T, C]) InBounds(pos geometry.Coord) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < pf.width && pos.Y < pf.height
}

// Index returns the arena index of pos, or -1 when out of bounds
func (pf *Pathfinder[T, C]) Index(pos geometry.Coord) int {
	if !pf.InBounds(pos) {
		return -1
	}
	return pos.Y*pf.width + pos.X
}

// Pos returns the position of an arena index
func (pf *Pathfinder[T, C]) Pos(index int) geometry.Coord {
	return geometry.Coord{X: index % pf.width, Y: index / pf.width}
}

// Update replaces the payload at pos in O(1). Scores from the last search
// are kept, so repeated updates with the same payload change nothing.
// It returns false when pos is out of bounds.
func (pf *Pathfinder[T, C]) Update(pos geometry.Coord, payload T) bool {
	idx := pf.Index(pos)
	if idx < 0 {
		return false
	}
	pf.payloads[idx] = payload
	pf.present[idx] = true
	return true
}

// Clear removes the payload at pos; the cell becomes impassable
func (pf *Pathfinder[T, C]) Clear(pos geometry.Coord) {
	idx := pf.Index(pos)
	if idx < 0 {
		return
	}
	var zero T
	pf.payloads[idx] = zero
	pf.present[idx] = false
}

// Payload returns the current payload at an arena index. Use it to refresh
// data held by an old PathStep after the cell has been updated.
func (pf *Pathfinder[T, C]) Payload(index int) (T, bool) {
	if index < 0 || index >= len(pf.payloads) {
		var zero T
		return zero, false
	}
	return pf.payloads[index], pf.present[index]
}

// Node returns a snapshot of the cell at pos
func (pf *Pathfinder[T, C]) Node(pos geometry.Coord) (PathNode[T], bool) {
	idx := pf.Index(pos)
	if idx < 0 {
		return PathNode[T]{}, false
	}
	st := pf.nodes[idx]
	return PathNode[T]{
		Pos:     pos,
		Payload: pf.payloads[idx],
		Present: pf.present[idx],
		G:       st.g,
		H:       st.h,
		F:       st.f,
	}, true
}

// Populated returns the number of cells holding a payload
func (pf *Pathfinder[T, C]) Populated() int {
	n := 0
	for _, ok := range pf.present {
		if ok {
			n++
		}
	}
	return n
}

// Search finds the cheapest 8-directional route from start to end for the
// given context. Diagonal steps cost √2 and cardinal steps cost 1. The
// returned path includes both ends. It returns nil when end cannot be
// reached or either point is off the grid.
func (pf *Pathfinder[T, C]) Search(start, end geometry.Coord, ctx C) *Path {
	startIdx, endIdx := pf.Index(start), pf.Index(end)
	if startIdx < 0 || endIdx < 0 {
		return nil
	}
	if startIdx == endIdx {
		path := &Path{}
		path.PushFront(start, startIdx)
		return path
	}

	pf.nextStamp()
	pf.open.items = pf.open.items[:0]

	st := &pf.nodes[startIdx]
	st.g = 0
	st.h = heuristic(start, end)
	st.f = st.h
	st.parent = -1
	st.openStamp = pf.stamp
	heap.Push(&pf.open, startIdx)

	for pf.open.Len() > 0 {
		current := heap.Pop(&pf.open).(int)
		if current == endIdx {
			return pf.reconstruct(current)
		}
		cur := &pf.nodes[current]
		cur.closedStamp = pf.stamp
		curPos := pf.Pos(current)

		for _, off := range neighborOffsets {
			npos := curPos.Add(off)
			nidx := pf.Index(npos)
			if nidx < 0 || !pf.present[nidx] {
				continue
			}
			n := &pf.nodes[nidx]
			if n.closedStamp == pf.stamp {
				continue
			}
			if !pf.payloads[nidx].IsWalkable(ctx) {
				continue
			}

			cost := 1.0
			if off.X != 0 && off.Y != 0 {
				cost = math.Sqrt2
			}
			tentative := cur.g + cost

			if n.openStamp != pf.stamp {
				n.g = tentative
				n.h = heuristic(npos, end)
				n.f = n.g + n.h
				n.parent = current
				n.openStamp = pf.stamp
				heap.Push(&pf.open, nidx)
			} else if tentative < n.g {
				n.g = tentative
				n.f = n.g + n.h
				n.parent = current
				heap.Fix(&pf.open, n.heapIndex)
			}
		}
	}

	// No path found
	return nil
}

// nextStamp starts a new search generation, wiping stale stamps on overflow
func (pf *Pathfinder[T, C]) nextStamp() {
	pf.stamp++
	if pf.stamp == 0 {
		for i := range pf.nodes {
			pf.nodes[i].openStamp = 0
			pf.nodes[i].closedStamp = 0
		}
		pf.stamp = 1
	}
}

// reconstruct follows parent links from the goal back to the start
func (pf *Pathfinder[T, C]) reconstruct(goal int) *Path {
	path := &Path{}
	for idx := goal; idx >= 0; idx = pf.nodes[idx].parent {
		path.PushFront(pf.Pos(idx), idx)
	}
	return path
}

// heuristic is the straight-line distance, which never overestimates on an 8-connected grid
func heuristic(a, b geometry.Coord) float64 {
	dx := float64(a.X - b.X)
	dy := float64(a.Y - b.Y)
	return math.Sqrt(dx*dx + dy*dy)
}
