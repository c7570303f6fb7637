package pathfinding

import "ebiten-floors/geometry"

// PathStep is one position of a path. Index addresses the step's node in
// the pathfinder that produced it, so Payload(Index) always returns the
// current content even after the cell has been updated.
type PathStep struct {
	Pos   geometry.Coord
	Index int
	Prev  *PathStep
	Next  *PathStep
}

// Path is a doubly linked list of steps from start (Head) to end (Tail), both inclusive
type Path struct {
	Head   *PathStep
	Tail   *PathStep
	length int
}

// PushFront adds a step before the head
func (p *Path) PushFront(pos geometry.Coord, index int) *PathStep {
	step := &PathStep{Pos: pos, Index: index, Next: p.Head}
	if p.Head != nil {
		p.Head.Prev = step
	} else {
		p.Tail = step
	}
	p.Head = step
	p.length++
	return step
}

// PopFront removes and returns the head, or nil when the path is empty.
// Actors call this as they walk the path.
func (p *Path) PopFront() *PathStep {
	step := p.Head
	if step == nil {
		return nil
	}
	p.Head = step.Next
	if p.Head != nil {
		p.Head.Prev = nil
	} else {
		p.Tail = nil
	}
	step.Next = nil
	p.length--
	return step
}

// Len returns the number of steps
func (p *Path) Len() int {
	if p == nil {
		return 0
	}
	return p.length
}

// Positions returns the step positions from head to tail
func (p *Path) Positions() []geometry.Coord {
	if p == nil {
		return nil
	}
	out := make([]geometry.Coord, 0, p.length)
	for s := p.Head; s != nil; s = s.Next {
		out = append(out, s.Pos)
	}
	return out
}
