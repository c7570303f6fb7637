package pathfinding

// openSet is a binary heap of node indices ordered by F then H.
// It implements heap.Interface and keeps each node's heapIndex current.
type openSet struct {
	items []int
	nodes []nodeState
}

func (h *openSet) Len() int { return len(h.items) }

func (h *openSet) Less(i, j int) bool {
	a, b := &h.nodes[h.items[i]], &h.nodes[h.items[j]]
	if a.f == b.f {
		return a.h < b.h
	}
	return a.f < b.f
}

func (h *openSet) Swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.nodes[h.items[i]].heapIndex = i
	h.nodes[h.items[j]].heapIndex = j
}

func (h *openSet) Push(x any) {
	idx := x.(int)
	h.nodes[idx].heapIndex = len(h.items)
	h.items = append(h.items, idx)
}

func (h *openSet) Pop() any {
	old := h.items
	n := len(old)
	idx := old[n-1]
	h.items = old[:n-1]
	h.nodes[idx].heapIndex = -1 // for safety
	return idx
}
