package pathfind

import "container/heap"

// pqItem is one entry in the priority queue: a cell index with its
// priority key(s). H and seq provide the tie-breaking rule from spec
// §4.6 ("prefer lower h at equal f; stable insertion order as
// secondary tie-break"). BFS uses only depth in f, leaving h at 0.
type pqItem struct {
	cellIdx int
	f       float32
	h       float32
	seq     int
	index   int // heap position, maintained by container/heap
}

// priorityQueue is a min-heap over f, tie-broken by h then insertion
// order, grounded on the teacher's astar.go PriorityQueue.
type priorityQueue []*pqItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].f != pq[j].f {
		return pq[i].f < pq[j].f
	}
	if pq[i].h != pq[j].h {
		return pq[i].h < pq[j].h
	}
	return pq[i].seq < pq[j].seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

// newPriorityQueue returns an initialized empty heap.
func newPriorityQueue() *priorityQueue {
	pq := &priorityQueue{}
	heap.Init(pq)
	return pq
}
