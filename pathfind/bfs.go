package pathfind

import (
	"container/heap"
	"context"

	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pcerr"
)

// neighbors8 lists the 8-connected offsets in a fixed, deterministic
// order so that equal-cost ties resolve the same way on every run.
var neighbors8 = [8][2]int{
	{1, 0}, {1, 1}, {0, 1}, {-1, 1},
	{-1, 0}, {-1, -1}, {0, -1}, {1, -1},
}

// FindPathBFS runs unweighted breadth-first search, treating every
// passable 8-connected step as cost 1 regardless of terrain or slope.
// It exists as a debug baseline per spec §4.6, not a production router.
func FindPathBFS(ctx context.Context, g *grid.Grid, sx, sy, ex, ey int) (Path, error) {
	if p, done, err := checkEndpoints(g, sx, sy, ex, ey); done {
		return p, err
	}

	s := newSearchState(g)
	startIdx := g.Idx(sx, sy)
	goalIdx := g.Idx(ex, ey)

	s.gScore[startIdx] = 0
	s.state[startIdx] = stateOpen

	pq := newPriorityQueue()
	heap.Push(pq, &pqItem{cellIdx: startIdx, f: 0, seq: 0})
	seq := 1

	for pq.Len() > 0 {
		if err := checkCancelled(ctx); err != nil {
			return nil, err
		}

		item := heap.Pop(pq).(*pqItem)
		cur := item.cellIdx
		if s.state[cur] == stateClosed {
			continue
		}
		s.state[cur] = stateClosed

		if cur == goalIdx {
			return s.reconstruct(goalIdx), nil
		}

		cx, cy := g.Coords(cur)
		for _, off := range neighbors8 {
			nx, ny := cx+off[0], cy+off[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			if g.At(nx, ny).IsImpassable() {
				continue
			}
			nIdx := g.Idx(nx, ny)
			if s.state[nIdx] == stateClosed {
				continue
			}
			tentative := s.gScore[cur] + 1
			if tentative < s.gScore[nIdx] {
				s.gScore[nIdx] = tentative
				s.parent[nIdx] = int32(cur)
				s.state[nIdx] = stateOpen
				heap.Push(pq, &pqItem{cellIdx: nIdx, f: tentative, seq: seq})
				seq++
			}
		}
	}

	return nil, pcerr.NewSegmentUnreachable(0, startIdx, goalIdx)
}
