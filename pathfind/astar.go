package pathfind

import (
	"container/heap"
	"context"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pcerr"
)

// FindPathAStar runs A* over costmodel.EdgeCost with the heuristic
// selected by opts.Heuristic, grounded on the teacher's astar.go.
// Ties in f are broken toward the lower h, then toward insertion
// order, matching spec §4.6.
func FindPathAStar(ctx context.Context, g *grid.Grid, sampler *elevation.Sampler, sx, sy, ex, ey int, opts Options) (Path, error) {
	if p, done, err := checkEndpoints(g, sx, sy, ex, ey); done {
		return p, err
	}

	s := newSearchState(g)
	startIdx := g.Idx(sx, sy)
	goalIdx := g.Idx(ex, ey)

	s.gScore[startIdx] = 0
	s.state[startIdx] = stateOpen

	h0 := costmodel.Heuristic(opts.Heuristic, sx, sy, ex, ey, opts.LogCellM)
	pq := newPriorityQueue()
	heap.Push(pq, &pqItem{cellIdx: startIdx, f: h0, h: h0, seq: 0})
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
			nIdx := g.Idx(nx, ny)
			if s.state[nIdx] == stateClosed {
				continue
			}

			cost := costmodel.EdgeCost(g, sampler, cx, cy, nx, ny, opts.LogCellM)
			tentative := s.gScore[cur] + cost
			if tentative < s.gScore[nIdx] {
				s.gScore[nIdx] = tentative
				s.parent[nIdx] = int32(cur)
				s.state[nIdx] = stateOpen

				h := costmodel.Heuristic(opts.Heuristic, nx, ny, ex, ey, opts.LogCellM)
				heap.Push(pq, &pqItem{cellIdx: nIdx, f: tentative + h, h: h, seq: seq})
				seq++
			}
		}
	}

	return nil, pcerr.NewSegmentUnreachable(0, startIdx, goalIdx)
}
