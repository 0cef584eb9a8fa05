package pathfind

import (
	"container/heap"
	"context"
	"math"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pcerr"
)

// FindPathThetaStar runs Theta*: at every relaxation it first tries to
// connect the neighbor directly to the current cell's parent via
// costmodel.LineOfSightCost, falling back to the ordinary A* edge when
// no line of sight exists. This is what lets it return paths with far
// fewer than one vertex per cell on open terrain (spec §4.6, §8).
func FindPathThetaStar(ctx context.Context, g *grid.Grid, sampler *elevation.Sampler, sx, sy, ex, ey int, opts Options) (Path, error) {
	if p, done, err := checkEndpoints(g, sx, sy, ex, ey); done {
		return p, err
	}

	s := newSearchState(g)
	startIdx := g.Idx(sx, sy)
	goalIdx := g.Idx(ex, ey)

	s.gScore[startIdx] = 0
	s.parent[startIdx] = int32(startIdx)
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
			return thetaReconstruct(s, goalIdx, startIdx), nil
		}

		cx, cy := g.Coords(cur)
		parentIdx := int(s.parent[cur])
		if parentIdx < 0 {
			parentIdx = cur
		}
		px, py := g.Coords(parentIdx)

		for _, off := range neighbors8 {
			nx, ny := cx+off[0], cy+off[1]
			if !g.InBounds(nx, ny) {
				continue
			}
			nIdx := g.Idx(nx, ny)
			if s.state[nIdx] == stateClosed {
				continue
			}

			losCost := costmodel.LineOfSightCost(g, sampler, float64(px)+0.5, float64(py)+0.5, float64(nx)+0.5, float64(ny)+0.5, opts.LogCellM)

			var newParent int
			var tentative float32
			if !math.IsInf(float64(losCost), 1) {
				newParent = parentIdx
				tentative = s.gScore[parentIdx] + losCost
			} else {
				newParent = cur
				tentative = s.gScore[cur] + costmodel.EdgeCost(g, sampler, cx, cy, nx, ny, opts.LogCellM)
			}

			if tentative < s.gScore[nIdx] {
				s.gScore[nIdx] = tentative
				s.parent[nIdx] = int32(newParent)
				s.state[nIdx] = stateOpen

				h := costmodel.Heuristic(opts.Heuristic, nx, ny, ex, ey, opts.LogCellM)
				heap.Push(pq, &pqItem{cellIdx: nIdx, f: tentative + h, h: h, seq: seq})
				seq++
			}
		}
	}

	return nil, pcerr.NewSegmentUnreachable(0, startIdx, goalIdx)
}

// thetaReconstruct walks parent pointers to the start, which Theta*
// sets to itself rather than -1, unlike the grid-walk algorithms.
func thetaReconstruct(s *searchState, goalIdx, startIdx int) Path {
	var rev Path
	cur := goalIdx
	for {
		rev = append(rev, cur)
		if cur == startIdx {
			break
		}
		cur = int(s.parent[cur])
	}
	path := make(Path, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}
