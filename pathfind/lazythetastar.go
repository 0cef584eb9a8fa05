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

// FindPathLazyThetaStar runs a Lazy Theta* variant. Each neighbor
// update prices the link from the current cell's parent to the
// neighbor with costmodel.LineOfSightCost, which is +Inf when the
// segment crosses an impassable cell; in that case the neighbor is
// relaxed through the current cell with costmodel.EdgeCost instead.
// The line-of-sight check therefore runs at every neighbor update and
// is not deferred. When a vertex is popped for expansion, setVertex
// re-checks its parent link and, if it does not hold, re-parents the
// vertex to the best already-closed neighbor.
func FindPathLazyThetaStar(ctx context.Context, g *grid.Grid, sampler *elevation.Sampler, sx, sy, ex, ey int, opts Options) (Path, error) {
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

		setVertex(g, sampler, s, cur, opts.LogCellM)
		s.state[cur] = stateClosed

		if cur == goalIdx {
			return thetaReconstruct(s, goalIdx, startIdx), nil
		}

		cx, cy := g.Coords(cur)
		parentIdx := int(s.parent[cur])
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

			// Link from the current parent. Must use LineOfSightCost
			// rather than EdgeCost here: px,py and nx,ny are frequently
			// more than one cell apart after an earlier any-angle jump,
			// and EdgeCost's distance term only covers adjacent cells.
			// A blocked link falls back to the ordinary edge from cur.
			straight := costmodel.LineOfSightCost(g, sampler, float64(px)+0.5, float64(py)+0.5, float64(nx)+0.5, float64(ny)+0.5, opts.LogCellM)
			newParent := parentIdx
			tentative := s.gScore[parentIdx] + straight
			if math.IsInf(float64(straight), 1) {
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

// setVertex verifies the optimistic parent link assigned to cur and,
// if the straight segment to it is actually blocked or was never a
// true line of sight, repairs cur by re-parenting to whichever already
// closed neighbor yields the lowest true g-score.
func setVertex(g *grid.Grid, sampler *elevation.Sampler, s *searchState, cur int, logCellM float32) {
	parentIdx := int(s.parent[cur])
	if parentIdx == cur {
		return
	}
	cx, cy := g.Coords(cur)
	px, py := g.Coords(parentIdx)

	losCost := costmodel.LineOfSightCost(g, sampler, float64(px)+0.5, float64(py)+0.5, float64(cx)+0.5, float64(cy)+0.5, logCellM)
	trueCost := s.gScore[parentIdx] + losCost
	if losCost >= 0 && trueCost <= s.gScore[cur]+costmodel.Epsilon {
		s.gScore[cur] = trueCost
		return
	}

	bestParent := -1
	bestG := float32(1e30)
	for _, off := range neighbors8 {
		nx, ny := cx+off[0], cy+off[1]
		if !g.InBounds(nx, ny) {
			continue
		}
		nIdx := g.Idx(nx, ny)
		if s.state[nIdx] != stateClosed {
			continue
		}
		cost := costmodel.EdgeCost(g, sampler, nx, ny, cx, cy, logCellM)
		candidate := s.gScore[nIdx] + cost
		if candidate < bestG {
			bestG = candidate
			bestParent = nIdx
		}
	}
	if bestParent >= 0 {
		s.gScore[cur] = bestG
		s.parent[cur] = int32(bestParent)
	}
}
