// Package pathfind implements the pathfinder family sharing
// costmodel's edge-cost function: BFS, Dijkstra, A*, Theta*, and Lazy
// Theta*. Every algorithm takes a context, the grid and start/end cell
// coordinates and returns a Path or an error; BFS takes no sampler,
// Dijkstra takes logCellM directly, and the informed variants take
// Options. All share the same Unseen/Open/Closed per-cell state machine
// (spec §4.6).
package pathfind

import (
	"context"
	"math"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pcerr"
)

// Path is an ordered sequence of row-major cell indices.
type Path []int

// Options configures the informed pathfinders (A*, Theta*, Lazy
// Theta*). BFS and Dijkstra do not take Options.
type Options struct {
	Heuristic costmodel.HeuristicKind
	LogCellM  float32
}

const (
	stateUnseen uint8 = iota
	stateOpen
	stateClosed
)

// searchState is the shared O(W*H) score/parent/state storage used by
// every algorithm in this package, matching spec §5's memory model.
type searchState struct {
	g      *grid.Grid
	gScore []float32
	parent []int32
	state  []uint8
}

func newSearchState(g *grid.Grid) *searchState {
	n := g.Width() * g.Height()
	s := &searchState{
		g:      g,
		gScore: make([]float32, n),
		parent: make([]int32, n),
		state:  make([]uint8, n),
	}
	for i := range s.gScore {
		s.gScore[i] = float32(math.Inf(1))
		s.parent[i] = -1
	}
	return s
}

func (s *searchState) reconstruct(goalIdx int) Path {
	var rev Path
	cur := goalIdx
	for cur != -1 {
		rev = append(rev, cur)
		cur = int(s.parent[cur])
	}
	path := make(Path, len(rev))
	for i, v := range rev {
		path[len(rev)-1-i] = v
	}
	return path
}

// checkEndpoints validates start/end per spec §4.6: identical points
// return [start] immediately; out-of-bounds or impassable endpoints
// are rejected with InvalidWaypoint before any search begins.
func checkEndpoints(g *grid.Grid, sx, sy, ex, ey int) (Path, bool, error) {
	if !g.InBounds(sx, sy) {
		return nil, true, pcerr.NewInvalidWaypoint(0)
	}
	if !g.InBounds(ex, ey) {
		return nil, true, pcerr.NewInvalidWaypoint(1)
	}
	if g.At(sx, sy).IsImpassable() {
		return nil, true, pcerr.NewInvalidWaypoint(0)
	}
	if g.At(ex, ey).IsImpassable() {
		return nil, true, pcerr.NewInvalidWaypoint(1)
	}
	if sx == ex && sy == ey {
		return Path{g.Idx(sx, sy)}, true, nil
	}
	return nil, false, nil
}

func checkCancelled(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return pcerr.NewCancelled()
	default:
		return nil
	}
}
