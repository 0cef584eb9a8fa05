// Package route implements the Segment Orchestrator: it turns a list
// of waypoints into a single joined Path by invoking the selected
// pathfind algorithm on each consecutive pair, per spec §4.7.
package route

import (
	"context"
	"fmt"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pathfind"
	"github.com/terrapath/routecore/pcerr"
)

// Algorithm selects which pathfind.FindPath* variant the orchestrator
// dispatches to for every segment.
type Algorithm int

const (
	BFS Algorithm = iota
	Dijkstra
	AStar
	ThetaStar
	LazyThetaStar
)

func (a Algorithm) String() string {
	switch a {
	case BFS:
		return "BFS"
	case Dijkstra:
		return "Dijkstra"
	case AStar:
		return "AStar"
	case ThetaStar:
		return "ThetaStar"
	case LazyThetaStar:
		return "LazyThetaStar"
	default:
		return "Unknown"
	}
}

// Waypoint is a single grid cell expressed in (x,y) coordinates, as
// produced by an external extractor; the core never parses waypoints
// itself (spec §6).
type Waypoint struct {
	X, Y int
}

// Options configures a FindRoute call.
type Options struct {
	Algorithm Algorithm
	Heuristic costmodel.HeuristicKind
	LogCellM  float32
}

// Warning reports a non-fatal anomaly encountered while joining
// segments, mirroring spec §4.7's "append anyway and emit a warning"
// policy for mismatched segment endpoints.
type Warning struct {
	SegmentIndex int
	Message      string
}

// FindRoute runs the Segment Orchestrator over consecutive waypoint
// pairs, dispatching each pair to the algorithm named in opts, and
// concatenating the results with join-time deduplication. If any
// segment is unreachable, the whole call fails with SegmentUnreachable
// and no partial path is returned.
func FindRoute(ctx context.Context, g *grid.Grid, sampler *elevation.Sampler, waypoints []Waypoint, opts Options) (pathfind.Path, []Warning, error) {
	if len(waypoints) == 0 {
		return nil, nil, pcerr.NewInvalidWaypoint(0)
	}
	if len(waypoints) == 1 {
		w := waypoints[0]
		if !g.InBounds(w.X, w.Y) || g.At(w.X, w.Y).IsImpassable() {
			return nil, nil, pcerr.NewInvalidWaypoint(0)
		}
		return pathfind.Path{g.Idx(w.X, w.Y)}, nil, nil
	}

	var result pathfind.Path
	var warnings []Warning

	for i := 0; i < len(waypoints)-1; i++ {
		a := waypoints[i]
		b := waypoints[i+1]

		segment, err := findSegment(ctx, g, sampler, a, b, opts)
		if err != nil {
			if pcErr, ok := err.(*pcerr.Error); ok {
				switch pcErr.Kind {
				case pcerr.SegmentUnreachable:
					return nil, nil, pcerr.NewSegmentUnreachable(i, g.Idx(a.X, a.Y), g.Idx(b.X, b.Y))
				case pcerr.InvalidWaypoint:
					return nil, nil, pcerr.NewInvalidWaypoint(i + pcErr.Index)
				}
			}
			return nil, nil, err
		}

		if len(result) == 0 {
			result = append(result, segment...)
			continue
		}

		if segment[0] == result[len(result)-1] {
			result = append(result, segment[1:]...)
		} else {
			warnings = append(warnings, Warning{
				SegmentIndex: i,
				Message:      fmt.Sprintf("segment %d start %d does not match running result end %d", i, segment[0], result[len(result)-1]),
			})
			result = append(result, segment...)
		}
	}

	return result, warnings, nil
}

func findSegment(ctx context.Context, g *grid.Grid, sampler *elevation.Sampler, a, b Waypoint, opts Options) (pathfind.Path, error) {
	switch opts.Algorithm {
	case BFS:
		return pathfind.FindPathBFS(ctx, g, a.X, a.Y, b.X, b.Y)
	case Dijkstra:
		return pathfind.FindPathDijkstra(ctx, g, sampler, a.X, a.Y, b.X, b.Y, opts.LogCellM)
	case ThetaStar:
		return pathfind.FindPathThetaStar(ctx, g, sampler, a.X, a.Y, b.X, b.Y, pathfind.Options{Heuristic: opts.Heuristic, LogCellM: opts.LogCellM})
	case LazyThetaStar:
		return pathfind.FindPathLazyThetaStar(ctx, g, sampler, a.X, a.Y, b.X, b.Y, pathfind.Options{Heuristic: opts.Heuristic, LogCellM: opts.LogCellM})
	default:
		return pathfind.FindPathAStar(ctx, g, sampler, a.X, a.Y, b.X, b.Y, pathfind.Options{Heuristic: opts.Heuristic, LogCellM: opts.LogCellM})
	}
}
