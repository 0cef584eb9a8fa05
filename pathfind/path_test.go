package pathfind

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terrapath/routecore/costmodel"
	"github.com/terrapath/routecore/elevation"
	"github.com/terrapath/routecore/grid"
	"github.com/terrapath/routecore/pcerr"
)

func flatSampler() *elevation.Sampler {
	return elevation.NewSampler(elevation.NewUniformField(100, 1.0), 0, 0, 1.0)
}

func TestStartEqualsEndReturnsSingleCell(t *testing.T) {
	g := grid.NewOpenGrid(5, 5)
	p, err := FindPathBFS(context.Background(), g, 2, 2, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, Path{g.Idx(2, 2)}, p)
}

func TestImpassableEndpointRejected(t *testing.T) {
	g := grid.NewOpenGrid(5, 5)
	g.SetForTest(4, 4, grid.Cell{Multiplier: grid.Impassable})
	_, err := FindPathBFS(context.Background(), g, 0, 0, 4, 4)
	var pcErr *pcerr.Error
	require.ErrorAs(t, err, &pcErr)
	assert.Equal(t, pcerr.InvalidWaypoint, pcErr.Kind)
	assert.Equal(t, 1, pcErr.Index)
}

func TestBFSDiagonalOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(10, 10)
	p, err := FindPathBFS(context.Background(), g, 0, 0, 9, 9)
	require.NoError(t, err)
	assert.Equal(t, 10, len(p))
}

func TestDijkstraFindsPathOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(20, 20)
	sampler := flatSampler()

	s := newSearchState(g)
	startIdx := g.Idx(0, 0)
	s.gScore[startIdx] = 0

	_, err := FindPathDijkstra(context.Background(), g, sampler, 0, 0, 19, 19, 1.0)
	require.NoError(t, err)
}

func TestDijkstraAndAStarAgreeOnCostOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(30, 30)
	sampler := flatSampler()

	dp, err := FindPathDijkstra(context.Background(), g, sampler, 0, 0, 29, 29, 1.0)
	require.NoError(t, err)

	ap, err := FindPathAStar(context.Background(), g, sampler, 0, 0, 29, 29, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	require.NoError(t, err)

	assert.InDelta(t, pathCost(g, sampler, dp, 1.0), pathCost(g, sampler, ap, 1.0), 1e-2)
}

func TestAStarDeterministic(t *testing.T) {
	g := grid.NewOpenGrid(15, 15)
	sampler := flatSampler()
	opts := Options{Heuristic: costmodel.Diagonal, LogCellM: 1.0}

	p1, err := FindPathAStar(context.Background(), g, sampler, 0, 0, 14, 10, opts)
	require.NoError(t, err)
	p2, err := FindPathAStar(context.Background(), g, sampler, 0, 0, 14, 10, opts)
	require.NoError(t, err)

	assert.Equal(t, p1, p2)
}

func TestThetaStarTwoEntryPathOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(50, 50)
	sampler := flatSampler()

	p, err := FindPathThetaStar(context.Background(), g, sampler, 0, 0, 49, 49, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 2, len(p))
}

func TestLazyThetaStarReachesGoalOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(50, 50)
	sampler := flatSampler()

	p, err := FindPathLazyThetaStar(context.Background(), g, sampler, 0, 0, 49, 49, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	require.NoError(t, err)
	require.True(t, len(p) >= 2)
	assert.Equal(t, g.Idx(0, 0), p[0])
	assert.Equal(t, g.Idx(49, 49), p[len(p)-1])
}

func TestLazyThetaStarPathCostMatchesDirectOptimumOnOpenGrid(t *testing.T) {
	g := grid.NewOpenGrid(50, 50)
	sampler := flatSampler()

	p, err := FindPathLazyThetaStar(context.Background(), g, sampler, 0, 0, 49, 49, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	require.NoError(t, err)

	direct := costmodel.LineOfSightCost(g, sampler, 0.5, 0.5, 49.5, 49.5, 1.0)
	assert.InDelta(t, float64(direct), float64(losPathCost(g, sampler, p, 1.0)), 1e-2)
}

func TestWallWithGapIsReachable(t *testing.T) {
	g := grid.NewOpenGrid(10, 10)
	for y := 0; y < 10; y++ {
		if y == 5 {
			continue
		}
		g.SetForTest(5, y, grid.Cell{Multiplier: grid.Impassable})
	}
	sampler := flatSampler()

	p, err := FindPathAStar(context.Background(), g, sampler, 0, 0, 9, 9, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	require.NoError(t, err)
	assert.NotEmpty(t, p)
}

func TestWallWithoutGapIsUnreachable(t *testing.T) {
	g := grid.NewOpenGrid(10, 10)
	for y := 0; y < 10; y++ {
		g.SetForTest(5, y, grid.Cell{Multiplier: grid.Impassable})
	}
	sampler := flatSampler()

	_, err := FindPathAStar(context.Background(), g, sampler, 0, 0, 9, 9, Options{Heuristic: costmodel.Euclidean, LogCellM: 1.0})
	var pcErr *pcerr.Error
	require.ErrorAs(t, err, &pcErr)
	assert.Equal(t, pcerr.SegmentUnreachable, pcErr.Kind)
}

func TestCancellationReturnsCancelledError(t *testing.T) {
	g := grid.NewOpenGrid(5, 5)
	sampler := flatSampler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FindPathDijkstra(ctx, g, sampler, 0, 0, 4, 4, 1.0)
	var pcErr *pcerr.Error
	require.ErrorAs(t, err, &pcErr)
	assert.Equal(t, pcerr.Cancelled, pcErr.Kind)
}

func pathCost(g *grid.Grid, sampler *elevation.Sampler, p Path, logCellM float32) float32 {
	var total float32
	for i := 1; i < len(p); i++ {
		ax, ay := g.Coords(p[i-1])
		bx, by := g.Coords(p[i])
		total += costmodel.EdgeCost(g, sampler, ax, ay, bx, by, logCellM)
	}
	return total
}

// losPathCost sums real segment costs between consecutive path points
// via LineOfSightCost rather than EdgeCost, since any-angle algorithms
// (Theta*, Lazy Theta*) can return path points that are not adjacent.
func losPathCost(g *grid.Grid, sampler *elevation.Sampler, p Path, logCellM float32) float32 {
	var total float32
	for i := 1; i < len(p); i++ {
		ax, ay := g.Coords(p[i-1])
		bx, by := g.Coords(p[i])
		total += costmodel.LineOfSightCost(g, sampler, float64(ax)+0.5, float64(ay)+0.5, float64(bx)+0.5, float64(by)+0.5, logCellM)
	}
	return total
}
